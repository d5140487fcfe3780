// Package config reads process settings from the environment and model
// parameters from optional YAML files.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Runtime holds process-level settings shared by the server binaries.
type Runtime struct {
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	CacheMaxItems int    `env:"OUTBREAK_CACHE_MAX_ITEMS" envDefault:"1024"`
	ObsBuffer     int    `env:"OUTBREAK_OBS_BUFFER" envDefault:"4096"`
	ParamsFile    string `env:"OUTBREAK_PARAMS_FILE"`
}

// Load parses the environment, failing on malformed or out-of-range values
// rather than running with a surprise configuration.
func Load() (Runtime, error) {
	var rt Runtime
	if err := env.Parse(&rt); err != nil {
		return Runtime{}, fmt.Errorf("parse environment: %w", err)
	}

	checks := []struct {
		ok  bool
		msg string
	}{
		{rt.HTTPAddr != "", "HTTP_ADDR must not be empty"},
		{rt.CacheMaxItems >= 0, "OUTBREAK_CACHE_MAX_ITEMS must not be negative"},
		{rt.ObsBuffer >= 1, "OUTBREAK_OBS_BUFFER must be positive"},
	}
	for _, c := range checks {
		if !c.ok {
			return Runtime{}, fmt.Errorf("invalid configuration: %s", c.msg)
		}
	}
	return rt, nil
}
