package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hvesanto/outbreak-inference/internal/sim"
)

// LoadParams returns the model parameters: the defaults when path is empty,
// otherwise the defaults overlaid with the YAML file at path. Fields the
// file omits keep their default values.
func LoadParams(path string) (sim.Params, error) {
	p := sim.DefaultParams()
	if path == "" {
		return p, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return sim.Params{}, fmt.Errorf("read parameter file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return sim.Params{}, fmt.Errorf("parse parameter file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return sim.Params{}, fmt.Errorf("parameter file %s: %w", path, err)
	}
	return p, nil
}
