package main

import (
	"log"
	"net/http"

	"github.com/hvesanto/outbreak-inference/internal/app"
	"github.com/hvesanto/outbreak-inference/internal/app/cache"
	"github.com/hvesanto/outbreak-inference/internal/config"
	"github.com/hvesanto/outbreak-inference/internal/sim"
	"github.com/hvesanto/outbreak-inference/internal/transport/httptransport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	params, err := config.LoadParams(cfg.ParamsFile)
	if err != nil {
		log.Fatal(err)
	}

	observer := sim.NewAsyncProgressObserver(sim.NewProgressLogger(log.Default()), cfg.ObsBuffer)
	defer observer.Close()

	c := cache.NewInMemory[*app.RunSummary](cfg.CacheMaxItems)
	svc := app.NewService(params, app.RunnerFunc(sim.Run), c, observer)
	h := httptransport.NewHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("/simulate", h.Simulate)
	mux.HandleFunc("/batch", h.SimulateBatch)

	log.Printf("listening on %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, httptransport.WithRequestLog(log.Default(), mux)))
}
