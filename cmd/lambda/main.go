package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/hvesanto/outbreak-inference/internal/app"
	"github.com/hvesanto/outbreak-inference/internal/app/cache"
	"github.com/hvesanto/outbreak-inference/internal/config"
	"github.com/hvesanto/outbreak-inference/internal/sim"
	"github.com/hvesanto/outbreak-inference/internal/transport/lambdatransport"
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
	h := lambdatransport.NewHandler(svc)

	lambda.Start(h.Handle)
}
