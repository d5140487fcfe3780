package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hvesanto/outbreak-inference/internal/config"
	"github.com/hvesanto/outbreak-inference/internal/report"
	"github.com/hvesanto/outbreak-inference/internal/sim"
	"github.com/hvesanto/outbreak-inference/internal/sim/tree"
	"github.com/hvesanto/outbreak-inference/internal/store/sqlite"
)

func main() {
	r0 := flag.Float64("r0", 1.7, "basic reproduction number to simulate")
	seed := flag.Uint64("seed", 0, "random seed (defaults to a fresh one)")
	paramsFile := flag.String("params", "", "YAML file overriding the default parameters")
	horizon := flag.Float64("horizon", 0, "model time horizon in days (0 keeps the configured value)")
	timestep := flag.Float64("timestep", 0, "simulation time step in days (0 keeps the configured value)")
	interval := flag.Float64("interval", 0, "counting interval in days (0 keeps the configured value)")
	maxInfected := flag.Int("max-infected", 0, "population cap that stops the run (0 keeps the configured value)")
	verbose := flag.Bool("verbose", false, "log per-interval progress")
	counters := flag.Bool("counters", false, "print the per-interval state counts")
	stats := flag.Bool("stats", true, "print the diagnostics table")
	plot := flag.String("plot", "", "write a PNG of the weekly reported curve to this path")
	statePlot := flag.String("state-plot", "", "write a PNG of the per-state curves to this path")
	treeOut := flag.String("tree", "", "write the infection tree as DOT to this path")
	archive := flag.String("archive", "", "append the run to this SQLite archive")
	flag.Parse()

	if *r0 <= 0 {
		fmt.Fprintln(os.Stderr, "r0 must be > 0")
		os.Exit(2)
	}

	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})
	if !seedSet {
		*seed = sim.RandomSeed()
		fmt.Printf("Using seed = %d\n", *seed)
	}

	params, err := config.LoadParams(*paramsFile)
	if err != nil {
		fatalf("load parameters: %v", err)
	}
	if *horizon > 0 {
		params.MaxTime = *horizon
	}
	if *timestep > 0 {
		params.TimeStep = *timestep
	}
	if *interval > 0 {
		params.OutputInterval = *interval
	}
	if *maxInfected > 0 {
		params.MaxInfected = *maxInfected
	}
	params, err = params.DeriveR0(*r0)
	if err == nil {
		err = params.Validate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	opts := []sim.Option{sim.WithSeed(*seed)}
	if *verbose {
		obs := sim.NewAsyncProgressObserver(sim.NewProgressLogger(log.Default()), 4096)
		defer obs.Close()
		opts = append(opts, sim.WithObserver(obs))
	}

	o, err := sim.Run(params, opts...)
	if err != nil {
		fatalf("run: %v", err)
	}

	fmt.Printf("Estimated R0: %g\n", o.EstimateR0())
	if o.Size() > 3 {
		for _, ind := range o.Individuals()[:3] {
			fmt.Println(ind)
		}
	}
	if *stats {
		fmt.Println(o.Stats())
	}
	fmt.Printf("- population: %d\n", o.Size())
	fmt.Printf("- stopped_at: %.1f (%s)\n", o.StoppedAt(), o.StopReason())

	if *counters {
		for week, row := range o.Counters() {
			fmt.Printf("week %3d: %v\n", week+1, row)
		}
	}

	if *plot != "" {
		writeChart(*plot, func(f *os.File) error {
			title := fmt.Sprintf("Weekly reported cases (R0=%g)", *r0)
			return report.WeeklyChart(f, o.WeeklyReported(), title)
		})
	}
	if *statePlot != "" {
		writeChart(*statePlot, func(f *os.File) error {
			title := fmt.Sprintf("Disease states over time (R0=%g)", *r0)
			return report.StateChart(f, o.Counters(), title)
		})
	}

	if *treeOut != "" {
		dot, err := tree.DOT(o)
		if err != nil {
			fatalf("render tree: %v", err)
		}
		if err := os.WriteFile(*treeOut, []byte(dot), 0o644); err != nil {
			fatalf("write tree: %v", err)
		}
		fmt.Printf("- tree: %s\n", *treeOut)
	}

	if *archive != "" {
		st, err := sqlite.Open(*archive)
		if err != nil {
			fatalf("open archive: %v", err)
		}
		defer st.Close()

		id, err := st.SaveRun(context.Background(), sqlite.RunRecord{
			Seed:       *seed,
			R0:         *r0,
			R0Hat:      o.EstimateR0(),
			Population: o.Size(),
			StopReason: o.StopReason().String(),
			Weekly:     o.WeeklyReported(),
		})
		if err != nil {
			fatalf("archive run: %v", err)
		}
		fmt.Printf("- archived: %s\n", id)
	}
}

func writeChart(path string, render func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		fatalf("create chart: %v", err)
	}
	if err := render(f); err != nil {
		f.Close()
		fatalf("render chart: %v", err)
	}
	if err := f.Close(); err != nil {
		fatalf("write chart: %v", err)
	}
	fmt.Printf("- chart: %s\n", path)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
