package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hvesanto/outbreak-inference/internal/abc"
	"github.com/hvesanto/outbreak-inference/internal/abc/accept"
	"github.com/hvesanto/outbreak-inference/internal/config"
	"github.com/hvesanto/outbreak-inference/internal/sim"
	"github.com/hvesanto/outbreak-inference/internal/store/sqlite"
)

func main() {
	trials := flag.Int("trials", 200, "number of candidate draws")
	seed := flag.Uint64("seed", 0, "random seed (defaults to a fresh one)")
	r0Min := flag.Float64("r0-min", 1.0, "lower bound of the uniform R0 prior")
	r0Max := flag.Float64("r0-max", 3.0, "upper bound of the uniform R0 prior")
	cond := flag.String("accept", "abs(r0_hat - 1.7) < 0.5 and not capped", "acceptance predicate over run summaries")
	paramsFile := flag.String("params", "", "YAML file overriding the default parameters")
	archive := flag.String("archive", "", "append the accepted runs to this SQLite archive")
	flag.Parse()

	if *trials <= 0 || *r0Min <= 0 || *r0Max < *r0Min {
		fmt.Fprintln(os.Stderr, "trials must be > 0 and 0 < r0-min <= r0-max")
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

	pred, err := accept.Compile(*cond, abc.VarNames())
	if err != nil {
		fmt.Fprintf(os.Stderr, "accept: %v\n", err)
		os.Exit(2)
	}

	params, err := config.LoadParams(*paramsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load parameters: %v\n", err)
		os.Exit(1)
	}

	res, err := abc.Run(context.Background(), abc.Config{
		Trials:    *trials,
		Seed:      *seed,
		R0Min:     *r0Min,
		R0Max:     *r0Max,
		Params:    params,
		Predicate: pred,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sample: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rejection sampling finished\n")
	fmt.Printf("- predicate: %s\n", pred)
	fmt.Printf("- trials: %d\n", len(res.Trials))
	fmt.Printf("- accepted: %d\n", len(res.Accepted))
	fmt.Printf("- rate: %.3f\n", res.Rate)

	if len(res.Accepted) == 0 {
		fmt.Println("no accepted samples; loosen the predicate or widen the prior")
		os.Exit(1)
	}

	fmt.Printf("- posterior_mean: %.4f\n", res.Mean())
	fmt.Printf("- p05: %.4f\n", res.Quantile(0.05))
	fmt.Printf("- p50: %.4f\n", res.Quantile(0.50))
	fmt.Printf("- p95: %.4f\n", res.Quantile(0.95))

	if *archive != "" {
		if err := archiveAccepted(*archive, *seed, res.Trials); err != nil {
			fmt.Fprintf(os.Stderr, "archive: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("- archived: %d runs to %s\n", len(res.Accepted), *archive)
	}
}

// archiveAccepted stores every accepted trial as a finished run. The session
// seed identifies the sampling stream the trials were drawn from.
func archiveAccepted(path string, seed uint64, trials []abc.Trial) error {
	st, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, trial := range trials {
		if !trial.Accepted {
			continue
		}
		_, err := st.SaveRun(context.Background(), sqlite.RunRecord{
			Seed:       seed,
			R0:         trial.R0,
			R0Hat:      trial.R0Hat,
			Population: trial.Population,
			StopReason: trial.StopReason.String(),
			Weekly:     trial.Weekly,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
