// Command padnet runs Monte-Carlo pad-allocation experiments.
//
// For each of the three standard scenarios (one active party, two active
// parties, all four active) it repeats independent executions against a
// fresh allocator, then prints the average and extreme wasted-pad counts
// together with the naive static quarter-split baseline of 3n/4 wasted.
//
// # Configuration
//
// Parameters default to n=1000, d=10, 100 executions, seed 42 and the
// dynamic-boundary policy. A YAML file can override them:
//
//	pad_count: 1000
//	gap: 10
//	executions: 100
//	seed: 42
//	policy: dynamic-boundary  # or fixed-zone
//
// Explicit flags take precedence over the file.
//
// # Usage
//
//	go run ./cmd/padnet
//	go run ./cmd/padnet -n 500 -d 5 -policy fixed-zone
//	go run ./cmd/padnet -config experiment.yaml -json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ruteri/go-padnet/padalloc"
	"github.com/ruteri/go-padnet/simulation"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		padCount   = flag.Int("n", 1000, "Pad sequence length")
		gap        = flag.Int("d", 10, "Safety gap between opposing frontiers")
		executions = flag.Int("runs", 100, "Executions per scenario")
		seed       = flag.Int64("seed", 42, "Base random seed")
		policy     = flag.String("policy", "", "Allocation policy: fixed-zone or dynamic-boundary")
		workers    = flag.Int("workers", 0, "Concurrent executions (0 = one per CPU)")
		asJSON     = flag.Bool("json", false, "Print the report as JSON")
	)
	flag.Parse()

	isFlagSet := func(name string) bool {
		found := false
		flag.Visit(func(f *flag.Flag) {
			if f.Name == name {
				found = true
			}
		})
		return found
	}

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		loaded, err := simulation.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if isFlagSet("n") {
		cfg.PadCount = *padCount
	}
	if isFlagSet("d") {
		cfg.Gap = *gap
	}
	if isFlagSet("runs") {
		cfg.Executions = *executions
	}
	if isFlagSet("seed") {
		cfg.Seed = *seed
	}
	if *policy != "" {
		cfg.Policy = padalloc.Policy(*policy)
	}
	if isFlagSet("workers") {
		cfg.Workers = *workers
	}

	runner, err := simulation.NewRunner(cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		cancel()
	}()

	report, err := runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Interrupted")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		err = report.WriteJSON(os.Stdout)
	} else {
		err = report.WriteText(os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
}
