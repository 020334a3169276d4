// Command flowplan plans one routing episode from a scenario file and prints
// the plan as YAML.
//
//	flowplan -scenario rooms.yaml [-config planner.yaml] [-v]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/chokeflow/planner"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "flowplan:", err)
		}
		os.Exit(2)
	}
}

// run parses args, plans the scenario and writes the report to stdout.
// Logs go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("flowplan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	scenarioPath := fs.String("scenario", "", "scenario YAML file (required)")
	configPath := fs.String("config", "", "planner config YAML file")
	verbose := fs.Bool("v", false, "log at debug level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *scenarioPath == "" {
		fs.Usage()
		return errors.New("missing -scenario")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := planner.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	sc, err := planner.LoadScenario(*scenarioPath)
	if err != nil {
		return err
	}
	var board planner.Board
	p, err := planner.New(cfg, planner.WithLogger(log), planner.WithBoard(&board))
	if err != nil {
		return err
	}

	if _, err = p.PlanScenario(ctx, sc); err != nil {
		return err
	}
	plan := board.Current()

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err = enc.Encode(plan.Report()); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}

	return enc.Close()
}
