package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/lexsim/internal/catalog"
	"github.com/roach88/lexsim/internal/checkpoint"
	"github.com/roach88/lexsim/internal/law"
	"github.com/roach88/lexsim/internal/population"
	"github.com/roach88/lexsim/internal/sim"
	"github.com/roach88/lexsim/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Population     string
	Database       string
	Workers        int
	BatchSize      int
	Repeat         int
	MaxCheckpoints int

	// TokenGenerator allows overriding the discretion context token
	// generator (for testing). If nil, defaults to UUIDv7Generator.
	TokenGenerator law.ContextTokenGenerator
}

// RunReport is the success payload of the run command.
type RunReport struct {
	RunID            string  `json:"run_id"`
	Statutes         int     `json:"statutes"`
	Agents           int     `json:"agents"`
	Total            int     `json:"total"`
	Deterministic    int     `json:"deterministic"`
	Discretionary    int     `json:"discretionary"`
	Void             int     `json:"void"`
	DiscretionAgents int     `json:"discretion_agents"`
	Repeats          int     `json:"repeats"`
	Checkpoints      int     `json:"checkpoints"`
	ElapsedSeconds   float64 `json:"elapsed_seconds"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <catalog-dir>",
		Short: "Run a simulation over a statute catalog and population",
		Long: `Run a full simulation: every statute in the catalog is applied to every
agent in the population, and the aggregate outcome report is printed.

A metrics checkpoint is retained per repeat (bounded FIFO history), and
results can optionally be archived to a SQLite database.

Example:
  lexsim run ./statutes --population ./population.yaml
  lexsim run ./statutes --population ./population.yaml --db ./runs.db --workers 8`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Population, "population", "", "path to YAML population file (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite archive database (optional)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 0, "entities per processing batch (0 = default)")
	cmd.Flags().IntVar(&opts.Repeat, "repeat", 1, "number of simulation repeats")
	cmd.Flags().IntVar(&opts.MaxCheckpoints, "max-checkpoints", 100, "metrics checkpoints retained across repeats")
	_ = cmd.MarkFlagRequired("population")

	return cmd
}

func runSimulation(opts *RunOptions, catalogDir string, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if !opts.Verbose {
		logLevel = slog.LevelWarn
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Compile catalog
	slog.Info("loading catalog", "dir", catalogDir)
	loadResult, loadErrors := catalog.LoadCatalog(catalogDir, catalog.LoadModeFailFast)
	if len(loadErrors) > 0 {
		return WrapExitError(ExitCommandError, "failed to load catalog", loadErrors[0])
	}
	slog.Info("catalog loaded", "statutes", len(loadResult.Statutes), "files", loadResult.FileCount)

	// Load population
	pop, err := catalog.LoadPopulation(opts.Population)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load population", err)
	}
	slog.Info("population loaded", "agents", len(pop), "path", opts.Population)

	// Assemble engine
	var engineOpts []sim.Option
	if opts.Workers > 0 {
		engineOpts = append(engineOpts, sim.WithWorkers(opts.Workers))
	}
	if opts.BatchSize > 0 {
		engineOpts = append(engineOpts, sim.WithBatchSize(opts.BatchSize))
	}
	if opts.TokenGenerator != nil {
		engineOpts = append(engineOpts, sim.WithTokenGenerator(opts.TokenGenerator))
	}

	buildEngine := func(pop []law.Entity) (*sim.Engine, error) {
		return sim.NewBuilder().
			WithStatutes(loadResult.Statutes).
			WithPopulation(pop).
			WithOptions(engineOpts...).
			Build()
	}
	eng, err := buildEngine(pop)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build simulation", err)
	}

	// Open archive database if requested
	var archive *store.Store
	if opts.Database != "" {
		slog.Info("opening archive database", "path", opts.Database)
		archive, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := archive.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, aborting run", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if opts.Repeat < 1 {
		opts.Repeat = 1
	}
	checkpoints := checkpoint.WithMaxCheckpoints(opts.MaxCheckpoints)
	runID := uuid.Must(uuid.NewV7()).String()
	started := time.Now()

	// Every repeat starts from the pristine on-disk population. Reloads
	// release the previous repeat's entities into a pool and recycle
	// them, so allocation stays bounded at one population regardless of
	// repeat count.
	entityPool := population.NewPool(len(pop))

	var results []law.Application
	for i := 0; i < opts.Repeat; i++ {
		if i > 0 {
			for _, ent := range pop {
				entityPool.Release(ent)
			}
			pop, err = catalog.LoadPopulationInto(opts.Population, entityPool)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to reload population", err)
			}
			eng, err = buildEngine(pop)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to build simulation", err)
			}
		}
		results, err = eng.RunSimulation(ctx)
		if err != nil {
			return WrapExitError(ExitFailure, "simulation aborted", err)
		}
		checkpoints.Save(checkpoint.New(fmt.Sprintf("%s/repeat-%d", runID, i), eng.Metrics()))
	}
	elapsed := time.Since(started)

	metrics := eng.Metrics()
	if archive != nil {
		run := store.NewRun(runID, started, len(loadResult.Statutes), len(pop), metrics)
		if err := archive.WriteRun(ctx, run); err != nil {
			return WrapExitError(ExitCommandError, "failed to archive run", err)
		}
		if err := archive.WriteResults(ctx, runID, results); err != nil {
			return WrapExitError(ExitCommandError, "failed to archive results", err)
		}
		slog.Info("run archived", "run_id", runID, "results", len(results))
	}

	report := RunReport{
		RunID:            runID,
		Statutes:         len(loadResult.Statutes),
		Agents:           len(pop),
		Total:            metrics.Total,
		Deterministic:    metrics.Deterministic,
		Discretionary:    metrics.Discretionary,
		Void:             metrics.Void,
		DiscretionAgents: len(metrics.DiscretionAgents()),
		Repeats:          opts.Repeat,
		Checkpoints:      checkpoints.Count(),
		ElapsedSeconds:   elapsed.Seconds(),
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprint(cmd.OutOrStdout(), metrics.Summary())
	fmt.Fprintf(cmd.OutOrStdout(), "\nRun %s finished in %s (%d repeat(s), %d checkpoint(s) retained)\n",
		runID, elapsed.Round(time.Millisecond), report.Repeats, report.Checkpoints)
	return nil
}
