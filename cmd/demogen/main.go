// Package main provides the demogen CLI: batch generation of Odyssey demo
// clips plus one-off job inspection commands.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bdpitch/odyssey-demogen/internal/bootstrap"
	"github.com/bdpitch/odyssey-demogen/internal/config"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "demogen",
		Short: "Generate Odyssey demo clips for the showcase",
		Long: `demogen drives the Odyssey simulation API to produce the showcase demo
clips: it submits one job per worklist entry, polls each to completion,
and downloads the video and thumbnail into the output directory.

Without a subcommand it runs the full batch.`,
		SilenceUsage: true,
		RunE:         runBatch,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newStatusCmd(),
		newListCmd(),
		newCancelCmd(),
	)

	return rootCmd
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full batch pipeline",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Print the status of a simulation job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client, err := bootstrap.NewClient(cfg)
			if err != nil {
				return err
			}

			status, err := client.GetStatus(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get status: %w", err)
			}

			return printJSON(status)
		},
	}
}

func newListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent simulation jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client, err := bootstrap.NewClient(cfg)
			if err != nil {
				return err
			}

			list, err := client.ListSimulations(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list simulations: %w", err)
			}

			return printJSON(list)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of jobs to list")
	return cmd
}

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a pending or running simulation job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client, err := bootstrap.NewClient(cfg)
			if err != nil {
				return err
			}

			result, err := client.Cancel(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("cancel job: %w", err)
			}

			return printJSON(result)
		},
	}
}

// runBatch runs the full pipeline. Individual item failures are reported,
// not fatal: the exit code reflects only whether the pipeline itself ran.
func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting demo generator",
		slog.String("output_dir", cfg.OutputDir),
		slog.Duration("poll_interval", cfg.PollInterval),
		slog.Int("poll_max_attempts", cfg.PollMaxAttempts),
		slog.Bool("s3_mirror", cfg.S3Enabled()),
	)

	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	items, err := bootstrap.Worklist(cfg)
	if err != nil {
		return err
	}

	// Stop between items or poll attempts on Ctrl-C; completed results
	// are still reported.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := deps.Runner.RunBatch(ctx, items)

	for _, res := range report.Results {
		attrs := []any{
			slog.String("name", res.ItemName),
			slog.String("state", string(res.State)),
			slog.Int("artifacts", len(res.ArtifactPaths)),
		}
		if res.JobID != "" {
			attrs = append(attrs, slog.String("job_id", res.JobID))
		}
		if res.Err != nil {
			attrs = append(attrs, slog.String("error", res.Err.Error()))
		}
		logger.Info("result", attrs...)
	}

	logger.Info("report",
		slog.String("run_id", report.RunID),
		slog.Int("completed", report.Completed()),
		slog.Int("failed", report.Failed()),
	)

	if ctx.Err() != nil {
		logger.Warn("batch interrupted before all items were processed")
	}

	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
