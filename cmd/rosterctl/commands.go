// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rosterproj/roster-mcp/internal/job"
	"github.com/rosterproj/roster-mcp/internal/notify"
	"github.com/rosterproj/roster-mcp/internal/roster"
	"github.com/rosterproj/roster-mcp/internal/roster/extractors"
	"github.com/rosterproj/roster-mcp/internal/sink"
	"github.com/rosterproj/roster-mcp/internal/tool"
	"github.com/rosterproj/roster-mcp/internal/vision"
)

func runExtract(cmd *cobra.Command, _ []string) error {
	if outFormat != "table" && outFormat != "csv" && outFormat != "json" {
		return fmt.Errorf("unknown format %q (want table, csv or json)", outFormat)
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	var (
		source vision.TextSource
		input  job.Input
		err    error
	)
	if textPath != "" {
		source = vision.NewTranscriptSource()
		input = job.FileInput(textPath)
	} else {
		source, err = vision.New(ctx, cfg.Vision, logger)
		if err != nil {
			return err
		}
		input = job.FileInput(imagePath)
	}

	pipeline, err := buildPipeline()
	if err != nil {
		return err
	}
	var sinks []sink.Sink
	if csvPath != "" {
		sinks = append(sinks, sink.NewCSVSink(csvPath))
	}

	runner := job.NewRunner(source, pipeline, sinks, nil, logger,
		job.WithTextTimeout(cfg.Vision.TimeoutDuration()))

	data, err := input(ctx)
	if err != nil {
		return err
	}
	table, err := runner.RunOnce(ctx, data)
	if err != nil {
		return err
	}
	return printTable(cmd.OutOrStdout(), table, outFormat)
}

func runJob(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	runner, err := buildRunner(ctx)
	if err != nil {
		return err
	}
	table, err := runner.Run(ctx, job.FileInput(imagePath))
	if err != nil {
		return err
	}
	logger.Info("roster job finished", zap.Int("records", len(table)))
	return nil
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	runner, err := buildRunner(ctx)
	if err != nil {
		return err
	}
	scheduler, err := job.NewScheduler(cfg.Schedule.Cron, runner, job.FileInput(imagePath), logger)
	if err != nil {
		return err
	}
	if runAtStart {
		if err := scheduler.Trigger(ctx); err != nil {
			logger.Error("startup run failed", zap.Error(err))
		}
	}
	return scheduler.Run(ctx)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()
	return tool.Serve(ctx, version, logger)
}

func runMarkers(cmd *cobra.Command, _ []string) error {
	table, err := roster.LoadMarkerTableFile(cfg.MarkersFile)
	if err != nil {
		return err
	}
	data, err := table.Encode()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func buildPipeline() (*roster.Pipeline, error) {
	table, err := roster.LoadMarkerTableFile(cfg.MarkersFile)
	if err != nil {
		return nil, err
	}
	return extractors.NewPipeline(table, logger), nil
}

// buildRunner wires the configured vision provider, sinks and notifier.
func buildRunner(ctx context.Context) (*job.Runner, error) {
	source, err := vision.New(ctx, cfg.Vision, logger)
	if err != nil {
		return nil, err
	}
	pipeline, err := buildPipeline()
	if err != nil {
		return nil, err
	}
	sinks, err := sink.FromConfig(ctx, cfg.Sinks, logger)
	if err != nil {
		return nil, err
	}
	if len(sinks) == 0 {
		logger.Warn("no sinks configured; records will only be logged")
	}

	return job.NewRunner(source, pipeline, sinks, notify.FromConfig(cfg.Notify, logger), logger,
		job.WithAttempts(cfg.Schedule.Attempts),
		job.WithRetryDelay(cfg.Schedule.RetryDelayDuration()),
		job.WithAttemptTimeout(cfg.Schedule.RunTimeoutDuration()),
		job.WithTextTimeout(cfg.Vision.TimeoutDuration()),
	), nil
}

func printTable(w io.Writer, table roster.Table, format string) error {
	switch format {
	case "csv":
		return sink.WriteCSV(w, table)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	default:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SHIFT\tBLOCK\tTYPE\tNAME")
		for _, r := range table {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Shift, r.Block, r.ResidentType, r.ResidentName)
		}
		return tw.Flush()
	}
}
