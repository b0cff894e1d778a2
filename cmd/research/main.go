package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/joseph-ayodele/ideascout/internal/common"
	"github.com/joseph-ayodele/ideascout/internal/entity"
	"github.com/joseph-ayodele/ideascout/internal/export"
	"github.com/joseph-ayodele/ideascout/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "research",
		Usage: "Run one market-research pass and print the report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "keyword",
				Aliases:  []string{"k"},
				Usage:    "keyword to research",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "location",
				Usage: "target location",
			},
			&cli.StringFlag{
				Name:  "budget",
				Usage: "starting budget",
			},
			&cli.StringFlag{
				Name:  "xlsx",
				Usage: "also write the report to this XLSX file",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "environment file path",
				Value: ".env",
			},
		},
		Action: researchAction,
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func researchAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := common.LoadConfig(cmd.String("env"))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logs go to stderr so stdout carries only the report.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.Level,
	}))
	slog.SetDefault(logger)

	input := entity.JobInput{
		Keyword:  cmd.String("keyword"),
		Location: cmd.String("location"),
		Budget:   cmd.String("budget"),
	}.WithDefaults()
	if err := common.ValidateJobInput(input); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Queue.JobTimeout)
	defer cancel()

	processor := pipeline.NewFromConfig(cfg, logger)
	report, err := processor.Run(ctx, input, func(p int) {
		logger.Debug("research.progress", "progress", p)
	})
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if path := cmd.String("xlsx"); path != "" {
		job := entity.NewJob(input)
		if err := job.Start(); err != nil {
			return err
		}
		if err := job.Complete(report); err != nil {
			return err
		}
		b, err := export.RenderReportXLSX(job)
		if err != nil {
			return fmt.Errorf("render xlsx: %w", err)
		}
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		logger.Info("research.xlsx_written", "path", path)
	}
	return nil
}
