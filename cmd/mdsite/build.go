package main

import (
	"context"
	"fmt"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mdsite/internal/build"
	"github.com/g5becks/mdsite/internal/ui"
)

func newBuildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build the site from the content directory",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Rebuild every page, ignoring the lock file"},
			&cli.BoolFlag{Name: "clean", Usage: "Delete output directory before building"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Show planned changes without writing files"},
			&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "Maximum pages built at once (0 = config value)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Report skipped pages too"},
			&cli.BoolFlag{Name: "progress", Usage: "Show a progress bar instead of one line per page"},
		},
		Action: buildAction,
	}
}

func buildAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Int("parallel") < 0 {
		return oops.
			Code("INVALID_ARGS").
			Hint("Pass a positive --parallel value").
			Errorf("--parallel must not be negative, got %d", cmd.Int("parallel"))
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	printer := ui.NewBuildPrinterWithWriter(stderr(cmd), dryRun, cmd.Bool("verbose"))
	opts := build.Options{
		Force:    cmd.Bool("force"),
		Clean:    cmd.Bool("clean"),
		DryRun:   dryRun,
		Parallel: cmd.Int("parallel"),
		OnEvent:  printer.HandleEvent,
	}

	var bar *ui.BuildProgress
	if cmd.Bool("progress") {
		bar = ui.NewBuildProgressWithWriter(stderr(cmd))
		opts.OnEvent = bar.HandleEvent
	}

	result, runErr := build.Run(ctx, cfg, opts)

	if bar != nil {
		bar.Stop()
		if result != nil {
			for _, failure := range result.Failures {
				fmt.Fprintf(stderr(cmd), "%s: %v\n", failure.Page, failure.Err)
			}
		}
	}

	printer.PrintSummary(result)
	return runErr
}
