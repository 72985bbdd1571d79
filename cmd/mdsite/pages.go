package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mdsite/internal/manifest"
	"github.com/g5becks/mdsite/internal/ui"
)

func newPagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "pages",
		Usage: "List the pages from the last build",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Show lines, headings and descriptions"},
		},
		Action: pagesAction,
	}
}

func pagesAction(_ context.Context, cmd *cli.Command) error {
	m, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	return ui.RenderPageList(stdout(cmd), m.Pages, ui.ListOptions{
		JSON:    cmd.Bool("json"),
		Verbose: cmd.Bool("verbose"),
	})
}

func newOutlineCommand() *cli.Command {
	return &cli.Command{
		Name:      "outline",
		Usage:     "Show the heading structure of a built page",
		ArgsUsage: "<source>",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
		},
		Action: outlineAction,
	}
}

func outlineAction(_ context.Context, cmd *cli.Command) error {
	source, err := singleArg(cmd, "mdsite outline <source>")
	if err != nil {
		return err
	}

	m, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	page, ok := m.Find(source)
	if !ok {
		return oops.
			Code("PAGE_NOT_FOUND").
			With("page", source).
			Hint("Run 'mdsite pages' to see available pages").
			Errorf("page %q not found in manifest", source)
	}

	out := stdout(cmd)

	if cmd.Bool("json") {
		data, marshalErr := json.MarshalIndent(page, "", "  ")
		if marshalErr != nil {
			return oops.
				Code("JSON_ERROR").
				Wrapf(marshalErr, "encoding outline")
		}

		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "%s → %s (%d lines, %s)\n", page.Source, page.Output, page.Lines, ui.FormatSize(page.Size))
	if page.Description != "" {
		fmt.Fprintf(out, "%s\n", page.Description)
	}
	fmt.Fprintln(out)

	if len(page.Headings) == 0 {
		fmt.Fprintln(out, "No headings.")
		return nil
	}

	fmt.Fprintln(out, "STRUCTURE:")
	for _, h := range page.Headings {
		indent := strings.Repeat("  ", h.Level-1)
		fmt.Fprintf(out, "%3d  %s%s\n", h.Line, indent, h.Text)
	}

	return nil
}

func loadManifest(cmd *cli.Command) (*manifest.Manifest, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	return manifest.Load(cfg.Output)
}
