package main

import (
	"context"
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mdsite/internal/manifest"
	"github.com/g5becks/mdsite/internal/search"
	"github.com/g5becks/mdsite/internal/ui"
)

const defaultSearchLimit = 20

func newSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search built pages by path, title and headings, or by content",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "content",
				Usage: "Search page sources line by line instead of metadata",
			},
			&cli.BoolFlag{
				Name:  "regex",
				Usage: "Treat query as regex (requires --content)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Max results (0 = unlimited)",
				Value: defaultSearchLimit,
			},
		},
		Action: searchAction,
	}
}

func searchAction(_ context.Context, cmd *cli.Command) error {
	query, err := singleArg(cmd, "mdsite search <query>")
	if err != nil {
		return err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return oops.
			Code("INVALID_ARGS").
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	if cmd.Bool("regex") && !cmd.Bool("content") {
		return oops.
			Code("INVALID_ARGS").
			Hint("--regex requires --content flag").
			Errorf("--regex can only be used with --content")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	m, err := manifest.Load(cfg.Output)
	if err != nil {
		return err
	}

	if cmd.Bool("content") {
		results, searchErr := search.Content(m, search.ContentOptions{
			ContentDir: cfg.Content,
			Query:      query,
			UseRegex:   cmd.Bool("regex"),
			Limit:      cmd.Int("limit"),
		})
		if searchErr != nil {
			return searchErr
		}

		return ui.RenderContentResults(stdout(cmd), results, cmd.Bool("json"))
	}

	results, err := search.Pages(m, search.PageOptions{
		Query: query,
		Limit: cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	return ui.RenderSearchResults(stdout(cmd), results, cmd.Bool("json"))
}
