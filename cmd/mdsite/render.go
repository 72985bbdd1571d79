package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mdsite/internal/build"
	"github.com/g5becks/mdsite/internal/template"
)

func newRenderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render one markdown file to HTML on stdout",
		ArgsUsage: "<file.md>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "Template path or http(s) URL to wrap the page in",
			},
		},
		Action: renderAction,
	}
}

func renderAction(ctx context.Context, cmd *cli.Command) error {
	path, err := singleArg(cmd, "mdsite render <file.md>")
	if err != nil {
		return err
	}

	var tmpl *template.Template
	if ref := cmd.String("template"); ref != "" {
		tmpl, err = template.Load(ctx, ref)
		if err != nil {
			return err
		}
	}

	rendered, err := build.RenderFile(path, tmpl)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout(cmd), rendered)
	return nil
}

func newTitleCommand() *cli.Command {
	return &cli.Command{
		Name:      "title",
		Usage:     "Print the level-1 heading of a markdown file",
		ArgsUsage: "<file.md>",
		Action:    titleAction,
	}
}

func titleAction(_ context.Context, cmd *cli.Command) error {
	path, err := singleArg(cmd, "mdsite title <file.md>")
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return oops.
			Code("PAGE_READ_FAILED").
			With("path", path).
			Wrapf(err, "reading %q", path)
	}

	title, err := build.PageTitle(data)
	if err != nil {
		return oops.With("path", path).Wrapf(err, "reading title of %q", path)
	}

	fmt.Fprintln(stdout(cmd), title)
	return nil
}

func singleArg(cmd *cli.Command, usage string) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", oops.
			Code("INVALID_ARGS").
			Hint("Usage: " + usage).
			Errorf("expected 1 argument, got %d", cmd.Args().Len())
	}

	return cmd.Args().First(), nil
}
