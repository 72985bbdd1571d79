package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mdsite/internal/config"
)

var (
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	version = "dev"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	commit = "unknown"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	buildTime = "unknown"
)

func main() {
	if err := run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	return newRootCommand().Run(ctx, args)
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "mdsite",
		Usage:   "Compile a directory of markdown pages into a static HTML site",
		Version: versionString(),
		Commands: []*cli.Command{
			newBuildCommand(),
			newRenderCommand(),
			newTitleCommand(),
			newPagesCommand(),
			newOutlineCommand(),
			newSearchCommand(),
			newInitCommand(),
		},
	}
}

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a starter mdsite.toml in the current directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing mdsite.toml"},
		},
		Action: initAction,
	}
}

func initAction(_ context.Context, cmd *cli.Command) error {
	dir, err := os.Getwd()
	if err != nil {
		return oops.Wrapf(err, "getting working directory")
	}

	path, err := config.WriteStarter(dir, cmd.Bool("force"))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout(cmd), "created %s\n", path)
	return nil
}

func configFlag() cli.Flag {
	return &cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file"}
}

// loadConfig loads --config, or searches upward from the working directory,
// falling back to defaults when no config file exists.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	return config.LoadOrDefault(cmd.String("config"))
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}

	return os.Stderr
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildTime)
}
