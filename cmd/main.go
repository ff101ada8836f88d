package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"ytsweep/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	shared.ApplyEnv(config)

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "ytsweep",
		Usage:    "Clean up and fill YouTube playlists from the command line",
		Version:  "0.1.0",
		Commands: r.register(),
	}
}

// setupCommand initializes local state
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize local state",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file and initialize the search cache database",
				Flags:  []cli.Flag{configFlag()},
				Action: r.Setup,
			},
		},
	}
}
