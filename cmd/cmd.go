// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// dedupeCommand handles playlist cleanup
func dedupeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "dedupe",
		Aliases: []string{"dd"},
		Usage:   "Find and remove fuzzy duplicates from a playlist",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Playlist ID to clean up (prompted for when omitted)",
			},
			&cli.BoolFlag{
				Name:  "apply",
				Usage: "Remove the duplicates instead of only reporting them",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the removal confirmation prompt",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the classification as JSON",
			},
		},
		Action: r.Dedupe,
	}
}

// importCommand handles track list imports
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "import",
		Aliases: []string{"imp"},
		Usage:   "Import an exported track list CSV into a playlist",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Path to the exported CSV track list (prompted for when omitted)",
			},
		},
		Action: r.Import,
	}
}

// authCommand handles OAuth session management
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the OAuth session",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate via the browser and store a token",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show whether a stored token is available",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}
