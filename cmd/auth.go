package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"ytsweep/internal/session"
)

// AuthLogin runs the browser OAuth flow and stores the resulting token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	sess, err := session.New(config, r.logger)
	if err != nil {
		return err
	}

	if err := sess.Authenticate(ctx, r.output); err != nil {
		return err
	}

	r.writePlain("Authenticated. Token saved to %s.\n", config.Credentials.Google.TokenPath)
	return nil
}

// AuthStatus reports whether a stored token is available.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	sess, err := session.New(config, r.logger)
	if err != nil {
		return err
	}

	if err := sess.Load(); err != nil {
		r.writePlain("Not authenticated. Run `ytsweep auth login`.\n")
		return nil
	}

	if sess.Authenticated() {
		r.writePlain("Authenticated. Token stored at %s.\n", config.Credentials.Google.TokenPath)
	} else {
		r.writePlain("Stored token is no longer valid. Run `ytsweep auth login`.\n")
	}

	return nil
}
