package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"ytsweep/internal/tasks"
)

// Dedupe fetches a playlist, classifies fuzzy duplicates and optionally
// removes them.
func (r *Runner) Dedupe(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	if err := r.ensureServices(ctx); err != nil {
		return err
	}

	playlistID := cmd.String("playlist")
	if playlistID == "" {
		var err error
		if playlistID, err = r.prompt("Playlist ID: "); err != nil {
			return err
		}
	}

	if !cmd.Bool("yes") {
		confirmed, err := r.promptYesNo(fmt.Sprintf("Search playlist %s for duplicate songs? [y/N] ", playlistID))
		if err != nil {
			return err
		}
		if !confirmed {
			return r.writePlain("Aborted.\n")
		}
	}

	engine := tasks.NewDedupeEngine(r.source, r.mutator,
		config.Dedupe.TitleThreshold, config.Dedupe.ArtistThreshold, config.Reports.Dir)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()
	defer func() {
		close(progressCh)
		<-drained
	}()

	fetched, err := engine.Fetch(ctx, progressCh, playlistID)
	if err != nil {
		return err
	}

	if fetched.Partial {
		r.logger.Warn("playlist retrieval was interrupted, continuing with partial contents",
			"fetched", len(fetched.Entries))
	}

	r.writePlain("Saved playlist snapshot to %s\n", fetched.SnapshotPath)

	result := engine.Classify(fetched.Entries)

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	if len(result.Removed) == 0 {
		r.writePlain("\nNo duplicates found in %q (%d songs).\n", fetched.Playlist.Title, len(fetched.Entries))
		return nil
	}

	r.writePlainHeader("Duplicates Found")
	r.writePlain("Playlist: %s (%d songs)\n\n", fetched.Playlist.Title, len(fetched.Entries))
	for _, ev := range result.Removed {
		r.writePlain("  %s - %s\n", ev.Removed.Title, ev.Removed.Artist)
		r.writePlain("    duplicate of %s - %s (title %.2f, artist %.2f)\n",
			ev.KeptAs.Title, ev.KeptAs.Artist, ev.TitleScore, ev.ArtistScore)
	}

	reportPath, err := engine.ReportRemoved(result.Removed)
	if err != nil {
		return err
	}
	r.writePlain("\nSaved duplicate report to %s\n", reportPath)

	if !cmd.Bool("apply") {
		r.writePlain("Re-run with --apply to remove %d duplicates.\n", len(result.Removed))
		return nil
	}

	if !cmd.Bool("yes") {
		confirmed, err := r.promptYesNo(fmt.Sprintf("Remove %d duplicates from %q? [y/N] ", len(result.Removed), fetched.Playlist.Title))
		if err != nil {
			return err
		}
		if !confirmed {
			r.writePlain("Aborted, nothing removed.\n")
			return nil
		}
	}

	applied, err := engine.Apply(ctx, progressCh, result.Removed)
	if err != nil {
		return err
	}

	r.writePlain("\nRemoved %d duplicates", applied.Deleted)
	if applied.Failed > 0 {
		r.writePlain(" (%d failed)", applied.Failed)
	}
	r.writePlain(".\n")

	return nil
}
