package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"ytsweep/internal/repositories"
	"ytsweep/internal/shared"
	"ytsweep/internal/tasks"
)

// Import resolves an exported CSV track list against the catalog and fills
// the destination playlist.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	file := cmd.String("file")
	if file == "" {
		var err error
		if file, err = r.prompt("Path to the exported CSV: "); err != nil {
			return err
		}
	}

	if err := r.ensureServices(ctx); err != nil {
		return err
	}

	// The search cache is an optimization, not a requirement. A broken
	// database downgrades to searching every query.
	var cache *repositories.SearchCache
	if config.Database.Path != "" {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			defer db.Close()
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			if err := shared.RunMigrations(db); err == nil {
				cache = repositories.NewSearchCache(db)
			} else {
				r.logger.Warn("search cache unavailable", "error", err)
			}
		} else {
			r.logger.Warn("search cache unavailable", "error", err)
		}
	}

	interval := time.Duration(config.Importer.SearchIntervalMS) * time.Millisecond
	var limiter *rate.Limiter
	if interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}

	engine := tasks.NewImportEngine(tasks.ImportEngineOpts{
		Source:              r.source,
		Mutator:             r.mutator,
		Searcher:            r.searcher,
		Cache:               cache,
		Limiter:             limiter,
		Acceptance:          config.Importer.AcceptanceThreshold,
		ReportsDir:          config.Reports.Dir,
		PlaylistTitle:       config.Importer.PlaylistTitle,
		PlaylistDescription: config.Importer.PlaylistDescription,
	})

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.SearchCatalog:
				r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.InsertEntries:
				r.writePlain("         %s\n", update.Message)
			default:
				r.writePlain("%s\n", update.Message)
			}
		}
	}()
	defer func() {
		close(progressCh)
		<-drained
	}()

	result, err := engine.Run(ctx, progressCh, file)
	if err != nil {
		return err
	}

	if result.PrefetchFailed {
		r.logger.Warn("could not list existing playlist contents; duplicates may have been re-added")
	}

	if result.FallbackPath != "" {
		r.writePlainHeader("Quota Exhausted")
		r.writePlain("The API quota ran out before the import finished.\n")
		r.writePlain("Unprocessed songs were saved to %s.\n", result.FallbackPath)
		r.writePlain("Re-run the import with that file once the quota resets.\n")
		if result.Inserted > 0 {
			r.writePlain("\nAdded %d songs before stopping.\n", result.Inserted)
		}
		return nil
	}

	r.writePlainHeader("Import Complete")
	r.writePlain("Playlist: %s\n", result.PlaylistTitle)
	r.writePlain("Songs in file: %d\n", result.Total)
	r.writePlain("Matched: %d\n", result.Matched)
	r.writePlain("Added: %d\n", result.Inserted)
	if result.Skipped > 0 {
		r.writePlain("Already present: %d\n", result.Skipped)
	}
	if result.Failed > 0 {
		r.writePlain("Failed to add: %d\n", result.Failed)
	}
	if len(result.Unmatched) > 0 {
		r.writePlain("\n%d songs had no acceptable match, saved to %s\n",
			len(result.Unmatched), result.UnmatchedPath)
	}

	return nil
}
