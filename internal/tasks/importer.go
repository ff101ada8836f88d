package tasks

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"ytsweep/internal/dedupe"
	"ytsweep/internal/formatter"
	"ytsweep/internal/repositories"
	"ytsweep/internal/services"
	"ytsweep/internal/shared"
)

// ImportResult contains all data from a full import operation.
type ImportResult struct {
	PlaylistID     string                // Destination playlist
	PlaylistTitle  string                // Destination playlist title
	PrefetchFailed bool                  // Existing-contents lookup failed; duplicate skipping degraded
	Total          int                   // Unique queries parsed from the file
	Matched        int                   // Queries with an accepted match
	Inserted       int                   // Videos added to the playlist
	Skipped        int                   // Matches already present in the playlist
	Failed         int                   // Matched videos that could not be added
	Unmatched      []formatter.Unmatched // Queries with no accepted match
	FallbackPath   string                // Written deduplicated_songs.csv, if any
	UnmatchedPath  string                // Written unmatched_songs.csv, if any
}

// ImportEngineOpts configures an ImportEngine.
type ImportEngineOpts struct {
	Source   services.PlaylistSource
	Mutator  services.PlaylistMutator
	Searcher services.CatalogSearcher

	// Cache is optional. When nil every query hits the catalog.
	Cache *repositories.SearchCache

	// Limiter paces catalog searches. When nil searches run unpaced.
	Limiter *rate.Limiter

	Acceptance          float64
	ReportsDir          string
	PlaylistTitle       string
	PlaylistDescription string
}

// ImportEngine resolves an exported track list against the catalog and fills
// the destination playlist.
type ImportEngine struct {
	opts ImportEngineOpts
}

// NewImportEngine creates an ImportEngine with the provided options.
func NewImportEngine(opts ImportEngineOpts) *ImportEngine {
	return &ImportEngine{opts: opts}
}

// Run performs a full import: parse the file, prepare the destination
// playlist, resolve each query against the catalog and insert the accepted
// matches.
//
// Quota exhaustion is handled gracefully rather than as a failure: the
// queries that were not resolved are written to a fallback CSV so the run
// can be resumed later, and Run returns the partial result with a nil error.
func (e *ImportEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, path string) (*ImportResult, error) {
	if e.opts.Mutator == nil || e.opts.Searcher == nil {
		return nil, fmt.Errorf("%w: catalog services not initialized", shared.ErrRetrieval)
	}

	queries, err := formatter.ParseImportFile(path)
	if err != nil {
		return nil, err
	}

	sendProgress(progress, parseImportUpdate(len(queries)))

	result := &ImportResult{Total: len(queries), PlaylistTitle: e.opts.PlaylistTitle}

	sendProgress(progress, ensurePlaylistUpdate(e.opts.PlaylistTitle))

	playlistID, err := e.ensurePlaylist(ctx)
	if err != nil {
		if services.IsQuotaError(err) {
			return e.fallback(result, queries)
		}
		return nil, err
	}
	result.PlaylistID = playlistID

	existing, err := e.existingVideoIDs(ctx, playlistID)
	if err != nil {
		result.PrefetchFailed = true
		sendProgress(progress, prefetchDegradedUpdate())
	}

	for i, q := range queries {
		sendProgress(progress, searchCatalogUpdate(i+1, len(queries), q.Title))

		match, err := e.resolve(ctx, q)
		if err != nil {
			if services.IsQuotaError(err) {
				if _, werr := e.unmatchedReport(result); werr != nil {
					return nil, werr
				}
				return e.fallback(result, queries[i:])
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			result.Unmatched = append(result.Unmatched, formatter.Unmatched{Query: q, Err: err.Error()})
			continue
		}
		if match == nil {
			result.Unmatched = append(result.Unmatched, formatter.Unmatched{Query: q})
			continue
		}

		result.Matched++

		if _, ok := existing[match.Candidate.VideoID]; ok {
			result.Skipped++
			continue
		}

		sendProgress(progress, insertEntryUpdate(i+1, len(queries), match.Candidate.Title))

		if err := e.opts.Mutator.InsertEntry(ctx, playlistID, match.Candidate.VideoID); err != nil {
			if services.IsQuotaError(err) {
				if _, werr := e.unmatchedReport(result); werr != nil {
					return nil, werr
				}
				return e.fallback(result, queries[i:])
			}
			result.Failed++
			result.Unmatched = append(result.Unmatched, formatter.Unmatched{Query: q, Err: err.Error()})
			continue
		}

		result.Inserted++
		existing[match.Candidate.VideoID] = struct{}{}
	}

	if _, err := e.unmatchedReport(result); err != nil {
		return nil, err
	}

	return result, nil
}

// ensurePlaylist returns the destination playlist ID, creating the playlist
// when it does not exist yet.
func (e *ImportEngine) ensurePlaylist(ctx context.Context) (string, error) {
	id, err := e.opts.Mutator.FindPlaylist(ctx, e.opts.PlaylistTitle)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, shared.ErrPlaylistNotFound) {
		return "", err
	}

	return e.opts.Mutator.CreatePlaylist(ctx, e.opts.PlaylistTitle, e.opts.PlaylistDescription)
}

// existingVideoIDs fetches the destination playlist contents so already
// present videos can be skipped. A retrieval failure is returned alongside
// whatever entries arrived; the run continues with the degraded set, but the
// caller must report the degradation.
func (e *ImportEngine) existingVideoIDs(ctx context.Context, playlistID string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	if e.opts.Source == nil {
		return ids, nil
	}

	entries, err := e.opts.Source.FetchEntries(ctx, playlistID)
	for _, entry := range entries {
		ids[entry.VideoID] = struct{}{}
	}

	return ids, err
}

// resolve finds the best catalog match for a query, consulting the cache
// before spending a search call. A nil match with a nil error means no
// candidate cleared the acceptance threshold.
func (e *ImportEngine) resolve(ctx context.Context, q dedupe.Query) (*repositories.CachedMatch, error) {
	if e.opts.Cache != nil {
		if match, err := e.opts.Cache.Get(q); err == nil && match != nil {
			return match, nil
		}
	}

	if e.opts.Limiter != nil {
		if err := e.opts.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	candidates, err := e.opts.Searcher.SearchCandidates(ctx, q)
	if err != nil {
		return nil, err
	}

	best, found := dedupe.SelectBest(q, candidates, e.opts.Acceptance)
	if !found {
		return nil, nil
	}

	match := &repositories.CachedMatch{Candidate: best, Score: dedupe.Score(q, best)}

	if e.opts.Cache != nil {
		if err := e.opts.Cache.Put(q, *match); err != nil {
			return nil, err
		}
	}

	return match, nil
}

// fallback writes the unresolved queries to the fallback CSV and returns the
// partial result without an error.
func (e *ImportEngine) fallback(result *ImportResult, remaining []dedupe.Query) (*ImportResult, error) {
	path, err := formatter.WriteFallbackCSV(e.opts.ReportsDir, remaining)
	if err != nil {
		return nil, err
	}

	result.FallbackPath = path
	return result, nil
}

func (e *ImportEngine) unmatchedReport(result *ImportResult) (string, error) {
	if len(result.Unmatched) == 0 {
		return "", nil
	}

	path, err := formatter.WriteUnmatchedCSV(e.opts.ReportsDir, result.Unmatched)
	if err != nil {
		return "", err
	}

	result.UnmatchedPath = path
	return path, nil
}
