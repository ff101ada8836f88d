// package tasks implements the playlist cleanup and import orchestration.
//
// The two engines here, [DedupeEngine] and [ImportEngine], sit between the
// CLI layer and the catalog ports in [ytsweep/internal/services]. Operations
// emit progress updates via channels for non-blocking status reporting.
package tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ytsweep/internal/dedupe"
	"ytsweep/internal/formatter"
	"ytsweep/internal/services"
	"ytsweep/internal/shared"
)

// FetchResult contains the fetched playlist contents and the snapshot artifact.
type FetchResult struct {
	Playlist     *services.PlaylistInfo // Playlist metadata
	Entries      []dedupe.Entry         // Items sorted by title, case-insensitive
	SnapshotPath string                 // Written playlist_songs.json
	Partial      bool                   // True when retrieval stopped mid-stream
}

// ApplyResult contains the outcome of removing classified duplicates.
type ApplyResult struct {
	Deleted int // Items removed from the playlist
	Failed  int // Items that could not be removed
}

// DedupeEngine orchestrates the fetch, classify, remove cleanup flow.
//
// The stages are exposed separately so the CLI can put confirmation prompts
// between them.
type DedupeEngine struct {
	source          services.PlaylistSource
	mutator         services.PlaylistMutator
	titleThreshold  float64
	artistThreshold float64
	reportsDir      string
}

// NewDedupeEngine creates a DedupeEngine with the provided ports and tuning.
func NewDedupeEngine(source services.PlaylistSource, mutator services.PlaylistMutator, titleThreshold, artistThreshold float64, reportsDir string) *DedupeEngine {
	return &DedupeEngine{
		source:          source,
		mutator:         mutator,
		titleThreshold:  titleThreshold,
		artistThreshold: artistThreshold,
		reportsDir:      reportsDir,
	}
}

// Fetch retrieves the playlist contents, sorts them by title and writes the
// snapshot report.
//
// A mid-stream retrieval failure is not fatal when some entries arrived; the
// result is marked Partial and the flow continues on what was gathered.
func (e *DedupeEngine) Fetch(ctx context.Context, progress chan<- ProgressUpdate, playlistID string) (*FetchResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: playlist source not initialized", shared.ErrRetrieval)
	}

	info, err := e.source.PlaylistInfo(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	sendProgress(progress, fetchPlaylistUpdate(info.Title))

	entries, err := e.source.FetchEntries(ctx, playlistID)
	partial := false
	if err != nil {
		if len(entries) == 0 {
			return nil, err
		}
		partial = true
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title)
	})

	sendProgress(progress, fetchEntriesUpdate(len(entries)))

	snapshotPath, err := formatter.WriteSnapshot(e.reportsDir, info.Title, entries)
	if err != nil {
		return nil, err
	}

	return &FetchResult{
		Playlist:     info,
		Entries:      entries,
		SnapshotPath: snapshotPath,
		Partial:      partial,
	}, nil
}

// Classify partitions the fetched entries into kept songs and duplicate
// evidence using the engine's similarity thresholds.
func (e *DedupeEngine) Classify(entries []dedupe.Entry) dedupe.Result {
	return dedupe.Partition(entries, e.titleThreshold, e.artistThreshold)
}

// ReportRemoved writes the duplicate evidence report and returns its path.
func (e *DedupeEngine) ReportRemoved(removed []dedupe.Evidence) (string, error) {
	return formatter.WriteRemoved(e.reportsDir, removed)
}

// Apply removes every classified duplicate from the playlist. Items are
// deleted independently so one failure does not abort the rest.
func (e *DedupeEngine) Apply(ctx context.Context, progress chan<- ProgressUpdate, removed []dedupe.Evidence) (*ApplyResult, error) {
	if e.mutator == nil {
		return nil, fmt.Errorf("%w: playlist mutator not initialized", shared.ErrMutation)
	}

	placementIDs := make([]string, 0, len(removed))
	for _, ev := range removed {
		if ev.Removed.PlacementID != "" {
			placementIDs = append(placementIDs, ev.Removed.PlacementID)
		}
	}

	sendProgress(progress, removeEntriesUpdate(0, len(placementIDs)))

	ok, failed := e.mutator.DeleteEntries(ctx, placementIDs)

	sendProgress(progress, removeEntriesUpdate(ok, len(placementIDs)))

	return &ApplyResult{Deleted: ok, Failed: failed}, nil
}
