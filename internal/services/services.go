// package services defines the ports to the remote video catalog and their
// YouTube Data API implementation.
//
// The orchestration engines in [ytsweep/internal/tasks] depend only on the
// interfaces here, so they can be exercised with deterministic fakes.
package services

import (
	"context"

	"ytsweep/internal/dedupe"
)

// PlaylistInfo describes a remote playlist without its items.
type PlaylistInfo struct {
	ID        string
	Title     string
	ItemCount int64
}

// PlaylistSource retrieves playlist contents from the remote catalog.
type PlaylistSource interface {
	// PlaylistInfo returns the playlist title and item count.
	PlaylistInfo(ctx context.Context, playlistID string) (*PlaylistInfo, error)

	// FetchEntries returns every item in the playlist, flattening the remote
	// pagination. On a mid-stream failure the entries gathered so far are
	// returned together with the error (best-effort).
	FetchEntries(ctx context.Context, playlistID string) ([]dedupe.Entry, error)
}

// PlaylistMutator mutates remote playlists.
type PlaylistMutator interface {
	// DeleteEntries removes playlist items by placement ID. Every item is
	// attempted independently; one failure does not stop the rest. Returns
	// the success and failure counts.
	DeleteEntries(ctx context.Context, placementIDs []string) (ok, failed int)

	// InsertEntry adds a video to the playlist.
	InsertEntry(ctx context.Context, playlistID, videoID string) error

	// CreatePlaylist creates a private playlist and returns its ID.
	CreatePlaylist(ctx context.Context, title, description string) (string, error)

	// FindPlaylist returns the ID of the caller's playlist whose title equals
	// title case-insensitively, or wraps [shared.ErrPlaylistNotFound].
	FindPlaylist(ctx context.Context, title string) (string, error)
}

// CatalogSearcher searches the remote catalog for videos answering a query.
type CatalogSearcher interface {
	// SearchCandidates returns up to five music-category video results for
	// the query, in the order the catalog ranked them.
	SearchCandidates(ctx context.Context, q dedupe.Query) ([]dedupe.Candidate, error)
}
