// Package repositories implements SQLite persistence for search results.
//
// Catalog searches are the most quota-expensive API call the importer makes,
// so every accepted match is cached keyed on the exact (title, artist) pair.
// Re-running an import against the same library resolves from the cache
// without touching the API.
package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"ytsweep/internal/dedupe"
)

// CachedMatch is a previously accepted search result for a query pair.
type CachedMatch struct {
	Candidate dedupe.Candidate
	Score     float64
}

// SearchCache persists accepted matches keyed by the exact query pair.
type SearchCache struct {
	db *sql.DB
}

// NewSearchCache creates a SearchCache backed by the given database connection
func NewSearchCache(db *sql.DB) *SearchCache {
	return &SearchCache{db: db}
}

// Get looks up a cached match for the query. A miss returns (nil, nil).
func (c *SearchCache) Get(q dedupe.Query) (*CachedMatch, error) {
	query := `
		SELECT video_id, video_title, channel_title, score
		FROM search_cache
		WHERE title = ? AND artist = ?
	`

	var match CachedMatch
	err := c.db.QueryRow(query, q.Title, q.Artist).Scan(
		&match.Candidate.VideoID,
		&match.Candidate.Title,
		&match.Candidate.Channel,
		&match.Score,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query search cache: %w", err)
	}

	return &match, nil
}

// Put stores an accepted match for the query.
// Returns nil if the pair is already cached (deduplication).
// Only returns errors for actual failures (not constraint violations).
func (c *SearchCache) Put(q dedupe.Query, match CachedMatch) error {
	query := `
		INSERT INTO search_cache (title, artist, video_id, video_title, channel_title, score)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(query,
		q.Title,
		q.Artist,
		match.Candidate.VideoID,
		match.Candidate.Title,
		match.Candidate.Channel,
		match.Score,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache search result: %w", err)
	}

	return nil
}
