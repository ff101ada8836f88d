// package formatter handles the tabular boundary of the application: parsing
// import files into queries and writing the JSON/CSV report artifacts.
package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ytsweep/internal/dedupe"
	"ytsweep/internal/shared"
)

// Shazam library exports carry the track title in column C and the artist in
// column D.
const (
	titleColumn    = 2
	artistColumn   = 3
	minImportWidth = 4
)

// Report artifact filenames, fixed so repeated runs overwrite in place.
const (
	SnapshotFile  = "playlist_songs.json"
	RemovedFile   = "playlist_songs_removed.json"
	FallbackFile  = "deduplicated_songs.csv"
	UnmatchedFile = "unmatched_songs.csv"
)

// ParseImportFile reads a CSV track list and returns the unique
// (title, artist) query pairs in first-seen order.
//
// The first row is always a header and skipped, as are rows narrower than
// four fields, rows with an empty title or artist, and stray literal
// ("title", "artist") header rows anywhere in the file (case-insensitive).
// Deduplication is by exact pair equality, case-sensitive as read.
func ParseImportFile(path string) ([]dedupe.Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrParse, err)
	}
	defer f.Close()

	return parseImport(f)
}

func parseImport(r io.Reader) ([]dedupe.Query, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrParse, err)
	}

	queries := []dedupe.Query{}
	seen := make(map[dedupe.Query]struct{})

	for i, row := range rows {
		if i == 0 || len(row) < minImportWidth {
			continue
		}

		title, artist := row[titleColumn], row[artistColumn]
		if title == "" || artist == "" {
			continue
		}
		if isHeaderRow(title, artist) {
			continue
		}

		q := dedupe.Query{Title: title, Artist: artist}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		queries = append(queries, q)
	}

	return queries, nil
}

func isHeaderRow(title, artist string) bool {
	return strings.EqualFold(strings.TrimSpace(title), "title") &&
		strings.EqualFold(strings.TrimSpace(artist), "artist")
}

// Snapshot is the persisted listing of every fetched playlist entry.
type Snapshot struct {
	RunID         string         `json:"run_id"`
	PlaylistTitle string         `json:"playlist_title"`
	TotalSongs    int            `json:"total_songs"`
	Songs         []dedupe.Entry `json:"songs"`
}

// WriteSnapshot persists the fetched entries plus summary counts and returns
// the artifact path.
func WriteSnapshot(dir, playlistTitle string, entries []dedupe.Entry) (string, error) {
	return writeJSON(dir, SnapshotFile, Snapshot{
		RunID:         shared.GenerateID(),
		PlaylistTitle: playlistTitle,
		TotalSongs:    len(entries),
		Songs:         entries,
	})
}

// RemovedReport is the persisted listing of every duplicate classification.
type RemovedReport struct {
	RunID        string            `json:"run_id"`
	TotalRemoved int               `json:"total_removed"`
	RemovedSongs []dedupe.Evidence `json:"removed_songs"`
}

// WriteRemoved persists the duplicate evidence records and returns the
// artifact path.
func WriteRemoved(dir string, removed []dedupe.Evidence) (string, error) {
	return writeJSON(dir, RemovedFile, RemovedReport{
		RunID:        shared.GenerateID(),
		TotalRemoved: len(removed),
		RemovedSongs: removed,
	})
}

// WriteFallbackCSV persists the deduplicated import queries when the remote
// destination cannot be set up, so the parse work is not lost.
func WriteFallbackCSV(dir string, queries []dedupe.Query) (string, error) {
	path := filepath.Join(dir, FallbackFile)

	rows := make([][]string, 0, len(queries)+1)
	rows = append(rows, []string{"Title", "Artist"})
	for _, q := range queries {
		rows = append(rows, []string{q.Title, q.Artist})
	}

	if err := writeCSV(dir, path, rows); err != nil {
		return "", err
	}
	return path, nil
}

// Unmatched is one import query that produced no accepted match, with the
// error text when the search itself failed.
type Unmatched struct {
	Query dedupe.Query
	Err   string
}

// WriteUnmatchedCSV persists the queries that could not be matched or added.
func WriteUnmatchedCSV(dir string, unmatched []Unmatched) (string, error) {
	path := filepath.Join(dir, UnmatchedFile)

	rows := make([][]string, 0, len(unmatched)+1)
	rows = append(rows, []string{"Title", "Artist", "Error"})
	for _, u := range unmatched {
		rows = append(rows, []string{u.Query.Title, u.Query.Artist, u.Err})
	}

	if err := writeCSV(dir, path, rows); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(dir, name string, payload any) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	return path, nil
}

func writeCSV(dir, path string, rows [][]string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}

	return nil
}
