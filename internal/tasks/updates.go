package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylist Phase = iota
	RemoveEntries
	ParseImport
	EnsurePlaylist
	SearchCatalog
	InsertEntries
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylist:
		return "fetch_playlist"
	case RemoveEntries:
		return "remove_entries"
	case ParseImport:
		return "parse_import"
	case EnsurePlaylist:
		return "ensure_playlist"
	case SearchCatalog:
		return "search_catalog"
	case InsertEntries:
		return "insert_entries"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist (%s)...", name),
	}
}

func fetchEntriesUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetched %d songs", total),
	}
}

func removeEntriesUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RemoveEntries,
		Step:    step,
		Total:   total,
		Message: "Removing duplicate songs...",
	}
}

func parseImportUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParseImport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Parsed %d unique songs", total),
	}
}

func ensurePlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnsurePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Preparing destination playlist (%s)...", name),
	}
}

func prefetchDegradedUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnsurePlaylist,
		Step:    1,
		Total:   1,
		Message: "Could not list existing playlist contents; songs already in the playlist may be added again",
	}
}

func searchCatalogUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchCatalog,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching for %q...", title),
	}
}

func insertEntryUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   InsertEntries,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Adding %q...", title),
	}
}
