// package dedupe implements the duplicate detection core: a lexical
// similarity function, a dual-threshold partition engine, and a best-match
// selector for search candidates.
//
// Everything in this package is pure. Remote fetching, deletion and search
// live behind the interfaces in [ytsweep/internal/services]; the engines in
// [ytsweep/internal/tasks] wire the two together.
package dedupe

import "math"

// Default thresholds for [Partition]. The artist threshold is deliberately
// stricter than the title one: channel names vary less than video titles, so
// a near-identical title with a clearly different channel is usually a cover
// or a re-upload, not a duplicate.
const (
	DefaultTitleThreshold  = 0.8
	DefaultArtistThreshold = 0.9
)

// Entry is a single playlist item as fetched from the remote catalog.
//
// PlacementID identifies the item's membership record within one playlist and
// is what deletion operates on. VideoID identifies the video globally and can
// recur across playlists (or within one, which is the whole point).
type Entry struct {
	VideoID     string `json:"id"`
	PlacementID string `json:"playlistItemId"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
}

// Evidence records why an entry was classified as a duplicate: the entry that
// was removed, the earlier kept entry it matched, and both similarity scores
// rounded to two decimals.
type Evidence struct {
	Removed     Entry   `json:"song"`
	KeptAs      Entry   `json:"similar_to"`
	TitleScore  float64 `json:"title_similarity"`
	ArtistScore float64 `json:"artist_similarity"`
}

// Result is a stable partition of the input entries. Every input entry
// appears in exactly one of Kept or Removed; Kept preserves first-seen order.
type Result struct {
	Kept    []Entry
	Removed []Evidence
}

// Partition splits entries into kept and removed-with-evidence sets.
//
// Entries are scanned in input order and compared against the kept set in
// insertion order. An entry is a duplicate only when BOTH the title score and
// the artist score clear their thresholds; requiring the conjunction avoids
// false positives from generic artist names ("Various Artists") matching on
// title alone, or vice versa. The first kept entry that matches wins even if
// a later one would score higher, and the scan stops there.
//
// The pairwise scan is O(n²) on purpose: playlists are hundreds of entries,
// not millions, and the quadratic form keeps the decision rule obvious.
func Partition(entries []Entry, titleThreshold, artistThreshold float64) Result {
	result := Result{Kept: []Entry{}, Removed: []Evidence{}}

	for _, entry := range entries {
		duplicate := false

		for _, kept := range result.Kept {
			titleScore := Similarity(entry.Title, kept.Title)
			artistScore := Similarity(entry.Artist, kept.Artist)

			if titleScore >= titleThreshold && artistScore >= artistThreshold {
				duplicate = true
				result.Removed = append(result.Removed, Evidence{
					Removed:     entry,
					KeptAs:      kept,
					TitleScore:  round2(titleScore),
					ArtistScore: round2(artistScore),
				})
				break
			}
		}

		if !duplicate {
			result.Kept = append(result.Kept, entry)
		}
	}

	return result
}

// round2 rounds to two decimals, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
