package dedupe

import (
	"testing"
)

func entry(id, title, artist string) Entry {
	return Entry{VideoID: id, PlacementID: "pi-" + id, Title: title, Artist: artist}
}

// assertConservation checks that every input entry landed in exactly one of
// kept or removed.
func assertConservation(t *testing.T, input []Entry, result Result) {
	t.Helper()

	if got := len(result.Kept) + len(result.Removed); got != len(input) {
		t.Fatalf("kept (%d) + removed (%d) = %d, want %d", len(result.Kept), len(result.Removed), got, len(input))
	}

	seen := map[string]bool{}
	for _, e := range result.Kept {
		if seen[e.PlacementID] {
			t.Errorf("entry %s appears twice in result", e.PlacementID)
		}
		seen[e.PlacementID] = true
	}
	for _, ev := range result.Removed {
		if seen[ev.Removed.PlacementID] {
			t.Errorf("entry %s appears in both kept and removed", ev.Removed.PlacementID)
		}
		seen[ev.Removed.PlacementID] = true
	}
}

func TestPartitionEmptyInput(t *testing.T) {
	result := Partition(nil, DefaultTitleThreshold, DefaultArtistThreshold)

	if len(result.Kept) != 0 || len(result.Removed) != 0 {
		t.Errorf("Partition(nil) = %d kept, %d removed, want 0 and 0", len(result.Kept), len(result.Removed))
	}
	if result.Kept == nil || result.Removed == nil {
		t.Error("Partition should return empty slices, not nil")
	}
}

func TestPartitionExactDuplicate(t *testing.T) {
	input := []Entry{
		entry("v1", "Hey Jude", "The Beatles"),
		entry("v2", "hey jude", "The Beatles"),
		entry("v3", "Let It Be", "The Beatles"),
	}

	result := Partition(input, 0.8, 0.9)
	assertConservation(t, input, result)

	if len(result.Kept) != 2 {
		t.Fatalf("got %d kept entries, want 2", len(result.Kept))
	}
	if result.Kept[0].Title != "Hey Jude" || result.Kept[1].Title != "Let It Be" {
		t.Errorf("kept = [%s, %s], want [Hey Jude, Let It Be]", result.Kept[0].Title, result.Kept[1].Title)
	}

	if len(result.Removed) != 1 {
		t.Fatalf("got %d removed entries, want 1", len(result.Removed))
	}
	ev := result.Removed[0]
	if ev.Removed.Title != "hey jude" || ev.KeptAs.Title != "Hey Jude" {
		t.Errorf("evidence removed=%s keptAs=%s, want hey jude / Hey Jude", ev.Removed.Title, ev.KeptAs.Title)
	}
	if ev.TitleScore != 1.0 || ev.ArtistScore != 1.0 {
		t.Errorf("evidence scores = %v/%v, want 1.0/1.0", ev.TitleScore, ev.ArtistScore)
	}
}

// An entry whose title clears the threshold but whose artist does not must be
// kept: both dimensions have to match independently.
func TestPartitionThresholdConjunction(t *testing.T) {
	input := []Entry{
		entry("v1", "Imagine", "John Lennon"),
		entry("v2", "Imagine", "Various Artists"),
	}

	result := Partition(input, 0.8, 0.9)
	assertConservation(t, input, result)

	if len(result.Kept) != 2 {
		t.Fatalf("got %d kept entries, want 2 (artist mismatch must block removal)", len(result.Kept))
	}
	if len(result.Removed) != 0 {
		t.Errorf("got %d removed entries, want 0", len(result.Removed))
	}
}

// The first kept entry clearing both thresholds wins, even when a later kept
// entry scores higher.
func TestPartitionFirstMatchWins(t *testing.T) {
	// sim("Intro (Extended Club Mix)", "Intro") ≈ 0.33
	// sim("Intro (Extended Club Mix)", "Intro (Extended Club Mix 2004)") ≈ 0.91
	// sim("Intro", "Intro (Extended Club Mix 2004)") ≈ 0.29, so both stay kept
	// at a 0.3 title threshold.
	input := []Entry{
		entry("v1", "Intro", "M83"),
		entry("v2", "Intro (Extended Club Mix 2004)", "M83"),
		entry("v3", "Intro (Extended Club Mix)", "M83"),
	}

	result := Partition(input, 0.3, 0.9)
	assertConservation(t, input, result)

	if len(result.Removed) != 1 {
		t.Fatalf("got %d removed entries, want 1", len(result.Removed))
	}
	ev := result.Removed[0]
	if ev.Removed.VideoID != "v3" {
		t.Fatalf("removed entry = %s, want v3", ev.Removed.VideoID)
	}
	if ev.KeptAs.VideoID != "v1" {
		t.Errorf("keptAs = %s, want v1 (first match wins over the higher-scoring v2)", ev.KeptAs.VideoID)
	}
	if ev.TitleScore != 0.33 {
		t.Errorf("title score = %v, want 0.33 (rounded to two decimals)", ev.TitleScore)
	}
}

func TestPartitionThresholdsAreParameters(t *testing.T) {
	input := []Entry{
		entry("v1", "Wonderwall", "Oasis"),
		entry("v2", "Wonderwall (Remastered)", "Oasis"),
	}

	strict := Partition(input, 0.99, 0.99)
	if len(strict.Removed) != 0 {
		t.Errorf("strict thresholds removed %d entries, want 0", len(strict.Removed))
	}

	loose := Partition(input, 0.5, 0.9)
	if len(loose.Removed) != 1 {
		t.Errorf("loose thresholds removed %d entries, want 1", len(loose.Removed))
	}
}

func TestPartitionKeepsFirstSeenOrder(t *testing.T) {
	input := []Entry{
		entry("v1", "Alpha", "A"),
		entry("v2", "Bravo", "B"),
		entry("v3", "Charlie", "C"),
		entry("v4", "Bravo", "B"),
	}

	result := Partition(input, 0.8, 0.9)
	assertConservation(t, input, result)

	want := []string{"v1", "v2", "v3"}
	for i, id := range want {
		if result.Kept[i].VideoID != id {
			t.Errorf("kept[%d] = %s, want %s", i, result.Kept[i].VideoID, id)
		}
	}
}
