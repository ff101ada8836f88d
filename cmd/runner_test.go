package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"ytsweep/internal/dedupe"
	"ytsweep/internal/services"
	"ytsweep/internal/shared"
	tu "ytsweep/internal/testing"
)

type fakeCatalog struct {
	info      *services.PlaylistInfo
	entries   []dedupe.Entry
	deleted   []string
	inserted  []string
	searchHit map[dedupe.Query][]dedupe.Candidate
	findID    string
	findErr   error
}

func (f *fakeCatalog) PlaylistInfo(ctx context.Context, playlistID string) (*services.PlaylistInfo, error) {
	return f.info, nil
}

func (f *fakeCatalog) FetchEntries(ctx context.Context, playlistID string) ([]dedupe.Entry, error) {
	return f.entries, nil
}

func (f *fakeCatalog) DeleteEntries(ctx context.Context, placementIDs []string) (int, int) {
	f.deleted = append(f.deleted, placementIDs...)
	return len(placementIDs), 0
}

func (f *fakeCatalog) InsertEntry(ctx context.Context, playlistID, videoID string) error {
	f.inserted = append(f.inserted, videoID)
	return nil
}

func (f *fakeCatalog) CreatePlaylist(ctx context.Context, title, description string) (string, error) {
	return "pl-created", nil
}

func (f *fakeCatalog) FindPlaylist(ctx context.Context, title string) (string, error) {
	if f.findErr != nil {
		return "", f.findErr
	}
	return f.findID, nil
}

func (f *fakeCatalog) SearchCandidates(ctx context.Context, q dedupe.Query) ([]dedupe.Candidate, error) {
	return f.searchHit[q], nil
}

func testRunner(t *testing.T, catalog *fakeCatalog, input string) (*Runner, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Reports.Dir = t.TempDir()
	config.Database.Path = ":memory:"
	config.Importer.SearchIntervalMS = 0

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:   config,
		Logger:   shared.NewLogger(output),
		Output:   output,
		Input:    strings.NewReader(input),
		Source:   catalog,
		Mutator:  catalog,
		Searcher: catalog,
	})

	return runner, output
}

func runCommand(t *testing.T, r *Runner, args ...string) error {
	t.Helper()

	app := newApp(r)
	return app.Run(context.Background(), append([]string{"ytsweep"}, args...))
}

func TestNewRunnerDefaults(t *testing.T) {
	runner := NewRunner(RunnerOpts{})

	if runner.config == nil {
		t.Error("expected default config to be set")
	}
	if runner.logger == nil {
		t.Error("expected default logger to be set")
	}
	if runner.output != os.Stdout {
		t.Error("expected output to default to os.Stdout")
	}
}

func TestPrompt(t *testing.T) {
	runner, output := testRunner(t, &fakeCatalog{}, "  PLxyz  \n")

	answer, err := runner.prompt("Playlist ID: ")
	if err != nil {
		t.Fatalf("prompt returned error: %v", err)
	}

	if answer != "PLxyz" {
		t.Errorf("answer = %q, want %q", answer, "PLxyz")
	}
	if !strings.Contains(output.String(), "Playlist ID: ") {
		t.Errorf("expected label in output, got %q", output.String())
	}
}

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"anything\n", false},
	}

	for _, tt := range tests {
		runner, _ := testRunner(t, &fakeCatalog{}, tt.input)

		got, err := runner.promptYesNo("Continue? [y/N] ")
		if err != nil {
			t.Fatalf("promptYesNo(%q) returned error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("promptYesNo(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDedupeCommandReportOnly(t *testing.T) {
	catalog := &fakeCatalog{
		info: &services.PlaylistInfo{ID: "pl1", Title: "Liked Music", ItemCount: 3},
		entries: []dedupe.Entry{
			{VideoID: "v1", PlacementID: "p1", Title: "Hey Jude", Artist: "The Beatles"},
			{VideoID: "v2", PlacementID: "p2", Title: "Hey Jude", Artist: "The Beatles"},
			{VideoID: "v3", PlacementID: "p3", Title: "Take Five", Artist: "Dave Brubeck"},
		},
	}

	runner, output := testRunner(t, catalog, "y\n")

	if err := runCommand(t, runner, "dedupe", "--playlist", "pl1"); err != nil {
		t.Fatalf("dedupe returned error: %v", err)
	}

	text := output.String()
	if !strings.Contains(text, "Duplicates Found") {
		t.Errorf("expected duplicate listing, got:\n%s", text)
	}
	if !strings.Contains(text, "--apply") {
		t.Errorf("expected apply hint, got:\n%s", text)
	}
	if len(catalog.deleted) != 0 {
		t.Errorf("report-only run must not delete, got %v", catalog.deleted)
	}

	tu.AssertFileExists(t, runner.config.Reports.Dir+"/playlist_songs.json")
	tu.AssertFileExists(t, runner.config.Reports.Dir+"/playlist_songs_removed.json")
}

func TestDedupeCommandApplyConfirmed(t *testing.T) {
	catalog := &fakeCatalog{
		info: &services.PlaylistInfo{ID: "pl1", Title: "Liked Music", ItemCount: 2},
		entries: []dedupe.Entry{
			{VideoID: "v1", PlacementID: "p1", Title: "Hey Jude", Artist: "The Beatles"},
			{VideoID: "v2", PlacementID: "p2", Title: "Hey Jude", Artist: "The Beatles"},
		},
	}

	runner, output := testRunner(t, catalog, "y\ny\n")

	if err := runCommand(t, runner, "dedupe", "--playlist", "pl1", "--apply"); err != nil {
		t.Fatalf("dedupe returned error: %v", err)
	}

	if len(catalog.deleted) != 1 || catalog.deleted[0] != "p2" {
		t.Errorf("expected p2 deleted, got %v", catalog.deleted)
	}
	if !strings.Contains(output.String(), "Removed 1 duplicates") {
		t.Errorf("expected removal summary, got:\n%s", output.String())
	}
}

func TestDedupeCommandApplyDeclined(t *testing.T) {
	catalog := &fakeCatalog{
		info: &services.PlaylistInfo{ID: "pl1", Title: "Liked Music", ItemCount: 2},
		entries: []dedupe.Entry{
			{VideoID: "v1", PlacementID: "p1", Title: "Hey Jude", Artist: "The Beatles"},
			{VideoID: "v2", PlacementID: "p2", Title: "Hey Jude", Artist: "The Beatles"},
		},
	}

	runner, output := testRunner(t, catalog, "y\nn\n")

	if err := runCommand(t, runner, "dedupe", "--playlist", "pl1", "--apply"); err != nil {
		t.Fatalf("dedupe returned error: %v", err)
	}

	if len(catalog.deleted) != 0 {
		t.Errorf("declined run must not delete, got %v", catalog.deleted)
	}
	if !strings.Contains(output.String(), "Aborted") {
		t.Errorf("expected abort message, got:\n%s", output.String())
	}
}

func TestDedupeCommandPromptsForPlaylist(t *testing.T) {
	catalog := &fakeCatalog{
		info:    &services.PlaylistInfo{ID: "pl1", Title: "Liked Music"},
		entries: []dedupe.Entry{},
	}

	runner, output := testRunner(t, catalog, "pl1\ny\n")

	if err := runCommand(t, runner, "dedupe"); err != nil {
		t.Fatalf("dedupe returned error: %v", err)
	}

	if !strings.Contains(output.String(), "No duplicates found") {
		t.Errorf("expected empty-playlist message, got:\n%s", output.String())
	}
}

func TestDedupeCommandSearchDeclined(t *testing.T) {
	catalog := &fakeCatalog{
		info: &services.PlaylistInfo{ID: "pl1", Title: "Liked Music"},
	}

	runner, output := testRunner(t, catalog, "n\n")

	if err := runCommand(t, runner, "dedupe", "--playlist", "pl1"); err != nil {
		t.Fatalf("dedupe returned error: %v", err)
	}

	if !strings.Contains(output.String(), "Aborted") {
		t.Errorf("expected abort message, got:\n%s", output.String())
	}
	if strings.Contains(output.String(), "Saved playlist snapshot") {
		t.Error("declined search must not fetch the playlist")
	}
}

func TestSetupDatabaseCommand(t *testing.T) {
	runner, _ := testRunner(t, &fakeCatalog{}, "")

	dir := t.TempDir()
	configPath := dir + "/config.toml"
	tu.MustWriteFile(t, configPath, "[database]\npath = \""+dir+"/cache.db\"\n")

	if err := runCommand(t, runner, "setup", "database", "--config", configPath); err != nil {
		t.Fatalf("setup returned error: %v", err)
	}

	tu.AssertFileExists(t, dir+"/cache.db")
}

func TestImportCommand(t *testing.T) {
	catalog := &fakeCatalog{
		findID: "pl-dest",
		searchHit: map[dedupe.Query][]dedupe.Candidate{
			{Title: "Hey Jude", Artist: "The Beatles"}: {
				{VideoID: "v1", Title: "Hey Jude", Channel: "The Beatles"},
			},
		},
	}

	runner, output := testRunner(t, catalog, "")

	dir := t.TempDir()
	file := dir + "/shazamlibrary.csv"
	tu.MustWriteFile(t, file, "Index,Date,Title,Artist\n1,2024-01-01,Hey Jude,The Beatles\n")

	if err := runCommand(t, runner, "import", "--file", file); err != nil {
		t.Fatalf("import returned error: %v", err)
	}

	if len(catalog.inserted) != 1 || catalog.inserted[0] != "v1" {
		t.Errorf("expected v1 inserted, got %v", catalog.inserted)
	}
	if !strings.Contains(output.String(), "Import Complete") {
		t.Errorf("expected import summary, got:\n%s", output.String())
	}
}
