package archive

import (
	"os"
	"path/filepath"
	"testing"
)

func tempArchive(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "papers.jsonl")
}

func TestCitationsPerYear(t *testing.T) {
	tests := []struct {
		name          string
		cited         int
		pubYear       int
		referenceYear int
		want          float64
	}{
		{"typical", 10, 2020, 2026, 1.67},
		{"published in reference year", 7, 2026, 2026, 7},
		{"published after reference year", 3, 2027, 2026, 3},
		{"zero citations", 0, 2015, 2026, 0},
		{"rounding", 100, 2023, 2026, 33.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CitationsPerYear(tt.cited, tt.pubYear, tt.referenceYear)
			if got != tt.want {
				t.Errorf("CitationsPerYear(%d, %d, %d) = %v, want %v",
					tt.cited, tt.pubYear, tt.referenceYear, got, tt.want)
			}
		})
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	path := tempArchive(t)
	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	entry := Entry{
		AuthorID:   "https://openalex.org/A1",
		AuthorName: "Ada Lovelace",
		Papers: []PaperRecord{
			{ID: "https://openalex.org/W1", Title: "First", PublicationYear: 2020, CitedByCount: 10, CitationsPerYr: 1.67},
			{ID: "https://openalex.org/W2", Title: "Second", PublicationYear: 2022, CitedByCount: 4, CitationsPerYr: 1},
		},
	}
	if err := a.Put(entry); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := a.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	a2, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, ok := a2.Get("https://openalex.org/A1")
	if !ok {
		t.Fatal("Get() not found after reload")
	}
	if len(got.Papers) != 2 {
		t.Fatalf("len(Papers) = %d, want 2", len(got.Papers))
	}
	// Fetch order preserved
	if got.Papers[0].ID != "https://openalex.org/W1" || got.Papers[1].ID != "https://openalex.org/W2" {
		t.Errorf("paper order changed across save/load: %v", got.Papers)
	}
}

func TestPut_RejectsDuplicate(t *testing.T) {
	a, _ := Load(tempArchive(t))

	e := Entry{AuthorID: "https://openalex.org/A1", AuthorName: "X"}
	if err := a.Put(e); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := a.Put(e); err == nil {
		t.Error("Put() accepted a duplicate author entry")
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d, want 1", a.Len())
	}
}

func TestPut_EmptyPapersAllowed(t *testing.T) {
	a, _ := Load(tempArchive(t))

	// Authors with zero matching papers still get an entry, which keeps
	// ingestion idempotent for them.
	if err := a.Put(Entry{AuthorID: "https://openalex.org/A1", AuthorName: "X"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !a.Has("https://openalex.org/A1") {
		t.Error("Has() = false for zero-paper entry")
	}
}

func TestLoad_CorruptFileQuarantined(t *testing.T) {
	path := tempArchive(t)
	if err := os.WriteFile(path, []byte("{\"author_id\": broken\n"), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v (corrupt archive should reinitialize, not fail)", err)
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after reinitialization", a.Len())
	}
	if a.Quarantined() == "" {
		t.Error("Quarantined() empty, want path of moved file")
	}
	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Errorf("corrupt file not preserved: %v", err)
	}
}
