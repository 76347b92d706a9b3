package formatter

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/songrec/internal/models"
	"github.com/desertthunder/songrec/internal/shared"
)

func testSet() *models.RecommendationSet {
	return &models.RecommendationSet{
		OriginalSong: models.CanonicalSong{Title: "Imagine", Artist: "John Lennon"},
		Recommendations: []models.Recommendation{
			{Name: "Let It Be", Artist: "The Beatles", Reason: "Same era, piano led", VideoURL: "https://www.youtube.com/watch?v=abc123"},
			{Name: "Heal the World", Artist: "Michael Jackson", Reason: "Hopeful, message driven", VideoURL: models.UnresolvedVideoURL},
		},
	}
}

func TestLinks(t *testing.T) {
	t.Run("SearchURL", func(t *testing.T) {
		got := SearchURL("Heal the World", "Michael Jackson")
		want := "https://www.youtube.com/results?search_query=Heal+the+World+Michael+Jackson"
		if got != want {
			t.Errorf("SearchURL = %q, want %q", got, want)
		}
	})

	t.Run("LinkFor", func(t *testing.T) {
		set := testSet()
		if got := LinkFor(set.Recommendations[0]); got != "https://www.youtube.com/watch?v=abc123" {
			t.Errorf("expected confirmed link, got %q", got)
		}
		if got := LinkFor(set.Recommendations[1]); !strings.HasPrefix(got, searchBaseURL) {
			t.Errorf("expected search fallback, got %q", got)
		}
	})
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testSet())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header and 2 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "Rank,Name,Artist,Reason,Video URL,Confirmed" {
			t.Errorf("unexpected headers: %v", records[0])
		}
		if records[1][2] != "The Beatles" || records[1][5] != "true" {
			t.Errorf("unexpected first row: %v", records[1])
		}
		if records[2][3] != "Hopeful, message driven" || records[2][5] != "false" {
			t.Errorf("unexpected second row: %v", records[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testSet())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "# Songs like Imagine by John Lennon\n") {
			t.Errorf("unexpected heading: %s", output)
		}
		if !strings.Contains(output, "1. **Let It Be** - The Beatles [Watch](https://www.youtube.com/watch?v=abc123)") {
			t.Errorf("missing resolved entry: %s", output)
		}
		if !strings.Contains(output, "2. **Heal the World** - Michael Jackson [Search](") {
			t.Errorf("missing search fallback: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testSet())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		output := string(data)

		if !strings.Contains(output, "Songs like: Imagine by John Lennon") {
			t.Errorf("missing header: %s", output)
		}
		if !strings.Contains(output, "1. The Beatles - Let It Be") {
			t.Errorf("missing first entry: %s", output)
		}
		if !strings.Contains(output, "Recommendations: 2") {
			t.Errorf("missing count: %s", output)
		}
	})

	t.Run("Export", func(t *testing.T) {
		for _, format := range []string{"", "text", "txt", "markdown", "md", "csv", "json", "JSON"} {
			if _, err := Export(testSet(), format, false); err != nil {
				t.Errorf("Export(%q) failed: %v", format, err)
			}
		}

		if _, err := Export(testSet(), "yaml", false); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Export JSON keeps wire names", func(t *testing.T) {
		data, err := Export(testSet(), FormatJSON, false)
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		for _, key := range []string{`"originalSong"`, `"videoUrl"`, `"recommendations"`} {
			if !strings.Contains(string(data), key) {
				t.Errorf("JSON missing %s: %s", key, data)
			}
		}
	})
}

func TestWriteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recs.md")
	if err := WriteExport(testSet(), FormatMarkdown, path); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if !strings.Contains(string(data), "# Songs like Imagine") {
		t.Errorf("unexpected file contents: %s", data)
	}

	if err := WriteExport(testSet(), FormatText, filepath.Join(t.TempDir(), "missing", "recs.txt")); err == nil {
		t.Error("expected error for a missing directory")
	}
}
