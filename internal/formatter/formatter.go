// package formatter renders recommendation sets as CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/desertthunder/songrec/internal/models"
	"github.com/desertthunder/songrec/internal/shared"
)

// Supported export formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

const searchBaseURL = "https://www.youtube.com/results"

// SearchURL builds a YouTube search link for a song.
func SearchURL(title, artist string) string {
	q := strings.TrimSpace(title + " " + artist)
	return searchBaseURL + "?" + url.Values{"search_query": {q}}.Encode()
}

// LinkFor returns the confirmed video link of rec, falling back to a search link when unresolved.
func LinkFor(rec models.Recommendation) string {
	if rec.Resolved() {
		return rec.VideoURL
	}
	return SearchURL(rec.Name, rec.Artist)
}

// ExportToCSV converts a RecommendationSet to CSV format with columns: Rank, Name, Artist, Reason, Video URL, Confirmed
func ExportToCSV(set *models.RecommendationSet) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "Name", "Artist", "Reason", "Video URL", "Confirmed"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, rec := range set.Recommendations {
		record := []string{
			fmt.Sprint(i + 1),
			rec.Name,
			rec.Artist,
			rec.Reason,
			LinkFor(rec),
			fmt.Sprint(rec.Resolved()),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a RecommendationSet to Markdown with one linked entry per recommendation
func ExportToMarkdown(set *models.RecommendationSet) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Songs like %s\n\n", set.OriginalSong.Label()))
	buf.WriteString(fmt.Sprintf("**Recommendations**: %d\n\n", len(set.Recommendations)))

	for i, rec := range set.Recommendations {
		label := "Watch"
		if !rec.Resolved() {
			label = "Search"
		}
		buf.WriteString(fmt.Sprintf("%d. **%s** - %s [%s](%s)\n", i+1, rec.Name, rec.Artist, label, LinkFor(rec)))
		if rec.Reason != "" {
			buf.WriteString(fmt.Sprintf("   - %s\n", rec.Reason))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a RecommendationSet to plain text format
func ExportToText(set *models.RecommendationSet) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Songs like: %s\n", set.OriginalSong.Label()))
	buf.WriteString(fmt.Sprintf("Recommendations: %d\n\n", len(set.Recommendations)))

	for i, rec := range set.Recommendations {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, rec.Artist, rec.Name))
		if rec.Reason != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", rec.Reason))
		}
		buf.WriteString(fmt.Sprintf("   %s\n", LinkFor(rec)))
	}

	return buf.Bytes(), nil
}

// Export renders set in the named format.
func Export(set *models.RecommendationSet, format string, pretty bool) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText, "txt":
		return ExportToText(set)
	case FormatMarkdown, "md":
		return ExportToMarkdown(set)
	case FormatCSV:
		return ExportToCSV(set)
	case FormatJSON:
		return shared.MarshalJSON(set, pretty)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidInput, format)
	}
}

// WriteExport writes set to path in the named format.
func WriteExport(set *models.RecommendationSet, format, path string) error {
	data, err := Export(set, format, true)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return nil
}
