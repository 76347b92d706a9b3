package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/songrec/internal/formatter"
	"github.com/desertthunder/songrec/internal/models"
	"github.com/desertthunder/songrec/internal/tasks"
)

// RenderSet lays out a recommendation set with one block per entry.
func RenderSet(set *models.RecommendationSet) string {
	return styles.RenderSet(set)
}

// RenderFailure lays out a rejected request with its hint and suggestions.
func RenderFailure(f *models.FailureResponse) string {
	return styles.RenderFailure(f)
}

// RenderProgress formats a progress update as a single line.
func RenderProgress(u tasks.ProgressUpdate) string {
	return styles.RenderProgress(u)
}

func (p *Palette) RenderSet(set *models.RecommendationSet) string {
	var b strings.Builder
	b.WriteString(p.Title(fmt.Sprintf("Songs like %s", set.OriginalSong.Label())))
	b.WriteString("\n")

	for i, rec := range set.Recommendations {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, p.OK(rec.Name), rec.Artist)
		if rec.Reason != "" {
			fmt.Fprintf(&b, "   %s\n", p.Help(rec.Reason))
		}
		if rec.Resolved() {
			fmt.Fprintf(&b, "   %s\n", rec.VideoURL)
		} else {
			fmt.Fprintf(&b, "   %s %s\n", p.Warn("search:"), formatter.SearchURL(rec.Name, rec.Artist))
		}
	}
	return b.String()
}

func (p *Palette) RenderFailure(f *models.FailureResponse) string {
	var b strings.Builder
	b.WriteString(p.Err("✗ " + f.Error))
	b.WriteString("\n")

	if f.Suggestion != nil {
		fmt.Fprintf(&b, "  %s\n", p.Warn(*f.Suggestion))
	}
	if len(f.Suggestions) > 0 {
		b.WriteString(p.Help("  Try one of:"))
		b.WriteString("\n")
		for _, s := range f.Suggestions {
			fmt.Fprintf(&b, "    • %s\n", s)
		}
	}
	return b.String()
}

func (p *Palette) RenderProgress(u tasks.ProgressUpdate) string {
	phase := p.Help(fmt.Sprintf("[%s]", u.Phase))
	if u.Phase == tasks.Done {
		return fmt.Sprintf("%s %s", phase, p.OK(u.Message))
	}
	return fmt.Sprintf("%s %s", phase, u.Message)
}
