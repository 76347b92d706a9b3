package tasks

import (
	"fmt"

	"github.com/desertthunder/songrec/internal/models"
)

// ProgressUpdate represents a progress event during a recommendation request.
//
// Used to send real-time updates to the CLI or server layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Validate Phase = iota
	Suggest
	Recommend
	ResolveVideos
	Done
)

func (p Phase) String() string {
	switch p {
	case Validate:
		return "validate"
	case Suggest:
		return "suggest"
	case Recommend:
		return "recommend"
	case ResolveVideos:
		return "resolve_videos"
	case Done:
		return "done"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls the pipeline, including
// from the concurrent video resolutions.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func validatingUpdate(input string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Validate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Validating %q...", input),
	}
}

func validatedUpdate(result *models.ValidationResult) ProgressUpdate {
	msg := "Song is valid"
	if !result.IsValid {
		msg = fmt.Sprintf("Song is invalid: %s", result.Reason)
	} else if result.Song != nil {
		msg = fmt.Sprintf("Song is valid: %s", result.Song.Label())
	}
	return ProgressUpdate{
		Phase:   Validate,
		Step:    1,
		Total:   1,
		Message: msg,
		Data:    result,
	}
}

func suggestingUpdate(input string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Suggest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Looking for songs similar to %q...", input),
	}
}

func recommendingUpdate(song models.CanonicalSong) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Recommend,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Generating recommendations for %s...", song.Label()),
	}
}

func resolvingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveVideos,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Resolving %d video links...", total),
	}
}

func resolvedUpdate(step, total int, rec models.Recommendation) ProgressUpdate {
	mark := "✓"
	if !rec.Resolved() {
		mark = "✗"
	}
	return ProgressUpdate{
		Phase:   ResolveVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s - %s", step, total, mark, rec.Artist, rec.Name),
		Data:    rec,
	}
}

func doneUpdate(status int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Finished with status %d", status),
	}
}
