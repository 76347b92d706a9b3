package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/songrec/internal/models"
	"github.com/desertthunder/songrec/internal/shared"
	tu "github.com/desertthunder/songrec/internal/testing"
)

const suggestMarker = "could not be verified"

const imagineVerdict = `{"isValid": true, "songName": "Imagine", "artist": "John Lennon", "reason": "Classic song"}`

func newTestOrchestrator(model *tu.FakeModel, confirmer *tu.FakeConfirmer) *Orchestrator {
	return NewOrchestrator(model, confirmer, Options{RequestTimeout: 5 * time.Second})
}

func TestOrchestratorHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("blank input makes no external calls", func(t *testing.T) {
		for _, input := range []string{"", "   ", "\t\n"} {
			model := tu.NewFakeModel(tu.ScriptedReply{Text: imagineVerdict})
			confirmer := &tu.FakeConfirmer{Default: true}

			outcome := newTestOrchestrator(model, confirmer).Handle(ctx, input, nil)
			if outcome.Status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", outcome.Status)
			}
			if outcome.Failure == nil || outcome.Failure.Error != EmptyInputMessage {
				t.Errorf("unexpected failure: %+v", outcome.Failure)
			}
			if !errors.Is(outcome.Err, shared.ErrEmptyInput) {
				t.Errorf("expected ErrEmptyInput, got %v", outcome.Err)
			}
			if model.Calls() != 0 || len(confirmer.Calls()) != 0 {
				t.Errorf("expected no external calls, got %d model and %d lookups", model.Calls(), len(confirmer.Calls()))
			}
		}
	})

	t.Run("valid song yields five confirmed recommendations", func(t *testing.T) {
		model := tu.NewFakeModel(
			tu.ScriptedReply{Match: validateMarker, Text: imagineVerdict},
			tu.ScriptedReply{Match: recommendMarker, Text: recommendationsJSON(5)},
			tu.ScriptedReply{Match: `"Song 1"`, Text: "https://www.youtube.com/watch?v=one"},
			tu.ScriptedReply{Match: `"Song 2"`, Text: "https://youtu.be/two"},
			tu.ScriptedReply{Match: `"Song 3"`, Text: "https://www.youtube.com/watch?v=three"},
			tu.ScriptedReply{Match: `"Song 4"`, Text: "https://www.youtube.com/watch?v=four"},
			tu.ScriptedReply{Match: `"Song 5"`, Text: "https://www.youtube.com/watch?v=five"},
		)
		confirmer := &tu.FakeConfirmer{Default: true}

		outcome := newTestOrchestrator(model, confirmer).Handle(ctx, "imagine", nil)
		if outcome.Status != http.StatusOK {
			t.Fatalf("status = %d, want 200 (err: %v)", outcome.Status, outcome.Err)
		}
		set := outcome.Set
		if set.OriginalSong.Title != "Imagine" || set.OriginalSong.Artist != "John Lennon" {
			t.Errorf("unexpected original song: %+v", set.OriginalSong)
		}
		if len(set.Recommendations) != 5 {
			t.Fatalf("expected 5 recommendations, got %d", len(set.Recommendations))
		}
		for _, rec := range set.Recommendations {
			if !rec.Resolved() {
				t.Errorf("expected %q to have a confirmed link", rec.Name)
			}
		}
		if got := set.Recommendations[1].VideoURL; got != "https://youtu.be/two" {
			t.Errorf("expected the proposed link to be returned as is, got %q", got)
		}
	})

	t.Run("typo yields 400 with hint and suggestions", func(t *testing.T) {
		model := tu.NewFakeModel(
			tu.ScriptedReply{Match: validateMarker, Text: imagineVerdict},
			tu.ScriptedReply{Match: suggestMarker, Text: `["Imagine", "Imagination", "Image"]`},
		)

		outcome := newTestOrchestrator(model, &tu.FakeConfirmer{}).Handle(ctx, "Imagne", nil)
		if outcome.Status != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", outcome.Status)
		}
		failure := outcome.Failure
		if failure.Error != "Invalid song: "+TypoMismatchReason {
			t.Errorf("error = %q", failure.Error)
		}
		if failure.Suggestion == nil || *failure.Suggestion != `Did you mean "Imagine" by John Lennon?` {
			t.Errorf("unexpected suggestion: %v", failure.Suggestion)
		}
		if len(failure.Suggestions) != 3 || failure.Suggestions[0] != "Imagine" {
			t.Errorf("unexpected suggestions: %v", failure.Suggestions)
		}
		if !errors.Is(outcome.Err, shared.ErrInvalidSong) {
			t.Errorf("expected ErrInvalidSong, got %v", outcome.Err)
		}
	})

	t.Run("invalid song without a match has a null hint", func(t *testing.T) {
		model := tu.NewFakeModel(
			tu.ScriptedReply{Match: validateMarker, Text: `{"isValid": false, "songName": null, "artist": null, "reason": "Not a song"}`},
			tu.ScriptedReply{Match: suggestMarker, Err: errors.New("quota exceeded")},
		)

		outcome := newTestOrchestrator(model, &tu.FakeConfirmer{}).Handle(ctx, "qwertyuiop", nil)
		if outcome.Status != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", outcome.Status)
		}

		body, err := json.Marshal(outcome.Body())
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		want := `{"error":"Invalid song: Not a song","suggestion":null,"suggestions":[]}`
		if string(body) != want {
			t.Errorf("body = %s, want %s", body, want)
		}
	})

	t.Run("hint without artist omits the by clause", func(t *testing.T) {
		model := tu.NewFakeModel(
			tu.ScriptedReply{Match: validateMarker, Text: `{"isValid": false, "songName": "Greensleeves", "reason": "Misspelled"}`},
			tu.ScriptedReply{Match: suggestMarker, Text: `[]`},
		)
		outcome := newTestOrchestrator(model, &tu.FakeConfirmer{}).Handle(ctx, "grensleves", nil)
		if outcome.Failure.Suggestion == nil || *outcome.Failure.Suggestion != `Did you mean "Greensleeves"?` {
			t.Errorf("unexpected suggestion: %v", outcome.Failure.Suggestion)
		}
	})

	t.Run("confirmer rejecting everything still succeeds", func(t *testing.T) {
		model := tu.NewFakeModel(
			tu.ScriptedReply{Match: validateMarker, Text: imagineVerdict},
			tu.ScriptedReply{Match: recommendMarker, Text: recommendationsJSON(5)},
			tu.ScriptedReply{Text: "https://www.youtube.com/watch?v=abc123"},
		)
		confirmer := &tu.FakeConfirmer{Default: false}

		outcome := newTestOrchestrator(model, confirmer).Handle(ctx, "imagine", nil)
		if outcome.Status != http.StatusOK {
			t.Fatalf("status = %d, want 200", outcome.Status)
		}
		for _, rec := range outcome.Set.Recommendations {
			if rec.VideoURL != models.UnresolvedVideoURL {
				t.Errorf("expected sentinel for %q, got %q", rec.Name, rec.VideoURL)
			}
		}
	})

	t.Run("one failing resolution does not affect the others", func(t *testing.T) {
		model := tu.NewFakeModel(
			tu.ScriptedReply{Match: validateMarker, Text: imagineVerdict},
			tu.ScriptedReply{Match: recommendMarker, Text: recommendationsJSON(5)},
			tu.ScriptedReply{Match: `"Song 3"`, Err: errors.New("model hiccup")},
			tu.ScriptedReply{Text: "https://www.youtube.com/watch?v=abc123"},
		)
		confirmer := &tu.FakeConfirmer{Default: true}

		outcome := newTestOrchestrator(model, confirmer).Handle(ctx, "imagine", nil)
		if outcome.Status != http.StatusOK {
			t.Fatalf("status = %d, want 200", outcome.Status)
		}
		for i, rec := range outcome.Set.Recommendations {
			if i == 2 {
				if rec.Resolved() {
					t.Errorf("expected entry 3 to be unresolved, got %q", rec.VideoURL)
				}
				continue
			}
			if !rec.Resolved() {
				t.Errorf("expected entry %d to be resolved", i+1)
			}
		}
	})

	t.Run("validator failure is a server error", func(t *testing.T) {
		model := tu.NewFakeModel(tu.ScriptedReply{Match: validateMarker, Err: errors.New("unavailable")})
		outcome := newTestOrchestrator(model, &tu.FakeConfirmer{}).Handle(ctx, "Imagine", nil)
		if outcome.Status != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", outcome.Status)
		}
		if !strings.HasPrefix(outcome.Failure.Error, "Failed to validate song: ") {
			t.Errorf("error = %q", outcome.Failure.Error)
		}
		if _, ok := outcome.Body().(models.ErrorResponse); !ok {
			t.Errorf("expected an ErrorResponse body, got %T", outcome.Body())
		}
	})

	t.Run("malformed verdict is a server error", func(t *testing.T) {
		model := tu.NewFakeModel(tu.ScriptedReply{Match: validateMarker, Text: "I think so!"})
		outcome := newTestOrchestrator(model, &tu.FakeConfirmer{}).Handle(ctx, "Imagine", nil)
		if outcome.Status != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", outcome.Status)
		}
		if !errors.Is(outcome.Err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", outcome.Err)
		}
	})

	t.Run("recommendation failure is a server error", func(t *testing.T) {
		model := tu.NewFakeModel(
			tu.ScriptedReply{Match: validateMarker, Text: imagineVerdict},
			tu.ScriptedReply{Match: recommendMarker, Err: errors.New("overloaded")},
		)
		outcome := newTestOrchestrator(model, &tu.FakeConfirmer{}).Handle(ctx, "imagine", nil)
		if outcome.Status != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", outcome.Status)
		}
		if !strings.HasPrefix(outcome.Failure.Error, "Failed to generate recommendations: ") {
			t.Errorf("error = %q", outcome.Failure.Error)
		}
		body, _ := json.Marshal(outcome.Body())
		if strings.Contains(string(body), "suggestions") {
			t.Errorf("server error body should only carry the message: %s", body)
		}
	})

	t.Run("missing song name falls back to the input", func(t *testing.T) {
		model := tu.NewFakeModel(
			tu.ScriptedReply{Match: validateMarker, Text: `{"isValid": true, "songName": null, "artist": null, "reason": "ok"}`},
			tu.ScriptedReply{Match: recommendMarker, Text: recommendationsJSON(5)},
			tu.ScriptedReply{Text: models.UnresolvedVideoURL},
		)
		outcome := newTestOrchestrator(model, &tu.FakeConfirmer{}).Handle(ctx, "Some Song", nil)
		if outcome.Status != http.StatusOK {
			t.Fatalf("status = %d, want 200", outcome.Status)
		}
		if got := outcome.Set.OriginalSong; got.Title != "Some Song" || got.Artist != models.UnknownArtist {
			t.Errorf("unexpected original song: %+v", got)
		}
	})

	t.Run("progress ends with done", func(t *testing.T) {
		model := tu.NewFakeModel(
			tu.ScriptedReply{Match: validateMarker, Text: imagineVerdict},
			tu.ScriptedReply{Match: recommendMarker, Text: recommendationsJSON(5)},
			tu.ScriptedReply{Text: models.UnresolvedVideoURL},
		)
		progress := make(chan ProgressUpdate, 64)
		newTestOrchestrator(model, &tu.FakeConfirmer{}).Handle(ctx, "imagine", progress)
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}
		if len(phases) == 0 || phases[0] != Validate || phases[len(phases)-1] != Done {
			t.Errorf("unexpected phase sequence: %v", phases)
		}
	})

	t.Run("unread progress channel does not block", func(t *testing.T) {
		model := tu.NewFakeModel(
			tu.ScriptedReply{Match: validateMarker, Text: imagineVerdict},
			tu.ScriptedReply{Match: recommendMarker, Text: recommendationsJSON(5)},
			tu.ScriptedReply{Text: models.UnresolvedVideoURL},
		)
		progress := make(chan ProgressUpdate)

		done := make(chan *Outcome, 1)
		go func() { done <- newTestOrchestrator(model, &tu.FakeConfirmer{}).Handle(ctx, "imagine", progress) }()

		select {
		case outcome := <-done:
			if outcome.Status != http.StatusOK {
				t.Errorf("status = %d, want 200", outcome.Status)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Handle blocked on the progress channel")
		}
	})
}
