package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/songrec/internal/models"
	tu "github.com/desertthunder/songrec/internal/testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		link   string
		wantID string
		wantOK bool
	}{
		{name: "watch", link: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "watch with extra params", link: "https://youtube.com/watch?list=PL1&v=dQw4w9WgXcQ&t=42", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "mobile", link: "https://m.youtube.com/watch?v=abc_DEF-123", wantID: "abc_DEF-123", wantOK: true},
		{name: "music", link: "https://music.youtube.com/watch?v=abc123", wantID: "abc123", wantOK: true},
		{name: "short link", link: "https://youtu.be/dQw4w9WgXcQ?si=xyz", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "embed", link: "https://www.youtube.com/embed/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "legacy", link: "https://www.youtube.com/v/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "shorts", link: "https://youtube.com/shorts/abc123", wantID: "abc123", wantOK: true},
		{name: "no scheme", link: "youtube.com/watch?v=abc123", wantID: "abc123", wantOK: true},
		{name: "sentinel", link: models.UnresolvedVideoURL, wantOK: false},
		{name: "other host", link: "https://vimeo.com/12345", wantOK: false},
		{name: "channel page", link: "https://www.youtube.com/@someone", wantOK: false},
		{name: "garbage", link: "I could not find it", wantOK: false},
		{name: "invalid id characters", link: "https://youtu.be/abc$def", wantOK: false},
		{name: "empty", link: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractVideoID(tt.link)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("ExtractVideoID(%q) = (%q, %v), want (%q, %v)", tt.link, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestLinkResolver(t *testing.T) {
	ctx := context.Background()
	const link = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

	t.Run("Propose strips formatting", func(t *testing.T) {
		replies := []string{
			link,
			"```\n" + link + "\n```",
			"`" + link + "`",
			"<" + link + ">",
			"\"" + link + "\"",
			"Here is the link: " + link,
		}
		for _, reply := range replies {
			model := tu.NewFakeModel(tu.ScriptedReply{Text: reply})
			got, err := NewLinkResolver(model, &tu.FakeConfirmer{}, nil).Propose(ctx, "Never Gonna Give You Up", "Rick Astley")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != link {
				t.Errorf("Propose for reply %q = %q, want %q", reply, got, link)
			}
		}
	})

	t.Run("Propose passes model errors through", func(t *testing.T) {
		model := tu.NewFakeModel(tu.ScriptedReply{Err: errors.New("quota")})
		if _, err := NewLinkResolver(model, &tu.FakeConfirmer{}, nil).Propose(ctx, "a", "b"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("Confirm", func(t *testing.T) {
		confirmer := &tu.FakeConfirmer{
			Known:  map[string]bool{"dQw4w9WgXcQ": true, "gone": false},
			Errors: map[string]error{"broken": errors.New("lookup returned HTML")},
		}
		resolver := NewLinkResolver(tu.NewFakeModel(), confirmer, nil)

		cases := map[string]bool{
			link:                              true,
			"https://youtu.be/gone":           false,
			"https://youtu.be/broken":         false,
			models.UnresolvedVideoURL:         false,
			"not a link":                      false,
			"https://youtu.be/unknownToCheck": false,
		}
		for candidate, want := range cases {
			if got := resolver.Confirm(ctx, candidate); got != want {
				t.Errorf("Confirm(%q) = %v, want %v", candidate, got, want)
			}
		}

		for _, id := range confirmer.Calls() {
			if id == "" {
				t.Error("confirmer called with an empty id")
			}
		}
	})

	t.Run("Resolve returns confirmed links only", func(t *testing.T) {
		model := tu.NewFakeModel(
			tu.ScriptedReply{Match: `"Known Song"`, Text: link},
			tu.ScriptedReply{Match: `"Unknown Song"`, Text: "https://youtu.be/missing1"},
			tu.ScriptedReply{Match: `"Broken Song"`, Err: errors.New("timeout")},
		)
		confirmer := &tu.FakeConfirmer{Known: map[string]bool{"dQw4w9WgXcQ": true}}
		resolver := NewLinkResolver(model, confirmer, nil)

		if got := resolver.Resolve(ctx, "Known Song", "Artist"); got != link {
			t.Errorf("expected confirmed link, got %q", got)
		}
		if got := resolver.Resolve(ctx, "Unknown Song", "Artist"); got != models.UnresolvedVideoURL {
			t.Errorf("expected sentinel for unconfirmed link, got %q", got)
		}
		if got := resolver.Resolve(ctx, "Broken Song", "Artist"); got != models.UnresolvedVideoURL {
			t.Errorf("expected sentinel for model failure, got %q", got)
		}
	})

	t.Run("sentinel proposal skips the lookup", func(t *testing.T) {
		model := tu.NewFakeModel(tu.ScriptedReply{Text: models.UnresolvedVideoURL})
		confirmer := &tu.FakeConfirmer{Default: true}
		got := NewLinkResolver(model, confirmer, nil).Resolve(ctx, "Obscure", "Nobody")
		if got != models.UnresolvedVideoURL {
			t.Errorf("expected sentinel, got %q", got)
		}
		if n := len(confirmer.Calls()); n != 0 {
			t.Errorf("expected no lookups, got %d", n)
		}
	})
}
