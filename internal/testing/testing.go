// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
)

// ScriptedReply is one canned answer of a [FakeModel].
type ScriptedReply struct {
	Match string // Substring the prompt must contain; empty matches any prompt
	Text  string
	Err   error
}

// FakeModel is a test double for [services.TextModel] that answers prompts from a script.
//
// Replies are checked in order and the first whose Match is contained in the prompt wins.
// Prompts matching nothing fail with [ErrUnscripted].
type FakeModel struct {
	Replies []ScriptedReply

	mu      sync.Mutex
	prompts []string
}

// ErrUnscripted is returned by [FakeModel] for prompts the script does not cover.
var ErrUnscripted = errors.New("unscripted prompt")

// NewFakeModel creates a [FakeModel] with the given replies.
func NewFakeModel(replies ...ScriptedReply) *FakeModel {
	return &FakeModel{Replies: replies}
}

func (m *FakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	for _, r := range m.Replies {
		if r.Match == "" || strings.Contains(prompt, r.Match) {
			return r.Text, r.Err
		}
	}
	return "", ErrUnscripted
}

func (m *FakeModel) Name() string { return "fake" }

// Prompts returns every prompt received so far.
func (m *FakeModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Calls returns the number of prompts received so far.
func (m *FakeModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// FakeConfirmer is a test double for [services.LinkConfirmer].
//
// IDs listed in Known are confirmed, IDs listed in Errors fail, everything else falls back to Default.
type FakeConfirmer struct {
	Known   map[string]bool
	Errors  map[string]error
	Default bool

	mu    sync.Mutex
	calls []string
}

func (c *FakeConfirmer) ConfirmExists(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	c.calls = append(c.calls, id)
	c.mu.Unlock()

	if err, ok := c.Errors[id]; ok {
		return false, err
	}
	if ok, found := c.Known[id]; found {
		return ok, nil
	}
	return c.Default, nil
}

// Calls returns the ids that were looked up.
func (c *FakeConfirmer) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}
