package tasks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/songrec/internal/shared"
	"github.com/tidwall/gjson"
)

// fencePattern matches the first fenced block, with an optional language tag on the opening line.
var fencePattern = regexp.MustCompile("(?s)```(?:[A-Za-z0-9_+-]*[ \\t]*\\r?\\n|json\\b|JSON\\b)?\\s*(.*?)\\s*```")

// Extract strips incidental formatting from model output.
//
// When a fenced block is present its trimmed inner content is returned, otherwise the
// trimmed input. An opening fence that is never closed (a truncated reply) is dropped
// together with its tag line.
func Extract(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
			return strings.TrimSpace(trimmed[i+1:])
		}
		return strings.TrimSpace(strings.TrimLeft(trimmed, "`"))
	}
	return trimmed
}

// decodeObject extracts and parses model output that must be a JSON object.
func decodeObject(text string) (gjson.Result, error) {
	return decode(text, '{', '}')
}

// decodeArray extracts and parses model output that must be a JSON array.
func decodeArray(text string) (gjson.Result, error) {
	return decode(text, '[', ']')
}

// decode is the single choke point turning untrusted model text into JSON.
//
// After fence stripping, a reply wrapped in prose is narrowed to the span between the first
// open and the last close delimiter. Anything that still does not parse as the wanted kind
// fails with [shared.ErrMalformedResponse].
func decode(text string, open, close byte) (gjson.Result, error) {
	body := Extract(text)

	if !gjson.Valid(body) {
		start := strings.IndexByte(body, open)
		end := strings.LastIndexByte(body, close)
		if start < 0 || end <= start || !gjson.Valid(body[start:end+1]) {
			return gjson.Result{}, fmt.Errorf("%w: not JSON: %q", shared.ErrMalformedResponse, shared.Truncate(body, 120))
		}
		body = body[start : end+1]
	}

	result := gjson.Parse(body)
	switch {
	case open == '{' && !result.IsObject():
		return gjson.Result{}, fmt.Errorf("%w: expected a JSON object, got %s", shared.ErrMalformedResponse, result.Type)
	case open == '[' && !result.IsArray():
		return gjson.Result{}, fmt.Errorf("%w: expected a JSON array, got %s", shared.ErrMalformedResponse, result.Type)
	}
	return result, nil
}

// optionalString reads a field that must be a string, null or absent.
func optionalString(doc gjson.Result, field string) (string, error) {
	value := doc.Get(field)
	switch value.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return strings.TrimSpace(value.String()), nil
	default:
		return "", fmt.Errorf("%w: field %q is %s, want string", shared.ErrMalformedResponse, field, value.Type)
	}
}

// stringOr reads a string field, returning fallback when it is missing, blank or not a string.
func stringOr(doc gjson.Result, field, fallback string) string {
	value := doc.Get(field)
	if value.Type != gjson.String {
		return fallback
	}
	if s := strings.TrimSpace(value.String()); s != "" {
		return s
	}
	return fallback
}
