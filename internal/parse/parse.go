// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse extracts a JSON object from loosely formatted agent replies.
// Replies may wrap the object in prose or code fences, or encode it as a
// JSON string. Parsing never fails loudly: callers get either the decoded
// fields or an empty Result, and apply per-field defaults.
package parse

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// Result is the outcome of a parse: Found is false when no JSON object
// could be located, in which case Fields is nil.
type Result struct {
	Fields map[string]any
	Found  bool
}

// Empty is the absence signal.
var Empty = Result{}

// fencePattern matches ```json ... ``` (or unlabeled) code fences.
var fencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n?(.*?)```")

// maxUnwrap bounds how many layers of string-encoded JSON are unwrapped.
const maxUnwrap = 2

// FromRaw parses the opaque result payload of an agent response. Objects
// decode directly; JSON strings are searched as free text.
func FromRaw(raw json.RawMessage) Result {
	return fromRaw(raw, 0)
}

func fromRaw(raw json.RawMessage, depth int) Result {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Empty
	}
	switch trimmed[0] {
	case '{':
		if r, ok := decodeObject(trimmed); ok {
			return r
		}
		return FromText(string(trimmed))
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Empty
		}
		if depth >= maxUnwrap {
			return Empty
		}
		return fromText(s, depth+1)
	default:
		return Empty
	}
}

// FromText locates and decodes the first JSON object embedded in s.
func FromText(s string) Result {
	return fromText(s, 0)
}

func fromText(s string, depth int) Result {
	s = strings.TrimSpace(s)
	if s == "" {
		return Empty
	}

	if r, ok := decodeObject([]byte(s)); ok {
		return r
	}

	// Double-encoded JSON: the whole reply is a quoted JSON string.
	if strings.HasPrefix(s, `"`) && depth < maxUnwrap {
		if r := fromRaw(json.RawMessage(s), depth); r.Found {
			return r
		}
	}

	for _, m := range fencePattern.FindAllStringSubmatch(s, -1) {
		body := strings.TrimSpace(m[1])
		if r, ok := decodeObject([]byte(body)); ok {
			return r
		}
		if r, ok := scanObjects(body); ok {
			return r
		}
	}

	if r, ok := scanObjects(s); ok {
		return r
	}
	return Empty
}

// decodeObject decodes data as a single JSON object.
func decodeObject(data []byte) (Result, bool) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Empty, false
	}
	return Result{Fields: fields, Found: true}, true
}

// scanObjects walks s and tries every brace-balanced candidate starting at
// an opening brace, skipping braces inside string literals. The first
// candidate that decodes as an object wins.
func scanObjects(s string) (Result, bool) {
	for start := strings.IndexByte(s, '{'); start >= 0; {
		if end := matchBrace(s, start); end > start {
			if r, ok := decodeObject([]byte(s[start : end+1])); ok {
				return r, true
			}
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return Empty, false
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// String returns the string value at key, or fallback when the key is
// missing or not a string. A present empty string is returned as is.
func (r Result) String(key, fallback string) string {
	if !r.Found {
		return fallback
	}
	if v, ok := r.Fields[key].(string); ok {
		return v
	}
	return fallback
}

// FirstString returns the first key holding a string value, or fallback.
func (r Result) FirstString(fallback string, keys ...string) string {
	if !r.Found {
		return fallback
	}
	for _, k := range keys {
		if v, ok := r.Fields[k].(string); ok {
			return v
		}
	}
	return fallback
}

// Number returns the numeric value at key. Strings that look like numbers
// are not accepted.
func (r Result) Number(key string) (float64, bool) {
	if !r.Found {
		return 0, false
	}
	v, ok := r.Fields[key].(float64)
	return v, ok
}

// Score reads total_score, defaulting to 0 and clamping to [0,100].
func Score(r Result) float64 {
	v, ok := r.Number("total_score")
	if !ok {
		return 0
	}
	return ClampScore(v)
}

// ClampScore bounds v to the [0,100] score range.
func ClampScore(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
