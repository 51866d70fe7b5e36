// Package llmjson extracts JSON objects embedded in free-form model output.
//
// Model responses routinely wrap the requested JSON in markdown fences or
// surround it with prose. Parse recovers the object when possible; callers
// substitute a stage-specific default when it cannot.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ErrNoJSON is returned when no parseable JSON object is found in the input.
var ErrNoJSON = errors.New("no JSON object found in response")

const (
	fenceOpen  = "```json"
	fenceClose = "```"
)

// Parse returns the first JSON object embedded in raw. It tries a fenced
// ```json block first, then falls back to a brace-balance scan over lines.
// Parse never panics and has no side effects.
func Parse(raw string) (map[string]any, error) {
	if candidate, ok := fencedBlock(raw); ok {
		var out map[string]any
		if err := json.Unmarshal([]byte(candidate), &out); err == nil {
			return out, nil
		}
	}

	candidate, ok := balancedBlock(raw)
	if !ok {
		return nil, ErrNoJSON
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, fmt.Errorf("parse extracted JSON: %w", err)
	}
	return out, nil
}

// ParseInto parses raw as Parse does and decodes the result into out.
func ParseInto(raw string, out any) error {
	data, err := Parse(raw)
	if err != nil {
		return err
	}
	return Decode(data, out)
}

// Decode maps a parsed JSON object onto a typed struct. Decoding is weakly
// typed so numeric scores arriving as strings still land in float fields.
func Decode(in map[string]any, out any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}

	if err := decoder.Decode(in); err != nil {
		return fmt.Errorf("decode response object: %w", err)
	}
	return nil
}

// fencedBlock returns the inner text of the first ```json fenced block.
func fencedBlock(raw string) (string, bool) {
	start := strings.Index(raw, fenceOpen)
	if start == -1 {
		return "", false
	}

	inner := raw[start+len(fenceOpen):]
	end := strings.Index(inner, fenceClose)
	if end == -1 {
		return "", false
	}

	return strings.TrimSpace(inner[:end]), true
}

// balancedBlock scans lines top to bottom, starting at the first line
// containing '{' and ending where the running brace balance returns to zero.
func balancedBlock(raw string) (string, bool) {
	lines := strings.Split(raw, "\n")

	start := -1
	balance := 0
	for i, line := range lines {
		if start == -1 {
			if !strings.Contains(line, "{") {
				continue
			}
			start = i
		}

		balance += strings.Count(line, "{") - strings.Count(line, "}")
		if balance <= 0 {
			return strings.Join(lines[start:i+1], "\n"), true
		}
	}

	return "", false
}
