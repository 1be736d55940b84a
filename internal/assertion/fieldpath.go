package assertion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Resolve walks a dot-separated path like "data.user.name" through nested
// JSON objects. Arrays are not indexable. The boolean is false when any
// segment is missing or an intermediate value is not an object; a present
// null resolves to (nil, true).
func Resolve(doc any, path string) (any, bool) {
	current := doc
	for _, seg := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		val, ok := obj[seg]
		if !ok {
			return nil, false
		}
		current = val
	}
	return current, true
}

// ParseDocument parses a JSON byte slice into a generic structure. Numbers
// are kept as json.Number.
func ParseDocument(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("response body is not valid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("response body is not valid JSON: trailing data")
	}
	return doc, nil
}
