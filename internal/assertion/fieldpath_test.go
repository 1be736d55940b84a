package assertion

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestResolve_SimpleFields(t *testing.T) {
	doc := map[string]any{
		"name":   "Alice",
		"age":    float64(30),
		"active": true,
	}

	tests := []struct {
		path      string
		want      string
		wantFound bool
	}{
		{"name", "Alice", true},
		{"age", "30", true},
		{"active", "true", true},
		{"missing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			val, found := Resolve(doc, tt.path)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if !found {
				return
			}
			if got := fmt.Sprintf("%v", val); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_NestedFields(t *testing.T) {
	doc := map[string]any{
		"data": map[string]any{
			"user": map[string]any{
				"name": "Bob",
				"id":   float64(42),
			},
		},
	}

	tests := []struct {
		path      string
		want      string
		wantFound bool
	}{
		{"data.user.name", "Bob", true},
		{"data.user.id", "42", true},
		{"data.user.missing", "", false},
		{"data.missing.name", "", false},
		{"data.user.name.first", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			val, found := Resolve(doc, tt.path)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if found {
				if got := fmt.Sprintf("%v", val); got != tt.want {
					t.Errorf("got %q, want %q", got, tt.want)
				}
			}
		})
	}
}

func TestResolve_ArraysAreNotIndexable(t *testing.T) {
	doc := map[string]any{
		"items": []any{
			map[string]any{"id": "first"},
		},
	}

	for _, path := range []string{"items.0", "items.0.id", "items[0]"} {
		if _, found := Resolve(doc, path); found {
			t.Errorf("Resolve(%q) should not descend into arrays", path)
		}
	}

	if _, found := Resolve(doc, "items"); !found {
		t.Error("the array itself should resolve")
	}
}

func TestResolve_NullIsPresent(t *testing.T) {
	doc := map[string]any{"deleted_at": nil}

	val, found := Resolve(doc, "deleted_at")
	if !found {
		t.Fatal("a present null field should resolve")
	}
	if val != nil {
		t.Errorf("expected nil value, got %v", val)
	}
}

func TestResolve_NonObjectRoot(t *testing.T) {
	for _, doc := range []any{nil, "text", float64(1), []any{"a"}} {
		if _, found := Resolve(doc, "a"); found {
			t.Errorf("Resolve on %T root should not find a field", doc)
		}
	}
}

func TestParseDocument(t *testing.T) {
	if _, err := ParseDocument([]byte(`{"ok":true}`)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseDocument([]byte(`not-json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := ParseDocument(nil); err == nil {
		t.Error("expected error for empty body")
	}
	if _, err := ParseDocument([]byte(`{"a":1} {"b":2}`)); err == nil {
		t.Error("expected error for trailing data")
	}

	doc, err := ParseDocument([]byte(`{"id": 9007199254740993}`))
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := Resolve(doc, "id"); got != json.Number("9007199254740993") {
		t.Errorf("expected exact json.Number, got %#v", got)
	}
}
