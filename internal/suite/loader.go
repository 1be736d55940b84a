// Package suite loads saved test case collections from JSON or YAML files.
package suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

// Suite is a named list of test cases read from one file.
type Suite struct {
	Name  string           `json:"name" yaml:"name"`
	Path  string           `json:"-" yaml:"-"`
	Tests []model.TestCase `json:"tests" yaml:"tests"`
}

// Extensions lists the recognized suite file extensions.
var Extensions = []string{".json", ".yaml", ".yml"}

func supported(ext string) bool {
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// LoadFile parses a suite file. The file holds either a bare array of test
// cases or an object with name and tests.
func LoadFile(path string) (*Suite, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supported(ext) {
		return nil, fmt.Errorf("suite %s: unsupported extension %q", path, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite %s: %w", path, err)
	}

	if ext != ".json" {
		if data, err = yamlToJSON(data); err != nil {
			return nil, fmt.Errorf("parsing suite %s: %w", path, err)
		}
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing suite %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	s.Path = path

	if len(s.Tests) == 0 {
		return nil, fmt.Errorf("suite %s: at least one test is required", path)
	}
	for i, tc := range s.Tests {
		if tc.Endpoint == "" {
			return nil, fmt.Errorf("suite %s: test %d has no endpoint", path, i)
		}
	}
	return s, nil
}

// Parse decodes a JSON suite document.
func Parse(data []byte) (*Suite, error) {
	data = bytes.TrimSpace(data)
	var s Suite
	if bytes.HasPrefix(data, []byte("[")) {
		if err := json.Unmarshal(data, &s.Tests); err != nil {
			return nil, err
		}
		return &s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadDir loads every suite file in dir in name order. Subdirectories and
// other files are skipped.
func LoadDir(dir string) ([]*Suite, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading suite directory %s: %w", dir, err)
	}

	var suites []*Suite
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !supported(strings.ToLower(filepath.Ext(name))) {
			continue
		}
		s, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	if len(suites) == 0 {
		return nil, fmt.Errorf("no suite files in %s", dir)
	}
	return suites, nil
}

// Load reads path as a single file or, when it is a directory, with LoadDir.
func Load(path string) ([]*Suite, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	s, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return []*Suite{s}, nil
}

// Tests concatenates the tests of every suite in order.
func Tests(suites []*Suite) []model.TestCase {
	var out []model.TestCase
	for _, s := range suites {
		out = append(out, s.Tests...)
	}
	return out
}

// yamlToJSON re-encodes a YAML document as JSON so numbers and nulls decode
// the same way they do from JSON files.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(doc)
}

// Marshal encodes tests for a file at path, as YAML for .yaml/.yml and
// indented JSON otherwise.
func Marshal(path string, tests []model.TestCase) ([]byte, error) {
	data, err := json.MarshalIndent(tests, "", "  ")
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var doc any
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		return yaml.Marshal(yamlNumbers(doc))
	}
	return append(data, '\n'), nil
}

// yamlNumbers replaces json.Number values with scalar nodes carrying the
// original digits.
func yamlNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(t.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: t.String()}
	case map[string]any:
		for k, e := range t {
			t[k] = yamlNumbers(e)
		}
	case []any:
		for i, e := range t {
			t[i] = yamlNumbers(e)
		}
	}
	return v
}
