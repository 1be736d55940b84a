package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

// Materialize parses recovered model output into test cases. Every id in the
// input is discarded and replaced with a fresh one.
func Materialize(text string) ([]model.TestCase, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, &ParseError{Err: errors.New("expected a JSON array of test cases")}
	}

	var tests []model.TestCase
	if err := json.Unmarshal([]byte(trimmed), &tests); err != nil {
		return nil, &ParseError{Err: err}
	}

	for i := range tests {
		tc := &tests[i]
		if tc.Endpoint == "" {
			return nil, &ParseError{Err: fmt.Errorf("test case %d: missing endpoint", i)}
		}
		if tc.ExpectedStatus == 0 {
			return nil, &ParseError{Err: fmt.Errorf("test case %d: missing expected_status", i)}
		}
		tc.ID = model.NewID()
		if tc.Assertions == nil {
			tc.Assertions = []model.Assertion{}
		}
	}

	return tests, nil
}
