// Package model defines the test case, assertion, and result types shared by
// generation and execution, plus the JSON envelopes of the HTTP API.
package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TestCase is one executable HTTP request/expectation scenario.
type TestCase struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Method         string            `json:"method"`
	Endpoint       string            `json:"endpoint"`
	Headers        map[string]string `json:"headers"`
	Body           any               `json:"body"`
	ExpectedStatus int               `json:"expected_status"`
	Assertions     []Assertion       `json:"assertions"`
}

// Assertion is one field-level check against a JSON response body.
type Assertion struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Expected any    `json:"expected"`
}

// UnmarshalJSON keeps numbers in Expected as json.Number so large integers
// survive decoding exactly.
func (a *Assertion) UnmarshalJSON(data []byte) error {
	type plain Assertion
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var p plain
	if err := dec.Decode(&p); err != nil {
		return err
	}
	*a = Assertion(p)
	return nil
}

// Status is the outcome of one executed test case.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
	StatusError  Status = "error"
)

// Degrade raises s to next when next is worse. Error > Failed > Passed.
func (s Status) Degrade(next Status) Status {
	if s.rank() >= next.rank() {
		return s
	}
	return next
}

func (s Status) rank() int {
	switch s {
	case StatusError:
		return 2
	case StatusFailed:
		return 1
	default:
		return 0
	}
}

// TestResult records the outcome of executing one TestCase.
type TestResult struct {
	TestID         string          `json:"test_id"`
	TestName       string          `json:"test_name"`
	Status         Status          `json:"status"`
	DurationMs     int64           `json:"duration_ms"`
	ResponseStatus *int            `json:"response_status"`
	ResponseBody   json.RawMessage `json:"response_body"` // nil when the body was not JSON
	Errors         []string        `json:"errors"`
	Timestamp      time.Time       `json:"timestamp"`
}

// NewResult creates a passing result stamped with the current time.
func NewResult(testID, testName string) TestResult {
	return TestResult{
		TestID:    testID,
		TestName:  testName,
		Status:    StatusPassed,
		Errors:    []string{},
		Timestamp: time.Now().UTC(),
	}
}

// Fail degrades the result to status and records msg.
func (r *TestResult) Fail(status Status, msg string) {
	r.Status = r.Status.Degrade(status)
	r.Errors = append(r.Errors, msg)
}

// NewID returns a fresh random test case identifier.
func NewID() string {
	return uuid.NewString()
}

// EnsureIDs fills empty or duplicated ids with fresh ones, in place, and
// reports how many ids were replaced.
func EnsureIDs(tests []TestCase) int {
	seen := make(map[string]bool, len(tests))
	replaced := 0
	for i := range tests {
		if tests[i].ID == "" || seen[tests[i].ID] {
			tests[i].ID = NewID()
			replaced++
		}
		seen[tests[i].ID] = true
	}
	return replaced
}
