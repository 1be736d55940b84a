// Package assertion resolves dotted field paths in JSON response bodies and
// evaluates test case assertions against them.
package assertion

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

// Supported operators. Any other token evaluates to a failure.
const (
	OpEquals   = "equals"
	OpContains = "contains"
	OpExists   = "exists"
)

// Evaluate applies one assertion to a parsed response body.
func Evaluate(doc any, a model.Assertion) bool {
	actual, found := Resolve(doc, a.Field)

	switch a.Operator {
	case OpEquals:
		return found && Equal(actual, a.Expected)

	case OpContains:
		if !found {
			return false
		}
		actualStr, ok := actual.(string)
		if !ok {
			return false
		}
		expectedStr, ok := a.Expected.(string)
		if !ok {
			return false
		}
		return strings.Contains(actualStr, expectedStr)

	case OpExists:
		return found

	default:
		return false
	}
}

// EvaluateAll evaluates every assertion independently and returns one
// outcome per assertion, in order.
func EvaluateAll(doc any, assertions []model.Assertion) []bool {
	out := make([]bool, len(assertions))
	for i, a := range assertions {
		out[i] = Evaluate(doc, a)
	}
	return out
}

// FailureMessage renders the error text recorded for a failed assertion.
func FailureMessage(a model.Assertion) string {
	return fmt.Sprintf("Assertion failed: %s %s %s", a.Field, a.Operator, renderValue(a.Expected))
}

// renderValue formats an expected value as compact JSON.
func renderValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
