// Package report renders execution results for people: a colored console
// listing and an Excel workbook.
package report

import (
	"fmt"
	"time"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

// slowThreshold marks a passing test as slow in reports.
const slowThreshold = 300 * time.Millisecond

// Summary totals one execution batch.
type Summary struct {
	Total   int           `json:"total"`
	Passed  int           `json:"passed"`
	Failed  int           `json:"failed"`
	Errored int           `json:"errored"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Summarize counts results by status.
func Summarize(results []model.TestResult, elapsed time.Duration) Summary {
	s := Summary{Total: len(results), Elapsed: elapsed}
	for _, r := range results {
		switch r.Status {
		case model.StatusPassed:
			s.Passed++
		case model.StatusFailed:
			s.Failed++
		default:
			s.Errored++
		}
	}
	return s
}

// AllPassed reports whether every result passed. An empty batch passes.
func (s Summary) AllPassed() bool {
	return s.Passed == s.Total
}

func (s Summary) String() string {
	return fmt.Sprintf("%d tests, %d passed, %d failed, %d errors in %s",
		s.Total, s.Passed, s.Failed, s.Errored, s.Elapsed.Round(time.Millisecond))
}

func isSlow(r model.TestResult) bool {
	return time.Duration(r.DurationMs)*time.Millisecond > slowThreshold
}

// caseAt returns the case that produced results[i]. Execution keeps input
// order, so the index lines up.
func caseAt(cases []model.TestCase, i int) (model.TestCase, bool) {
	if i < 0 || i >= len(cases) {
		return model.TestCase{}, false
	}
	return cases[i], true
}
