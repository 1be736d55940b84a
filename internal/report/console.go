package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/tasnimchaouch0/APIBEAST/internal/executor"
	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

// ConsoleOptions controls PrintConsole.
type ConsoleOptions struct {
	// Verbose adds the response status, body and curl command for every test.
	Verbose bool
	NoColor bool
}

type palette struct {
	pass, fail, err, slow, dim *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		pass: color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
		err:  color.New(color.FgYellow, color.Bold),
		slow: color.New(color.FgYellow),
		dim:  color.New(color.Faint),
	}
	if noColor {
		for _, c := range []*color.Color{p.pass, p.fail, p.err, p.slow, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) label(s model.Status) string {
	switch s {
	case model.StatusPassed:
		return p.pass.Sprint("PASS ")
	case model.StatusFailed:
		return p.fail.Sprint("FAIL ")
	default:
		return p.err.Sprint("ERROR")
	}
}

// PrintConsole writes one line per result followed by the summary. Failing
// and erroring tests get their error lines and a curl command to reproduce.
func PrintConsole(w io.Writer, cases []model.TestCase, results []model.TestResult, sum Summary, opts ConsoleOptions) {
	p := newPalette(opts.NoColor)

	for i, r := range results {
		name := r.TestName
		if name == "" {
			name = r.TestID
		}
		duration := fmt.Sprintf("(%dms)", r.DurationMs)
		if isSlow(r) {
			duration = p.slow.Sprint(duration)
		}
		fmt.Fprintf(w, "%s %s %s\n", p.label(r.Status), name, duration)

		for _, e := range r.Errors {
			fmt.Fprintf(w, "      %s\n", e)
		}

		if !opts.Verbose && r.Status == model.StatusPassed {
			continue
		}
		if opts.Verbose {
			if r.ResponseStatus != nil {
				fmt.Fprintf(w, "      %s %d\n", p.dim.Sprint("status:"), *r.ResponseStatus)
			}
			if len(r.ResponseBody) > 0 {
				fmt.Fprintf(w, "      %s %s\n", p.dim.Sprint("body:"), truncate(string(r.ResponseBody), 200))
			}
		}
		if tc, ok := caseAt(cases, i); ok {
			fmt.Fprintf(w, "      %s\n", p.dim.Sprint(executor.Curl(tc)))
		}
	}

	fmt.Fprintln(w)
	line := sum.String()
	switch {
	case sum.AllPassed():
		p.pass.Fprintln(w, line)
	case sum.Errored > 0 && sum.Failed == 0:
		p.err.Fprintln(w, line)
	default:
		p.fail.Fprintln(w, line)
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
