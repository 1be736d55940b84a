package executor

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

// Curl renders a shell command that reproduces the request a test case sends.
// Headers are emitted in key order so the output is stable.
func Curl(tc model.TestCase) string {
	var b commandBuilder
	b.add("curl", "-X", NormalizeMethod(tc.Method))

	keys := make([]string, 0, len(tc.Headers))
	for k := range tc.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	hasContentType := false
	for _, k := range keys {
		if strings.EqualFold(k, "Content-Type") {
			hasContentType = true
		}
		b.add("-H", k+": "+tc.Headers[k])
	}

	if tc.Body != nil {
		if !hasContentType {
			b.add("-H", "Content-Type: application/json")
		}
		data, err := json.Marshal(tc.Body)
		if err == nil {
			b.add("-d", string(data))
		}
	}

	b.add(tc.Endpoint)
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
