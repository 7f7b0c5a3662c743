// Package telemetry captures periodic drone state readings to disk for
// offline reconstruction and analysis. It is a collaborator of the
// exploration engine, never a dependency of it.
package telemetry

import (
	"strconv"
	"strings"
)

// ParseKeyValues parses a semicolon-separated "key:val;key:val;" state
// string, the format drone state feeds and attitude queries reply with,
// into a map of floats. Entries without a ':' or with an unparsable value
// are skipped.
func ParseKeyValues(s string) map[string]float64 {
	out := map[string]float64{}
	for _, part := range strings.Split(strings.TrimSpace(s), ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			continue
		}
		out[strings.TrimSpace(k)] = f
	}
	return out
}
