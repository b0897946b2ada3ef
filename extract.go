package sysmonitor

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Extractor turns raw command stdout into a candidate value.
// Extractors never fail; they return "" when nothing matches.
type Extractor func(stdout string) string

// Plain returns an Extractor for tools that print only the value.
func Plain() Extractor {
	return strings.TrimSpace
}

// KeyedLine returns an Extractor for "key=value" output such as
// `wmic ... /value`. The first line starting with key= wins.
func KeyedLine(key string) Extractor {
	prefix := key + "="

	return func(stdout string) string {
		return parseKeyedValue(stdout, prefix)
	}
}

// RegexGroup returns an Extractor yielding the first capture group of re.
func RegexGroup(re *regexp.Regexp) Extractor {
	return func(stdout string) string {
		match := re.FindStringSubmatch(stdout)
		if len(match) < 2 {
			return ""
		}

		return strings.TrimSpace(match[1])
	}
}

// HardwareJSONField returns an Extractor reading one field of the first entry
// of `system_profiler SPHardwareDataType -json` output.
func HardwareJSONField(field string) Extractor {
	return func(stdout string) string {
		var hw struct {
			SPHardwareDataType []map[string]any `json:"SPHardwareDataType"`
		}
		if err := json.Unmarshal([]byte(stdout), &hw); err != nil || len(hw.SPHardwareDataType) == 0 {
			return ""
		}

		value, _ := hw.SPHardwareDataType[0][field].(string)

		return strings.TrimSpace(value)
	}
}

// parseKeyedValue extracts the value of the first line carrying prefix.
// wmic emits CRLF line endings, which the per-line trim absorbs.
func parseKeyedValue(output, prefix string) string {
	for line := range strings.SplitSeq(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
	}

	return ""
}
