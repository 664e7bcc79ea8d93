// Package ipaddr validates IPv4 and IPv6 address literals.
package ipaddr

import (
	"regexp"
	"strings"
)

// IPv4: strict dotted quad, each segment 0-255.
const v4Segment = `(25[0-5]|2[0-4]\d|1\d{2}|[1-9]?\d)`

var v4Regex = regexp.MustCompile(`^(` + v4Segment + `\.){3}` + v4Segment + `$`)

// IPv6: full 8-group form plus every valid placement of a single "::"
// zero-compression run. Groups are 1-4 hex digits.
const v6Group = `[0-9A-Fa-f]{1,4}`

var v6Regex = regexp.MustCompile(`^(` +
	`(` + v6Group + `:){7}` + v6Group + `|` + // 1:2:3:4:5:6:7:8
	`(` + v6Group + `:){1,7}:|` + // 1::  ..  1:2:3:4:5:6:7::
	`(` + v6Group + `:){1,6}:` + v6Group + `|` + // 1::8  ..  1:2:3:4:5:6::8
	`(` + v6Group + `:){1,5}(:` + v6Group + `){1,2}|` + // 1::7:8
	`(` + v6Group + `:){1,4}(:` + v6Group + `){1,3}|` + // 1::6:7:8
	`(` + v6Group + `:){1,3}(:` + v6Group + `){1,4}|` + // 1::5:6:7:8
	`(` + v6Group + `:){1,2}(:` + v6Group + `){1,5}|` + // 1::4:5:6:7:8
	v6Group + `:((:` + v6Group + `){1,6})|` + // 1::3:4:5:6:7:8
	`:((:` + v6Group + `){1,7}|:)` + // ::2:3:4:5:6:7:8 and bare ::
	`)$`)

// IsValid reports whether s is a syntactically valid IPv4 or IPv6
// address literal. Leading and trailing whitespace is ignored. No DNS
// resolution or semantic checks (private/reserved ranges) are done.
func IsValid(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	if strings.Count(trimmed, "::") > 1 {
		return false
	}
	return v4Regex.MatchString(trimmed) || v6Regex.MatchString(trimmed)
}
