package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// httpDateLayout matches RFC 1123 timestamps with a numeric zone. The
// upstream APIs always send the literal "GMT", which time.Parse treats
// as an abbreviation to be resolved against the local zone, so we swap
// it for the unambiguous fixed offset before parsing.
const httpDateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// ParseHTTPDate parses an HTTP-style Last-Modified timestamp such as
// "Mon, 29 May 2017 20:51:00 GMT" into a UTC instant.
func ParseHTTPDate(s string) (time.Time, error) {
	normalized := s
	if strings.HasSuffix(s, " GMT") {
		normalized = strings.TrimSuffix(s, " GMT") + " +0000"
	}
	t, err := time.Parse(httpDateLayout, normalized)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse http date %q: %w", s, err)
	}
	return t.UTC(), nil
}

// Midnight truncates t to 00:00:00 on the same calendar day, preserving
// the zone. Idempotent.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
