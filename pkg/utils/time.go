package utils

import (
	"strings"
	"time"

	"golang.org/x/xerrors"
)

// timeLayouts are tried in order. Snyk exports use the first two.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02",
}

// ParseTime parses the timestamp formats found in Snyk CSV exports.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, xerrors.Errorf("unable to parse datetime: %q", value)
}
