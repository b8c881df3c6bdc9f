// util/helper/time.go
package helper_util

import (
	"strings"
	"time"
)

// Layouts tried in order when ingesting timestamps from loosely structured
// sources. RFC3339 first since structured inputs mostly use it.
var flexibleLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05.999999",
	"02/01/2006 15:04:05",
	"01/02/2006 15:04:05",
	"20060102 15:04:05",
	"15:04:05",
}

// ParseFlexibleTime parses a timestamp string against a bank of common
// layouts, returning nil when none fit.
func ParseFlexibleTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range flexibleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
