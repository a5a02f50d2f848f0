package discovery

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	daysAgoRe  = regexp.MustCompile(`(\d+)\+?\s*days?\b`)
	hoursAgoRe = regexp.MustCompile(`(\d+)\+?\s*hours?\b`)
)

// ResolveRelativeDate turns a recency phrase such as "3 days ago" or
// "Just posted" into an absolute time relative to now. Unrecognized
// phrases resolve to now.
func ResolveRelativeDate(text string, now time.Time) time.Time {
	t := strings.ToLower(text)

	if strings.Contains(t, "today") || strings.Contains(t, "just posted") || strings.Contains(t, "active") {
		return now
	}
	if m := daysAgoRe.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return now.AddDate(0, 0, -n)
		}
	}
	if m := hoursAgoRe.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return now.Add(-time.Duration(n) * time.Hour)
		}
	}
	return now
}
