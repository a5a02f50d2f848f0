package discovery

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/NikitaReddy9/applyFlow/internal/models"
	"github.com/NikitaReddy9/applyFlow/internal/upstream"
)

const (
	// MaxRoles bounds how many role queries one discovery run issues.
	MaxRoles = 3
	// DefaultRole is searched when the preferences name no role.
	DefaultRole = "Software Engineer"
)

// Discoverer fans a search out over the preferred roles, one role at a time.
type Discoverer struct {
	source  PostingSource
	timeout time.Duration
}

// NewDiscoverer returns a Discoverer over source with a per-call timeout.
func NewDiscoverer(source PostingSource, timeout time.Duration) *Discoverer {
	return &Discoverer{source: source, timeout: timeout}
}

// SearchRoles returns up to MaxRoles distinct roles from prefs, falling back
// to DefaultRole.
func SearchRoles(prefs models.JobPreferences) []string {
	seen := make(map[string]bool)
	var roles []string
	for _, r := range prefs.RoleList() {
		key := strings.ToLower(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		roles = append(roles, r)
		if len(roles) == MaxRoles {
			break
		}
	}
	if len(roles) == 0 {
		roles = []string{DefaultRole}
	}
	return roles
}

// Discover returns deduplicated candidates for prefs. A failing role is
// logged and skipped; Discover itself only fails when ctx is done.
func (d *Discoverer) Discover(ctx context.Context, prefs models.JobPreferences) ([]Posting, error) {
	var all []Posting
	for _, role := range SearchRoles(prefs) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		q := Query{Role: role, Location: prefs.Location}
		var batch []Posting
		err := upstream.Do(ctx, d.timeout, d.source.Name(), func(ctx context.Context) error {
			var err error
			batch, err = d.source.Search(ctx, q)
			return err
		})
		if err != nil {
			slog.Warn("role search failed, continuing",
				"component", "discovery", "source", d.source.Name(), "role", role, "err", err)
			continue
		}
		slog.Debug("role search done",
			"component", "discovery", "source", d.source.Name(), "role", role, "results", len(batch))
		all = append(all, batch...)
	}
	return Dedupe(all), nil
}
