// Package discovery finds candidate postings for a user's preferences.
//
// Sources (structured API or HTML scrape) return raw records that are
// normalized into one canonical Posting shape, merged across role queries
// and deduplicated by apply URL. Scoring and persistence live in services.
package discovery

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// SnippetLimit bounds Posting.Description in characters.
const SnippetLimit = 300

// Posting is the canonical job-posting shape every source produces.
type Posting struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	ApplyURL    string    `json:"applyUrl"`
	PostedAt    time.Time `json:"postedAt"`
	Description string    `json:"descriptionSnippet"`
	Source      string    `json:"source"`
}

// RawRecord is a source record before cleaning. PostedAt wins over
// PostedText when both are set.
type RawRecord struct {
	Title       string
	Company     string
	Location    string
	ApplyURL    string
	Description string
	PostedAt    time.Time
	PostedText  string
	Source      string
}

// Query is one search issued against a PostingSource.
type Query struct {
	Role     string
	Location string
}

// PostingSource is a capability that returns canonical postings for a query.
type PostingSource interface {
	Name() string
	Search(ctx context.Context, q Query) ([]Posting, error)
}

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	entityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&nbsp;", " ",
		"&quot;", `"`,
		"&#39;", "'",
		"&apos;", "'",
	)
)

// CleanText strips tags, decodes the common entities, collapses whitespace
// and trims the ends. Tags are stripped again after decoding so escaped
// markup (common in JSON-LD descriptions) does not survive as text.
func CleanText(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = entityReplacer.Replace(s)
	s = tagRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Normalize converts a raw record into a Posting. ok is false when title or
// company is empty after cleaning, or when the apply URL is not an absolute
// http(s) link.
func Normalize(r RawRecord, now time.Time) (p Posting, ok bool) {
	p = Posting{
		Title:       CleanText(r.Title),
		Company:     CleanText(r.Company),
		Location:    CleanText(r.Location),
		ApplyURL:    CanonicalURL(entityReplacer.Replace(r.ApplyURL)),
		Description: truncate(CleanText(r.Description), SnippetLimit),
		Source:      r.Source,
	}
	if p.Title == "" || p.Company == "" || !IsAbsoluteHTTP(p.ApplyURL) {
		return Posting{}, false
	}

	switch {
	case !r.PostedAt.IsZero():
		p.PostedAt = r.PostedAt
	default:
		p.PostedAt = ResolveRelativeDate(r.PostedText, now)
	}
	return p, true
}

// NormalizeAll normalizes records in order, dropping the invalid ones.
func NormalizeAll(records []RawRecord, now time.Time) []Posting {
	out := make([]Posting, 0, len(records))
	for _, r := range records {
		if p, ok := Normalize(r, now); ok {
			out = append(out, p)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
