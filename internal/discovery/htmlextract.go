package discovery

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// MaxCards caps the number of card fragments examined per document.
const MaxCards = 20

var (
	cardStartRe = regexp.MustCompile(`<(?:div|li)[^>]*class="[^"]*\bbase-card\b[^"]*"`)

	cardTitleRe    = regexp.MustCompile(`(?s)<h3[^>]*class="[^"]*base-search-card__title[^"]*"[^>]*>(.*?)</h3>`)
	cardCompanyRe  = regexp.MustCompile(`(?s)<h4[^>]*class="[^"]*base-search-card__subtitle[^"]*"[^>]*>(.*?)</h4>`)
	cardLocationRe = regexp.MustCompile(`(?s)<span[^>]*class="[^"]*job-search-card__location[^"]*"[^>]*>(.*?)</span>`)
	cardLinkRe     = regexp.MustCompile(`<a[^>]*href="([^"]+)"`)
	cardSnippetRe  = regexp.MustCompile(`(?s)<p[^>]*class="[^"]*job-search-card__snippet[^"]*"[^>]*>(.*?)</p>`)
	cardTimeRe     = regexp.MustCompile(`(?s)<time([^>]*)>(.*?)</time>`)
	datetimeAttrRe = regexp.MustCompile(`datetime="([^"]*)"`)
)

// ExtractPostings pulls postings out of a search-results document. Card
// markup is tried first; when no cards exist the embedded JSON-LD blob is
// used instead. Links are resolved against base, the URL the document was
// fetched from; with a nil base only absolute links survive. Nothing here
// returns an error: unusable input yields an empty slice.
func ExtractPostings(doc, source string, base *url.URL, now time.Time) []Posting {
	var records []RawRecord
	if fragments := splitCards(doc); len(fragments) > 0 {
		records = make([]RawRecord, 0, len(fragments))
		for _, frag := range fragments {
			if rec, ok := extractCard(frag, source); ok {
				records = append(records, rec)
			}
		}
	} else {
		records = extractJSONLD(doc, source)
	}

	for i := range records {
		records[i].ApplyURL = ResolveURL(base, records[i].ApplyURL)
	}
	return NormalizeAll(records, now)
}

func splitCards(doc string) []string {
	locs := cardStartRe.FindAllStringIndex(doc, MaxCards+1)
	if len(locs) == 0 {
		return nil
	}

	frags := make([]string, 0, MaxCards)
	for i, loc := range locs {
		if i == MaxCards {
			break
		}
		end := len(doc)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		frags = append(frags, doc[loc[0]:end])
	}
	return frags
}

func extractCard(frag, source string) (rec RawRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("card extraction panicked", "component", "htmlextract", "err", r)
			rec, ok = RawRecord{}, false
		}
	}()

	rec = RawRecord{
		Title:       firstGroup(cardTitleRe, frag),
		Company:     firstGroup(cardCompanyRe, frag),
		Location:    firstGroup(cardLocationRe, frag),
		ApplyURL:    firstGroup(cardLinkRe, frag),
		Description: firstGroup(cardSnippetRe, frag),
		Source:      source,
	}
	if CleanText(rec.Title) == "" || CleanText(rec.Company) == "" {
		return RawRecord{}, false
	}

	if m := cardTimeRe.FindStringSubmatch(frag); m != nil {
		if t, err := time.Parse("2006-01-02", strings.TrimSpace(firstGroup(datetimeAttrRe, m[1]))); err == nil {
			rec.PostedAt = t
		}
		rec.PostedText = CleanText(m[2])
	}
	return rec, true
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// extractJSONLD reads schema.org JobPosting objects from ld+json script tags.
func extractJSONLD(doc, source string) []RawRecord {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return nil
	}

	var records []RawRecord
	parsed.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var blob any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &blob); err != nil {
			return true
		}
		for _, obj := range jobPostingObjects(blob) {
			if rec, ok := recordFromJSONLD(obj, source); ok {
				records = append(records, rec)
			}
			if len(records) >= MaxCards {
				return false
			}
		}
		return true
	})
	return records
}

func jobPostingObjects(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		var out []map[string]any
		for _, item := range t {
			out = append(out, jobPostingObjects(item)...)
		}
		return out
	case map[string]any:
		if graph, ok := t["@graph"]; ok {
			return jobPostingObjects(graph)
		}
		if list, ok := t["itemListElement"]; ok {
			return jobPostingObjects(list)
		}
		if item, ok := t["item"].(map[string]any); ok {
			return jobPostingObjects(item)
		}
		if typ, _ := t["@type"].(string); typ == "JobPosting" {
			return []map[string]any{t}
		}
	}
	return nil
}

func recordFromJSONLD(obj map[string]any, source string) (RawRecord, bool) {
	rec := RawRecord{
		Title:       str(obj["title"]),
		Company:     orgName(obj["hiringOrganization"]),
		Location:    jobLocation(obj),
		ApplyURL:    str(obj["url"]),
		Description: str(obj["description"]),
		Source:      source,
	}
	if rec.ApplyURL == "" {
		rec.ApplyURL = str(obj["directApply"])
	}
	if posted := str(obj["datePosted"]); posted != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, posted); err == nil {
				rec.PostedAt = t
				break
			}
		}
	}
	return rec, rec.Title != "" && rec.Company != ""
}

func orgName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return str(t["name"])
	}
	return ""
}

func jobLocation(obj map[string]any) string {
	if strings.EqualFold(str(obj["jobLocationType"]), "TELECOMMUTE") {
		return "Remote"
	}
	loc := obj["jobLocation"]
	if list, ok := loc.([]any); ok && len(list) > 0 {
		loc = list[0]
	}
	m, ok := loc.(map[string]any)
	if !ok {
		return str(loc)
	}
	addr, ok := m["address"].(map[string]any)
	if !ok {
		return str(m["name"])
	}
	var parts []string
	for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
		if s := orgName(addr[key]); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
