package discovery

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"
)

func card(i int, title, company, timeTag string) string {
	return fmt.Sprintf(`
<li>
  <div class="base-card relative job-search-card" data-entity-urn="urn:li:jobPosting:%d">
    <a class="base-card__full-link" href="https://www.example.com/jobs/view/%d?refId=r%d&amp;trackingId=t%d">
      <span class="sr-only">%s</span>
    </a>
    <div class="base-search-card__info">
      <h3 class="base-search-card__title">
        %s
      </h3>
      <h4 class="base-search-card__subtitle"><a href="https://www.example.com/company/x">%s</a></h4>
      <div class="base-search-card__metadata">
        <span class="job-search-card__location">San Francisco, CA</span>
        %s
      </div>
      <p class="job-search-card__snippet">Build &amp; ship <b>React</b> apps</p>
    </div>
  </div>
</li>`, i, i, i, i, title, title, company, timeTag)
}

func linkCard(href, title, company string) string {
	return fmt.Sprintf(`<div class="base-card job-search-card">
  <a class="base-card__full-link" href="%s"></a>
  <h3 class="base-search-card__title">%s</h3>
  <h4 class="base-search-card__subtitle">%s</h4>
</div>`, href, title, company)
}

func TestExtractPostings_Cards(t *testing.T) {
	doc := "<html><body><ul>" +
		card(1, "Frontend Engineer", "Acme", `<time class="job-search-card__listdate" datetime="2026-03-07">3 days ago</time>`) +
		card(2, "Backend Engineer", "Globex", `<time class="job-search-card__listdate--new">5 hours ago</time>`) +
		"</ul></body></html>"

	got := ExtractPostings(doc, "scrape", nil, fixedNow)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}

	first := got[0]
	if first.Title != "Frontend Engineer" || first.Company != "Acme" {
		t.Errorf("first = %q at %q", first.Title, first.Company)
	}
	if first.Location != "San Francisco, CA" {
		t.Errorf("Location = %q", first.Location)
	}
	if first.ApplyURL != "https://www.example.com/jobs/view/1" {
		t.Errorf("ApplyURL = %q", first.ApplyURL)
	}
	if first.Description != "Build & ship React apps" {
		t.Errorf("Description = %q", first.Description)
	}
	if want := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC); !first.PostedAt.Equal(want) {
		t.Errorf("PostedAt = %v, want %v", first.PostedAt, want)
	}
	if first.Source != "scrape" {
		t.Errorf("Source = %q", first.Source)
	}

	if want := fixedNow.Add(-5 * time.Hour); !got[1].PostedAt.Equal(want) {
		t.Errorf("second PostedAt = %v, want %v", got[1].PostedAt, want)
	}
}

func TestExtractPostings_SkipsBadCards(t *testing.T) {
	doc := card(1, "Engineer", "Acme", "") +
		card(2, "", "NoTitle Inc", "") +
		card(3, "Designer", "", "") +
		card(4, "Analyst", "Initech", "")

	got := ExtractPostings(doc, "scrape", nil, fixedNow)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Title != "Engineer" || got[1].Title != "Analyst" {
		t.Errorf("titles = %q, %q", got[0].Title, got[1].Title)
	}
	// No time tag resolves to now.
	if !got[0].PostedAt.Equal(fixedNow) {
		t.Errorf("PostedAt = %v, want now", got[0].PostedAt)
	}
}

func TestExtractPostings_CapsAtMaxCards(t *testing.T) {
	var b strings.Builder
	for i := 0; i < MaxCards+5; i++ {
		b.WriteString(card(i, fmt.Sprintf("Role %d", i), "Acme", ""))
	}
	got := ExtractPostings(b.String(), "scrape", nil, fixedNow)
	if len(got) != MaxCards {
		t.Errorf("len = %d, want %d", len(got), MaxCards)
	}
}

func TestExtractPostings_JSONLDFallback(t *testing.T) {
	doc := `<html><head>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"Organization","name":"Board"}</script>
<script type="application/ld+json">
[
  {"@type":"JobPosting","title":"Data Engineer","url":"https://example.com/jobs/9",
   "hiringOrganization":{"@type":"Organization","name":"Initech"},
   "jobLocation":{"@type":"Place","address":{"addressLocality":"Austin","addressRegion":"TX"}},
   "datePosted":"2026-03-01","description":"<p>Pipelines &amp; warehouses</p>"},
  {"@type":"JobPosting","title":"Remote SRE","url":"https://example.com/jobs/10",
   "hiringOrganization":"Hooli","jobLocationType":"TELECOMMUTE"},
  {"@type":"JobPosting","title":"No Link","hiringOrganization":"Umbrella"}
]
</script></head><body><p>No cards here</p></body></html>`

	got := ExtractPostings(doc, "scrape", nil, fixedNow)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Company != "Initech" || got[0].Location != "Austin, TX" {
		t.Errorf("first = %+v", got[0])
	}
	if got[0].Description != "Pipelines & warehouses" {
		t.Errorf("Description = %q", got[0].Description)
	}
	if want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC); !got[0].PostedAt.Equal(want) {
		t.Errorf("PostedAt = %v", got[0].PostedAt)
	}
	if got[1].Company != "Hooli" || got[1].Location != "Remote" {
		t.Errorf("second = %+v", got[1])
	}
}

func TestExtractPostings_GraphFallback(t *testing.T) {
	doc := `<script type="application/ld+json">{"@graph":[{"@type":"JobPosting","title":"QA","url":"https://example.com/q","hiringOrganization":{"name":"Acme"}}]}</script>`
	got := ExtractPostings(doc, "scrape", nil, fixedNow)
	if len(got) != 1 || got[0].Title != "QA" {
		t.Fatalf("got %+v", got)
	}
}

func TestExtractPostings_SoftFailure(t *testing.T) {
	for _, doc := range []string{
		"",
		"<html><body>nothing</body></html>",
		`<script type="application/ld+json">{not json</script>`,
		"<<<>>> \x00 garbage",
	} {
		if got := ExtractPostings(doc, "scrape", nil, fixedNow); len(got) != 0 {
			t.Errorf("ExtractPostings(%q) = %+v, want empty", doc, got)
		}
	}
}

func TestExtractPostings_ResolvesRelativeLinks(t *testing.T) {
	base, _ := url.Parse("https://www.example.com/jobs/search?keywords=go")
	doc := linkCard("/jobs/view/123?trackingId=x", "Go Engineer", "Acme") +
		linkCard("/jobs/view/123?trackingId=y&amp;refId=z", "Go Engineer", "Acme") +
		linkCard("view/456", "SRE", "Globex")

	got := ExtractPostings(doc, "scrape", base, fixedNow)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(got), got)
	}
	for i, want := range []string{
		"https://www.example.com/jobs/view/123",
		"https://www.example.com/jobs/view/123",
		"https://www.example.com/jobs/view/456",
	} {
		if got[i].ApplyURL != want {
			t.Errorf("got[%d].ApplyURL = %q, want %q", i, got[i].ApplyURL, want)
		}
	}
	if n := len(Dedupe(got)); n != 2 {
		t.Errorf("len(Dedupe) = %d, want 2", n)
	}
}

func TestExtractPostings_DropsRelativeLinksWithoutBase(t *testing.T) {
	doc := linkCard("/jobs/view/123", "Go Engineer", "Acme") +
		linkCard("https://www.example.com/jobs/view/9", "SRE", "Globex")

	got := ExtractPostings(doc, "scrape", nil, fixedNow)
	if len(got) != 1 || got[0].Company != "Globex" {
		t.Fatalf("got %+v, want only the absolute link", got)
	}
}

func TestExtractPostings_JSONLDEscapedDescription(t *testing.T) {
	doc := `<script type="application/ld+json">{"@type":"JobPosting","title":"Go Developer",
"url":"/jobs/77","hiringOrganization":{"name":"Initech"},
"description":"&lt;p&gt;Build &lt;b&gt;Go&lt;/b&gt; services&lt;/p&gt;"}</script>`
	base, _ := url.Parse("https://careers.example.com/search")

	got := ExtractPostings(doc, "scrape", base, fixedNow)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Description != "Build Go services" {
		t.Errorf("Description = %q", got[0].Description)
	}
	if got[0].ApplyURL != "https://careers.example.com/jobs/77" {
		t.Errorf("ApplyURL = %q", got[0].ApplyURL)
	}
}
