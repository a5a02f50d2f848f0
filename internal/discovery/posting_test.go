package discovery

import (
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tags", "<b>Senior</b> <i>Engineer</i>", "Senior Engineer"},
		{"entities", "R&amp;D&nbsp;Lead &quot;Platform&quot;", `R&D Lead "Platform"`},
		{"escaped markup", "&lt;p&gt;Build &lt;b&gt;Go&lt;/b&gt; services&lt;/p&gt;", "Build Go services"},
		{"lone angle bracket", "latency &lt; 5ms", "latency < 5ms"},
		{"whitespace", "  Backend \n\t  Developer  ", "Backend Developer"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_RejectsMissingApplyURL(t *testing.T) {
	_, ok := Normalize(RawRecord{
		Title:       "Software Engineer",
		Company:     "Acme",
		Location:    "Remote",
		Description: "Build things",
		PostedText:  "today",
	}, fixedNow)
	if ok {
		t.Fatal("Normalize accepted a record without an apply URL")
	}
}

func TestNormalize_RejectsNonAbsoluteApplyURL(t *testing.T) {
	for _, link := range []string{"/jobs/view/1", "jobs/view/1", "mailto:hr@example.com", "ftp://example.com/1"} {
		if _, ok := Normalize(RawRecord{Title: "Engineer", Company: "Acme", ApplyURL: link}, fixedNow); ok {
			t.Errorf("Normalize accepted apply url %q", link)
		}
	}
}

func TestNormalize_RejectsMissingTitleOrCompany(t *testing.T) {
	for _, rec := range []RawRecord{
		{Company: "Acme", ApplyURL: "https://example.com/1"},
		{Title: "<span> </span>", Company: "Acme", ApplyURL: "https://example.com/1"},
		{Title: "Engineer", ApplyURL: "https://example.com/1"},
	} {
		if _, ok := Normalize(rec, fixedNow); ok {
			t.Errorf("Normalize(%+v) accepted an incomplete record", rec)
		}
	}
}

func TestNormalize_CleansAndTruncates(t *testing.T) {
	long := strings.Repeat("a", SnippetLimit+50)
	p, ok := Normalize(RawRecord{
		Title:       " <strong>Go&nbsp;Developer</strong> ",
		Company:     "Acme &amp; Co",
		ApplyURL:    "https://Jobs.Example.com/view/1?refId=abc&amp;utm_source=x&id=7",
		Description: long,
		PostedText:  "2 days ago",
		Source:      "scrape",
	}, fixedNow)
	if !ok {
		t.Fatal("Normalize rejected a valid record")
	}
	if p.Title != "Go Developer" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Company != "Acme & Co" {
		t.Errorf("Company = %q", p.Company)
	}
	if p.ApplyURL != "https://jobs.example.com/view/1?id=7" {
		t.Errorf("ApplyURL = %q", p.ApplyURL)
	}
	if n := len([]rune(p.Description)); n != SnippetLimit {
		t.Errorf("len(Description) = %d, want %d", n, SnippetLimit)
	}
	if want := fixedNow.AddDate(0, 0, -2); !p.PostedAt.Equal(want) {
		t.Errorf("PostedAt = %v, want %v", p.PostedAt, want)
	}
}

func TestNormalize_AbsoluteDateWins(t *testing.T) {
	posted := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	p, ok := Normalize(RawRecord{
		Title: "Engineer", Company: "Acme", ApplyURL: "https://example.com/1",
		PostedAt: posted, PostedText: "today",
	}, fixedNow)
	if !ok {
		t.Fatal("Normalize rejected a valid record")
	}
	if !p.PostedAt.Equal(posted) {
		t.Errorf("PostedAt = %v, want %v", p.PostedAt, posted)
	}
}
