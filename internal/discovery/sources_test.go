package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAdzunaSource_Search(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/us/search/1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{"what": q.Get("what"), "where": q.Get("where"), "app_id": q.Get("app_id")}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"id":"1","title":"<strong>Go</strong> Engineer","description":"Build APIs","company":{"display_name":"Acme"},
			 "location":{"display_name":"Remote"},"redirect_url":"https://adzuna.example/1","created":"2026-03-09T10:00:00Z"},
			{"id":"2","title":"No Company","company":{"display_name":""},"redirect_url":"https://adzuna.example/2"}
		]}`))
	}))
	defer srv.Close()

	src := NewAdzunaSource("id", "key", "us", srv.Client(), nil)
	src.BaseURL = srv.URL
	src.now = func() time.Time { return fixedNow }

	got, err := src.Search(context.Background(), Query{Role: "Go Engineer", Location: "Remote"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if gotQuery["what"] != "Go Engineer" || gotQuery["where"] != "Remote" || gotQuery["app_id"] != "id" {
		t.Errorf("query = %v", gotQuery)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Title != "Go Engineer" || got[0].Source != "adzuna" {
		t.Errorf("posting = %+v", got[0])
	}
	if want := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC); !got[0].PostedAt.Equal(want) {
		t.Errorf("PostedAt = %v", got[0].PostedAt)
	}
}

func TestAdzunaSource_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	src := NewAdzunaSource("id", "key", "us", srv.Client(), nil)
	src.BaseURL = srv.URL
	if _, err := src.Search(context.Background(), Query{Role: "x"}); err == nil {
		t.Fatal("Search() error = nil, want error")
	}
}

func TestHTMLSource_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if kw := r.URL.Query().Get("keywords"); kw != "Data Engineer" {
			t.Errorf("keywords = %q", kw)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}
		_, _ = w.Write([]byte(card(1, "Data Engineer", "Initech", `<time>today</time>`)))
	}))
	defer srv.Close()

	src := NewHTMLSource(srv.URL+"/jobs/search?f=1", srv.Client(), nil)
	src.now = func() time.Time { return fixedNow }

	got, err := src.Search(context.Background(), Query{Role: "Data Engineer", Location: "Austin"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].Company != "Initech" || !got[0].PostedAt.Equal(fixedNow) {
		t.Fatalf("got %+v", got)
	}
}

func TestHTMLSource_ResolvesLinksAgainstPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(linkCard("/jobs/view/5?trackingId=abc", "Go Engineer", "Acme")))
	}))
	defer srv.Close()

	got, err := NewHTMLSource(srv.URL+"/jobs/search", srv.Client(), nil).Search(context.Background(), Query{Role: "Go"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].ApplyURL != srv.URL+"/jobs/view/5" {
		t.Fatalf("got %+v, want apply url %s/jobs/view/5", got, srv.URL)
	}
}

func TestHTMLSource_UnparseablePageIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>captcha wall</html>"))
	}))
	defer srv.Close()

	got, err := NewHTMLSource(srv.URL, srv.Client(), nil).Search(context.Background(), Query{Role: "x"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d postings, want 0", len(got))
	}
}
