package searchclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nhoward/scout/internal/query"
)

const payload = `{
	"results": [
		{"id": "c1", "name": "Priya Raman", "title": "Backend Engineer",
		 "location": "Berlin", "availability": "immediate",
		 "technologies": ["Kotlin", "Spring"], "matchScore": 0.91},
		{"id": "c2", "name": "Jonas Weber", "title": "Platform Engineer",
		 "location": "Hamburg", "availability": "2 weeks",
		 "technologies": ["Go"], "matchScore": 0.84}
	],
	"totalCount": 57,
	"query": "senior kotlin",
	"facets": {"technologies": [{"value": "Kotlin", "count": 1}]}
}`

func TestSearchDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 0)
	resp, err := c.Search(context.Background(), query.New("senior kotlin"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(resp.Results) != 2 || resp.TotalCount != 57 {
		t.Errorf("got %d results / total %d, want 2 / 57", len(resp.Results), resp.TotalCount)
	}
	if resp.Results[0].ID != "c1" || resp.Results[0].MatchScore != 0.91 {
		t.Errorf("first result = %+v", resp.Results[0])
	}
	if resp.Facets == nil || len(resp.Facets["technologies"]) != 1 {
		t.Errorf("facets = %+v, want the backend block", resp.Facets)
	}
}

func TestSearchRequestShape(t *testing.T) {
	var gotQuery url.Values
	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"results": [], "totalCount": 0}`))
	}))
	defer srv.Close()

	q := query.New("senior kotlin")
	q.TopK = 20
	q.MinScore = 0.85
	q.Facets.Location = "Munich"
	q.Facets.Technologies = []string{"Kotlin", "Spring"}
	q.Facets.Skills = []string{"API Design"}
	q.Facets.MinYears = 5

	c := New(srv.URL, "sekrit", 0)
	if _, err := c.Search(context.Background(), q); err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := url.Values{
		"query":              {"senior kotlin"},
		"topK":               {"20"},
		"minScore":           {"0.85"},
		"location":           {"Munich"},
		"technologies":       {"Kotlin", "Spring"}, // repeated, not joined
		"skills":             {"API Design"},
		"minYearsExperience": {"5"},
	}
	if !reflect.DeepEqual(gotQuery, want) {
		t.Errorf("request params = %v, want %v", gotQuery, want)
	}
	if gotAuth != "Bearer sekrit" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
}

func TestSearchOmitsEmptyOptionalParams(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"results": [], "totalCount": 0}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 0)
	if _, err := c.Search(context.Background(), query.New("kotlin")); err != nil {
		t.Fatalf("Search: %v", err)
	}

	for _, key := range []string{"location", "availability", "technologies", "skills", "certifications", "minYearsExperience"} {
		if gotQuery.Has(key) {
			t.Errorf("empty %s was sent as %q", key, gotQuery.Get(key))
		}
	}
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "", 0)
	_, err := c.Search(context.Background(), query.New("kotlin"))
	if !errors.Is(err, ErrServer) {
		t.Errorf("HTTP 500 produced %v, want ErrServer", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error %q does not carry the status code", err)
	}
}

func TestSearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 0)
	if _, err := c.Search(context.Background(), query.New("kotlin")); !errors.Is(err, ErrServer) {
		t.Errorf("truncated body produced %v, want ErrServer", err)
	}
}

func TestSearchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := New(srv.URL, "", time.Second)
	_, err := c.Search(context.Background(), query.New("kotlin"))
	if !errors.Is(err, ErrTransport) {
		t.Errorf("refused connection produced %v, want ErrTransport", err)
	}
}

func TestSearchHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [], "totalCount": 0}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 0)
	if _, err := c.Search(ctx, query.New("kotlin")); err == nil {
		t.Error("Search succeeded with a cancelled context")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrTransport, "Search service unreachable. Check your connection and try again."},
		{errors.New("wrapped: " + ErrServer.Error()), "Search failed: wrapped: search service returned an error"},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}

	wrapped := &wrapError{ErrServer}
	if got := Classify(wrapped); got != "Search failed on the server. Try again in a moment." {
		t.Errorf("Classify(wrapped ErrServer) = %q", got)
	}
}

type wrapError struct{ inner error }

func (w *wrapError) Error() string { return "wrapped" }
func (w *wrapError) Unwrap() error { return w.inner }
