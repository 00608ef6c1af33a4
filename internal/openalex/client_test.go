package openalex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSearchAuthors_FilterAssembly(t *testing.T) {
	var gotFilter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/authors" {
			t.Errorf("path = %q, want /authors", r.URL.Path)
		}
		gotFilter = r.URL.Query().Get("filter")
		fmt.Fprint(w, `{"meta":{"count":1},"results":[{"id":"https://openalex.org/A1","display_name":"Ada Lovelace"}]}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	authors, err := c.SearchAuthors(context.Background(), "Ada Lovelace", "https://openalex.org/I47508984")
	if err != nil {
		t.Fatalf("SearchAuthors() error = %v", err)
	}
	if len(authors) != 1 || authors[0].ID != "https://openalex.org/A1" {
		t.Errorf("authors = %v, want single A1", authors)
	}

	want := "display_name.search:Ada Lovelace,affiliations.institution.id:https://openalex.org/I47508984"
	if gotFilter != want {
		t.Errorf("filter = %q, want %q", gotFilter, want)
	}
}

func TestSearchAuthors_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"meta":{"count":0},"results":[]}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	authors, err := c.SearchAuthors(context.Background(), "Nobody Here", "")
	if err != nil {
		t.Fatalf("SearchAuthors() error = %v", err)
	}
	if len(authors) != 0 {
		t.Errorf("authors = %v, want empty", authors)
	}
}

func TestListAuthorWorks_CursorWalk(t *testing.T) {
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("filter")
		for _, part := range []string{
			"type:article|preprint|book-chapter|dissertation",
			"authorships.author.id:https://openalex.org/A1",
			"publication_year:>2010",
			"has_abstract:true",
		} {
			if !strings.Contains(filter, part) {
				t.Errorf("filter %q missing %q", filter, part)
			}
		}

		cursor := r.URL.Query().Get("cursor")
		pages++
		switch cursor {
		case "*":
			fmt.Fprint(w, `{"meta":{"count":3,"next_cursor":"page2"},"results":[{"id":"W1","title":"One","publication_year":2020,"cited_by_count":10},{"id":"W2","title":"Two","publication_year":2021,"cited_by_count":5}]}`)
		case "page2":
			fmt.Fprint(w, `{"meta":{"count":3,"next_cursor":""},"results":[{"id":"W3","title":"Three","publication_year":2022,"cited_by_count":1}]}`)
		default:
			t.Errorf("unexpected cursor %q", cursor)
			fmt.Fprint(w, `{"meta":{"count":0,"next_cursor":""},"results":[]}`)
		}
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	works, err := c.ListAuthorWorks(context.Background(), "https://openalex.org/A1")
	if err != nil {
		t.Fatalf("ListAuthorWorks() error = %v", err)
	}
	if pages != 2 {
		t.Errorf("pages fetched = %d, want 2", pages)
	}
	if len(works) != 3 {
		t.Fatalf("len(works) = %d, want 3", len(works))
	}
	// Order preserved across pages
	if works[0].ID != "W1" || works[2].ID != "W3" {
		t.Errorf("work order = %v %v %v, want W1..W3", works[0].ID, works[1].ID, works[2].ID)
	}
}

func TestGetWithRetry_ExhaustsOnServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "upstream sad", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetries(3), WithBackoff(time.Millisecond))
	_, err := c.SearchAuthors(context.Background(), "X", "")
	if err == nil {
		t.Fatal("SearchAuthors() expected error after retries exhausted")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestGetWithRetry_NoRetryOnClientError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad filter", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetries(3), WithBackoff(time.Millisecond))
	_, err := c.SearchAuthors(context.Background(), "X", "")
	if err == nil {
		t.Fatal("SearchAuthors() expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (4xx is not retryable)", attempts)
	}
}

func TestReconstructAbstract(t *testing.T) {
	index := map[string][]int{
		"carbon":  {2},
		"Direct":  {0},
		"air":     {1},
		"capture": {3, 5},
		"at":      {4},
	}
	got := ReconstructAbstract(index)
	want := "Direct air carbon capture at capture"
	if got != want {
		t.Errorf("ReconstructAbstract() = %q, want %q", got, want)
	}
}

func TestReconstructAbstract_Empty(t *testing.T) {
	if got := ReconstructAbstract(nil); got != "" {
		t.Errorf("ReconstructAbstract(nil) = %q, want empty", got)
	}
	if got := ReconstructAbstract(map[string][]int{}); got != "" {
		t.Errorf("ReconstructAbstract(empty) = %q, want empty", got)
	}
}

func TestWorkHelpers(t *testing.T) {
	w := Work{
		PrimaryTopic:         &Topic{ID: "https://openalex.org/T1"},
		CorrespondingAuthors: []string{"https://openalex.org/A1", "https://openalex.org/A2"},
	}
	if w.TopicID() != "https://openalex.org/T1" {
		t.Errorf("TopicID() = %q", w.TopicID())
	}
	if !w.HasCorrespondingAuthor("https://openalex.org/A2") {
		t.Error("HasCorrespondingAuthor() = false for listed author")
	}
	if w.HasCorrespondingAuthor("https://openalex.org/A3") {
		t.Error("HasCorrespondingAuthor() = true for unlisted author")
	}

	var bare Work
	if bare.TopicID() != "" {
		t.Errorf("TopicID() on bare work = %q, want empty", bare.TopicID())
	}
}
