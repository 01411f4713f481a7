package figshare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"
)

func articlesPage(start, count int) []Article {
	page := make([]Article, count)
	for i := range page {
		page[i] = Article{ID: int64(start + i), Title: fmt.Sprintf("article %d", start+i)}
	}
	return page
}

func TestListPaginatedStopsAfterShortPage(t *testing.T) {
	pageSizes := []int{1000, 1000, 250}
	var requests int

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page_size"); got != "1000" {
			t.Errorf("expected page_size=1000, got %q", got)
		}
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 || page > len(pageSizes) {
			t.Errorf("unexpected page request %q", r.URL.Query().Get("page"))
			page = len(pageSizes)
		}
		requests++
		json.NewEncoder(w).Encode(articlesPage((page-1)*1000, pageSizes[page-1]))
	}))

	articles, err := client.Articles(context.Background())
	if err != nil {
		t.Fatalf("articles: %v", err)
	}
	if len(articles) != 2250 {
		t.Fatalf("expected 2250 records, got %d", len(articles))
	}
	if requests != 3 {
		t.Fatalf("expected 3 page requests, got %d", requests)
	}
}

func TestListPaginatedEmptyCollection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	articles, err := client.Articles(context.Background())
	if err != nil {
		t.Fatalf("articles: %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("expected empty result, got %d", len(articles))
	}
}

func TestListOffsetWalksReviews(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		if got := r.URL.Query().Get("limit"); got != "2" {
			t.Errorf("expected limit=2, got %q", got)
		}
		reviews := []CurationReview{}
		// Five reviews total, served two at a time.
		for i := offset; i < 5 && i < offset+2; i++ {
			reviews = append(reviews, CurationReview{ID: int64(i + 1), ArticleID: 100})
		}
		json.NewEncoder(w).Encode(reviews)
	}), WithPageSize(2))

	reviews, err := client.CurationList(context.Background(), 0)
	if err != nil {
		t.Fatalf("curation list: %v", err)
	}
	if len(reviews) != 5 {
		t.Fatalf("expected 5 reviews, got %d", len(reviews))
	}
}

func TestCurationListForwardsArticleFilter(t *testing.T) {
	var gotFilter string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("article_id")
		w.Write([]byte(`[]`))
	}))

	if _, err := client.CurationList(context.Background(), 4242); err != nil {
		t.Fatalf("curation list: %v", err)
	}
	if gotFilter != "4242" {
		t.Fatalf("expected article_id=4242, got %q", gotFilter)
	}
}
