package deposit

import (
	"context"
	"errors"
	"testing"

	"curator/internal/figshare"
	"curator/internal/logging"
	"curator/internal/services"
)

type fakeSource struct {
	reviews  []figshare.CurationReview
	detail   *figshare.CurationDetail
	accounts []figshare.Account
}

func (f *fakeSource) CurationList(ctx context.Context, articleID int64) ([]figshare.CurationReview, error) {
	return f.reviews, nil
}

func (f *fakeSource) CurationDetails(ctx context.Context, curationID int64) (*figshare.CurationDetail, error) {
	return f.detail, nil
}

func (f *fakeSource) Accounts(ctx context.Context, filter figshare.AccountFilter) ([]figshare.Account, error) {
	return f.accounts, nil
}

func TestResolveBuildsRecord(t *testing.T) {
	source := &fakeSource{
		reviews: []figshare.CurationReview{
			{ID: 1, AccountID: 10, ArticleID: 555},
			{ID: 2, AccountID: 10, ArticleID: 555},
		},
		detail: &figshare.CurationDetail{
			CurationReview: figshare.CurationReview{ID: 2},
			Item:           figshare.ArticleDetail{Article: figshare.Article{Title: "Dataset"}},
		},
		accounts: []figshare.Account{
			{ID: 10, FirstName: "María", LastName: "García-López", Email: "mgl@example.edu"},
		},
	}
	resolver := NewResolver(source, logging.NewNop())

	record, err := resolver.Resolve(context.Background(), 555)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if record.CurationID != 2 {
		t.Fatalf("expected latest review, got %d", record.CurationID)
	}
	if record.FolderName != "GarciaLopez_555" {
		t.Fatalf("unexpected folder name: %q", record.FolderName)
	}
	if record.Name.Email != "mgl@example.edu" {
		t.Fatalf("unexpected name: %+v", record.Name)
	}
	if record.Snapshot == nil || record.Snapshot.Item.Title != "Dataset" {
		t.Fatalf("snapshot not attached: %+v", record.Snapshot)
	}
}

func TestResolveNoReviewIsNotFound(t *testing.T) {
	resolver := NewResolver(&fakeSource{}, logging.NewNop())
	_, err := resolver.Resolve(context.Background(), 555)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestResolveUnknownDepositorAccount(t *testing.T) {
	source := &fakeSource{
		reviews: []figshare.CurationReview{{ID: 1, AccountID: 99}},
		detail:  &figshare.CurationDetail{},
	}
	resolver := NewResolver(source, logging.NewNop())
	_, err := resolver.Resolve(context.Background(), 555)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestFolderNameFolding(t *testing.T) {
	cases := map[string]string{
		"García":      "Garcia_1",
		"O'Brien":     "OBrien_1",
		"van der Zee": "vanderZee_1",
		"Łukasz":      "Łukasz_1",
		"":            "Unknown_1",
	}
	for surname, want := range cases {
		if got := FolderName(surname, 1); got != want {
			t.Fatalf("FolderName(%q) = %q, want %q", surname, got, want)
		}
	}
}
