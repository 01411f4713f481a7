// Package deposit resolves the depositor behind an article and derives the
// deposit's local folder name from the depositor surname and article id.
package deposit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"curator/internal/figshare"
	"curator/internal/logging"
	"curator/internal/services"
)

// Name identifies the depositor of one deposit.
type Name struct {
	Surname   string
	FirstName string
	Email     string
}

// Record is one unit of curation work: the depositor, the derived folder
// name, and the review snapshot the manifest is built from.
type Record struct {
	ArticleID  int64
	CurationID int64
	FolderName string
	Name       Name
	Snapshot   *figshare.CurationDetail
}

// Source is the slice of the gateway needed for resolution.
type Source interface {
	CurationList(ctx context.Context, articleID int64) ([]figshare.CurationReview, error)
	CurationDetails(ctx context.Context, curationID int64) (*figshare.CurationDetail, error)
	Accounts(ctx context.Context, filter figshare.AccountFilter) ([]figshare.Account, error)
}

// Resolver builds deposit records from the repository service.
type Resolver struct {
	source Source
	logger *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(source Source, logger *slog.Logger) *Resolver {
	return &Resolver{source: source, logger: logging.WithComponent(logger, "deposit")}
}

// Resolve looks up the most recent curation review for the article and
// derives the deposit record from it.
func (r *Resolver) Resolve(ctx context.Context, articleID int64) (*Record, error) {
	reviews, err := r.source.CurationList(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "deposit", "resolve",
			fmt.Sprintf("no curation review for article %d", articleID), nil)
	}
	// The service appends newer reviews; the last entry is the current one.
	review := reviews[len(reviews)-1]

	detail, err := r.source.CurationDetails(ctx, review.ID)
	if err != nil {
		return nil, err
	}

	name, err := r.depositorName(ctx, review.AccountID)
	if err != nil {
		return nil, err
	}

	record := &Record{
		ArticleID:  articleID,
		CurationID: review.ID,
		FolderName: FolderName(name.Surname, articleID),
		Name:       name,
		Snapshot:   detail,
	}
	r.logger.Info("resolved deposit",
		logging.Int64("article_id", articleID),
		logging.String("folder", record.FolderName))
	return record, nil
}

func (r *Resolver) depositorName(ctx context.Context, accountID int64) (Name, error) {
	accounts, err := r.source.Accounts(ctx, figshare.AccountFilter{})
	if err != nil {
		return Name{}, err
	}
	for _, account := range accounts {
		if account.ID == accountID {
			return Name{
				Surname:   account.LastName,
				FirstName: account.FirstName,
				Email:     account.Email,
			}, nil
		}
	}
	return Name{}, services.Wrap(services.ErrNotFound, "deposit", "resolve",
		fmt.Sprintf("depositor account %d not in institutional listing", accountID), nil)
}

// FolderName derives the deterministic local directory key for a deposit:
// the depositor surname with diacritics and punctuation stripped, an
// underscore, and the article id.
func FolderName(surname string, articleID int64) string {
	return foldName(surname) + "_" + strconv.FormatInt(articleID, 10)
}

// foldName strips diacritics and keeps only letters and digits so the result
// is safe as a directory name on any filesystem.
func foldName(value string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, value)
	if err != nil {
		folded = value
	}
	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "Unknown"
	}
	return b.String()
}
