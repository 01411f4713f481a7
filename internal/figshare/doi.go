package figshare

import (
	"context"
	"net/http"
	"strconv"
)

// DOICheck reports whether a DOI is already reserved for the article and
// returns the current identifier string (empty when unreserved).
func (c *Client) DOICheck(ctx context.Context, articleID int64) (bool, string, error) {
	detail, err := c.ArticleDetails(ctx, articleID)
	if err != nil {
		return false, "", err
	}
	return detail.DOI != "", detail.DOI, nil
}

// ReserveDOI issues the minting request. Callers are expected to have
// confirmed the action; reservation is effectively irreversible.
func (c *Client) ReserveDOI(ctx context.Context, articleID int64) (string, error) {
	var response struct {
		DOI string `json:"doi"`
	}
	url := c.endpoint("articles/"+strconv.FormatInt(articleID, 10)+"/reserve_doi", false)
	if err := c.request(ctx, http.MethodPost, url, nil, nil, &response); err != nil {
		return "", err
	}
	return response.DOI, nil
}
