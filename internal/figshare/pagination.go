package figshare

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// maxPageSize is the upper bound the service enforces on page/limit sizes.
const maxPageSize = 1000

// listPaginated walks a page/page_size collection until a short page signals
// the end. Each call restarts from the first page.
func listPaginated[T any](ctx context.Context, c *Client, rawURL string, params url.Values) ([]T, error) {
	pageSize := c.pageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var records []T
	for page := 1; ; page++ {
		query := cloneValues(params)
		query.Set("page", strconv.Itoa(page))
		query.Set("page_size", strconv.Itoa(pageSize))

		var batch []T
		if err := c.request(ctx, http.MethodGet, rawURL, query, nil, &batch); err != nil {
			return nil, err
		}
		records = append(records, batch...)
		if len(batch) < pageSize {
			return records, nil
		}
	}
}

// listOffset walks an offset/limit collection (the review endpoints) until a
// short batch signals the end.
func listOffset[T any](ctx context.Context, c *Client, rawURL string, params url.Values) ([]T, error) {
	limit := c.pageSize
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	var records []T
	for offset := 0; ; offset += limit {
		query := cloneValues(params)
		query.Set("offset", strconv.Itoa(offset))
		query.Set("limit", strconv.Itoa(limit))

		var batch []T
		if err := c.request(ctx, http.MethodGet, rawURL, query, nil, &batch); err != nil {
			return nil, err
		}
		records = append(records, batch...)
		if len(batch) < limit {
			return records, nil
		}
	}
}

func cloneValues(params url.Values) url.Values {
	clone := url.Values{}
	for key, values := range params {
		for _, value := range values {
			clone.Add(key, value)
		}
	}
	return clone
}
