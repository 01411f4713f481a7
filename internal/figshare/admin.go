package figshare

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"curator/internal/logging"
)

// AccountFilter excludes administrative and test accounts from listings.
type AccountFilter struct {
	ExcludeEmails     []string
	ExcludeSubstrings []string
}

// Excludes reports whether the filter drops the given account email.
func (f AccountFilter) Excludes(email string) bool {
	for _, exact := range f.ExcludeEmails {
		if strings.EqualFold(email, exact) {
			return true
		}
	}
	for _, fragment := range f.ExcludeSubstrings {
		if fragment != "" && strings.Contains(strings.ToLower(email), strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}

// Articles lists every article in the institutional instance.
func (c *Client) Articles(ctx context.Context) ([]Article, error) {
	return listPaginated[Article](ctx, c, c.endpoint("articles", true), nil)
}

// UserArticles lists articles owned by one account via impersonation.
func (c *Client) UserArticles(ctx context.Context, accountID int64) ([]Article, error) {
	return listPaginated[Article](ctx, c, c.endpoint("articles", false), impersonate(accountID))
}

// UserProjects lists projects owned by one account via impersonation.
func (c *Client) UserProjects(ctx context.Context, accountID int64) ([]Project, error) {
	return listPaginated[Project](ctx, c, c.endpoint("projects", false), impersonate(accountID))
}

// UserCollections lists collections owned by one account via impersonation.
func (c *Client) UserCollections(ctx context.Context, accountID int64) ([]Collection, error) {
	return listPaginated[Collection](ctx, c, c.endpoint("collections", false), impersonate(accountID))
}

// Groups lists the institution's groups.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.request(ctx, http.MethodGet, c.endpoint("groups", true), nil, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Accounts lists institutional accounts, applying the filter before any
// per-account work so excluded accounts cost no further calls.
func (c *Client) Accounts(ctx context.Context, filter AccountFilter) ([]Account, error) {
	accounts, err := listPaginated[Account](ctx, c, c.endpoint("accounts", true), nil)
	if err != nil {
		return nil, err
	}
	kept := make([]Account, 0, len(accounts))
	for _, account := range accounts {
		if filter.Excludes(account.Email) {
			c.logger.Debug("excluding account from listing", logging.String("email", account.Email))
			continue
		}
		kept = append(kept, account)
	}
	return kept, nil
}

// AccountGroupRoles retrieves the group role assignments for one account.
func (c *Client) AccountGroupRoles(ctx context.Context, accountID int64) (GroupRoles, error) {
	var roles GroupRoles
	url := c.endpoint("roles/"+strconv.FormatInt(accountID, 10), true)
	if err := c.request(ctx, http.MethodGet, url, nil, nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// AccountDetails merges the account listing with per-account counts and role
// flags. Every sub-query is isolated: a failure logs a warning naming the
// account and the missing resource, leaves a zero value, and aggregation
// continues with the next account. Listing order is preserved.
func (c *Client) AccountDetails(ctx context.Context, filter AccountFilter) ([]AccountDetail, error) {
	accounts, err := c.Accounts(ctx, filter)
	if err != nil {
		return nil, err
	}

	groups, err := c.Groups(ctx)
	if err != nil {
		return nil, err
	}
	groupNames := make(map[string]string, len(groups))
	for _, group := range groups {
		groupNames[strconv.FormatInt(group.ID, 10)] = group.Name
	}

	details := make([]AccountDetail, 0, len(accounts))
	for _, account := range accounts {
		details = append(details, c.mergeAccount(ctx, account, groupNames))
	}
	return details, nil
}

// mergeAccount builds one consolidated record for a single account. It never
// fails; missing pieces are logged and left at their zero value. Roles are
// resolved before any count query: a role-lookup failure short-circuits the
// record, so the counts stay at zero instead of describing a half-merged
// account.
func (c *Client) mergeAccount(ctx context.Context, account Account, groupNames map[string]string) AccountDetail {
	detail := AccountDetail{Account: account}

	roles, err := c.AccountGroupRoles(ctx, account.ID)
	if err != nil {
		c.warnSubQuery(account.ID, "roles", err)
		return detail
	}
	groupID, flags := ResolveRoles(roles)
	detail.Admin = flags.Admin
	detail.Reviewer = flags.Reviewer
	if groupID != "" {
		if name, ok := groupNames[groupID]; ok {
			detail.Group = name
		} else {
			detail.Group = groupID
		}
	}

	if articles, err := c.UserArticles(ctx, account.ID); err != nil {
		c.warnSubQuery(account.ID, "articles", err)
	} else {
		detail.Articles = len(articles)
	}
	if projects, err := c.UserProjects(ctx, account.ID); err != nil {
		c.warnSubQuery(account.ID, "projects", err)
	} else {
		detail.Projects = len(projects)
	}
	if collections, err := c.UserCollections(ctx, account.ID); err != nil {
		c.warnSubQuery(account.ID, "collections", err)
	} else {
		detail.Collections = len(collections)
	}
	return detail
}

func (c *Client) warnSubQuery(accountID int64, resource string, err error) {
	c.logger.Warn("unable to retrieve account resource",
		logging.Int64("account_id", accountID),
		logging.String("resource", resource),
		logging.Error(err))
}

// CurationList lists reviews, optionally narrowed to one article.
func (c *Client) CurationList(ctx context.Context, articleID int64) ([]CurationReview, error) {
	params := url.Values{}
	if articleID > 0 {
		params.Set("article_id", strconv.FormatInt(articleID, 10))
	}
	return listOffset[CurationReview](ctx, c, c.endpoint("reviews", true), params)
}

// CurationDetails retrieves the full payload for one review.
func (c *Client) CurationDetails(ctx context.Context, curationID int64) (*CurationDetail, error) {
	var detail CurationDetail
	url := c.endpoint("review/"+strconv.FormatInt(curationID, 10), true)
	if err := c.request(ctx, http.MethodGet, url, nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CurationComments retrieves reviewer comments for one review.
func (c *Client) CurationComments(ctx context.Context, curationID int64) ([]CurationComment, error) {
	var comments []CurationComment
	url := c.endpoint("review/"+strconv.FormatInt(curationID, 10)+"/comments", true)
	if err := c.request(ctx, http.MethodGet, url, nil, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// ArticleDetails retrieves the private article payload.
func (c *Client) ArticleDetails(ctx context.Context, articleID int64) (*ArticleDetail, error) {
	var detail ArticleDetail
	url := c.endpoint("articles/"+strconv.FormatInt(articleID, 10), false)
	if err := c.request(ctx, http.MethodGet, url, nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ArticleFiles lists the remote files attached to an article.
func (c *Client) ArticleFiles(ctx context.Context, articleID int64) ([]FileEntry, error) {
	var files []FileEntry
	url := c.endpoint("articles/"+strconv.FormatInt(articleID, 10)+"/files", false)
	if err := c.request(ctx, http.MethodGet, url, nil, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func impersonate(accountID int64) url.Values {
	params := url.Values{}
	params.Set("impersonate", strconv.FormatInt(accountID, 10))
	return params
}
