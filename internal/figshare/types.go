package figshare

// Article is one entry from an article listing.
type Article struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	DOI           string `json:"doi"`
	PublishedDate string `json:"published_date"`
	URL           string `json:"url"`
}

// ArticleDetail is the full article payload, including reserved identifiers.
type ArticleDetail struct {
	Article
	Description string      `json:"description"`
	Citation    string      `json:"citation"`
	License     License     `json:"license"`
	Authors     []Author    `json:"authors"`
	References  []string    `json:"references"`
	Files       []FileEntry `json:"files"`
}

// License describes an article's license assignment.
type License struct {
	Value int64  `json:"value"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// Author is one article author entry.
type Author struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

// FileEntry is one remote file belonging to a deposit.
type FileEntry struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
	ComputedMD5 string `json:"computed_md5"`
	IsLinkOnly  bool   `json:"is_link_only"`
}

// Project is one entry from a project listing.
type Project struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Collection is one entry from a collection listing.
type Collection struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Group is one institutional group.
type Group struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id"`
}

// Account is one repository user account.
type Account struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Active    int    `json:"active"`
	UserID    int64  `json:"user_id"`
}

// Role is one role assignment inside a group.
type Role struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// GroupRoles maps a group identifier (as returned by the service, a string
// key) to the roles an account holds in that group.
type GroupRoles map[string][]Role

// AccountDetail is one consolidated account record: the base listing row
// merged with per-account counts and role flags. Counts and flags are
// best-effort; a failed sub-query leaves zeros and is reported through the
// client's logger.
type AccountDetail struct {
	Account
	Articles    int
	Projects    int
	Collections int
	Group       string
	Admin       bool
	Reviewer    bool
}

// CurationReview is one entry from the institutional review listing.
type CurationReview struct {
	ID           int64  `json:"id"`
	GroupID      int64  `json:"group_id"`
	AccountID    int64  `json:"account_id"`
	ArticleID    int64  `json:"article_id"`
	Version      int    `json:"version"`
	Status       string `json:"status"`
	CreatedDate  string `json:"created_date"`
	ModifiedDate string `json:"modified_date"`
}

// CurationDetail is the full payload for one review, including the article
// item snapshot the manifest is built from.
type CurationDetail struct {
	CurationReview
	Item ArticleDetail `json:"item"`
}

// CurationComment is one reviewer comment on a curation item.
type CurationComment struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	Type      string `json:"type"`
	Text      string `json:"text"`
}
