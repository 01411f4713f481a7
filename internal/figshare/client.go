package figshare

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/services"
)

// HTTPDoer describes the HTTP client used by the gateway.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RemoteError reports a non-2xx response from the repository service.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("remote service returned %d: %s", e.StatusCode, e.Message)
}

// IsAuthorizationStatus reports whether an HTTP status indicates rejected
// credentials rather than a generic failure.
func IsAuthorizationStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// Client provides access to the repository service's account API.
type Client struct {
	token      string
	baseURL    string
	pageSize   int
	httpClient HTTPDoer
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for aggregation warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.WithComponent(logger, "figshare")
		}
	}
}

// WithPageSize overrides the listing page size (capped at the service limit).
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 && size <= maxPageSize {
			c.pageSize = size
		}
	}
}

// New creates a gateway client from configuration.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "figshare", "new", "nil config", nil)
	}
	return NewClient(cfg.Figshare.APIToken, cfg.APIBaseURL(),
		append([]Option{
			WithPageSize(cfg.Figshare.PageSize),
			WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Figshare.RequestTimeout) * time.Second}),
		}, opts...)...)
}

// NewClient creates a gateway client from explicit settings.
func NewClient(token, baseURL string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, "figshare", "new", "api token required", nil)
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "figshare", "new", "base url required", nil)
	}
	client := &Client{
		token:      token,
		baseURL:    baseURL,
		pageSize:   maxPageSize,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Token exposes the bearer token for collaborators that attach it to file
// downloads.
func (c *Client) Token() string { return c.token }

// endpoint concatenates a link to the base URL, optionally under the
// institution scope.
func (c *Client) endpoint(link string, institute bool) string {
	if institute {
		return c.baseURL + "/institution/" + link
	}
	return c.baseURL + "/" + link
}

// request issues one call and decodes the JSON response into out. Non-2xx
// responses become RemoteError values tagged ErrAuthorization for 401/403 and
// ErrTransport otherwise.
func (c *Client) request(ctx context.Context, method, rawURL string, params url.Values, body, out any) error {
	target := rawURL
	if len(params) > 0 {
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return services.Wrap(services.ErrValidation, "figshare", "request", fmt.Sprintf("parse url %q", rawURL), err)
		}
		query := parsed.Query()
		for key, values := range params {
			for _, value := range values {
				query.Set(key, value)
			}
		}
		parsed.RawQuery = query.Encode()
		target = parsed.String()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return services.Wrap(services.ErrValidation, "figshare", "request", "encode body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return services.Wrap(services.ErrValidation, "figshare", "request", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "token "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransport, "figshare", "request", fmt.Sprintf("%s %s", method, target), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remote := &RemoteError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
		marker := services.ErrTransport
		if IsAuthorizationStatus(resp.StatusCode) {
			marker = services.ErrAuthorization
		}
		return services.Wrap(marker, "figshare", "request", fmt.Sprintf("%s %s", method, target), remote)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrValidation, "figshare", "request", "decode response", err)
	}
	return nil
}

func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 2048))
	if err != nil {
		return ""
	}
	var parsed struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &parsed) == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(raw))
}

// AsRemoteError unwraps a RemoteError from an error chain, if present.
func AsRemoteError(err error) (*RemoteError, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote, true
	}
	return nil, false
}
