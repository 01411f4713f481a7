// Package fetch materializes a deposit's remote files onto local storage
// with skip-if-exists idempotence, an authenticated-then-anonymous fallback,
// and per-file failure isolation.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"curator/internal/figshare"
	"curator/internal/fileutil"
	"curator/internal/logging"
	"curator/internal/services"
)

// Status is the final state of one file after a fetch pass.
type Status string

const (
	// StatusSkipped marks a file already present locally; it is never
	// re-fetched.
	StatusSkipped Status = "skipped"
	// StatusAuthenticatedOK marks a file retrieved with credentials.
	StatusAuthenticatedOK Status = "authenticated_ok"
	// StatusAnonymousOK marks a file retrieved on the anonymous retry.
	StatusAnonymousOK Status = "anonymous_ok"
	// StatusFailed marks a file that could not be retrieved; the batch
	// continues past it.
	StatusFailed Status = "failed"
)

// Item records the outcome for one file.
type Item struct {
	Name      string
	Size      int64
	LocalPath string
	Status    Status
	Err       error
}

// Report summarizes one fetch pass.
type Report struct {
	Items []Item
}

// Failed returns the number of files that could not be retrieved.
func (r *Report) Failed() int {
	count := 0
	for _, item := range r.Items {
		if item.Status == StatusFailed {
			count++
		}
	}
	return count
}

// Retrieved returns the number of files downloaded in this pass.
func (r *Report) Retrieved() int {
	count := 0
	for _, item := range r.Items {
		if item.Status == StatusAuthenticatedOK || item.Status == StatusAnonymousOK {
			count++
		}
	}
	return count
}

// HTTPDoer describes the HTTP client used for downloads.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads deposit files.
type Fetcher struct {
	token  string
	client HTTPDoer
	logger *slog.Logger
	// lockMode is applied to the whole target tree once the batch finishes.
	lockMode os.FileMode
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// NewFetcher constructs a Fetcher using the gateway token for authenticated
// retrieval.
func NewFetcher(token string, logger *slog.Logger, opts ...Option) *Fetcher {
	fetcher := &Fetcher{
		token:    token,
		client:   &http.Client{Timeout: 10 * time.Minute},
		logger:   logging.WithComponent(logger, "fetch"),
		lockMode: 0o555,
	}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher
}

// FetchAll attempts every file in the list, never aborting the batch for a
// single file, then locks the target directory tree read/execute-only. The
// lockdown happens exactly once, after all files have been attempted.
func (f *Fetcher) FetchAll(ctx context.Context, files []figshare.FileEntry, targetDir string) (*Report, error) {
	log := logging.WithContext(ctx, f.logger)

	if err := os.MkdirAll(targetDir, 0o777); err != nil {
		return nil, fmt.Errorf("create target directory: %w", err)
	}

	report := &Report{Items: make([]Item, 0, len(files))}
	for n, file := range files {
		item := Item{
			Name:      file.Name,
			Size:      file.Size,
			LocalPath: filepath.Join(targetDir, filepath.Base(file.Name)),
		}
		log.Info("retrieving file",
			logging.Int("index", n+1),
			logging.Int("total", len(files)),
			logging.String("name", file.Name),
			logging.Int64("size", file.Size))

		item.Status, item.Err = f.fetchOne(ctx, file, item.LocalPath)
		switch item.Status {
		case StatusSkipped:
			log.Info("file exists, not overwriting", logging.String("name", file.Name))
		case StatusAnonymousOK:
			log.Info("retrieved without credentials", logging.String("name", file.Name))
		case StatusFailed:
			log.Warn("failed to retrieve file",
				logging.String("name", file.Name),
				logging.Error(item.Err))
		}
		report.Items = append(report.Items, item)
	}

	// Lock retrieved originals against accidental mutation.
	if err := fileutil.LockTree(targetDir, f.lockMode); err != nil {
		return report, fmt.Errorf("lock target directory: %w", err)
	}
	return report, nil
}

// fetchOne resolves the final status for a single file. Only the
// authorization failure class triggers the anonymous retry; anything else is
// a per-file error.
func (f *Fetcher) fetchOne(ctx context.Context, file figshare.FileEntry, localPath string) (Status, error) {
	if _, err := os.Stat(localPath); err == nil {
		return StatusSkipped, nil
	}

	authErr := f.download(ctx, file.DownloadURL, localPath, true)
	if authErr == nil {
		return StatusAuthenticatedOK, nil
	}
	if !isAuthorizationFailure(authErr) {
		return StatusFailed, authErr
	}

	// The resource may be public even though the token was rejected.
	if anonErr := f.download(ctx, file.DownloadURL, localPath, false); anonErr != nil {
		return StatusFailed, anonErr
	}
	return StatusAnonymousOK, nil
}

// download streams the response body to a temp file and renames it into
// place, so an interrupted transfer never appears complete.
func (f *Fetcher) download(ctx context.Context, url, localPath string, authenticated bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return services.Wrap(services.ErrValidation, "fetch", "download", "build request", err)
	}
	if authenticated && f.token != "" {
		req.Header.Set("Authorization", "token "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransport, "fetch", "download", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		marker := services.ErrTransport
		if figshare.IsAuthorizationStatus(resp.StatusCode) {
			marker = services.ErrAuthorization
		}
		return services.Wrap(marker, "fetch", "download", url,
			&figshare.RemoteError{StatusCode: resp.StatusCode})
	}

	tmpPath := localPath + ".part"
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %q: %w", tmpPath, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrTransport, "fetch", "download", "stream body", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("flush %q: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, localPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("finalize %q: %w", localPath, err)
	}
	return nil
}

func isAuthorizationFailure(err error) bool {
	return errors.Is(err, services.ErrAuthorization)
}
