package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"curator/internal/config"
)

const userAgent = "Curator/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyIntakeStarted(ctx context.Context, articleID int64, folderName string) error
	NotifyIntakeCompleted(ctx context.Context, articleID int64, folderName string, fetched, failed int, duration time.Duration) error
	NotifyStageAdvanced(ctx context.Context, folderName, fromStage, toStage string) error
	NotifyIdentifierReserved(ctx context.Context, articleID int64, doi string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyIntakeStarted(ctx context.Context, articleID int64, folderName string) error {
	folderName = strings.TrimSpace(folderName)
	data := payload{
		title:   "Curator - Intake Started",
		message: fmt.Sprintf("Started intake for article %d (%s)", articleID, folderName),
		tags:    []string{"curator", "intake", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyIntakeCompleted(ctx context.Context, articleID int64, folderName string, fetched, failed int, duration time.Duration) error {
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title string
	var message string
	if failed == 0 {
		title = "Curator - Intake Complete"
		message = fmt.Sprintf("Intake complete for article %d (%s): %d files retrieved in %s",
			articleID, folderName, fetched, durationText)
	} else {
		title = "Curator - Intake Complete (with errors)"
		message = fmt.Sprintf("Intake complete for article %d (%s): %d retrieved, %d failed in %s",
			articleID, folderName, fetched, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"curator", "intake", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyStageAdvanced(ctx context.Context, folderName, fromStage, toStage string) error {
	folderName = strings.TrimSpace(folderName)
	data := payload{
		title:   "Curator - Stage Advanced",
		message: fmt.Sprintf("Deposit %s moved: %s -> %s", folderName, fromStage, toStage),
		tags:    []string{"curator", "stage", "advanced"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyIdentifierReserved(ctx context.Context, articleID int64, doi string) error {
	doi = strings.TrimSpace(doi)
	data := payload{
		title:    "Curator - DOI Reserved",
		message:  fmt.Sprintf("Reserved %s for article %d", doi, articleID),
		tags:     []string{"curator", "doi", "reserved"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Curator - Error",
		message:  builder.String(),
		tags:     []string{"curator", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Curator - Test",
		message:  "Notification system test",
		tags:     []string{"curator", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyIntakeStarted(context.Context, int64, string) error { return nil }
func (noopService) NotifyIntakeCompleted(context.Context, int64, string, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifyStageAdvanced(context.Context, string, string, string) error { return nil }
func (noopService) NotifyIdentifierReserved(context.Context, int64, string) error     { return nil }
func (noopService) NotifyError(context.Context, error, string) error                  { return nil }
func (noopService) TestNotification(context.Context) error                            { return nil }
