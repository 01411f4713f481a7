package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"curator/internal/config"
	"curator/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyIntakeStarted(context.Background(), 101, "Doe_101"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "intake started",
			notify: func(svc notifications.Service) error {
				return svc.NotifyIntakeStarted(context.Background(), 101, "Doe_101")
			},
			expectTitle:   "Curator - Intake Started",
			expectMessage: "Started intake for article 101 (Doe_101)",
			expectTags:    "curator,intake,started",
		},
		{
			name: "intake completed clean",
			notify: func(svc notifications.Service) error {
				return svc.NotifyIntakeCompleted(context.Background(), 101, "Doe_101", 4, 0, 90*time.Second)
			},
			expectTitle:   "Curator - Intake Complete",
			expectMessage: "Intake complete for article 101 (Doe_101): 4 files retrieved in 1m30s",
			expectTags:    "curator,intake,completed",
		},
		{
			name: "intake completed with failures",
			notify: func(svc notifications.Service) error {
				return svc.NotifyIntakeCompleted(context.Background(), 101, "Doe_101", 3, 1, time.Minute)
			},
			expectTitle:   "Curator - Intake Complete (with errors)",
			expectMessage: "Intake complete for article 101 (Doe_101): 3 retrieved, 1 failed in 1m0s",
			expectTags:    "curator,intake,completed",
		},
		{
			name: "stage advanced",
			notify: func(svc notifications.Service) error {
				return svc.NotifyStageAdvanced(context.Background(), "Doe_101", "1.ToDo", "2.UnderReview")
			},
			expectTitle:   "Curator - Stage Advanced",
			expectMessage: "Deposit Doe_101 moved: 1.ToDo -> 2.UnderReview",
			expectTags:    "curator,stage,advanced",
		},
		{
			name: "identifier reserved",
			notify: func(svc notifications.Service) error {
				return svc.NotifyIdentifierReserved(context.Background(), 101, "10.25422/azu.data.101")
			},
			expectTitle:    "Curator - DOI Reserved",
			expectMessage:  "Reserved 10.25422/azu.data.101 for article 101",
			expectTags:     "curator,doi,reserved",
			expectPriority: "high",
		},
		{
			name: "error",
			notify: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("token rejected"), "intake")
			},
			expectTitle:    "Curator - Error",
			expectMessage:  "Error with intake: token rejected",
			expectTags:     "curator,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceReportsServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx ntfy response")
	}
}
