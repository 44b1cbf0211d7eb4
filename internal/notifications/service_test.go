package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vidpub/internal/config"
	"vidpub/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyUploadCompleted(context.Background(), "Example", "id", ""); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := notifications.NewService(nil).TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop for nil config, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		send           func(notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "upload completed",
			send: func(s notifications.Service) error {
				return s.NotifyUploadCompleted(context.Background(), "2A. Intro", "vid-1", "2026-11-06T08:00:00Z")
			},
			expectTitle:   "vidpub - Uploaded",
			expectMessage: "📤 Uploaded: 2A. Intro\nID: vid-1\nPublishes: 2026-11-06T08:00:00Z",
			expectTags:    "vidpub,upload,completed",
		},
		{
			name: "update completed",
			send: func(s notifications.Service) error {
				return s.NotifyUpdateCompleted(context.Background(), "uploaded", 4, 0)
			},
			expectTitle:   "vidpub - Update Complete",
			expectMessage: "Updated 4 entries of uploaded",
			expectTags:    "vidpub,update,completed",
		},
		{
			name: "update with failures",
			send: func(s notifications.Service) error {
				return s.NotifyUpdateCompleted(context.Background(), "uploaded", 4, 1)
			},
			expectTitle:   "vidpub - Update Complete (with errors)",
			expectMessage: "Updated uploaded: 3 succeeded, 1 failed",
			expectTags:    "vidpub,update,completed",
		},
		{
			name: "error",
			send: func(s notifications.Service) error {
				return s.NotifyError(context.Background(), errors.New("quota exceeded"), "upload")
			},
			expectTitle:    "vidpub - Error",
			expectMessage:  "❌ Error with upload: quota exceeded",
			expectTags:     "vidpub,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Errorf("read body: %v", err)
				}
				captured.body = string(body)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			if err := tc.send(notifications.NewService(&cfg)); err != nil {
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

func TestNtfyServiceReportsServerErrors(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "topic closed", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	err := notifications.NewService(&cfg).TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status error, got %v", err)
	}
}
