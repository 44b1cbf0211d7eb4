package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vidpub/internal/config"
)

const userAgent = "vidpub/0.1.0"

// Service defines the notification surface exposed to the publish flows.
type Service interface {
	NotifyUploadCompleted(ctx context.Context, title, videoID, publishAt string) error
	NotifyUpdateCompleted(ctx context.Context, target string, entries, failed int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
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

func (n *ntfyService) NotifyUploadCompleted(ctx context.Context, title, videoID, publishAt string) error {
	message := fmt.Sprintf("📤 Uploaded: %s\nID: %s", strings.TrimSpace(title), strings.TrimSpace(videoID))
	if publishAt = strings.TrimSpace(publishAt); publishAt != "" {
		message += "\nPublishes: " + publishAt
	}
	return n.send(ctx, payload{
		title:   "vidpub - Uploaded",
		message: message,
		tags:    []string{"vidpub", "upload", "completed"},
	})
}

func (n *ntfyService) NotifyUpdateCompleted(ctx context.Context, target string, entries, failed int) error {
	data := payload{
		title:   "vidpub - Update Complete",
		message: fmt.Sprintf("Updated %d entries of %s", entries, strings.TrimSpace(target)),
		tags:    []string{"vidpub", "update", "completed"},
	}
	if failed > 0 {
		data.title = "vidpub - Update Complete (with errors)"
		data.message = fmt.Sprintf("Updated %s: %d succeeded, %d failed", strings.TrimSpace(target), entries-failed, failed)
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("❌ Error")
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

	return n.send(ctx, payload{
		title:    "vidpub - Error",
		message:  builder.String(),
		tags:     []string{"vidpub", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "vidpub - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"vidpub", "test"},
		priority: "low",
	})
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

func (noopService) NotifyUploadCompleted(context.Context, string, string, string) error { return nil }
func (noopService) NotifyUpdateCompleted(context.Context, string, int, int) error       { return nil }
func (noopService) NotifyError(context.Context, error, string) error                    { return nil }
func (noopService) TestNotification(context.Context) error                              { return nil }
