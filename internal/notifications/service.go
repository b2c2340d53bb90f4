package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reprise/internal/config"
)

const userAgent = "reprise/0.1.0"

// Service is the notification surface the pipeline emits milestones through.
type Service interface {
	NotifyAnalysisCompleted(ctx context.Context, artist string, coveragePercent float64, score int, tier string) error
	NotifyBatchCompleted(ctx context.Context, analyzed, failed int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
}

// NewService builds a notification service backed by ntfy when a topic is
// configured, and a noop implementation otherwise.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.TimeoutSeconds) * time.Second
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

func (n *ntfyService) NotifyAnalysisCompleted(ctx context.Context, artist string, coveragePercent float64, score int, tier string) error {
	artist = strings.TrimSpace(artist)
	tier = strings.TrimSpace(tier)
	data := payload{
		title:   "Reprise - Analysis Complete",
		message: fmt.Sprintf("✅ %s: %.1f%% coverage, opportunity %d/100 %s", artist, coveragePercent, score, tier),
		tags:    []string{"reprise", "analysis", "completed"},
	}
	// A high-opportunity artist is the event worth reaching for the phone.
	if tier == "HIGH" {
		data.priority = "high"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, analyzed, failed int, duration time.Duration) error {
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
		title = "Reprise - Batch Complete"
		message = fmt.Sprintf("Batch complete: %d artist(s) analyzed in %s", analyzed, durationText)
	} else {
		title = "Reprise - Batch Complete (with errors)"
		message = fmt.Sprintf("Batch complete: %d analyzed, %d failed in %s", analyzed, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"reprise", "batch", "completed"},
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

	data := payload{
		title:    "Reprise - Error",
		message:  builder.String(),
		tags:     []string{"reprise", "error", "alert"},
		priority: "high",
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

func (noopService) NotifyAnalysisCompleted(context.Context, string, float64, int, string) error {
	return nil
}

func (noopService) NotifyBatchCompleted(context.Context, int, int, time.Duration) error {
	return nil
}

func (noopService) NotifyError(context.Context, error, string) error {
	return nil
}
