package notify

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	devhttp "github.com/randalmurphal/issuegate/http"
)

// Log writes events to a slog.Logger, mapping severity to level.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a Log sink. A nil logger means slog.Default.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Notify implements Notifier.
func (l *Log) Notify(ctx context.Context, event Event) error {
	attrs := []slog.Attr{
		slog.String("event", string(event.Type)),
		slog.String("backend", event.Backend),
		slog.String("project", event.Project),
	}
	if event.Issue != "" {
		attrs = append(attrs, slog.String("issue", event.Issue))
	}
	if len(event.Metadata) > 0 {
		attrs = append(attrs, slog.Any("metadata", event.Metadata))
	}
	l.logger.LogAttrs(ctx, levelFor(event.Severity), event.Message, attrs...)
	return nil
}

func levelFor(severity string) slog.Level {
	switch severity {
	case SeverityError:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Webhook posts each event as JSON to a URL.
type Webhook struct {
	client *devhttp.Client
}

// NewWebhook returns a Webhook sink. headers are added to every request.
func NewWebhook(url string, headers map[string]string) *Webhook {
	return &Webhook{client: newPoster("webhook", url, headers)}
}

// Notify implements Notifier.
func (w *Webhook) Notify(ctx context.Context, event Event) error {
	return w.client.Post(ctx, "", event, nil)
}

// Slack posts events to an incoming-webhook URL as attachments.
type Slack struct {
	client   *devhttp.Client
	channel  string
	username string
}

// SlackOption configures a Slack sink.
type SlackOption func(*Slack)

// WithSlackChannel overrides the webhook's default channel.
func WithSlackChannel(channel string) SlackOption {
	return func(s *Slack) { s.channel = channel }
}

// WithSlackUsername sets the bot name shown in Slack.
func WithSlackUsername(username string) SlackOption {
	return func(s *Slack) { s.username = username }
}

// NewSlack returns a Slack sink.
func NewSlack(webhookURL string, opts ...SlackOption) *Slack {
	s := &Slack{
		client:   newPoster("slack", webhookURL, nil),
		username: "issuegate",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify implements Notifier.
func (s *Slack) Notify(ctx context.Context, event Event) error {
	return s.client.Post(ctx, "", s.payload(event), nil)
}

func (s *Slack) payload(event Event) slackPayload {
	title := fmt.Sprintf("%s %s", slackEmoji(event.Type), event.Type)
	if event.Issue != "" {
		title += " " + event.Issue
	}

	var fields []slackField
	for _, k := range slices.Sorted(maps.Keys(event.Metadata)) {
		fields = append(fields, slackField{Title: k, Value: fmt.Sprint(event.Metadata[k]), Short: true})
	}

	return slackPayload{
		Username: s.username,
		Channel:  s.channel,
		Attachments: []slackAttachment{{
			Color:     slackColor(event.Severity),
			Title:     title,
			Text:      event.Message,
			Footer:    fmt.Sprintf("Backend: %s | Project: %s", event.Backend, event.Project),
			Timestamp: event.Timestamp.Unix(),
			Fields:    fields,
		}},
	}
}

func slackEmoji(t EventType) string {
	switch t {
	case EventIssueCreated:
		return ":white_check_mark:"
	case EventCreateFailed:
		return ":x:"
	case EventBackendError:
		return ":warning:"
	default:
		return ":loudspeaker:"
	}
}

func slackColor(severity string) string {
	switch severity {
	case SeverityError:
		return "danger"
	case SeverityWarning:
		return "warning"
	default:
		return "good"
	}
}

type slackPayload struct {
	Username    string            `json:"username,omitempty"`
	Channel     string            `json:"channel,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color     string       `json:"color,omitempty"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Footer    string       `json:"footer,omitempty"`
	Timestamp int64        `json:"ts,omitempty"`
	Fields    []slackField `json:"fields,omitempty"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// newPoster builds a client whose base URL is the full endpoint.
func newPoster(service, url string, headers map[string]string) *devhttp.Client {
	return devhttp.NewClient(devhttp.Config{
		BaseURL: url,
		Service: service,
		Decorate: func(req *http.Request) {
			for k, v := range headers {
				req.Header.Set(k, v)
			}
		},
	})
}
