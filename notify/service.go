package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/randalmurphal/issuegate/issue"
)

// DefaultTimeout bounds a single asynchronous delivery.
const DefaultTimeout = 5 * time.Second

// Config selects the notifiers built by New.
type Config struct {
	WebhookURL      string
	SlackWebhookURL string
	SlackChannel    string
}

// New builds the notifier for cfg. Events are always logged; webhook and
// Slack delivery are added when their URLs are set.
func New(cfg Config, logger *slog.Logger) Notifier {
	sinks := Fanout{NewLog(logger)}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, NewWebhook(cfg.WebhookURL, nil))
	}
	if cfg.SlackWebhookURL != "" {
		sinks = append(sinks, NewSlack(cfg.SlackWebhookURL, WithSlackChannel(cfg.SlackChannel)))
	}
	if len(sinks) == 1 {
		return sinks[0]
	}
	return sinks
}

// Service decorates an issue.Service and reports outcomes to a Notifier.
// Delivery is asynchronous and never changes the result returned to the
// caller.
type Service struct {
	next     issue.Service
	notifier Notifier
	backend  string
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time

	wg sync.WaitGroup
}

var _ issue.Service = (*Service)(nil)

// NewService wraps next. backend names the backend in emitted events.
func NewService(next issue.Service, notifier Notifier, backend string, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		next:     next,
		notifier: notifier,
		backend:  backend,
		timeout:  DefaultTimeout,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateIssue implements issue.Service.
func (s *Service) CreateIssue(ctx context.Context, projectID string, req issue.CreateIssueRequest) (*issue.Issue, error) {
	created, err := s.next.CreateIssue(ctx, projectID, req)
	if err != nil {
		if reportable(err) {
			s.emit(ctx, Event{
				Type:     EventCreateFailed,
				Project:  projectID,
				Title:    req.Title,
				Message:  fmt.Sprintf("create issue failed: %s", issue.KindOf(err)),
				Severity: SeverityError,
			})
		}
		return nil, err
	}

	s.emit(ctx, Event{
		Type:     EventIssueCreated,
		Project:  projectID,
		Issue:    created.Name,
		Title:    created.Title,
		Message:  fmt.Sprintf("issue created: %s", created.Title),
		Severity: SeverityInfo,
		Metadata: map[string]any{"labels": created.Labels},
	})
	return created, nil
}

// GetIssue implements issue.Service. Only backend faults are reported.
func (s *Service) GetIssue(ctx context.Context, projectID, issueID string) (*issue.Issue, error) {
	got, err := s.next.GetIssue(ctx, projectID, issueID)
	if err != nil && reportable(err) {
		s.emit(ctx, Event{
			Type:     EventBackendError,
			Project:  projectID,
			Issue:    issue.FormatName(projectID, issueID),
			Message:  fmt.Sprintf("get issue failed: %s", issue.KindOf(err)),
			Severity: SeverityWarning,
		})
	}
	return got, err
}

// Wait blocks until every pending delivery has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) emit(ctx context.Context, event Event) {
	event.Backend = s.backend
	event.Timestamp = s.now()

	// Delivery outlives the request that triggered it.
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		if err := s.notifier.Notify(ctx, event); err != nil {
			s.logger.Warn("notification failed", "event_type", event.Type, "error", err)
		}
	}()
}

// reportable excludes caller mistakes.
func reportable(err error) bool {
	switch issue.KindOf(err) {
	case issue.KindBadRequest, issue.KindNotFound:
		return false
	default:
		return true
	}
}
