// Package notify provides best-effort notifications for issue events.
//
// Core types:
//   - Notifier: Interface for sending notifications
//   - Event: Notification event with type, message, and metadata
//   - Service: issue.Service decorator that emits events asynchronously
//
// Implementations:
//   - Slack: posts attachments to a Slack incoming webhook
//   - Webhook: posts the event as JSON to any URL
//   - Log: writes the event through slog
//   - Fanout: delivers to several notifiers concurrently
//   - Nop: discards events
//
// Example usage:
//
//	notifier := notify.New(notify.Config{
//	    SlackWebhookURL: webhookURL,
//	    SlackChannel:    "#issues",
//	}, logger)
//	svc := notify.NewService(backendSvc, notifier, "jira", logger)
//	defer svc.Wait()
package notify
