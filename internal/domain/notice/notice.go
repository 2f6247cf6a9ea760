package notice

import "context"

type Severity string

const (
	SeverityError Severity = "error"
)

// Notifier shows a message to the shopper.
type Notifier interface {
	Notify(ctx context.Context, message string, severity Severity)
}
