// Package notify delivers shopper-facing notifications.
package notify

import (
	"context"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"example.com/rocketshoes/app/internal/domain/notice"
)

// LogNotifier records every notification on the service log, tagged with the
// request ID when one is present.
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, message string, severity notice.Severity) {
	entry := n.log.WithFields(logrus.Fields{
		"notification": true,
		"notice":       string(severity),
	})
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}

	switch severity {
	case notice.SeverityError:
		entry.Error(message)
	default:
		entry.Info(message)
	}
}
