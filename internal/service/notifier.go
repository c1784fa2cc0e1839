package service

import (
	"log/slog"

	"github.com/factumhumanum/registry-backend/internal/mail"
)

// Notifier sends outbound email without blocking the calling flow. State
// transitions are the durable fact of record; delivery failures are logged
// and swallowed.
type Notifier struct {
	mailer mail.Mailer
	logger *slog.Logger
}

func NewNotifier(mailer mail.Mailer, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{mailer: mailer, logger: logger}
}

func (n *Notifier) Send(kind string, msg mail.Message) {
	if n == nil || n.mailer == nil {
		return
	}
	go func() {
		if err := n.mailer.Send(msg); err != nil {
			n.logger.Error("notification delivery failed",
				"kind", kind, "to", msg.To, "err", err)
		}
	}()
}
