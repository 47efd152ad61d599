package relay

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/Artem18071998/portfolio/contact"
)

// Log is a development relay: it records that a message would have been sent
// and always succeeds. Message bodies are never logged.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger.With("component", "contact_relay")}
}

func (l *Log) Send(ctx context.Context, cfg contact.Config, fields contact.Fields) error {
	sum := sha256.Sum256([]byte(fields.Email))
	l.logger.InfoContext(ctx, "contact message accepted by log relay",
		"service_id", cfg.ServiceID,
		"template_id", cfg.TemplateID,
		"sender", hex.EncodeToString(sum[:])[:16],
		"message_bytes", len(fields.Message),
	)
	return nil
}
