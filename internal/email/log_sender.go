package email

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogSender writes emails to the log instead of delivering them. It stands in
// for SES in development.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, recipient, subject, htmlBody string) error {
	log.Ctx(ctx).Info().
		Str("recipient", recipient).
		Str("subject", subject).
		Int("body_bytes", len(htmlBody)).
		Msg("Email not sent: delivery disabled")
	return nil
}
