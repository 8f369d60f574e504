package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	dbgen "github.com/codr1/footy/internal/db/generated"
)

const (
	broadcastEmailTimeout  = 10 * time.Second
	defaultBroadcastFanout = 4
)

// RecipientLister lists the players who receive announcements.
type RecipientLister interface {
	ListActivePlayerEmails(ctx context.Context) ([]dbgen.ListActivePlayerEmailsRow, error)
}

// Broadcaster sends one message to every active player with an email address.
type Broadcaster struct {
	recipients RecipientLister
	sender     EmailSender
	fanout     int
}

func NewBroadcaster(recipients RecipientLister, sender EmailSender) (*Broadcaster, error) {
	if recipients == nil {
		return nil, errors.New("broadcaster requires a recipient source")
	}
	if sender == nil {
		return nil, errors.New("broadcaster requires an email sender")
	}
	return &Broadcaster{recipients: recipients, sender: sender, fanout: defaultBroadcastFanout}, nil
}

// Notify delivers the message to all recipients and returns an error naming
// how many sends failed.
func (b *Broadcaster) Notify(ctx context.Context, subject, htmlBody string) error {
	if subject == "" || htmlBody == "" {
		return errors.New("subject and body are required")
	}

	logger := log.Ctx(ctx).With().Str("component", "team_email").Logger()

	rows, err := b.recipients.ListActivePlayerEmails(ctx)
	if err != nil {
		return fmt.Errorf("list active player emails: %w", err)
	}

	seen := make(map[string]struct{}, len(rows))
	recipients := make([]string, 0, len(rows))
	for _, row := range rows {
		if !row.Email.Valid {
			continue
		}
		recipient := strings.TrimSpace(row.Email.String)
		key := strings.ToLower(recipient)
		if recipient == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		recipients = append(recipients, recipient)
	}
	if len(recipients) == 0 {
		logger.Warn().Msg("No active players with an email address")
		return nil
	}

	var g errgroup.Group
	g.SetLimit(b.fanout)
	failures := make([]error, len(recipients))
	for i, recipient := range recipients {
		g.Go(func() error {
			sendCtx, cancel := newEmailContext(ctx, broadcastEmailTimeout)
			defer cancel()
			if err := b.sender.Send(sendCtx, recipient, subject, htmlBody); err != nil {
				logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send team email")
				failures[i] = err
				return err
			}
			return nil
		})
	}
	// A plain Group never cancels, so every recipient is attempted before
	// Wait returns.
	if err := g.Wait(); err != nil {
		errs := lo.Filter(failures, func(err error, _ int) bool { return err != nil })
		return fmt.Errorf("%d of %d team emails failed: %w", len(errs), len(recipients), errors.Join(errs...))
	}

	logger.Info().Int("recipients", len(recipients)).Msg("Team email sent")
	return nil
}
