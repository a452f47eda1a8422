package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const sendTimeout = 5 * time.Second

// SendAsync delivers msg in the background. The send outlives ctx's
// cancellation but keeps its values. A nil sender or blank recipient is a no-op.
func SendAsync(ctx context.Context, sender Sender, recipient string, msg Message, logger *zerolog.Logger) {
	if sender == nil {
		return
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" || msg.Subject == "" || msg.Body == "" {
		return
	}

	sendCtx, cancel := newEmailContext(ctx, sendTimeout)
	go func() {
		defer cancel()
		if err := sender.Send(sendCtx, recipient, msg); err != nil && logger != nil {
			logger.Error().Err(err).Int64("reservation_id", msg.ReservationID).Str("kind", msg.Kind).Msg("Failed to send reservation email")
		}
	}()
}
