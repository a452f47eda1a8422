package email

import "context"

// Sender delivers one reservation email. SESClient implements it; tests use fakes.
type Sender interface {
	Send(ctx context.Context, recipient string, msg Message) error
}
