package reservations

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/acebook/dashboard/internal/booking"
)

// DefaultDialogTTL is how long an untouched reservation dialog is kept.
const DefaultDialogTTL = 30 * time.Minute

type openDialog struct {
	session *booking.Session
	userID  int64
	touched time.Time
}

// DialogRegistry keeps the server-side state of open reservation dialogs,
// keyed by an opaque id that the rendered dialog posts back.
type DialogRegistry struct {
	mu      sync.Mutex
	dialogs map[string]*openDialog
	ttl     time.Duration
	now     func() time.Time
}

func NewDialogRegistry(ttl time.Duration) *DialogRegistry {
	if ttl <= 0 {
		ttl = DefaultDialogTTL
	}
	return &DialogRegistry{
		dialogs: make(map[string]*openDialog),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Open registers session for userID and returns its dialog id.
func (r *DialogRegistry) Open(userID int64, session *booking.Session) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.dialogs[id] = &openDialog{session: session, userID: userID, touched: r.now()}
	return id
}

// Get returns the dialog's session if it exists, belongs to userID and has
// not expired. A hit extends its lifetime.
func (r *DialogRegistry) Get(id string, userID int64) (*booking.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dialog, ok := r.dialogs[id]
	if !ok || dialog.userID != userID {
		return nil, false
	}
	now := r.now()
	if now.Sub(dialog.touched) > r.ttl {
		delete(r.dialogs, id)
		return nil, false
	}
	dialog.touched = now
	return dialog.session, true
}

// Close forgets the dialog. Closing an unknown id is a no-op.
func (r *DialogRegistry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.dialogs, id)
}

// Prune drops dialogs idle for longer than the TTL and reports how many went.
func (r *DialogRegistry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, dialog := range r.dialogs {
		if now.Sub(dialog.touched) > r.ttl {
			delete(r.dialogs, id)
			removed++
		}
	}
	return removed
}

func (r *DialogRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dialogs)
}
