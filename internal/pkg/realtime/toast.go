package realtime

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Toast is one transient "new report" notification. Toasts are per-viewer
// ephemera: the author never sees their own, dismissal is tracked per user,
// and every toast auto-expires after a fixed countdown.
type Toast struct {
	ID        string    `json:"id"`
	Table     string    `json:"table"`
	RecordID  uint      `json:"record_id"`
	OBNumber  string    `json:"ob_number"`
	Message   string    `json:"message"`
	AuthorID  uint      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

const DefaultToastTTL = 8 * time.Second

// ToastCenter keeps the live toast set and each user's dismissals. Dismissing
// a toast affects only the dismissing user's view and never the report lists
// underneath.
type ToastCenter struct {
	mu        sync.Mutex
	ttl       time.Duration
	toasts    []Toast // newest first
	dismissed map[uint]map[string]struct{}

	now func() time.Time
}

func NewToastCenter(ttl time.Duration) *ToastCenter {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &ToastCenter{
		ttl:       ttl,
		dismissed: make(map[uint]map[string]struct{}),
		now:       time.Now,
	}
}

// Push records a new toast for an inserted record.
func (tc *ToastCenter) Push(ev ChangeEvent) Toast {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	now := tc.now()
	t := Toast{
		ID:        uuid.NewString(),
		Table:     ev.Table,
		RecordID:  ev.RecordID,
		OBNumber:  ev.OBNumber,
		Message:   ev.Summary,
		AuthorID:  ev.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(tc.ttl),
	}
	tc.toasts = append([]Toast{t}, tc.toasts...)
	tc.pruneLocked(now)
	return t
}

// ActiveFor returns the live toasts visible to a user, newest first: not
// expired, not authored by the user, not dismissed by the user.
func (tc *ToastCenter) ActiveFor(userID uint) []Toast {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	now := tc.now()
	tc.pruneLocked(now)

	var out []Toast
	for _, t := range tc.toasts {
		if t.AuthorID == userID {
			continue
		}
		if _, gone := tc.dismissed[userID][t.ID]; gone {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Dismiss hides a toast from one user's view. Returns false when the toast
// is unknown or already gone.
func (tc *ToastCenter) Dismiss(userID uint, toastID string) bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.pruneLocked(tc.now())
	for _, t := range tc.toasts {
		if t.ID != toastID {
			continue
		}
		if tc.dismissed[userID] == nil {
			tc.dismissed[userID] = make(map[string]struct{})
		}
		tc.dismissed[userID][toastID] = struct{}{}
		return true
	}
	return false
}

func (tc *ToastCenter) pruneLocked(now time.Time) {
	live := tc.toasts[:0]
	gone := make(map[string]struct{})
	for _, t := range tc.toasts {
		if now.Before(t.ExpiresAt) {
			live = append(live, t)
		} else {
			gone[t.ID] = struct{}{}
		}
	}
	tc.toasts = live

	if len(gone) == 0 {
		return
	}
	for userID, ids := range tc.dismissed {
		for id := range gone {
			delete(ids, id)
		}
		if len(ids) == 0 {
			delete(tc.dismissed, userID)
		}
	}
}
