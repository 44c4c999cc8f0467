package realtime

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LwandleM/SafeSuburb/app/models"
)

type hookRecorder struct {
	mu          sync.Mutex
	invalidated []string
	refetched   []string
	broadcast   []ChangeEvent
}

func (h *hookRecorder) hooks() ListenerHooks {
	return ListenerHooks{
		Invalidate: func(table string) {
			h.mu.Lock()
			h.invalidated = append(h.invalidated, table)
			h.mu.Unlock()
		},
		Refetch: func(table string) {
			h.mu.Lock()
			h.refetched = append(h.refetched, table)
			h.mu.Unlock()
		},
		Broadcast: func(ev ChangeEvent) {
			h.mu.Lock()
			h.broadcast = append(h.broadcast, ev)
			h.mu.Unlock()
		},
	}
}

func (h *hookRecorder) refetchCount(table string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, t := range h.refetched {
		if t == table {
			n++
		}
	}
	return n
}

func insertEvent(table string, recordID, userID uint) ChangeEvent {
	return ChangeEvent{
		Table:      table,
		Type:       EventInsert,
		RecordID:   recordID,
		OBNumber:   "OB-20260823-00000001",
		UserID:     userID,
		OccurredAt: time.Now(),
	}
}

func TestDebounceCoalescesBursts(t *testing.T) {
	// N events inside one debounce window trigger exactly one refetch.
	rec := &hookRecorder{}
	l := NewListener(nil, NewToastCenter(time.Minute), rec.hooks(), 50*time.Millisecond)

	for i := 0; i < 10; i++ {
		ev := insertEvent(models.TableVehicleAlerts, uint(i+1), 99)
		l.Handle(ev)
	}

	// Every event invalidates immediately.
	rec.mu.Lock()
	assert.Len(t, rec.invalidated, 10)
	assert.Len(t, rec.broadcast, 10)
	rec.mu.Unlock()

	// No refetch before the window closes.
	assert.Equal(t, 0, rec.refetchCount(models.TableVehicleAlerts))

	assert.Eventually(t, func() bool {
		return rec.refetchCount(models.TableVehicleAlerts) == 1
	}, time.Second, 10*time.Millisecond)

	// And still exactly one after another window's worth of quiet.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, rec.refetchCount(models.TableVehicleAlerts))
}

func TestDebounceResetsOnNewEvents(t *testing.T) {
	rec := &hookRecorder{}
	l := NewListener(nil, nil, rec.hooks(), 60*time.Millisecond)

	l.Handle(insertEvent(models.TableCrimeReports, 1, 2))
	time.Sleep(40 * time.Millisecond)
	l.Handle(insertEvent(models.TableCrimeReports, 2, 2))
	time.Sleep(40 * time.Millisecond)

	// The second event pushed the window out; nothing fired yet.
	assert.Equal(t, 0, rec.refetchCount(models.TableCrimeReports))

	assert.Eventually(t, func() bool {
		return rec.refetchCount(models.TableCrimeReports) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestTablesDebounceIndependently(t *testing.T) {
	rec := &hookRecorder{}
	l := NewListener(nil, nil, rec.hooks(), 30*time.Millisecond)

	l.Handle(insertEvent(models.TableVehicleAlerts, 1, 2))
	l.Handle(insertEvent(models.TableCrimeReports, 1, 2))

	assert.Eventually(t, func() bool {
		return rec.refetchCount(models.TableVehicleAlerts) == 1 &&
			rec.refetchCount(models.TableCrimeReports) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestStaleReplayDropped(t *testing.T) {
	rec := &hookRecorder{}
	l := NewListener(nil, nil, rec.hooks(), 20*time.Millisecond)

	ev := insertEvent(models.TableVehicleAlerts, 1, 2)
	ev.OccurredAt = time.Now().Add(-25 * time.Hour)
	l.Handle(ev)

	rec.mu.Lock()
	assert.Empty(t, rec.invalidated)
	rec.mu.Unlock()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, rec.refetchCount(models.TableVehicleAlerts))
}

func TestToastsForOtherUsersOnly(t *testing.T) {
	// An insert by user A shows up as a toast for user B but
	// never for A; dismissing shrinks only B's toast list.
	tc := NewToastCenter(time.Minute)
	rec := &hookRecorder{}
	l := NewListener(nil, tc, rec.hooks(), 20*time.Millisecond)

	ev := insertEvent(models.TableCrimeReports, 11, 1) // authored by user 1
	ev.Summary = "New crime report in Observatory"
	l.Handle(ev)

	assert.Empty(t, tc.ActiveFor(1), "author must not see their own toast")

	forB := tc.ActiveFor(2)
	require.Len(t, forB, 1)
	assert.Equal(t, uint(11), forB[0].RecordID)
	assert.Equal(t, "New crime report in Observatory", forB[0].Message)

	require.True(t, tc.Dismiss(2, forB[0].ID))
	assert.Empty(t, tc.ActiveFor(2))

	// Dismissal is per user: a third viewer still sees it.
	assert.Len(t, tc.ActiveFor(3), 1)
}

func TestToastOrderingAndExpiry(t *testing.T) {
	tc := NewToastCenter(10 * time.Second)
	now := time.Unix(5000, 0)
	tc.now = func() time.Time { return now }

	tc.Push(ChangeEvent{Table: models.TableVehicleAlerts, Type: EventInsert, RecordID: 1, UserID: 9})
	now = now.Add(time.Second)
	tc.Push(ChangeEvent{Table: models.TableVehicleAlerts, Type: EventInsert, RecordID: 2, UserID: 9})

	active := tc.ActiveFor(1)
	require.Len(t, active, 2)
	assert.Equal(t, uint(2), active[0].RecordID, "newest first")

	// First toast expires, second survives.
	now = now.Add(9*time.Second + time.Millisecond)
	active = tc.ActiveFor(1)
	require.Len(t, active, 1)
	assert.Equal(t, uint(2), active[0].RecordID)

	now = now.Add(time.Minute)
	assert.Empty(t, tc.ActiveFor(1))
}

func TestDismissUnknownToast(t *testing.T) {
	tc := NewToastCenter(time.Minute)
	assert.False(t, tc.Dismiss(1, "nope"))
}

func TestUpdateEventsDoNotToast(t *testing.T) {
	tc := NewToastCenter(time.Minute)
	l := NewListener(nil, tc, ListenerHooks{}, 20*time.Millisecond)

	ev := insertEvent(models.TableVehicleAlerts, 1, 5)
	ev.Type = EventUpdate
	l.Handle(ev)

	assert.Empty(t, tc.ActiveFor(2))
}
