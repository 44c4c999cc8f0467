package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LwandleM/SafeSuburb/app/repository"
	"github.com/LwandleM/SafeSuburb/internal/pkg/listcache"
)

// fakeGateway serves pages from an in-memory slice and lets tests inject
// failures and delays per call.
type fakeGateway struct {
	mu        sync.Mutex
	items     []Item
	listCalls int

	listErr      error
	updateErr    error
	deleteErr    error
	updateCalls  int
	deleteCalls  int
	blockList    chan struct{} // when set, ListPage waits for a receive
	pageOverride map[int][]Item
}

func newFakeGateway(n int) *fakeGateway {
	g := &fakeGateway{}
	for i := 1; i <= n; i++ {
		g.items = append(g.items, Item{
			ID:       uint(i),
			OBNumber: fmt.Sprintf("OB-20260823-%08d", i),
			Status:   "active",
			OwnerID:  7,
			Search:   []string{fmt.Sprintf("CA%05d", i), "Toyota", "Corolla"},
		})
	}
	return g
}

func (g *fakeGateway) ListPage(ctx context.Context, q Query) (*PageResult, error) {
	g.mu.Lock()
	g.listCalls++
	block := g.blockList
	err := g.listErr
	var override []Item
	hasOverride := false
	if g.pageOverride != nil {
		override, hasOverride = g.pageOverride[q.Page]
	}
	g.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}

	var items []Item
	if hasOverride {
		items = override
	} else {
		start := (q.Page - 1) * q.PageSize
		if start > len(g.items) {
			start = len(g.items)
		}
		end := start + q.PageSize
		if end > len(g.items) {
			end = len(g.items)
		}
		items = append([]Item(nil), g.items[start:end]...)
	}

	return &PageResult{
		Items:      items,
		TotalCount: int64(len(g.items)),
		HasMore:    len(items) == q.PageSize,
	}, nil
}

func (g *fakeGateway) UpdateStatus(ctx context.Context, id uint, status string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updateCalls++
	return g.updateErr
}

func (g *fakeGateway) Delete(ctx context.Context, id uint) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleteCalls++
	return g.deleteErr
}

func newTestController(gw Gateway) *Controller {
	return NewController(gw, listcache.New(64, time.Minute), Config{
		Table:         "vehicle_alerts",
		UserID:        7,
		ViewMode:      ViewAll,
		PageSize:      20,
		Authenticated: true,
	})
}

func TestLoadEmptyList(t *testing.T) {
	// A user with no reports gets an empty list without error.
	gw := newFakeGateway(0)
	c := newTestController(gw)

	require.NoError(t, c.Load(context.Background(), 1, false))
	assert.Empty(t, c.Items())
	assert.False(t, c.HasMore())
	assert.Equal(t, StateReady, c.State())
}

func TestLoadCacheHitSkipsNetwork(t *testing.T) {
	gw := newFakeGateway(5)
	c := newTestController(gw)

	require.NoError(t, c.Load(context.Background(), 1, false))
	require.NoError(t, c.Load(context.Background(), 1, false))

	gw.mu.Lock()
	defer gw.mu.Unlock()
	assert.Equal(t, 1, gw.listCalls)
}

func TestLoadFailureLeavesListIntact(t *testing.T) {
	gw := newFakeGateway(3)
	c := newTestController(gw)
	require.NoError(t, c.Load(context.Background(), 1, false))

	// The next load goes around the cache (different page) and fails.
	gw.mu.Lock()
	gw.listErr = errors.New("backend down")
	gw.mu.Unlock()
	err := c.Load(context.Background(), 2, true)
	assert.Error(t, err)

	assert.Len(t, c.Items(), 3)
	assert.Equal(t, StateReady, c.State())
}

func TestPaginationMonotonicity(t *testing.T) {
	// Pages concatenate in fetch order with no duplicates,
	// hasMore flips off on the first short page, and further loadMore calls
	// issue no network requests.
	gw := newFakeGateway(45) // pages of 20, 20, 5
	c := newTestController(gw)

	require.NoError(t, c.Load(context.Background(), 1, false))
	assert.True(t, c.HasMore())

	require.NoError(t, c.LoadMore(context.Background()))
	assert.True(t, c.HasMore())
	assert.Len(t, c.Items(), 40)

	require.NoError(t, c.LoadMore(context.Background()))
	assert.False(t, c.HasMore())
	items := c.Items()
	assert.Len(t, items, 45)

	seen := map[uint]bool{}
	for i, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %d", it.ID)
		seen[it.ID] = true
		assert.Equal(t, uint(i+1), it.ID, "gap or reorder at position %d", i)
	}

	gw.mu.Lock()
	before := gw.listCalls
	gw.mu.Unlock()

	// Idempotent after the end of the list.
	require.NoError(t, c.LoadMore(context.Background()))

	gw.mu.Lock()
	assert.Equal(t, before, gw.listCalls)
	gw.mu.Unlock()
	assert.Len(t, c.Items(), 45)
}

func TestStaleResponseDiscarded(t *testing.T) {
	// The second of two racing loads wins even when the first call's
	// response arrives later.
	gw := newFakeGateway(0)
	gw.pageOverride = map[int][]Item{
		1: {{ID: 1, OBNumber: "OB-A", Status: "active"}},
	}
	c := newTestController(gw)

	release := make(chan struct{})
	gw.mu.Lock()
	gw.blockList = release
	gw.mu.Unlock()

	done1 := make(chan error, 1)
	go func() { done1 <- c.Load(context.Background(), 1, false) }()

	// Give the first load time to pass the cache check and take its token.
	time.Sleep(20 * time.Millisecond)

	// Second load: different data, resolves first.
	gw.mu.Lock()
	gw.blockList = nil
	gw.pageOverride = map[int][]Item{
		1: {{ID: 2, OBNumber: "OB-B", Status: "active"}},
	}
	gw.mu.Unlock()
	// Bypass the cache so the second load issues a real fetch.
	c.cache.ClearByPrefix(listcache.Prefix("vehicle_alerts"))

	require.NoError(t, c.Load(context.Background(), 1, false))

	// Now let the first, older response arrive.
	close(release)
	require.NoError(t, <-done1)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, uint(2), items[0].ID, "older response must not overwrite the newer one")
}

func TestSearchIsLocalAndTotal(t *testing.T) {
	// Search matches exactly the loaded items whose fields contain the
	// term, and never triggers a fetch.
	gw := newFakeGateway(0)
	c := newTestController(gw)
	c.mu.Lock()
	c.items = []Item{
		{ID: 1, Search: []string{"CA123456", "Toyota", "Corolla"}},
		{ID: 2, Search: []string{"GP998877", "vw", "Polo"}},
		{ID: 3, Search: []string{"CA555", "Ford", "Ranger"}},
	}
	c.state = StateReady
	c.mu.Unlock()

	gw.mu.Lock()
	callsBefore := gw.listCalls
	gw.mu.Unlock()

	got := c.Search("ca")
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, uint(3), got[1].ID)

	assert.Len(t, c.Search("VW"), 1)
	assert.Empty(t, c.Search("bakkie"))
	assert.Len(t, c.Search(""), 3)

	gw.mu.Lock()
	assert.Equal(t, callsBefore, gw.listCalls, "search must not hit the gateway")
	gw.mu.Unlock()
}

func TestOptimisticStatusRollback(t *testing.T) {
	// A failing remote update restores the displayed status.
	gw := newFakeGateway(3)
	c := newTestController(gw)
	require.NoError(t, c.Load(context.Background(), 1, false))

	gw.mu.Lock()
	gw.updateErr = errors.New("backend rejected the write")
	gw.mu.Unlock()

	state, err := c.UpdateStatus(context.Background(), 2, "resolved")
	assert.Error(t, err)
	assert.Equal(t, MutationRolledBack, state)

	for _, it := range c.Items() {
		if it.ID == 2 {
			assert.Equal(t, "active", it.Status)
		}
	}
}

func TestOptimisticStatusCommit(t *testing.T) {
	gw := newFakeGateway(3)
	c := newTestController(gw)
	require.NoError(t, c.Load(context.Background(), 1, false))

	state, err := c.UpdateStatus(context.Background(), 1, "resolved")
	require.NoError(t, err)
	assert.Equal(t, MutationCommitted, state)

	items := c.Items()
	assert.Equal(t, "resolved", items[0].Status)

	// Cache invalidated: the next load fetches again.
	gw.mu.Lock()
	before := gw.listCalls
	gw.mu.Unlock()
	require.NoError(t, c.Load(context.Background(), 1, false))
	gw.mu.Lock()
	assert.Equal(t, before+1, gw.listCalls)
	gw.mu.Unlock()
}

func TestDeleteForbiddenRollsBack(t *testing.T) {
	// Delete rejected as forbidden; the list still shows the
	// report and the error is surfaced.
	gw := newFakeGateway(3)
	c := newTestController(gw)
	require.NoError(t, c.Load(context.Background(), 1, false))

	gw.mu.Lock()
	gw.deleteErr = fmt.Errorf("delete vehicle alert: %w", repository.ErrNotFoundOrForbidden)
	gw.mu.Unlock()

	state, err := c.Delete(context.Background(), 2, true)
	assert.ErrorIs(t, err, repository.ErrNotFoundOrForbidden)
	assert.Equal(t, MutationRolledBack, state)

	ids := make([]uint, 0, 3)
	for _, it := range c.Items() {
		ids = append(ids, it.ID)
	}
	assert.Contains(t, ids, uint(2), "rolled-back delete must restore the item")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	gw := newFakeGateway(2)
	c := newTestController(gw)
	require.NoError(t, c.Load(context.Background(), 1, false))

	state, err := c.Delete(context.Background(), 1, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Equal(t, MutationIdle, state)
	assert.Len(t, c.Items(), 2)

	gw.mu.Lock()
	assert.Zero(t, gw.deleteCalls)
	gw.mu.Unlock()
}

func TestDeleteCommitRemovesItem(t *testing.T) {
	gw := newFakeGateway(3)
	c := newTestController(gw)
	require.NoError(t, c.Load(context.Background(), 1, false))

	state, err := c.Delete(context.Background(), 2, true)
	require.NoError(t, err)
	assert.Equal(t, MutationCommitted, state)
	assert.Len(t, c.Items(), 2)
}

func TestUnauthenticatedController(t *testing.T) {
	gw := newFakeGateway(5)
	c := NewController(gw, listcache.New(8, time.Minute), Config{
		Table:    "vehicle_alerts",
		ViewMode: ViewAll,
	})

	require.NoError(t, c.Load(context.Background(), 1, false))
	assert.Empty(t, c.Items())
	assert.False(t, c.HasMore())

	_, err := c.UpdateStatus(context.Background(), 1, "resolved")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = c.Delete(context.Background(), 1, true)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	gw.mu.Lock()
	assert.Zero(t, gw.listCalls)
	gw.mu.Unlock()
}

func TestMutationStateString(t *testing.T) {
	assert.Equal(t, "idle", MutationIdle.String())
	assert.Equal(t, "optimistic", MutationOptimistic.String())
	assert.Equal(t, "committed", MutationCommitted.String())
	assert.Equal(t, "rolled_back", MutationRolledBack.String())
}

func TestMineViewCacheIsPerUser(t *testing.T) {
	// Two sessions share one response cache. Their "mine" views are scoped
	// to different owners by the gateway, so the cache must never serve one
	// user's page to the other.
	shared := listcache.New(64, time.Minute)

	gwA := &fakeGateway{items: []Item{
		{ID: 1, OBNumber: "OB-A1", Status: "active", OwnerID: 7},
	}}
	gwB := &fakeGateway{items: []Item{
		{ID: 2, OBNumber: "OB-B1", Status: "active", OwnerID: 9},
	}}

	ctrlA := NewController(gwA, shared, Config{
		Table: "vehicle_alerts", ViewMode: ViewMine, UserID: 7, PageSize: 20, Authenticated: true,
	})
	ctrlB := NewController(gwB, shared, Config{
		Table: "vehicle_alerts", ViewMode: ViewMine, UserID: 9, PageSize: 20, Authenticated: true,
	})

	require.NoError(t, ctrlA.Load(context.Background(), 1, false))
	require.NoError(t, ctrlB.Load(context.Background(), 1, false))

	itemsB := ctrlB.Items()
	require.Len(t, itemsB, 1)
	assert.Equal(t, uint(9), itemsB[0].OwnerID)
	for _, it := range itemsB {
		assert.NotEqual(t, "OB-A1", it.OBNumber, "user 9 served user 7's cached page")
	}

	// B's load went to its own gateway, not A's cache entry.
	gwB.mu.Lock()
	assert.Equal(t, 1, gwB.listCalls)
	gwB.mu.Unlock()
}

func TestCacheHitSupersedesInFlightLoad(t *testing.T) {
	// A cache-served load takes the request token like a fetched one: an
	// older request still in flight must land stale and be discarded.
	gw := newFakeGateway(0)
	gw.pageOverride = map[int][]Item{
		1: {{ID: 1, OBNumber: "OB-STALE", Status: "active"}},
		2: {{ID: 2, OBNumber: "OB-FRESH", Status: "active"}},
	}
	c := newTestController(gw)

	// Warm the cache with page 2.
	require.NoError(t, c.Load(context.Background(), 2, false))

	// Page 1 goes in flight and blocks.
	release := make(chan struct{})
	gw.mu.Lock()
	gw.blockList = release
	gw.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.Load(context.Background(), 1, false) }()
	time.Sleep(20 * time.Millisecond)

	// Page 2 is served from the cache while page 1 is still in flight.
	require.NoError(t, c.Load(context.Background(), 2, false))

	// Page 1's response finally arrives; it is older and must be dropped.
	close(release)
	require.NoError(t, <-done)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "OB-FRESH", items[0].OBNumber,
		"stale in-flight response overwrote the newer cache-served load")
}
