package feed

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/LwandleM/SafeSuburb/app/repository"
	"github.com/LwandleM/SafeSuburb/internal/pkg/listcache"
)

var (
	// ErrUnauthenticated is returned for mutations without a session.
	ErrUnauthenticated = errors.New("no authenticated session")

	// ErrConfirmationRequired is returned when a delete is attempted without
	// the confirmation precondition. Confirmation is checked before the
	// optimistic removal, it is not a rollback mechanism.
	ErrConfirmationRequired = errors.New("delete requires confirmation")

	// ErrNoSuchItem is returned when the target id is not in the loaded list.
	ErrNoSuchItem = errors.New("item not loaded")
)

// State of a controller's list view.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

// Controller owns what one dashboard view currently shows: the loaded pages,
// pagination cursor, and in-flight optimistic mutations. Reads go through the
// shared response cache; mutations invalidate it. All methods are safe for
// concurrent use.
type Controller struct {
	gw       Gateway
	cache    *listcache.Cache
	table    string
	viewMode string
	userID   uint
	pageSize int
	authed   bool

	mu         sync.Mutex
	state      State
	items      []Item
	totalCount int64
	hasMore    bool
	page       int
	loadSeq    uint64
}

// Config for a controller instance. UserID is the session user the gateway
// is scoped to; it becomes part of every cache key.
type Config struct {
	Table         string
	ViewMode      string
	UserID        uint
	PageSize      int
	Authenticated bool
}

const DefaultPageSize = 20

// NewController creates a controller for one (table, view-mode) pair.
func NewController(gw Gateway, cache *listcache.Cache, cfg Config) *Controller {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &Controller{
		gw:       gw,
		cache:    cache,
		table:    cfg.Table,
		viewMode: cfg.ViewMode,
		userID:   cfg.UserID,
		pageSize: cfg.PageSize,
		authed:   cfg.Authenticated,
		state:    StateUninitialized,
	}
}

// Load fetches one page, cache-first. With appendPage the page is appended to
// the already loaded list, otherwise it replaces it. On failure the existing
// list is left untouched and the error is surfaced. A Load superseded by a
// newer one has its response discarded, so an older response can never
// overwrite a newer list.
func (c *Controller) Load(ctx context.Context, page int, appendPage bool) error {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	if !c.authed {
		// No session: empty list, no error, nothing to fetch.
		c.items = nil
		c.hasMore = false
		c.page = 1
		c.state = StateReady
		c.mu.Unlock()
		return nil
	}

	key := listcache.Key(c.table, c.viewMode, c.userID, page)
	if v, ok := c.cache.Get(key); ok {
		if res, ok := v.(*PageResult); ok {
			// A cache hit is still a completed load: take the token so any
			// older request still in flight lands stale and is discarded.
			c.loadSeq++
			c.applyLocked(res, page, appendPage)
			c.mu.Unlock()
			return nil
		}
	}

	c.loadSeq++
	seq := c.loadSeq
	c.state = StateLoading
	q := Query{Table: c.table, ViewMode: c.viewMode, Page: page, PageSize: c.pageSize}
	c.mu.Unlock()

	res, err := c.gw.ListPage(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.loadSeq {
		// A newer Load was issued while this one was in flight; its answer
		// wins regardless of arrival order.
		return nil
	}
	if err != nil {
		c.state = StateReady
		return err
	}

	c.cache.Set(key, res)
	c.applyLocked(res, page, appendPage)
	return nil
}

// LoadMore appends the next page. Once the gateway reports the end of the
// list this is a no-op without a network call.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateUninitialized {
		c.mu.Unlock()
		return c.Load(ctx, 1, false)
	}
	if !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	next := c.page + 1
	c.mu.Unlock()

	return c.Load(ctx, next, true)
}

// Refresh invalidates every cached page of this table and reloads page one.
func (c *Controller) Refresh(ctx context.Context) error {
	c.cache.ClearByPrefix(listcache.Prefix(c.table))
	return c.Load(ctx, 1, false)
}

// Search filters the loaded pages locally: case-insensitive substring match
// across each item's searchable fields. An empty term returns the full list.
// Search never talks to the gateway; its scope is what has been fetched.
func (c *Controller) Search(term string) []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	if term == "" {
		return append([]Item(nil), c.items...)
	}

	needle := strings.ToLower(term)
	var out []Item
	for _, it := range c.items {
		for _, f := range it.Search {
			if strings.Contains(strings.ToLower(f), needle) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// UpdateStatus optimistically applies the new status, confirms it with the
// gateway, and rolls the item back on failure. The returned state reports
// how the mutation ended.
func (c *Controller) UpdateStatus(ctx context.Context, id uint, status string) (MutationState, error) {
	c.mu.Lock()
	if !c.authed {
		c.mu.Unlock()
		return MutationIdle, ErrUnauthenticated
	}
	idx := c.indexLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return MutationIdle, ErrNoSuchItem
	}
	m := &mutation{id: id, prevStatus: c.items[idx].Status, state: MutationOptimistic}
	c.items[idx].Status = status
	c.mu.Unlock()

	err := c.gw.UpdateStatus(ctx, id, status)

	c.mu.Lock()
	if err != nil {
		if i := c.indexLocked(id); i >= 0 {
			c.items[i].Status = m.prevStatus
		}
		m.state = MutationRolledBack
		c.mu.Unlock()

		if errors.Is(err, repository.ErrNotFoundOrForbidden) {
			// Local state diverged from the backend; reconcile fully.
			_ = c.Refresh(ctx)
		}
		return m.state, err
	}

	m.state = MutationCommitted
	c.mu.Unlock()

	c.cache.ClearByPrefix(listcache.Prefix(c.table))
	return m.state, nil
}

// Delete optimistically removes the item after the confirmation precondition,
// then confirms with the gateway. On failure the item is restored at its old
// position.
func (c *Controller) Delete(ctx context.Context, id uint, confirmed bool) (MutationState, error) {
	if !confirmed {
		return MutationIdle, ErrConfirmationRequired
	}

	c.mu.Lock()
	if !c.authed {
		c.mu.Unlock()
		return MutationIdle, ErrUnauthenticated
	}
	idx := c.indexLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return MutationIdle, ErrNoSuchItem
	}
	m := &mutation{id: id, prevIndex: idx, prevItem: c.items[idx], state: MutationOptimistic}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.mu.Unlock()

	err := c.gw.Delete(ctx, id)

	c.mu.Lock()
	if err != nil {
		pos := m.prevIndex
		if pos > len(c.items) {
			pos = len(c.items)
		}
		c.items = append(c.items[:pos], append([]Item{m.prevItem}, c.items[pos:]...)...)
		m.state = MutationRolledBack
		c.mu.Unlock()

		if errors.Is(err, repository.ErrNotFoundOrForbidden) {
			_ = c.Refresh(ctx)
		}
		return m.state, err
	}

	m.state = MutationCommitted
	c.mu.Unlock()

	c.cache.ClearByPrefix(listcache.Prefix(c.table))
	return m.state, nil
}

// Items returns a copy of the loaded list.
func (c *Controller) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item(nil), c.items...)
}

// HasMore reports whether another page can be loaded.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// TotalCount returns the server-side total of the last applied page.
func (c *Controller) TotalCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalCount
}

// State returns the view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Table returns the table this controller lists.
func (c *Controller) Table() string {
	return c.table
}

func (c *Controller) applyLocked(res *PageResult, page int, appendPage bool) {
	if appendPage {
		known := make(map[uint]struct{}, len(c.items))
		for _, it := range c.items {
			known[it.ID] = struct{}{}
		}
		for _, it := range res.Items {
			if _, dup := known[it.ID]; dup {
				continue
			}
			c.items = append(c.items, it)
		}
	} else {
		c.items = append([]Item(nil), res.Items...)
	}
	c.totalCount = res.TotalCount
	c.hasMore = res.HasMore
	c.page = page
	c.state = StateReady
}

func (c *Controller) indexLocked(id uint) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
