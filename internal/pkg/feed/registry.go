package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/LwandleM/SafeSuburb/app/repository"
	"github.com/LwandleM/SafeSuburb/internal/pkg/listcache"
)

// Registry holds one controller per (user, table, view-mode) for the
// lifetime of their session. Controllers share a single injected response
// cache; the registry is what the realtime listener pokes when a changefeed
// event demands a refetch.
type Registry struct {
	repos *repository.Repositories
	cache *listcache.Cache

	mu          sync.Mutex
	controllers map[string]*Controller
}

const refetchTimeout = 10 * time.Second

// NewRegistry creates a registry over the shared response cache.
func NewRegistry(repos *repository.Repositories, cache *listcache.Cache) *Registry {
	return &Registry{
		repos:       repos,
		cache:       cache,
		controllers: make(map[string]*Controller),
	}
}

// Cache exposes the shared response cache for invalidation by collaborators.
func (r *Registry) Cache() *listcache.Cache {
	return r.cache
}

// ControllerFor returns the session user's controller for the given table
// and view mode, creating it on first use.
func (r *Registry) ControllerFor(userID uint, elevated bool, table, viewMode string) *Controller {
	key := fmt.Sprintf("%d:%s:%s", userID, table, viewMode)

	r.mu.Lock()
	defer r.mu.Unlock()

	if ctrl, ok := r.controllers[key]; ok {
		return ctrl
	}

	gw := GatewayFor(r.repos, table, userID, elevated)
	ctrl := NewController(gw, r.cache, Config{
		Table:         table,
		ViewMode:      viewMode,
		UserID:        userID,
		Authenticated: userID != 0,
	})
	r.controllers[key] = ctrl
	return ctrl
}

// RefreshTable reloads every live controller of the given table. The
// realtime listener calls this once per debounce window.
func (r *Registry) RefreshTable(table string) {
	r.mu.Lock()
	targets := make([]*Controller, 0)
	for _, ctrl := range r.controllers {
		if ctrl.Table() == table {
			targets = append(targets, ctrl)
		}
	}
	r.mu.Unlock()

	for _, ctrl := range targets {
		go func(c *Controller) {
			ctx, cancel := context.WithTimeout(context.Background(), refetchTimeout)
			defer cancel()
			if err := c.Refresh(ctx); err != nil {
				log.Errorf("[Feed] refetch of %s failed: %v", c.Table(), err)
			}
		}(ctrl)
	}
}

// DropUser releases a user's controllers on sign-out. In-flight loads
// belonging to dropped controllers resolve into garbage-collected state.
func (r *Registry) DropUser(userID uint) {
	prefix := fmt.Sprintf("%d:", userID)
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.controllers {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			delete(r.controllers, key)
		}
	}
}
