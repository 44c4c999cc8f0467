package feed

import (
	"context"
)

// View modes of the dashboard list.
const (
	ViewAll  = "all"
	ViewMine = "mine"
)

// Item is the kind-agnostic projection of a report the controller works on.
// Payload carries the full record for rendering; Search holds the fields
// matched by local search.
type Item struct {
	ID       uint     `json:"id"`
	OBNumber string   `json:"ob_number"`
	Status   string   `json:"status"`
	OwnerID  uint     `json:"owner_id"`
	Search   []string `json:"-"`
	Payload  any      `json:"record"`
}

// Query describes one page request.
type Query struct {
	Table    string
	ViewMode string
	Page     int
	PageSize int
}

// PageResult is the gateway's answer to a Query. HasMore is false as soon
// as a page comes back shorter than the requested size.
type PageResult struct {
	Items      []Item
	TotalCount int64
	HasMore    bool
}

// Gateway is the remote side of a report list: paging reads plus the two
// mutations the dashboard performs. Implementations are already scoped to
// the session user.
type Gateway interface {
	ListPage(ctx context.Context, q Query) (*PageResult, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
}
