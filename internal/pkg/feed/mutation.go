package feed

// MutationState is the lifecycle of one optimistic mutation. The in-memory
// list is patched before the gateway confirms; a remote failure must restore
// the pre-call value, so every mutation carries its own rollback data.
type MutationState int

const (
	MutationIdle MutationState = iota
	MutationOptimistic
	MutationCommitted
	MutationRolledBack
)

func (s MutationState) String() string {
	switch s {
	case MutationIdle:
		return "idle"
	case MutationOptimistic:
		return "optimistic"
	case MutationCommitted:
		return "committed"
	case MutationRolledBack:
		return "rolled_back"
	}
	return "unknown"
}

// mutation records what is needed to undo one optimistic change.
type mutation struct {
	id         uint
	prevStatus string
	prevIndex  int
	prevItem   Item
	state      MutationState
}
