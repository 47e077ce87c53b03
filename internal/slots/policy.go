package slots

import "github.com/julianstephens/slotbook/internal/constants"

// Mutation is a state-changing action whose success a view must reconcile
type Mutation int

const (
	MutationBook Mutation = iota
	MutationCancel
	MutationAdd
	MutationUpdate
	MutationDelete
)

func (m Mutation) String() string {
	switch m {
	case MutationBook:
		return "book"
	case MutationCancel:
		return "cancel"
	case MutationAdd:
		return "add"
	case MutationUpdate:
		return "update"
	case MutationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Policy is how a view catches up after a successful mutation
type Policy int

const (
	// PolicyRefetch re-queries the service and replaces the collection
	PolicyRefetch Policy = iota
	// PolicyOptimisticRemove drops the affected entry locally without a request
	PolicyOptimisticRemove
)

func (p Policy) String() string {
	if p == PolicyOptimisticRemove {
		return "optimistic-remove"
	}
	return "refetch"
}

// PolicyFor returns the reconciliation policy for a mutation seen by a view.
// Refetch is the default; only a patient cancelling from their own list
// removes the entry optimistically.
func PolicyFor(view constants.View, m Mutation) Policy {
	if view == constants.ViewMine && m == MutationCancel {
		return PolicyOptimisticRemove
	}
	return PolicyRefetch
}
