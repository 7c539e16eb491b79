package outpass

import "github.com/trezcool/shms/core"

// Statuses
const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
	StatusCheckedOut = "checked out"
	StatusReturned   = "returned"
)

var (
	AllStatuses = []string{StatusPending, StatusApproved, StatusRejected, StatusCheckedOut, StatusReturned}

	// allowed next statuses
	transitions = map[string][]string{
		StatusPending:    {StatusApproved, StatusRejected},
		StatusApproved:   {StatusCheckedOut},
		StatusCheckedOut: {StatusReturned},
	}

	errInvalidStatus = core.NewValidationError(nil, core.FieldError{
		Field: "status",
		Error: "status must be one of pending, approved, rejected, checked out or returned",
	})
)

func IsValidStatus(status string) bool {
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransition reports whether an outpass in status `from` may move to `to`.
// Re-applying the current status is always allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
