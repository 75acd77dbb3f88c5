package order

import "sewa-be/internal/apperror"

type Action string

const (
	ActionRequestCancel   Action = "request_cancel"
	ActionConfirmReceived Action = "confirm_received"
	ActionApprove         Action = "approve"
	ActionShip            Action = "ship"
	ActionMarkReturning   Action = "mark_returning"
	ActionComplete        Action = "complete"
)

// Transition moves an order from exactly one status to the next.
// OwnerOnly transitions are driven by the renter; the rest need the staff
// capability.
type Transition struct {
	Action    Action
	From      Status
	To        Status
	OwnerOnly bool
	Err       *apperror.Error
}

var transitions = map[Action]Transition{
	ActionRequestCancel: {
		Action:    ActionRequestCancel,
		From:      StatusPending,
		To:        StatusCancelRequested,
		OwnerOnly: true,
		Err:       ErrCannotCancel,
	},
	ActionConfirmReceived: {
		Action:    ActionConfirmReceived,
		From:      StatusShipping,
		To:        StatusBorrowed,
		OwnerOnly: true,
		Err:       ErrNotShipping,
	},
	ActionApprove: {
		Action: ActionApprove,
		From:   StatusPending,
		To:     StatusApproved,
		Err:    apperror.InvalidState("order is not in pending status"),
	},
	ActionShip: {
		Action: ActionShip,
		From:   StatusApproved,
		To:     StatusShipping,
		Err:    apperror.InvalidState("order is not in approved status"),
	},
	ActionMarkReturning: {
		Action: ActionMarkReturning,
		From:   StatusBorrowed,
		To:     StatusReturning,
		Err:    apperror.InvalidState("order is not in borrowed status"),
	},
	ActionComplete: {
		Action: ActionComplete,
		From:   StatusReturning,
		To:     StatusCompleted,
		Err:    apperror.InvalidState("order is not in returning status"),
	},
}

func LookupTransition(a Action) (Transition, bool) {
	t, ok := transitions[a]
	return t, ok
}
