package domain

import "github.com/medehssane/tewsilty/internal/model"

// transitions lists the legal lifecycle moves. Cancellation is terminal:
// a cancelled order is never re-offered to drivers.
var transitions = map[string][]string{
	model.OrderStatusPending:    {model.OrderStatusAccepted, model.OrderStatusCancelled},
	model.OrderStatusAccepted:   {model.OrderStatusInProgress, model.OrderStatusCancelled},
	model.OrderStatusInProgress: {model.OrderStatusCompleted},
	model.OrderStatusCompleted:  {},
	model.OrderStatusCancelled:  {},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
