package orders

import (
	"fmt"

	"github.com/guideway/guideway-backend/pkg/enums"
	pkgerrors "github.com/guideway/guideway-backend/pkg/errors"
)

// transitionTable is the single source of truth for legal status edges.
// cancelled -> pending exists only for the administrative reopen override.
var transitionTable = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending: {
		enums.OrderStatusPaid,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusPaid: {
		enums.OrderStatusInService,
		enums.OrderStatusWaitingService,
		enums.OrderStatusCancelled,
		enums.OrderStatusRefunded,
	},
	enums.OrderStatusWaitingService: {
		enums.OrderStatusInService,
		enums.OrderStatusCancelled,
		enums.OrderStatusRefunded,
	},
	enums.OrderStatusInService: {
		enums.OrderStatusServiceEnded,
		enums.OrderStatusCompleted,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusServiceEnded: {
		enums.OrderStatusCompleted,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusCompleted: {},
	enums.OrderStatusRefunded:  {},
	enums.OrderStatusCancelled: {
		enums.OrderStatusPending,
	},
}

// CanTransition reports whether the edge from -> to is legal.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range transitionTable[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// ErrStaleStatus builds the state-conflict error every mutation raises when
// the in-transaction re-check observes an unexpected current status. Callers
// must re-fetch and re-decide; the engine never retries these.
func ErrStaleStatus(operation string, want, got enums.OrderStatus) *pkgerrors.Error {
	return pkgerrors.New(
		pkgerrors.CodeStateConflict,
		fmt.Sprintf("%s requires status %s, order is %s", operation, want, got),
	).WithDetails(map[string]any{
		"required_status": want.String(),
		"current_status":  got.String(),
	})
}
