package payments

import (
	"context"

	"github.com/guideway/guideway-backend/pkg/enums"
	"github.com/guideway/guideway-backend/pkg/money"
)

// ChargeResult carries the gateway's reference for a captured charge.
type ChargeResult struct {
	TransactionID string
}

// RefundResult carries the gateway's reference for an executed refund.
type RefundResult struct {
	TransactionID string
}

// Provider is the payment gateway port. The engine never assumes settlement
// semantics beyond the returned result: a non-nil error means no money moved
// and the caller must leave local state untouched.
//
// Provider calls are made outside database transactions so a slow gateway
// never holds a row lock.
type Provider interface {
	Charge(ctx context.Context, orderRef string, amount money.Cents, method enums.PaymentMethod) (ChargeResult, error)
	Refund(ctx context.Context, orderRef string, amount money.Cents, originalTransactionID, reason string) (RefundResult, error)
}
