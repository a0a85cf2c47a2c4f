package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/pkg/enums"
	pkgerrors "github.com/guideway/guideway-backend/pkg/errors"
	"github.com/guideway/guideway-backend/pkg/money"
)

// SandboxProvider is the local gateway used outside production. It approves
// every well-formed request and fabricates transaction references.
type SandboxProvider struct{}

// NewSandboxProvider returns the mock gateway.
func NewSandboxProvider() *SandboxProvider {
	return &SandboxProvider{}
}

func (p *SandboxProvider) Charge(ctx context.Context, orderRef string, amount money.Cents, method enums.PaymentMethod) (ChargeResult, error) {
	if orderRef == "" {
		return ChargeResult{}, pkgerrors.New(pkgerrors.CodeValidation, "order reference is required")
	}
	if amount <= 0 {
		return ChargeResult{}, pkgerrors.New(pkgerrors.CodeValidation, "charge amount must be positive")
	}
	if !method.IsValid() {
		return ChargeResult{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", method))
	}
	return ChargeResult{TransactionID: "sbx_chg_" + uuid.NewString()}, nil
}

func (p *SandboxProvider) Refund(ctx context.Context, orderRef string, amount money.Cents, originalTransactionID, reason string) (RefundResult, error) {
	if orderRef == "" {
		return RefundResult{}, pkgerrors.New(pkgerrors.CodeValidation, "order reference is required")
	}
	if originalTransactionID == "" {
		return RefundResult{}, pkgerrors.New(pkgerrors.CodeValidation, "original transaction id is required")
	}
	if amount < 0 {
		return RefundResult{}, pkgerrors.New(pkgerrors.CodeValidation, "refund amount must not be negative")
	}
	return RefundResult{TransactionID: "sbx_rfd_" + uuid.NewString()}, nil
}
