package money

import "fmt"

// Cents is an amount in currency minor units. All financial math in the
// platform happens on this type; floating point never touches money paths.
type Cents int64

// Platform commission taken from every captured payment, expressed as an
// integer percentage so guide income stays in pure integer arithmetic.
const (
	CommissionPercent = 25
	guideSharePercent = 100 - CommissionPercent
)

// GuideShare returns the guide's net income for a captured fee: the fee minus
// the platform commission, floored by integer division. Income always accrues
// per captured payment; callers never recompute an accumulated total from
// scratch, which would drift against the per-payment floors.
func GuideShare(fee Cents) Cents {
	if fee <= 0 {
		return 0
	}
	return fee * guideSharePercent / 100
}

// HourlyFee returns hours * rate, guarding the inputs.
func HourlyFee(hours int, rateCents Cents) (Cents, error) {
	if hours <= 0 {
		return 0, fmt.Errorf("hours must be positive, got %d", hours)
	}
	if rateCents < 0 {
		return 0, fmt.Errorf("hourly rate must not be negative, got %d", rateCents)
	}
	return Cents(int64(hours)) * rateCents, nil
}

// ClampNonNegative floors an amount at zero. Refund math subtracts a penalty
// and must never produce a negative payout.
func ClampNonNegative(amount Cents) Cents {
	if amount < 0 {
		return 0
	}
	return amount
}

// Validate rejects negative amounts on API boundaries.
func Validate(amount Cents) error {
	if amount < 0 {
		return fmt.Errorf("amount must not be negative, got %d", amount)
	}
	return nil
}
