package enums

import "fmt"

// PaymentStatus tracks the outcome of a captured payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusSucceeded,
	PaymentStatusFailed,
}

// IsValid reports whether the value is a known PaymentStatus.
func (s PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// PaymentMethod names the instrument used to capture funds.
type PaymentMethod string

const (
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodCard   PaymentMethod = "card"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodWallet,
	PaymentMethodCard,
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

// PaymentRelatedType names the aggregate a payment row settles.
type PaymentRelatedType string

const (
	PaymentRelatedOrder    PaymentRelatedType = "order"
	PaymentRelatedOvertime PaymentRelatedType = "overtime"
)

var validPaymentRelatedTypes = []PaymentRelatedType{
	PaymentRelatedOrder,
	PaymentRelatedOvertime,
}

// IsValid reports whether the value is a known PaymentRelatedType.
func (t PaymentRelatedType) IsValid() bool {
	for _, candidate := range validPaymentRelatedTypes {
		if candidate == t {
			return true
		}
	}
	return false
}
