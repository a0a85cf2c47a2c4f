package enums

import "fmt"

// OrderKind distinguishes catalog bookings from bespoke requests.
type OrderKind string

const (
	OrderKindStandard OrderKind = "standard"
	OrderKindCustom   OrderKind = "custom"
)

var validOrderKinds = []OrderKind{
	OrderKindStandard,
	OrderKindCustom,
}

// IsValid reports whether the value is a known OrderKind.
func (k OrderKind) IsValid() bool {
	for _, candidate := range validOrderKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseOrderKind converts raw input into an OrderKind.
func ParseOrderKind(value string) (OrderKind, error) {
	for _, candidate := range validOrderKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order kind %q", value)
}
