package enums

import "fmt"

// OvertimeStatus tracks whether an extension request has been paid for.
type OvertimeStatus string

const (
	OvertimeStatusPending OvertimeStatus = "pending"
	OvertimeStatusPaid    OvertimeStatus = "paid"
)

var validOvertimeStatuses = []OvertimeStatus{
	OvertimeStatusPending,
	OvertimeStatusPaid,
}

// IsValid reports whether the value is a known OvertimeStatus.
func (s OvertimeStatus) IsValid() bool {
	for _, candidate := range validOvertimeStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOvertimeStatus converts raw input into an OvertimeStatus.
func ParseOvertimeStatus(value string) (OvertimeStatus, error) {
	for _, candidate := range validOvertimeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid overtime status %q", value)
}
