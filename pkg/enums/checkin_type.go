package enums

import "fmt"

// CheckInType distinguishes start-of-service from end-of-service proofs.
type CheckInType string

const (
	CheckInTypeStart CheckInType = "start"
	CheckInTypeEnd   CheckInType = "end"
)

var validCheckInTypes = []CheckInType{
	CheckInTypeStart,
	CheckInTypeEnd,
}

// IsValid reports whether the value is a known CheckInType.
func (t CheckInType) IsValid() bool {
	for _, candidate := range validCheckInTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseCheckInType converts raw input into a CheckInType.
func ParseCheckInType(value string) (CheckInType, error) {
	for _, candidate := range validCheckInTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid check-in type %q", value)
}
