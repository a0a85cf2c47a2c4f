package types

// OrderRequirement captures the structured details of a custom booking. The
// column is jsonb; fields are typed here instead of a serialized string so
// readers never parse free text.
type OrderRequirement struct {
	Destination string   `json:"destination,omitempty"`
	MeetingSpot string   `json:"meeting_spot,omitempty"`
	Languages   []string `json:"languages,omitempty"`
	GroupSize   int      `json:"group_size,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}
