package entity

// EndStateType classifies a terminal invoice status.
type EndStateType string

const (
	EndStateDone      EndStateType = "done"
	EndStateCancelled EndStateType = "cancelled"
	EndStatePending   EndStateType = "pending"
	EndStateNone      EndStateType = ""
)

// IsValid returns true for the known end-state types, including the empty
// type carried by non-terminal statuses.
func (t EndStateType) IsValid() bool {
	switch t {
	case EndStateDone, EndStateCancelled, EndStatePending, EndStateNone:
		return true
	}
	return false
}

// String returns the string representation of the end-state type.
func (t EndStateType) String() string {
	return string(t)
}

// InvoiceStatusDefinition is reference data describing one status code the
// workshop uses on its board. The set is configurable per deployment; only
// the terminal classification matters to the transition gate.
type InvoiceStatusDefinition struct {
	Code         string       `json:"code"`
	Label        string       `json:"label"`
	Color        string       `json:"color,omitempty"`
	IsEndState   bool         `json:"is_end_state"`
	EndStateType EndStateType `json:"end_state_type,omitempty"`
	SortOrder    int          `json:"sort_order,omitempty"`
}

// IsTerminal reports whether orders reaching this status are finished with
// the normal production flow.
func (d InvoiceStatusDefinition) IsTerminal() bool {
	return d.IsEndState
}
