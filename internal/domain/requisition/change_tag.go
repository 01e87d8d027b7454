package requisition

// ChangeTag marks a line item's pending change relative to the last persisted state
type ChangeTag string

const (
	ChangeTagUnchanged ChangeTag = ""
	ChangeTagCreate    ChangeTag = "C"
	ChangeTagUpdate    ChangeTag = "U"
	ChangeTagDelete    ChangeTag = "D"
)

// IsValid checks if the tag is a known ChangeTag
func (t ChangeTag) IsValid() bool {
	switch t {
	case ChangeTagUnchanged, ChangeTagCreate, ChangeTagUpdate, ChangeTagDelete:
		return true
	}
	return false
}

// String returns the wire representation of the tag
func (t ChangeTag) String() string {
	return string(t)
}

// ParseChangeTag reads a wire tag. Unknown values are treated as unchanged.
func ParseChangeTag(s string) ChangeTag {
	t := ChangeTag(s)
	if !t.IsValid() {
		return ChangeTagUnchanged
	}
	return t
}

// LedgerAction is an operation the ledger applies to a line item
type LedgerAction int

const (
	// ActionMutate covers any quantity or price edit
	ActionMutate LedgerAction = iota
	// ActionRemove soft-deletes a persisted line
	ActionRemove
	// ActionRestore brings a soft-deleted line back
	ActionRestore
)

// Transition returns the tag a line carries after action.
// This is the only place change tags are assigned after creation.
func Transition(tag ChangeTag, action LedgerAction) ChangeTag {
	switch action {
	case ActionMutate:
		switch tag {
		case ChangeTagCreate:
			return ChangeTagCreate
		case ChangeTagDelete:
			return ChangeTagDelete
		default:
			return ChangeTagUpdate
		}
	case ActionRemove:
		return ChangeTagDelete
	case ActionRestore:
		if tag == ChangeTagDelete {
			return ChangeTagUpdate
		}
		return tag
	}
	return tag
}
