package requisition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeTag_IsValid(t *testing.T) {
	tests := []struct {
		tag     ChangeTag
		isValid bool
	}{
		{ChangeTagUnchanged, true},
		{ChangeTagCreate, true},
		{ChangeTagUpdate, true},
		{ChangeTagDelete, true},
		{ChangeTag("X"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.tag.IsValid())
		})
	}
}

func TestParseChangeTag(t *testing.T) {
	assert.Equal(t, ChangeTagCreate, ParseChangeTag("C"))
	assert.Equal(t, ChangeTagDelete, ParseChangeTag("D"))
	assert.Equal(t, ChangeTagUnchanged, ParseChangeTag("N"))
	assert.Equal(t, ChangeTagUnchanged, ParseChangeTag(""))
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name   string
		from   ChangeTag
		action LedgerAction
		want   ChangeTag
	}{
		// Mutate
		{"create stays create", ChangeTagCreate, ActionMutate, ChangeTagCreate},
		{"unchanged becomes update", ChangeTagUnchanged, ActionMutate, ChangeTagUpdate},
		{"update stays update", ChangeTagUpdate, ActionMutate, ChangeTagUpdate},
		{"delete stays delete", ChangeTagDelete, ActionMutate, ChangeTagDelete},
		// Remove
		{"remove unchanged", ChangeTagUnchanged, ActionRemove, ChangeTagDelete},
		{"remove update", ChangeTagUpdate, ActionRemove, ChangeTagDelete},
		{"remove persisted create", ChangeTagCreate, ActionRemove, ChangeTagDelete},
		// Restore
		{"restore delete", ChangeTagDelete, ActionRestore, ChangeTagUpdate},
		{"restore unchanged is no-op", ChangeTagUnchanged, ActionRestore, ChangeTagUnchanged},
		{"restore create is no-op", ChangeTagCreate, ActionRestore, ChangeTagCreate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.from, tt.action))
		})
	}
}
