package kondate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPendingWireShape(t *testing.T) {
	raw, err := json.Marshal(NewPending(StepLunch))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "What do you eat for lunch?", got["text"])
	assert.Equal(t, "lunch", got["callback_id"])
	assert.Equal(t, "#3AA3E3", got["color"])

	actions, ok := got["actions"].([]any)
	require.True(t, ok)
	require.Len(t, actions, 2)

	sel := actions[0].(map[string]any)
	assert.Equal(t, "lunch", sel["name"])
	assert.Equal(t, "select", sel["type"])
	assert.Equal(t, "external", sel["data_source"])
	assert.Equal(t, "select a lunch menu...", sel["text"])

	cancel := actions[1].(map[string]any)
	assert.Equal(t, "cancel", cancel["name"])
	assert.Equal(t, "button", cancel["type"])
	assert.Equal(t, "danger", cancel["style"])
	confirm := cancel["confirm"].(map[string]any)
	assert.Equal(t, "Are you sure?", confirm["title"])
	assert.Equal(t, "Wouldn't you eat?", confirm["text"])
}

func TestBreakfastSelectPrompt(t *testing.T) {
	att := NewPending(StepBreakfast)
	require.Len(t, att.Actions, 2)
	assert.Equal(t, "select a morning menu...", att.Actions[0].Text)
}

func TestResolvedKeepsEmptyActionsArray(t *testing.T) {
	raw, err := json.Marshal(NewResolved(StepDinner, "alice", "sushi"))
	require.NoError(t, err)

	// The client distinguishes a resolved attachment by its empty action
	// list, so "actions" must serialize as [] rather than disappear.
	assert.Contains(t, string(raw), `"actions":[]`)
	assert.NotContains(t, string(raw), "callback_id")
}

func TestCanceledRecordIsTitleOnly(t *testing.T) {
	raw, err := json.Marshal(NewCanceled("bob"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	fields := got["fields"].([]any)
	require.Len(t, fields, 1)
	field := fields[0].(map[string]any)
	assert.Equal(t, "@bob canceled", field["title"])
	_, hasValue := field["value"]
	assert.False(t, hasValue)
}

func TestPendingPredicate(t *testing.T) {
	assert.True(t, NewPending(StepDinner).Pending())
	assert.False(t, NewResolved(StepDinner, "alice", "sushi").Pending())
	assert.False(t, NewCanceled("alice").Pending())
	assert.False(t, Attachment{CallbackID: "dinner"}.Pending())
}
