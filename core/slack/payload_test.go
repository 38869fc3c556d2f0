package slack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/kondate/core/kondate"
)

const sampleInteraction = `{
  "token": "sekrit",
  "callback_id": "lunch",
  "user": {"id": "U123", "name": "alice"},
  "channel": {"id": "C456", "name": "meals"},
  "original_message": {
    "text": " ",
    "attachments": [
      {"fields": [{"title": "breakfast", "value": "@alice eats toast!", "short": false}], "actions": [], "color": "#3AA3E3"},
      {"text": "What do you eat for lunch?", "callback_id": "lunch", "actions": [{"name": "lunch", "type": "select", "data_source": "external", "text": "select a lunch menu..."}], "color": "#3AA3E3"}
    ]
  },
  "actions": [{"name": "lunch", "type": "select", "selected_options": [{"value": "ramen"}]}]
}`

func TestParseInteraction(t *testing.T) {
	p, err := ParseInteraction(sampleInteraction)
	require.NoError(t, err)

	assert.Equal(t, "sekrit", p.Token)
	assert.Equal(t, "lunch", p.CallbackID)
	assert.Equal(t, "alice", p.User.Name)
	assert.Equal(t, "C456", p.Channel.ID)
	require.Len(t, p.OriginalMessage.Attachments, 2)
	assert.False(t, p.OriginalMessage.Attachments[0].Pending())
	assert.True(t, p.OriginalMessage.Attachments[1].Pending())
}

func TestParseInteractionMalformed(t *testing.T) {
	_, err := ParseInteraction("{not json")
	require.Error(t, err)
}

func TestPayloadAction(t *testing.T) {
	p, err := ParseInteraction(sampleInteraction)
	require.NoError(t, err)

	act, err := p.Action()
	require.NoError(t, err)
	assert.Equal(t, kondate.Action{Name: "lunch", Actor: "alice", SelectedValue: "ramen"}, act)
}

func TestPayloadActionCancelButton(t *testing.T) {
	p := &InteractionPayload{
		User:    User{Name: "bob"},
		Actions: []PayloadAction{{Name: "cancel", Type: "button", Value: "cancel"}},
	}
	act, err := p.Action()
	require.NoError(t, err)
	assert.Equal(t, "cancel", act.Name)
	assert.Equal(t, "bob", act.Actor)
	assert.Empty(t, act.SelectedValue)
}

func TestPayloadActionMissing(t *testing.T) {
	p := &InteractionPayload{User: User{Name: "alice"}}
	_, err := p.Action()
	require.ErrorIs(t, err, ErrNoAction)
}

func TestParseOptionsRequest(t *testing.T) {
	p, err := ParseOptionsRequest(`{"token": "sekrit", "callback_id": "dinner"}`)
	require.NoError(t, err)
	assert.Equal(t, "sekrit", p.Token)
	assert.Equal(t, "dinner", p.CallbackID)

	_, err = ParseOptionsRequest("nope")
	require.Error(t, err)
}

func TestAdvanceFromParsedPayload(t *testing.T) {
	p, err := ParseInteraction(sampleInteraction)
	require.NoError(t, err)
	act, err := p.Action()
	require.NoError(t, err)

	next, err := kondate.Advance(p.OriginalMessage.Attachments, act)
	require.NoError(t, err)
	require.Len(t, next, 3)
	assert.Equal(t, "@alice eats ramen!", next[1].Fields[0].Value)
	assert.Equal(t, "dinner", next[2].CallbackID)
}
