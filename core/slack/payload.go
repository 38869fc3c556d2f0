package slack

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m3rciful/kondate/core/kondate"
)

// ErrNoAction indicates an interaction payload without any action entry.
var ErrNoAction = errors.New("slack: payload carries no action")

// User identifies the interacting Slack user.
type User struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Channel identifies the conversation thread the message lives in.
type Channel struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// SelectedOption is one chosen entry of a select control.
type SelectedOption struct {
	Value string `json:"value"`
}

// PayloadAction is one user interaction inside an interactive callback.
type PayloadAction struct {
	Name            string           `json:"name"`
	Type            string           `json:"type,omitempty"`
	Value           string           `json:"value,omitempty"`
	SelectedOptions []SelectedOption `json:"selected_options,omitempty"`
}

// InteractionPayload mirrors the interactive message callback Slack posts
// to the action endpoint, form-encoded under the payload field.
type InteractionPayload struct {
	Token           string          `json:"token"`
	CallbackID      string          `json:"callback_id,omitempty"`
	User            User            `json:"user"`
	Channel         Channel         `json:"channel,omitempty"`
	OriginalMessage Message         `json:"original_message"`
	Actions         []PayloadAction `json:"actions"`
}

// ParseInteraction decodes the JSON payload of an interactive callback.
func ParseInteraction(raw string) (*InteractionPayload, error) {
	var p InteractionPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("slack: decode interaction payload: %w", err)
	}
	return &p, nil
}

// Action extracts the dialog action from the payload. Only the first
// action entry is considered; further entries are ignored on purpose,
// the client sends one interaction per callback.
func (p *InteractionPayload) Action() (kondate.Action, error) {
	if len(p.Actions) == 0 {
		return kondate.Action{}, ErrNoAction
	}
	first := p.Actions[0]
	act := kondate.Action{
		Name:  first.Name,
		Actor: p.User.Name,
	}
	if len(first.SelectedOptions) > 0 {
		act.SelectedValue = first.SelectedOptions[0].Value
	}
	return act, nil
}

// OptionsPayload mirrors the options-load request issued by the client
// while rendering an external-source select control.
type OptionsPayload struct {
	Token      string `json:"token,omitempty"`
	CallbackID string `json:"callback_id"`
}

// ParseOptionsRequest decodes the JSON payload of an options-load request.
func ParseOptionsRequest(raw string) (*OptionsPayload, error) {
	var p OptionsPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("slack: decode options payload: %w", err)
	}
	return &p, nil
}
