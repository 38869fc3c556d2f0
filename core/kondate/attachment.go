package kondate

import "fmt"

// colorAccent is the accent color the client renders on every attachment.
const colorAccent = "#3AA3E3"

// Confirm is the confirmation dialog attached to destructive buttons.
type Confirm struct {
	Title       string `json:"title"`
	Text        string `json:"text"`
	OkText      string `json:"ok_text"`
	DismissText string `json:"dismiss_text"`
}

// AttachmentAction is one interactive control rendered inside an attachment.
type AttachmentAction struct {
	Name  string `json:"name"`
	Text  string `json:"text"`
	Type  string `json:"type"`
	Style string `json:"style,omitempty"`
	// DataSource set to "external" makes the client fetch choices
	// from the options endpoint instead of embedding them.
	DataSource string   `json:"data_source,omitempty"`
	Confirm    *Confirm `json:"confirm,omitempty"`
}

// Field is a finalized key/value record shown on a resolved attachment.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value,omitempty"`
	Short bool   `json:"short"`
}

// Attachment is one entry of the conversation sequence. A pending
// attachment carries a callback_id and interactive actions; a resolved
// one carries only fields and an empty action list.
type Attachment struct {
	Text       string             `json:"text,omitempty"`
	CallbackID string             `json:"callback_id,omitempty"`
	Fields     []Field            `json:"fields,omitempty"`
	Actions    []AttachmentAction `json:"actions"`
	Color      string             `json:"color,omitempty"`
}

// Pending reports whether the attachment still awaits user input.
func (a Attachment) Pending() bool {
	return a.CallbackID != "" && len(a.Actions) > 0
}

// CancelAction returns the fixed cancel button with its confirm dialog.
func CancelAction() AttachmentAction {
	return AttachmentAction{
		Name:  ActionCancel,
		Text:  ActionCancel,
		Type:  "button",
		Style: "danger",
		Confirm: &Confirm{
			Title:       "Are you sure?",
			Text:        "Wouldn't you eat?",
			OkText:      "Yes",
			DismissText: "No",
		},
	}
}

// NewPending builds the interactive attachment asking for the given step.
func NewPending(step Step) Attachment {
	return Attachment{
		Text:       fmt.Sprintf("What do you eat for %s?", step),
		CallbackID: string(step),
		Actions: []AttachmentAction{
			{
				Name:       string(step),
				Text:       selectPrompt(step),
				Type:       "select",
				DataSource: "external",
			},
			CancelAction(),
		},
		Color: colorAccent,
	}
}

// NewResolved builds the non-interactive record of an answered step.
func NewResolved(step Step, actor, value string) Attachment {
	return Attachment{
		Fields: []Field{{
			Title: string(step),
			Value: fmt.Sprintf("@%s eats %s!", actor, value),
			Short: false,
		}},
		Actions: []AttachmentAction{},
		Color:   colorAccent,
	}
}

// NewCanceled builds the terminal record of a canceled dialog.
// The record is title-only, mirroring how the client renders it.
func NewCanceled(actor string) Attachment {
	return Attachment{
		Fields: []Field{{
			Title: fmt.Sprintf("@%s canceled", actor),
			Short: false,
		}},
		Actions: []AttachmentAction{},
		Color:   colorAccent,
	}
}

// The breakfast select historically reads "morning", the rest use the
// step name.
func selectPrompt(step Step) string {
	if step == StepBreakfast {
		return "select a morning menu..."
	}
	return fmt.Sprintf("select a %s menu...", step)
}
