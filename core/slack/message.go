package slack

import "github.com/m3rciful/kondate/core/kondate"

// Message is the chat message whose attachment sequence carries the
// whole dialog state. The client is the system of record: it echoes the
// message back on every interaction and renders whatever is returned.
type Message struct {
	Text        string               `json:"text,omitempty"`
	Attachments kondate.Conversation `json:"attachments"`
}

// NewConversationMessage builds the initial message seeding a dialog.
// The body text is a single space so the client renders attachments only.
func NewConversationMessage() Message {
	return Message{
		Text:        " ",
		Attachments: kondate.New(),
	}
}

// Ephemeral is an error response visible only to the interacting user.
// It never replaces the original message.
type Ephemeral struct {
	ResponseType    string `json:"response_type"`
	ReplaceOriginal bool   `json:"replace_original"`
	Text            string `json:"text"`
}

// NewEphemeral builds an ephemeral response with the given text.
func NewEphemeral(text string) Ephemeral {
	return Ephemeral{
		ResponseType:    "ephemeral",
		ReplaceOriginal: false,
		Text:            text,
	}
}

// OptionsResponse wraps the choices answered to an options-load request.
type OptionsResponse struct {
	Options []kondate.Option `json:"options"`
}
