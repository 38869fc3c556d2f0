package kondate

import (
	"errors"
	"fmt"
)

// Conversation is the ordered attachment sequence that carries the full
// dialog state. It is round-tripped through the chat client: the service
// never stores it. Invariant: at most the last element is pending.
type Conversation []Attachment

var (
	// ErrEmptyConversation rejects a payload whose message has no attachments.
	ErrEmptyConversation = errors.New("kondate: empty conversation")
	// ErrTerminal rejects an action against a completed or canceled dialog.
	ErrTerminal = errors.New("kondate: conversation already finished")
	// ErrStepMismatch rejects an action whose name does not match the
	// currently pending step, typically stale client state.
	ErrStepMismatch = errors.New("kondate: action does not match pending step")
	// ErrUnknownAction rejects an action name outside the known steps.
	ErrUnknownAction = errors.New("kondate: unknown action")
)

// Action is one user interaction received against a conversation.
type Action struct {
	// Name is a meal step name or ActionCancel.
	Name string
	// Actor is the display name of the interacting user.
	Actor string
	// SelectedValue is the chosen menu value; empty for cancel.
	SelectedValue string
}

// New returns a fresh conversation with the breakfast prompt pending.
func New() Conversation {
	return Conversation{NewPending(StepBreakfast)}
}

// Terminal reports whether the conversation accepts no further actions.
func (c Conversation) Terminal() bool {
	return len(c) == 0 || !c[len(c)-1].Pending()
}

// PendingStep returns the step currently awaiting input.
func (c Conversation) PendingStep() (Step, bool) {
	if c.Terminal() {
		return "", false
	}
	return ParseStep(c[len(c)-1].CallbackID)
}

// Advance computes the conversation that results from applying act.
// It is a pure function: the input is never mutated, and identical
// inputs always yield identical outputs. The resolved record replaces
// the pending tail; a meal answer additionally appends the next step's
// prompt unless the dialog is complete.
func Advance(conv Conversation, act Action) (Conversation, error) {
	if len(conv) == 0 {
		return nil, ErrEmptyConversation
	}
	last := conv[len(conv)-1]
	if !last.Pending() {
		return nil, ErrTerminal
	}

	next := make(Conversation, len(conv), len(conv)+1)
	copy(next, conv)

	if act.Name == ActionCancel {
		next[len(next)-1] = NewCanceled(act.Actor)
		return next, nil
	}

	step, ok := ParseStep(act.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, act.Name)
	}
	if string(step) != last.CallbackID {
		return nil, fmt.Errorf("%w: got %q, pending %q", ErrStepMismatch, act.Name, last.CallbackID)
	}

	next[len(next)-1] = NewResolved(step, act.Actor, act.SelectedValue)
	if following, ok := step.Next(); ok {
		next = append(next, NewPending(following))
	}
	return next, nil
}
