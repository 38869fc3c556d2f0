package kondate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversation(t *testing.T) {
	conv := New()
	require.Len(t, conv, 1)
	assert.True(t, conv[0].Pending())
	assert.Equal(t, "breakfast", conv[0].CallbackID)
	assert.Equal(t, "What do you eat for breakfast?", conv[0].Text)
	assert.False(t, conv.Terminal())

	step, ok := conv.PendingStep()
	require.True(t, ok)
	assert.Equal(t, StepBreakfast, step)
}

func TestAdvanceAnswerBreakfast(t *testing.T) {
	conv := New()
	next, err := Advance(conv, Action{Name: "breakfast", Actor: "alice", SelectedValue: "toast"})
	require.NoError(t, err)
	require.Len(t, next, 2)

	resolved := next[0]
	assert.False(t, resolved.Pending())
	require.Len(t, resolved.Fields, 1)
	assert.Equal(t, "breakfast", resolved.Fields[0].Title)
	assert.Equal(t, "@alice eats toast!", resolved.Fields[0].Value)
	assert.Empty(t, resolved.Actions)

	pending := next[1]
	assert.True(t, pending.Pending())
	assert.Equal(t, "lunch", pending.CallbackID)
	assert.Equal(t, "What do you eat for lunch?", pending.Text)
}

func TestAdvanceFullCompletion(t *testing.T) {
	conv := New()
	answers := []struct {
		name  string
		value string
	}{
		{"breakfast", "toast"},
		{"lunch", "ramen"},
		{"dinner", "sushi"},
	}

	var err error
	for _, a := range answers {
		// Exactly one pending element before every valid advance.
		pendingCount := 0
		for _, att := range conv {
			if att.Pending() {
				pendingCount++
			}
		}
		require.Equal(t, 1, pendingCount)

		conv, err = Advance(conv, Action{Name: a.name, Actor: "alice", SelectedValue: a.value})
		require.NoError(t, err)
	}

	require.Len(t, conv, 3)
	assert.True(t, conv.Terminal())
	assert.Equal(t, "@alice eats toast!", conv[0].Fields[0].Value)
	assert.Equal(t, "@alice eats ramen!", conv[1].Fields[0].Value)
	assert.Equal(t, "@alice eats sushi!", conv[2].Fields[0].Value)
	for _, att := range conv {
		assert.False(t, att.Pending())
	}
}

func TestAdvanceCancelMidFlow(t *testing.T) {
	conv := Conversation{
		NewResolved(StepBreakfast, "bob", "rice"),
		NewPending(StepLunch),
	}
	next, err := Advance(conv, Action{Name: ActionCancel, Actor: "bob"})
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.True(t, next.Terminal())
	assert.Equal(t, "@bob eats rice!", next[0].Fields[0].Value)
	require.Len(t, next[1].Fields, 1)
	assert.Equal(t, "@bob canceled", next[1].Fields[0].Title)
	assert.Empty(t, next[1].Fields[0].Value)
}

func TestAdvanceDeterministic(t *testing.T) {
	conv := New()
	act := Action{Name: "breakfast", Actor: "alice", SelectedValue: "rice"}

	first, err := Advance(conv, act)
	require.NoError(t, err)
	second, err := Advance(conv, act)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAdvanceDoesNotMutateInput(t *testing.T) {
	conv := New()
	snapshot := make(Conversation, len(conv))
	copy(snapshot, conv)

	_, err := Advance(conv, Action{Name: "breakfast", Actor: "alice", SelectedValue: "toast"})
	require.NoError(t, err)
	assert.Equal(t, snapshot, conv)
}

func TestAdvanceRejectsStepMismatch(t *testing.T) {
	conv := Conversation{
		NewResolved(StepBreakfast, "alice", "toast"),
		NewPending(StepLunch),
	}
	_, err := Advance(conv, Action{Name: "dinner", Actor: "alice", SelectedValue: "sushi"})
	require.ErrorIs(t, err, ErrStepMismatch)
}

func TestAdvanceRejectsTerminalConversation(t *testing.T) {
	conv := Conversation{NewCanceled("alice")}
	_, err := Advance(conv, Action{Name: "breakfast", Actor: "alice", SelectedValue: "toast"})
	require.ErrorIs(t, err, ErrTerminal)
}

func TestAdvanceRejectsUnknownAction(t *testing.T) {
	_, err := Advance(New(), Action{Name: "brunch", Actor: "alice"})
	require.ErrorIs(t, err, ErrUnknownAction)
}

func TestAdvanceRejectsEmptyConversation(t *testing.T) {
	_, err := Advance(Conversation{}, Action{Name: "breakfast", Actor: "alice"})
	require.ErrorIs(t, err, ErrEmptyConversation)
}

func TestAdvanceNeverShrinks(t *testing.T) {
	conv := New()
	next, err := Advance(conv, Action{Name: ActionCancel, Actor: "alice"})
	require.NoError(t, err)
	assert.Len(t, next, len(conv))

	conv = Conversation{NewPending(StepDinner)}
	next, err = Advance(conv, Action{Name: "dinner", Actor: "alice", SelectedValue: "tempura"})
	require.NoError(t, err)
	assert.Len(t, next, len(conv))
	assert.True(t, next.Terminal())
}

func TestStepOrder(t *testing.T) {
	steps := Steps()
	require.Equal(t, []Step{StepBreakfast, StepLunch, StepDinner}, steps)

	next, ok := StepBreakfast.Next()
	require.True(t, ok)
	assert.Equal(t, StepLunch, next)

	next, ok = StepLunch.Next()
	require.True(t, ok)
	assert.Equal(t, StepDinner, next)

	_, ok = StepDinner.Next()
	assert.False(t, ok)
}

func TestParseStep(t *testing.T) {
	for _, name := range []string{"breakfast", "lunch", "dinner"} {
		step, ok := ParseStep(name)
		require.True(t, ok)
		assert.Equal(t, name, step.String())
	}
	_, ok := ParseStep("cancel")
	assert.False(t, ok)
	_, ok = ParseStep("")
	assert.False(t, ok)
}
