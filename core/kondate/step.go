package kondate

// Step identifies one meal slot of the planning dialog.
type Step string

const (
	// StepBreakfast is the first meal slot.
	StepBreakfast Step = "breakfast"
	// StepLunch is the second meal slot.
	StepLunch Step = "lunch"
	// StepDinner is the last meal slot.
	StepDinner Step = "dinner"
)

// ActionCancel is the pseudo-step name carried by the cancel button.
// It is terminal and may arrive at any point of the dialog.
const ActionCancel = "cancel"

// mealOrder is the only valid advancement order of the dialog.
var mealOrder = [...]Step{StepBreakfast, StepLunch, StepDinner}

// Steps returns the meal slots in their fixed order.
func Steps() []Step {
	out := make([]Step, len(mealOrder))
	copy(out, mealOrder[:])
	return out
}

// ParseStep maps a wire name onto a known meal step.
// Unrecognized names are rejected here, at the boundary, rather than
// deeper in the state machine.
func ParseStep(name string) (Step, bool) {
	switch Step(name) {
	case StepBreakfast, StepLunch, StepDinner:
		return Step(name), true
	}
	return "", false
}

// Next returns the step following s in the fixed order.
// The second result is false for the last step.
func (s Step) Next() (Step, bool) {
	for i, step := range mealOrder {
		if step == s && i+1 < len(mealOrder) {
			return mealOrder[i+1], true
		}
	}
	return "", false
}

func (s Step) String() string { return string(s) }
