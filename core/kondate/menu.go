package kondate

// Option is one selectable menu entry as rendered by the client.
type Option struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// defaultMenus holds the built-in menu per step.
var defaultMenus = map[Step][]string{
	StepBreakfast: {"toast", "rice"},
	StepLunch:     {"spaghetti", "rice bowl", "ramen"},
	StepDinner:    {"sushi", "tempura", "sukiyaki"},
}

// Catalog answers which values can be chosen for a given step.
// It is immutable after construction and safe for concurrent use.
type Catalog struct {
	options map[Step][]Option
}

// NewCatalog builds a catalog from per-step value lists.
// An empty list falls back to the built-in menu for that step.
func NewCatalog(breakfast, lunch, dinner []string) *Catalog {
	c := &Catalog{options: make(map[Step][]Option, len(mealOrder))}
	custom := map[Step][]string{
		StepBreakfast: breakfast,
		StepLunch:     lunch,
		StepDinner:    dinner,
	}
	for _, step := range mealOrder {
		values := custom[step]
		if len(values) == 0 {
			values = defaultMenus[step]
		}
		opts := make([]Option, 0, len(values))
		for _, v := range values {
			opts = append(opts, Option{Text: v, Value: v})
		}
		c.options[step] = opts
	}
	return c
}

// DefaultCatalog returns a catalog with the built-in menus.
func DefaultCatalog() *Catalog {
	return NewCatalog(nil, nil, nil)
}

// Options returns the selectable entries for step in their fixed order.
// Unknown steps yield an empty list.
func (c *Catalog) Options(step Step) []Option {
	opts, ok := c.options[step]
	if !ok {
		return []Option{}
	}
	out := make([]Option, len(opts))
	copy(out, opts)
	return out
}
