package model

// Component is a single line item of a recipe or preparation under
// construction. It is a tagged union: a LeafComponent is a plain ingredient
// reference, a PreparationComponent additionally carries its own editable
// sub-recipe state. Components are transient editing state; once a recipe is
// persisted only the resolved identities survive.
type Component interface {
	// Leaf returns the fields common to every component.
	Leaf() *LeafComponent
}

// LeafComponent is a plain ingredient line.
type LeafComponent struct {
	// Key is a stable identifier for UI diffing. It has no bearing on
	// resolution correctness.
	Key string `json:"key"`

	Name string `json:"name"`

	// IngredientID is empty before resolution. Once resolution succeeds it
	// holds the catalog identity, which may denote either a raw ingredient
	// or, for a PreparationComponent, a preparation sharing the same
	// identity space.
	IngredientID string `json:"ingredient_id,omitempty"`

	// Amount is string-typed: it mirrors what the operator typed, and
	// unparseable text propagates as "no computed value" rather than an
	// error.
	Amount string `json:"amount"`

	UnitID string `json:"unit_id,omitempty"`

	// Matched records whether resolution found an existing catalog entry.
	Matched bool `json:"matched"`
}

// Leaf implements Component.
func (c *LeafComponent) Leaf() *LeafComponent { return c }

// PreparationComponent is a component that is itself a preparation being
// edited inline, with its own sub-components and instructions.
type PreparationComponent struct {
	LeafComponent

	SubComponents []Component `json:"sub_components,omitempty"`
	Instructions  []string    `json:"instructions,omitempty"`

	// YieldAmount and YieldUnitID describe the preparation's own declared
	// output quantity.
	YieldAmount string `json:"yield_amount,omitempty"`
	YieldUnitID string `json:"yield_unit_id,omitempty"`
}

// Leaf implements Component.
func (c *PreparationComponent) Leaf() *LeafComponent { return &c.LeafComponent }

// Preparation is a reusable sub-recipe.
type Preparation struct {
	ID           string                  `json:"preparation_id"`
	Name         string                  `json:"name"`
	Instructions []string                `json:"instructions"`
	YieldAmount  string                  `json:"yield_amount"`
	YieldUnitID  string                  `json:"yield_unit_id"`
	Ingredients  []PreparationIngredient `json:"ingredients"`

	// Fingerprint is computed lazily and is a pure function of the sorted
	// ingredient list and the instructions. Empty means not yet computed.
	Fingerprint string `json:"fingerprint,omitempty"`
}

// PreparationIngredient is one entry of a preparation's ingredient list.
type PreparationIngredient struct {
	IngredientID string `json:"ingredient_id"`
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	UnitID       string `json:"unit_id"`
}

// Dish is a top-level recipe. The engine only needs its identity and name for
// duplicate resolution; everything else belongs to the caller.
type Dish struct {
	ID           string      `json:"dish_id"`
	Name         string      `json:"name"`
	BaseServings float64     `json:"base_servings"`
	Components   []Component `json:"components,omitempty"`
	Instructions []string    `json:"instructions,omitempty"`
}
