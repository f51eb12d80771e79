package patterns

// Category names one kind of design attribute tracked across documents.
type Category string

const (
	Colors          Category = "colors"
	FontFamilies    Category = "fontFamilies"
	FontSizes       Category = "fontSizes"
	FontWeights     Category = "fontWeights"
	LineHeights     Category = "lineHeights"
	LetterSpacing   Category = "letterSpacing"
	Spacing         Category = "spacing"
	BorderRadius    Category = "borderRadius"
	Shadows         Category = "shadows"
	Borders         Category = "borders"
	Transitions     Category = "transitions"
	Transforms      Category = "transforms"
	Opacities       Category = "opacities"
	Gradients       Category = "gradients"
	ZIndex          Category = "zIndex"
	Gaps            Category = "gaps"
	Widths          Category = "widths"
	Heights         Category = "heights"
	DisplayTypes    Category = "displayTypes"
	FlexProperties  Category = "flexProperties"
	GridProperties  Category = "gridProperties"
	Positions       Category = "positions"
	TextTransforms  Category = "textTransforms"
	TextDecorations Category = "textDecorations"
	Breakpoints     Category = "breakpoints"
	Animations      Category = "animations"
)

// Kind declares how a category's values are stored and deduplicated.
type Kind int

const (
	// KindString categories keep raw value strings, deduplicated by exact match.
	KindString Kind = iota
	// KindNumeric categories keep parsed numbers, deduplicated within a tolerance.
	KindNumeric
)

// Spec declares a category's value kind, merge tolerance, and capacity.
//
// Tolerance applies to numeric categories only: an incoming value closer than
// Tolerance to an already-stored value is absorbed as a duplicate. Capacity
// bounds the stored collection both per document and in the aggregate.
type Spec struct {
	Kind      Kind
	Tolerance float64
	Capacity  int
}

// Specs is the fixed per-category table of kinds, tolerances, and capacities.
var Specs = map[Category]Spec{
	Colors:          {Kind: KindString, Capacity: 40},
	FontFamilies:    {Kind: KindString, Capacity: 15},
	FontSizes:       {Kind: KindNumeric, Tolerance: 1, Capacity: 20},
	FontWeights:     {Kind: KindNumeric, Tolerance: 50, Capacity: 12},
	LineHeights:     {Kind: KindNumeric, Tolerance: 0.1, Capacity: 12},
	LetterSpacing:   {Kind: KindNumeric, Tolerance: 0.25, Capacity: 12},
	Spacing:         {Kind: KindNumeric, Tolerance: 2, Capacity: 30},
	BorderRadius:    {Kind: KindNumeric, Tolerance: 2, Capacity: 16},
	Shadows:         {Kind: KindString, Capacity: 12},
	Borders:         {Kind: KindString, Capacity: 16},
	Transitions:     {Kind: KindString, Capacity: 12},
	Transforms:      {Kind: KindString, Capacity: 12},
	Opacities:       {Kind: KindNumeric, Tolerance: 0.05, Capacity: 10},
	Gradients:       {Kind: KindString, Capacity: 10},
	ZIndex:          {Kind: KindNumeric, Tolerance: 1, Capacity: 12},
	Gaps:            {Kind: KindNumeric, Tolerance: 2, Capacity: 16},
	Widths:          {Kind: KindNumeric, Tolerance: 4, Capacity: 20},
	Heights:         {Kind: KindNumeric, Tolerance: 4, Capacity: 20},
	DisplayTypes:    {Kind: KindString, Capacity: 8},
	FlexProperties:  {Kind: KindString, Capacity: 12},
	GridProperties:  {Kind: KindString, Capacity: 12},
	Positions:       {Kind: KindString, Capacity: 6},
	TextTransforms:  {Kind: KindString, Capacity: 6},
	TextDecorations: {Kind: KindString, Capacity: 6},
	Breakpoints:     {Kind: KindNumeric, Tolerance: 16, Capacity: 10},
	Animations:      {Kind: KindString, Capacity: 10},
}

// All lists every category in a stable display order.
func All() []Category {
	return []Category{
		Colors, FontFamilies, FontSizes, FontWeights, LineHeights,
		LetterSpacing, Spacing, BorderRadius, Shadows, Borders,
		Transitions, Transforms, Opacities, Gradients, ZIndex,
		Gaps, Widths, Heights, DisplayTypes, FlexProperties,
		GridProperties, Positions, TextTransforms, TextDecorations,
		Breakpoints, Animations,
	}
}
