package calendar

// Filter maps each category to its visibility.
type Filter map[Category]bool

// NewFilter returns a filter with every category visible.
func NewFilter() Filter {
	f := make(Filter, len(allCategories))
	for _, c := range allCategories {
		f[c] = true
	}
	return f
}

// Toggle returns a copy of f with only c flipped.
// POST: every other category keeps its value
func (f Filter) Toggle(c Category) Filter {
	out := f.clone()
	out[c] = !out.Shows(c)
	return out
}

// Hide returns a copy of f with the given categories hidden.
func (f Filter) Hide(cs ...Category) Filter {
	out := f.clone()
	for _, c := range cs {
		out[c] = false
	}
	return out
}

// Shows reports whether items of category c are visible.
// A category missing from the map is visible.
func (f Filter) Shows(c Category) bool {
	v, ok := f[c]
	return !ok || v
}

// Hidden lists the hidden categories in display order.
func (f Filter) Hidden() []Category {
	var out []Category
	for _, c := range allCategories {
		if !f.Shows(c) {
			out = append(out, c)
		}
	}
	return out
}

func (f Filter) clone() Filter {
	out := NewFilter()
	for c, v := range f {
		out[c] = v
	}
	return out
}

// Visible returns the items whose category is shown, in input order.
// PRE: none
// POST: result is a subsequence of items; items is not modified
func Visible(items []Item, f Filter) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Shows(it.Type) {
			out = append(out, it)
		}
	}
	return out
}
