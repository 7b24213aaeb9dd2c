package calendar

// Category is the closed set of calendar item types.
type Category string

// Category constants.
const (
	CategoryKiln       Category = "kiln"
	CategoryClass      Category = "class"
	CategoryEvent      Category = "event"
	CategoryPTO        Category = "pto"
	CategoryHoliday    Category = "holiday"
	CategoryExpiration Category = "expiration"
	CategoryCleanup    Category = "cleanup"
	CategoryStudioTime Category = "studio-time"
	CategoryVacation   Category = "vacation"
	CategoryPersonal   Category = "personal"
)

// allCategories lists every category in display order.
var allCategories = []Category{
	CategoryKiln,
	CategoryClass,
	CategoryEvent,
	CategoryPTO,
	CategoryHoliday,
	CategoryExpiration,
	CategoryCleanup,
	CategoryStudioTime,
	CategoryVacation,
	CategoryPersonal,
}

// AllCategories returns a copy of the closed category set in display order.
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Valid reports whether c is a member of the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryKiln, CategoryClass, CategoryEvent, CategoryPTO, CategoryHoliday,
		CategoryExpiration, CategoryCleanup, CategoryStudioTime, CategoryVacation, CategoryPersonal:
		return true
	}
	return false
}

// HasLocation reports whether items of this category usually carry a location.
func (c Category) HasLocation() bool {
	switch c {
	case CategoryKiln, CategoryClass, CategoryEvent, CategoryCleanup:
		return true
	}
	return false
}

// ParseCategory converts s to a Category.
// POST: returns ErrUnknownType when s is outside the closed set
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", ErrUnknownType
	}
	return c, nil
}
