package calendar

// Role constants. Only RoleStudio is significant to creation gating;
// every other role is treated as a member of the studio.
const (
	RoleStudio = "studio"
	RoleArtist = "artist"
)

var studioCreatable = []Category{
	CategoryKiln,
	CategoryClass,
	CategoryEvent,
	CategoryPTO,
	CategoryHoliday,
	CategoryExpiration,
	CategoryCleanup,
}

var memberCreatable = []Category{
	CategoryPersonal,
	CategoryVacation,
}

// CreatableTypes returns the categories a caller with the given role may create.
// PRE: none
// POST: studio gets the seven operational categories, every other role gets personal and vacation
func CreatableTypes(role string) []Category {
	src := memberCreatable
	if role == RoleStudio {
		src = studioCreatable
	}
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

// CanCreate reports whether role may create items of category c.
func CanCreate(role string, c Category) bool {
	for _, allowed := range CreatableTypes(role) {
		if allowed == c {
			return true
		}
	}
	return false
}

// NeedsApproval reports whether an item created by role must wait for studio approval.
func NeedsApproval(role string, c Category) bool {
	return role != RoleStudio && c == CategoryVacation
}

// VacationAdvisory is shown to non-studio callers before they submit a vacation request.
const VacationAdvisory = "Vacation requests are sent to the studio for approval."
