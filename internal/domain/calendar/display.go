package calendar

// Display describes how a category is presented in every view.
type Display struct {
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	BgClass   string `json:"bgClass"`
	TextClass string `json:"textClass"`
}

// DisplayFor returns the display configuration for a category.
// The switch is exhaustive over the closed set; unknown values get a neutral entry.
func DisplayFor(c Category) Display {
	switch c {
	case CategoryKiln:
		return Display{Label: "Kiln Firing", Icon: "flame", Color: "#ea580c", BgClass: "bg-orange", TextClass: "text-orange"}
	case CategoryClass:
		return Display{Label: "Class", Icon: "graduation-cap", Color: "#2563eb", BgClass: "bg-blue", TextClass: "text-blue"}
	case CategoryEvent:
		return Display{Label: "Event", Icon: "party-popper", Color: "#9333ea", BgClass: "bg-purple", TextClass: "text-purple"}
	case CategoryPTO:
		return Display{Label: "PTO", Icon: "plane", Color: "#0d9488", BgClass: "bg-teal", TextClass: "text-teal"}
	case CategoryHoliday:
		return Display{Label: "Holiday", Icon: "gift", Color: "#dc2626", BgClass: "bg-red", TextClass: "text-red"}
	case CategoryExpiration:
		return Display{Label: "Expiration", Icon: "alert-triangle", Color: "#ca8a04", BgClass: "bg-yellow", TextClass: "text-yellow"}
	case CategoryCleanup:
		return Display{Label: "Cleanup", Icon: "sparkles", Color: "#16a34a", BgClass: "bg-green", TextClass: "text-green"}
	case CategoryStudioTime:
		return Display{Label: "Studio Time", Icon: "clock", Color: "#4f46e5", BgClass: "bg-indigo", TextClass: "text-indigo"}
	case CategoryVacation:
		return Display{Label: "Vacation", Icon: "sun", Color: "#0891b2", BgClass: "bg-cyan", TextClass: "text-cyan"}
	case CategoryPersonal:
		return Display{Label: "Personal", Icon: "user", Color: "#db2777", BgClass: "bg-pink", TextClass: "text-pink"}
	}
	return Display{Label: string(c), Icon: "calendar", Color: "#6b7280", BgClass: "bg-gray", TextClass: "text-gray"}
}
