package models

type Category struct {
	ID   string
	Name string
	Icon string
}

const DefaultCategory = "all"

var categories = []Category{
	{ID: "all", Name: "All", Icon: "Home"},
	{ID: "trending", Name: "Trending", Icon: "TrendingUp"},
	{ID: "music", Name: "Music", Icon: "Music"},
	{ID: "gaming", Name: "Gaming", Icon: "Gamepad2"},
	{ID: "tech", Name: "Technology", Icon: "Cpu"},
	{ID: "education", Name: "Education", Icon: "GraduationCap"},
	{ID: "travel", Name: "Travel", Icon: "Plane"},
	{ID: "sports", Name: "Sports", Icon: "Trophy"},
}

// Categories returns a copy of the fixed category set.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// LookupCategory falls back to the "all" category for unknown ids.
func LookupCategory(id string) Category {
	for _, c := range categories {
		if c.ID == id {
			return c
		}
	}
	return categories[0]
}
