package product

import "strings"

// Category is one entry of the browse catalog. Products store the category
// id, but older listings carry the display name, so filters match either.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

var catalog = []Category{
	{ID: "textiles", Name: "Textiles & Fabrics", Emoji: "🧵"},
	{ID: "art", Name: "Art & Decor", Emoji: "🎨"},
	{ID: "jewelry", Name: "Jewelry", Emoji: "💍"},
	{ID: "instruments", Name: "Instruments", Emoji: "🪘"},
	{ID: "pottery", Name: "Pottery & Ceramics", Emoji: "🏺"},
	{ID: "fashion", Name: "Fashion", Emoji: "👘"},
	{ID: "food", Name: "Food & Spices", Emoji: "🌶️"},
	{ID: "books", Name: "Books & Prints", Emoji: "📚"},
}

// Categories returns the browse catalog.
func Categories() []Category {
	out := make([]Category, len(catalog))
	copy(out, catalog)
	return out
}

// FindCategory resolves an id or display name to a catalog entry.
func FindCategory(value string) (Category, bool) {
	v := strings.TrimSpace(value)
	for _, c := range catalog {
		if strings.EqualFold(c.ID, v) || strings.EqualFold(c.Name, v) {
			return c, true
		}
	}
	return Category{}, false
}

// categoryMatches reports whether a product's stored category satisfies the
// selected filter. An empty or "all" selection matches everything; a product
// without a category never matches an active filter.
func categoryMatches(productCategory *string, selected string) bool {
	selected = strings.TrimSpace(selected)
	if selected == "" || strings.EqualFold(selected, "all") {
		return true
	}
	if productCategory == nil {
		return false
	}
	stored := strings.TrimSpace(*productCategory)
	if stored == "" {
		return false
	}
	if strings.EqualFold(stored, selected) {
		return true
	}
	if cat, ok := FindCategory(selected); ok {
		return strings.EqualFold(stored, cat.ID) || strings.EqualFold(stored, cat.Name)
	}
	return false
}
