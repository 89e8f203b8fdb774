package domain

import "strings"

// Recipe is a dish record. A Recipe with an empty ID is a draft that has
// not been committed to the store yet.
type Recipe struct {
	ID          string   // Opaque, assigned at creation, stable thereafter
	Title       string   // May be empty while being edited
	ImageRef    string   // Local image reference, resolved lazily by an ImageLoader
	SourceURL   string   // Set only when imported from a web page
	Ingredients []string // Ordered
	Steps       []string // Ordered
}

// IsDraft returns true if the recipe has not been committed yet
func (r Recipe) IsDraft() bool {
	return r.ID == ""
}

// Clone returns a deep copy so the caller can't alias another holder's slices
func (r Recipe) Clone() Recipe {
	c := r
	if r.Ingredients != nil {
		c.Ingredients = append([]string(nil), r.Ingredients...)
	}
	if r.Steps != nil {
		c.Steps = append([]string(nil), r.Steps...)
	}
	return c
}

// DisplayTitle returns the title, or a placeholder for untitled drafts
func (r Recipe) DisplayTitle() string {
	if strings.TrimSpace(r.Title) == "" {
		return "Untitled recipe"
	}
	return r.Title
}

// RecipeDraft is what the import collaborator extracts from a web page
type RecipeDraft struct {
	Title       string
	Ingredients []string
	Steps       []string
	ImageURL    string
}

// AsRecipe converts the draft into an uncommitted Recipe
func (d RecipeDraft) AsRecipe(sourceURL, imageRef string) Recipe {
	return Recipe{
		Title:       d.Title,
		ImageRef:    imageRef,
		SourceURL:   sourceURL,
		Ingredients: append([]string(nil), d.Ingredients...),
		Steps:       append([]string(nil), d.Steps...),
	}
}

// CloneAll deep-copies a collection
func CloneAll(recipes []Recipe) []Recipe {
	out := make([]Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = r.Clone()
	}
	return out
}

// Fixtures returns the recipes a fresh store starts with
func Fixtures() []Recipe {
	return []Recipe{
		{
			ID:    "r1",
			Title: "Lasagne",
			Ingredients: []string{
				"12 lasagne sheets",
				"500g beef mince",
				"400g chopped tomatoes",
				"250g ricotta",
				"150g mozzarella",
			},
			Steps: []string{
				"Brown the mince and simmer with the tomatoes for 20 minutes.",
				"Layer sheets, sauce and ricotta in a dish.",
				"Top with mozzarella and bake at 190C for 40 minutes.",
			},
		},
		{
			ID:    "r2",
			Title: "Pizza",
			Ingredients: []string{
				"300g pizza dough",
				"100ml passata",
				"125g mozzarella",
				"Fresh basil",
			},
			Steps: []string{
				"Stretch the dough onto a floured tray.",
				"Spread passata, tear over mozzarella.",
				"Bake at 250C for 10 minutes and finish with basil.",
			},
		},
	}
}
