package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/nomnom/internal/domain"
	"github.com/mmcdole/nomnom/internal/tui/styles"
)

// FormField identifies a focusable field of the recipe form
type FormField int

const (
	FieldTitle FormField = iota
	FieldIngredients
	FieldSteps
	fieldCount
)

// RecipeForm edits the title, ingredients and steps of a recipe.
// Ingredients and steps are entered one per line.
type RecipeForm struct {
	title       textinput.Model
	ingredients textarea.Model
	steps       textarea.Model
	focus       FormField
	width       int
}

// NewRecipeForm creates an empty form with the title focused
func NewRecipeForm() RecipeForm {
	ti := textinput.New()
	ti.Placeholder = "Recipe title"
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	f := RecipeForm{
		title:       ti,
		ingredients: newArea("One ingredient per line"),
		steps:       newArea("One step per line"),
	}
	f.SetWidth(60)
	f.focusField(FieldTitle)
	return f
}

func newArea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(6)
	return ta
}

// SetRecipe fills the fields from r
func (f *RecipeForm) SetRecipe(r domain.Recipe) {
	f.title.SetValue(r.Title)
	f.ingredients.SetValue(strings.Join(r.Ingredients, "\n"))
	f.steps.SetValue(strings.Join(r.Steps, "\n"))
}

// Apply writes the field values onto r, keeping its id, image and source
func (f RecipeForm) Apply(r domain.Recipe) domain.Recipe {
	r.Title = strings.TrimSpace(f.title.Value())
	r.Ingredients = splitLines(f.ingredients.Value())
	r.Steps = splitLines(f.steps.Value())
	return r
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// SetWidth resizes the inputs
func (f *RecipeForm) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.width = w
	f.title.Width = w - 2
	f.ingredients.SetWidth(w)
	f.steps.SetWidth(w)
}

// Focused returns the focused field
func (f RecipeForm) Focused() FormField {
	return f.focus
}

// NextField moves focus forward, wrapping
func (f *RecipeForm) NextField() {
	f.focusField((f.focus + 1) % fieldCount)
}

// PrevField moves focus backward, wrapping
func (f *RecipeForm) PrevField() {
	f.focusField((f.focus + fieldCount - 1) % fieldCount)
}

func (f *RecipeForm) focusField(field FormField) {
	f.focus = field
	f.title.Blur()
	f.ingredients.Blur()
	f.steps.Blur()
	switch field {
	case FieldTitle:
		f.title.Focus()
	case FieldIngredients:
		f.ingredients.Focus()
	case FieldSteps:
		f.steps.Focus()
	}
}

// Update forwards input to the focused field
func (f RecipeForm) Update(msg tea.Msg) (RecipeForm, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case FieldTitle:
		f.title, cmd = f.title.Update(msg)
	case FieldIngredients:
		f.ingredients, cmd = f.ingredients.Update(msg)
	case FieldSteps:
		f.steps, cmd = f.steps.Update(msg)
	}
	return f, cmd
}

// View renders the form
func (f RecipeForm) View() string {
	label := func(field FormField, text string) string {
		if f.focus == field {
			return styles.FocusedLabelStyle.Render("▸ " + text)
		}
		return styles.LabelStyle.Render("  " + text)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		label(FieldTitle, "Title"),
		"  "+f.title.View(),
		"",
		label(FieldIngredients, "Ingredients"),
		f.ingredients.View(),
		"",
		label(FieldSteps, "Steps"),
		f.steps.View(),
	)
}
