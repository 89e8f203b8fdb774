package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/nomnom/internal/domain"
	"github.com/mmcdole/nomnom/internal/route"
	"github.com/mmcdole/nomnom/internal/tui/styles"
)

// EditScreen edits a stored recipe. Leaving the screen saves it.
type EditScreen struct {
	recipeEditor

	id      string
	loading bool
	missing bool
	leaving bool
}

// NewEditScreen creates the edit screen for a parsed edit route
func NewEditScreen(deps *Deps, t Task, r route.Route) *EditScreen {
	return &EditScreen{
		recipeEditor: newRecipeEditor(deps, t),
		id:           r.ID(),
	}
}

// Route implements Screen
func (s *EditScreen) Route() route.Route {
	return route.MustParse(route.EditLink(domain.Recipe{ID: s.id}))
}

// Loading reports whether the recipe is still being selected
func (s *EditScreen) Loading() bool { return s.loading }

// Init selects the recipe into the edit holder
func (s *EditScreen) Init() tea.Cmd {
	s.loading = true
	return SelectRecipeCmd(s.task, s.deps.Edit, s.id)
}

// Resume implements Screen
func (s *EditScreen) Resume() tea.Cmd { return nil }

// Update implements Screen
func (s *EditScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case RecipeSelectedMsg:
		s.loading = false
		s.missing = msg.Recipe.IsDraft()
		s.load(msg.Recipe)
		return s, nil

	case ImageAttachedMsg:
		return s, s.imageAttached(msg)

	case RecipeSavedMsg:
		if msg.Err != nil {
			s.leaving = false
			return s, StatusCmd("Save failed: "+msg.Err.Error(), true)
		}
		return s, BackCmd()

	case RecipeDeletedMsg:
		if msg.Err != nil {
			return s, StatusCmd("Delete failed: "+msg.Err.Error(), true)
		}
		return s, tea.Batch(
			StatusCmd("Recipe deleted", false),
			func() tea.Msg {
				return NavigateMsg{Path: route.ListLink(), PopUpToList: true, SingleTop: true}
			},
		)
	}

	if s.loading || s.missing || s.leaving {
		if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, Keys.Back) {
			if s.missing {
				return s, BackCmd()
			}
		}
		return s, nil
	}

	cmd, handled := s.handle(msg)
	if handled {
		return s, cmd
	}

	k := msg.(tea.KeyMsg)
	switch {
	case key.Matches(k, Keys.Back):
		s.sync()
		s.leaving = true
		return s, SaveRecipeCmd(s.task, s.deps.Edit)

	case key.Matches(k, Keys.Save):
		s.sync()
		return s, s.saveInPlace()

	case key.Matches(k, Keys.Delete):
		return s, DeleteRecipeCmd(s.task, s.deps.Edit, s.deps.Edit.Recipe())
	}
	return s, nil
}

// saveInPlace commits without leaving the screen
func (s *EditScreen) saveInPlace() tea.Cmd {
	edit := s.deps.Edit
	return func() tea.Msg {
		if err := edit.SaveRecipe(); err != nil {
			if errors.Is(err, domain.ErrRecipeNotFound) {
				return StatusMsg{Message: "Recipe no longer exists", IsError: true}
			}
			return StatusMsg{Message: "Save failed: " + err.Error(), IsError: true}
		}
		return StatusMsg{Message: "Saved"}
	}
}

// View implements Screen
func (s *EditScreen) View(width, height int) string {
	switch {
	case s.loading:
		return styles.DimStyle.Render("Loading...")
	case s.missing:
		return styles.ErrorStyle.Render("Recipe not found")
	}
	return s.view(width, height, "Edit recipe")
}

// Help implements Screen
func (s *EditScreen) Help() [][2]string {
	if s.loading || s.missing {
		return helpFor(Keys.Back)
	}
	return append(s.help(Keys.Delete), [2]string{"C-s", "save"})
}
