package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/nomnom/internal/domain"
	"github.com/mmcdole/nomnom/internal/route"
	"github.com/mmcdole/nomnom/internal/tui/styles"
)

// CreateScreen builds a new recipe, optionally seeded from a web page
type CreateScreen struct {
	recipeEditor

	seedURL string
	loading bool
	spinner spinner.Model
}

// NewCreateScreen creates the create screen for a parsed create route
func NewCreateScreen(deps *Deps, t Task, r route.Route) *CreateScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	return &CreateScreen{
		recipeEditor: newRecipeEditor(deps, t),
		seedURL:      r.URL(),
		spinner:      sp,
	}
}

// Route implements Screen
func (s *CreateScreen) Route() route.Route {
	return route.MustParse(route.CreateLink(s.seedURL))
}

// Loading reports whether the import is still running
func (s *CreateScreen) Loading() bool { return s.loading }

// Init starts the import. The working copy starts as an empty draft.
func (s *CreateScreen) Init() tea.Cmd {
	s.deps.Edit.UpdateRecipe(domain.Recipe{SourceURL: s.seedURL})
	if s.seedURL == "" {
		return nil
	}
	s.loading = true
	return tea.Batch(s.spinner.Tick, ImportRecipeCmd(s.task, s.deps.Import, s.seedURL))
}

// Resume implements Screen
func (s *CreateScreen) Resume() tea.Cmd { return nil }

// Update implements Screen
func (s *CreateScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case ImportDoneMsg:
		s.loading = false
		if msg.Err != nil {
			if errors.Is(msg.Err, domain.ErrCancelled) {
				return s, nil
			}
			s.deps.Logger.Warn("recipe import failed", "url", s.seedURL, "error", msg.Err)
			return s, StatusCmd("Import failed: "+msg.Err.Error(), true)
		}
		s.deps.Edit.UpdateRecipe(msg.Recipe)
		s.load(msg.Recipe)
		return s, nil

	case ImageAttachedMsg:
		return s, s.imageAttached(msg)

	case RecipeCreatedMsg:
		return s, func() tea.Msg {
			return NavigateMsg{Path: route.ShowLink(msg.Recipe), PopUpToList: true}
		}

	case RecipeDeletedMsg:
		return s, BackCmd()
	}

	if s.loading {
		if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, Keys.Back) {
			return s, BackCmd()
		}
		return s, nil
	}

	cmd, handled := s.handle(msg)
	if handled {
		return s, cmd
	}

	k := msg.(tea.KeyMsg)
	switch {
	case key.Matches(k, Keys.Save):
		draft := s.sync()
		if draft.Title == "" {
			return s, StatusCmd("A recipe needs a title", true)
		}
		return s, CreateRecipeCmd(s.task, s.deps.Edit, draft)

	case key.Matches(k, Keys.Back):
		// Abandon the draft
		return s, DeleteRecipeCmd(s.task, s.deps.Edit, s.deps.Edit.Recipe())
	}
	return s, nil
}

// View implements Screen
func (s *CreateScreen) View(width, height int) string {
	if s.loading {
		msg := s.spinner.View() + " Importing " + styles.Truncate(s.seedURL, width-16)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
	}
	return s.view(width, height, "New recipe")
}

// Help implements Screen
func (s *CreateScreen) Help() [][2]string {
	if s.loading {
		return [][2]string{{"esc", "cancel"}}
	}
	return s.help(Keys.Save)
}
