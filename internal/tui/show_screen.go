package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/nomnom/internal/domain"
	"github.com/mmcdole/nomnom/internal/route"
	"github.com/mmcdole/nomnom/internal/tui/styles"
)

// ShowScreen displays one recipe read-only
type ShowScreen struct {
	deps *Deps
	task Task
	id   string

	loading   bool
	recipe    domain.Recipe
	imageInfo string
	scroll    int
}

// NewShowScreen creates the show screen for a parsed show route
func NewShowScreen(deps *Deps, t Task, r route.Route) *ShowScreen {
	return &ShowScreen{deps: deps, task: t, id: r.ID()}
}

// Route implements Screen
func (s *ShowScreen) Route() route.Route {
	return route.MustParse(route.ShowLink(domain.Recipe{ID: s.id}))
}

// Loading reports whether the recipe is still being selected
func (s *ShowScreen) Loading() bool { return s.loading }

// Recipe returns the displayed recipe
func (s *ShowScreen) Recipe() domain.Recipe { return s.recipe }

// Init selects the recipe into the edit holder
func (s *ShowScreen) Init() tea.Cmd {
	s.loading = true
	return SelectRecipeCmd(s.task, s.deps.Edit, s.id)
}

// Resume reselects so edits made above this screen show up
func (s *ShowScreen) Resume() tea.Cmd {
	return s.Init()
}

// Update implements Screen
func (s *ShowScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case RecipeSelectedMsg:
		s.loading = false
		s.recipe = msg.Recipe
		s.imageInfo = ""
		return s, DescribeImageCmd(s.task, s.deps.Images, s.recipe.ImageRef)

	case ImageInfoMsg:
		if msg.Ref != s.recipe.ImageRef {
			return s, nil
		}
		if msg.Err != nil {
			s.imageInfo = "image unavailable"
			return s, nil
		}
		s.imageInfo = fmt.Sprintf("%s %dx%d", msg.Info.Format, msg.Info.Width, msg.Info.Height)
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ShowScreen) handleKey(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Back):
		return s, BackCmd()
	case key.Matches(msg, Keys.Up):
		if s.scroll > 0 {
			s.scroll--
		}
	case key.Matches(msg, Keys.Down):
		s.scroll++
	}

	if s.loading || s.recipe.IsDraft() {
		return s, nil
	}

	switch {
	case key.Matches(msg, Keys.Edit):
		return s, NavigateCmd(route.EditLink(s.recipe))
	case key.Matches(msg, Keys.OpenSource):
		if s.recipe.SourceURL == "" {
			return s, StatusCmd("This recipe has no source URL", true)
		}
		if s.deps.Opener == nil {
			return s, StatusCmd("No URL opener available", true)
		}
		return s, OpenURLCmd(s.deps.Opener, s.recipe.SourceURL)
	}
	return s, nil
}

// View implements Screen
func (s *ShowScreen) View(width, height int) string {
	if s.loading {
		return styles.DimStyle.Render("Loading...")
	}
	if s.recipe.IsDraft() {
		return styles.ErrorStyle.Render("Recipe not found")
	}

	r := s.recipe
	var lines []string
	lines = append(lines, styles.TitleStyle.Render(styles.Truncate(r.DisplayTitle(), width-2)))
	if r.SourceURL != "" {
		lines = append(lines, styles.DimStyle.Render(styles.Truncate(r.SourceURL, width-2)))
	}
	switch {
	case s.imageInfo != "":
		lines = append(lines, styles.SubtitleStyle.Render("Image: "+s.imageInfo))
	case r.ImageRef != "":
		lines = append(lines, styles.DimStyle.Render("Image: loading..."))
	}

	lines = append(lines, "", styles.SectionStyle.Render("Ingredients"))
	if len(r.Ingredients) == 0 {
		lines = append(lines, styles.DimStyle.Render("  none"))
	}
	for _, ing := range r.Ingredients {
		lines = append(lines, "  • "+styles.Truncate(ing, width-6))
	}

	lines = append(lines, "", styles.SectionStyle.Render("Steps"))
	if len(r.Steps) == 0 {
		lines = append(lines, styles.DimStyle.Render("  none"))
	}
	for i, step := range r.Steps {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, styles.Truncate(step, width-8)))
	}

	s.scroll = min(s.scroll, max(len(lines)-height, 0))
	end := min(s.scroll+height, len(lines))
	return strings.Join(lines[s.scroll:end], "\n")
}

// Help implements Screen
func (s *ShowScreen) Help() [][2]string {
	return helpFor(Keys.Edit, Keys.OpenSource, Keys.Up, Keys.Down, Keys.Back)
}
