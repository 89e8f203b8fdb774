package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/nomnom/internal/domain"
	"github.com/mmcdole/nomnom/internal/route"
	"github.com/mmcdole/nomnom/internal/tui/components"
	"github.com/mmcdole/nomnom/internal/tui/styles"
)

type listMode int

const (
	listBrowse listMode = iota
	listFilter          // "/" typing a title filter
	listSearch          // "?" typing an ingredient search
)

// listRow is one visible line of the list
type listRow struct {
	recipe  domain.Recipe
	matched []int  // Byte offsets of the title that matched the filter
	detail  string // Matching ingredient for search results
}

// recipeTitles adapts a recipe slice to fuzzy.Source
type recipeTitles []domain.Recipe

func (r recipeTitles) String(i int) string { return r[i].DisplayTitle() }
func (r recipeTitles) Len() int            { return len(r) }

// ListScreen shows every recipe in the store
type ListScreen struct {
	deps *Deps
	task Task

	recipes []domain.Recipe
	rows    []listRow
	cursor  int
	offset  int

	mode   listMode
	query  textinput.Model
	filter string // Applied title filter, kept after leaving filter mode
	search string // Applied ingredient search

	dialog components.InputModal
}

// NewListScreen creates the list screen
func NewListScreen(deps *Deps, t Task) *ListScreen {
	q := textinput.New()
	q.Prompt = ""
	q.CharLimit = 100
	q.TextStyle = styles.FilterStyle

	dialog := components.NewInputModal()
	dialog.SetPlaceholder("https://example.com/recipe")

	s := &ListScreen{
		deps:   deps,
		task:   t,
		query:  q,
		dialog: dialog,
	}
	s.setRecipes(deps.List.Recipes())
	return s
}

// Route implements Screen
func (s *ListScreen) Route() route.Route {
	return route.MustParse(route.ListLink())
}

// Init implements Screen
func (s *ListScreen) Init() tea.Cmd { return nil }

// Resume implements Screen
func (s *ListScreen) Resume() tea.Cmd { return nil }

// Rows returns the visible recipes in display order
func (s *ListScreen) Rows() []domain.Recipe {
	out := make([]domain.Recipe, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.recipe
	}
	return out
}

// Selected returns the recipe under the cursor
func (s *ListScreen) Selected() (domain.Recipe, bool) {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return domain.Recipe{}, false
	}
	return s.rows[s.cursor].recipe, true
}

func (s *ListScreen) setRecipes(recipes []domain.Recipe) {
	var selectedID string
	if r, ok := s.Selected(); ok {
		selectedID = r.ID
	}
	s.recipes = recipes
	s.refresh()

	// Keep the cursor on the same recipe across snapshots
	for i, row := range s.rows {
		if row.recipe.ID == selectedID {
			s.cursor = i
			return
		}
	}
	s.clampCursor()
}

// refresh recomputes the visible rows from the collection and queries
func (s *ListScreen) refresh() {
	s.rows = s.rows[:0]

	switch {
	case s.search != "":
		for _, res := range s.deps.List.Search(s.search) {
			row := listRow{recipe: res.Recipe}
			if res.MatchedText != res.Recipe.Title {
				row.detail = res.MatchedText
			}
			s.rows = append(s.rows, row)
		}

	case s.filter != "":
		for _, m := range fuzzy.FindFrom(s.filter, recipeTitles(s.recipes)) {
			s.rows = append(s.rows, listRow{recipe: s.recipes[m.Index], matched: m.MatchedIndexes})
		}

	default:
		for _, r := range s.recipes {
			s.rows = append(s.rows, listRow{recipe: r})
		}
	}
	s.clampCursor()
}

func (s *ListScreen) clampCursor() {
	if s.cursor >= len(s.rows) {
		s.cursor = len(s.rows) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// Update implements Screen
func (s *ListScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case RecipesChangedMsg:
		s.setRecipes(msg.Recipes)
		return s, nil

	case tea.KeyMsg:
		if s.dialog.IsVisible() {
			return s.updateDialog(msg)
		}
		if s.mode != listBrowse {
			return s.updateQuery(msg)
		}
		return s.handleKey(msg)
	}

	if s.dialog.IsVisible() {
		var cmd tea.Cmd
		s.dialog, cmd, _ = s.dialog.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ListScreen) handleKey(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return s, tea.Quit

	case key.Matches(msg, Keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, Keys.Down):
		if s.cursor < len(s.rows)-1 {
			s.cursor++
		}
	case key.Matches(msg, Keys.Home):
		s.cursor = 0
	case key.Matches(msg, Keys.End):
		s.cursor = max(len(s.rows)-1, 0)

	case key.Matches(msg, Keys.Enter):
		if r, ok := s.Selected(); ok {
			return s, NavigateCmd(route.ShowLink(r))
		}
	case key.Matches(msg, Keys.Edit):
		if r, ok := s.Selected(); ok {
			return s, NavigateCmd(route.EditLink(r))
		}

	case key.Matches(msg, Keys.New):
		s.dialog.Show("New recipe", "Leave empty to start from scratch", s.deps.TemplateURL)
		return s, textinput.Blink

	case key.Matches(msg, Keys.Filter):
		return s, s.startQuery(listFilter, s.filter)
	case key.Matches(msg, Keys.Search):
		return s, s.startQuery(listSearch, s.search)

	case key.Matches(msg, Keys.Back):
		// Clear any applied filter or search
		if s.filter != "" || s.search != "" {
			s.filter, s.search = "", ""
			s.refresh()
		}
	}
	return s, nil
}

func (s *ListScreen) startQuery(mode listMode, value string) tea.Cmd {
	s.mode = mode
	s.filter, s.search = "", ""
	s.query.SetValue(value)
	s.query.CursorEnd()
	s.apply()
	return s.query.Focus()
}

// apply pushes the typed query into the active mode
func (s *ListScreen) apply() {
	switch s.mode {
	case listFilter:
		s.filter = s.query.Value()
	case listSearch:
		s.search = s.query.Value()
	}
	s.cursor = 0
	s.refresh()
}

func (s *ListScreen) updateQuery(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = listBrowse
		s.query.Blur()
		s.filter, s.search = "", ""
		s.refresh()
		return s, nil
	case "enter":
		s.mode = listBrowse
		s.query.Blur()
		return s, nil
	case "up", "down":
		// Let the cursor move while typing
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.query, cmd = s.query.Update(msg)
	s.apply()
	return s, cmd
}

func (s *ListScreen) updateDialog(msg tea.KeyMsg) (Screen, tea.Cmd) {
	var cmd tea.Cmd
	var submitted bool
	s.dialog, cmd, submitted = s.dialog.Update(msg)
	if submitted {
		seed := strings.TrimSpace(s.dialog.Value())
		if seed == s.deps.TemplateURL {
			seed = ""
		}
		return s, NavigateCmd(route.CreateLink(seed))
	}
	return s, cmd
}

// View implements Screen
func (s *ListScreen) View(width, height int) string {
	var b strings.Builder

	header := styles.SectionStyle.Render(fmt.Sprintf("Recipes (%d)", len(s.recipes)))
	b.WriteString(header)
	b.WriteString("\n")

	listHeight := height - 3
	if s.mode != listBrowse || s.filter != "" || s.search != "" {
		listHeight--
	}
	listHeight = max(listHeight, 1)

	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+listHeight {
		s.offset = s.cursor - listHeight + 1
	}

	if len(s.rows) == 0 {
		switch {
		case s.filter != "" || s.search != "":
			b.WriteString(styles.DimStyle.Render("  No matches"))
		default:
			b.WriteString(styles.DimStyle.Render("  No recipes yet, press n to add one"))
		}
		b.WriteString("\n")
	}

	end := min(s.offset+listHeight, len(s.rows))
	for i := s.offset; i < end; i++ {
		b.WriteString(s.renderRow(s.rows[i], i == s.cursor, width))
		b.WriteString("\n")
	}

	if line := s.queryLine(); line != "" {
		b.WriteString(line)
	}

	body := b.String()
	if s.dialog.IsVisible() {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.dialog.View())
	}
	return body
}

func (s *ListScreen) renderRow(row listRow, selected bool, width int) string {
	style := styles.NormalItemStyle
	prefix := "  "
	if selected {
		style = styles.SelectedItemStyle
		prefix = "▸ "
	}

	title := styles.Truncate(row.recipe.DisplayTitle(), width-6)
	line := prefix + styles.HighlightMatches(title, row.matched, style)
	if row.detail != "" {
		line += styles.DimStyle.Render("  " + styles.Truncate(row.detail, width-lipgloss.Width(line)-4))
	}
	return line
}

func (s *ListScreen) queryLine() string {
	switch {
	case s.mode == listFilter:
		return styles.FilterPromptStyle.Render("/") + s.query.View()
	case s.mode == listSearch:
		return styles.FilterPromptStyle.Render("?") + s.query.View()
	case s.filter != "":
		return styles.DimStyle.Render("filter: ") + styles.FilterStyle.Render(s.filter)
	case s.search != "":
		return styles.DimStyle.Render("ingredients: ") + styles.FilterStyle.Render(s.search)
	}
	return ""
}

// Help implements Screen
func (s *ListScreen) Help() [][2]string {
	if s.dialog.IsVisible() {
		return [][2]string{{"enter", "import"}, {"esc", "cancel"}}
	}
	if s.mode != listBrowse {
		return [][2]string{{"enter", "apply"}, {"esc", "clear"}}
	}
	return helpFor(Keys.Enter, Keys.Edit, Keys.New, Keys.Filter, Keys.Search, Keys.Quit)
}
