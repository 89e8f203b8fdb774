package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/nomnom/internal/domain"
	"github.com/mmcdole/nomnom/internal/tui/components"
	"github.com/mmcdole/nomnom/internal/tui/styles"
)

const imageBusyMessage = "Image still attaching"

// recipeEditor is the form, image prompt and image actions shared by the
// create and edit screens. Form changes are written to the edit holder as
// they happen.
type recipeEditor struct {
	deps *Deps
	task Task

	form   components.RecipeForm
	prompt components.InputModal
	busy   bool // An image request is running
}

func newRecipeEditor(deps *Deps, t Task) recipeEditor {
	prompt := components.NewInputModal()
	prompt.SetPlaceholder("~/Pictures/dinner.jpg")
	return recipeEditor{
		deps:   deps,
		task:   t,
		form:   components.NewRecipeForm(),
		prompt: prompt,
	}
}

// load fills the form from r
func (e *recipeEditor) load(r domain.Recipe) {
	e.form.SetRecipe(r)
}

// sync writes the form values into the working copy, leaving its image alone
func (e *recipeEditor) sync() domain.Recipe {
	return e.deps.Edit.Modify(func(r *domain.Recipe) {
		*r = e.form.Apply(*r)
	})
}

// handle processes input for the form. handled is false for keys the
// owning screen should act on itself.
func (e *recipeEditor) handle(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	if e.prompt.IsVisible() {
		var submitted bool
		e.prompt, cmd, submitted = e.prompt.Update(msg)
		if submitted {
			path := strings.TrimSpace(e.prompt.Value())
			if path == "" {
				return nil, true
			}
			e.sync()
			e.busy = true
			return GalleryImageCmd(e.task, e.deps.Edit, path), true
		}
		return cmd, true
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		e.form, cmd = e.form.Update(msg)
		return cmd, true
	}

	switch {
	case key.Matches(keyMsg, Keys.Back), key.Matches(keyMsg, Keys.Save), key.Matches(keyMsg, Keys.Delete):
		// Leaving now would cancel the request and lose the image
		if e.busy {
			return StatusCmd(imageBusyMessage, true), true
		}
		return nil, false

	case key.Matches(keyMsg, Keys.NextField):
		e.form.NextField()
		return nil, true
	case key.Matches(keyMsg, Keys.PrevField):
		e.form.PrevField()
		return nil, true

	case e.busy && (key.Matches(keyMsg, Keys.Gallery) || key.Matches(keyMsg, Keys.Camera)):
		return StatusCmd(imageBusyMessage, true), true

	case key.Matches(keyMsg, Keys.Gallery):
		e.prompt.Show("Attach image from file", "Path to a JPEG or PNG", "")
		return textinput.Blink, true

	case key.Matches(keyMsg, Keys.Camera):
		e.sync()
		e.busy = true
		return tea.Batch(
			StatusCmd("Capturing photo...", false),
			CameraImageCmd(e.task, e.deps.Edit),
		), true
	}

	e.form, cmd = e.form.Update(msg)
	e.sync()
	return cmd, true
}

// imageAttached reports the outcome of a gallery or camera request
func (e *recipeEditor) imageAttached(msg ImageAttachedMsg) tea.Cmd {
	e.busy = false
	switch {
	case msg.Err == nil:
		return StatusCmd("Image attached", false)
	case errors.Is(msg.Err, domain.ErrCancelled):
		return nil
	case errors.Is(msg.Err, domain.ErrNoCamera):
		return StatusCmd("No camera configured (images.camera_command)", true)
	default:
		return StatusCmd("Image failed: "+msg.Err.Error(), true)
	}
}

func (e *recipeEditor) view(width, height int, heading string) string {
	e.form.SetWidth(min(width-4, 80))

	r := e.deps.Edit.Recipe()
	image := styles.DimStyle.Render("no image")
	switch {
	case e.busy:
		image = styles.AccentStyle.Render("attaching image...")
	case r.ImageRef != "":
		image = styles.SuccessStyle.Render("image " + r.ImageRef)
	}

	parts := []string{styles.SectionStyle.Render(heading)}
	if r.SourceURL != "" {
		parts = append(parts, styles.DimStyle.Render(styles.Truncate(r.SourceURL, width-2)))
	}
	parts = append(parts, image, "", e.form.View())
	body := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if e.prompt.IsVisible() {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, e.prompt.View())
	}
	return body
}

func (e *recipeEditor) help(commit key.Binding) [][2]string {
	if e.prompt.IsVisible() {
		return [][2]string{{"enter", "attach"}, {"esc", "cancel"}}
	}
	return helpFor(Keys.NextField, commit, Keys.Gallery, Keys.Camera, Keys.Back)
}
