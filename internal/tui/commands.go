package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/nomnom/internal/domain"
	"github.com/mmcdole/nomnom/internal/images"
	"github.com/mmcdole/nomnom/internal/importflow"
	"github.com/mmcdole/nomnom/internal/viewstate"
)

// Command factories for async operations. Each takes the issuing screen's
// Task so the work is cancelled when the screen leaves the stack.

// ImportRecipeCmd runs the import flow for the create screen
func ImportRecipeCmd(t Task, flow *importflow.Flow, url string) tea.Cmd {
	return func() tea.Msg {
		recipe, err := flow.Run(t.Ctx, url)
		return ImportDoneMsg{Target: t.target(), Recipe: recipe, Err: err}
	}
}

// SelectRecipeCmd loads a recipe into the edit holder
func SelectRecipeCmd(t Task, edit *viewstate.Edit, id string) tea.Cmd {
	return func() tea.Msg {
		return RecipeSelectedMsg{Target: t.target(), Recipe: edit.SelectRecipe(id)}
	}
}

// CreateRecipeCmd commits a draft
func CreateRecipeCmd(t Task, edit *viewstate.Edit, draft domain.Recipe) tea.Cmd {
	return func() tea.Msg {
		return RecipeCreatedMsg{Target: t.target(), Recipe: edit.CreateRecipe(draft)}
	}
}

// SaveRecipeCmd commits the working copy
func SaveRecipeCmd(t Task, edit *viewstate.Edit) tea.Cmd {
	return func() tea.Msg {
		return RecipeSavedMsg{Target: t.target(), Err: edit.SaveRecipe()}
	}
}

// DeleteRecipeCmd removes a recipe
func DeleteRecipeCmd(t Task, edit *viewstate.Edit, r domain.Recipe) tea.Cmd {
	return func() tea.Msg {
		return RecipeDeletedMsg{Target: t.target(), Err: edit.Delete(r)}
	}
}

// GalleryImageCmd attaches an image file to the working copy
func GalleryImageCmd(t Task, edit *viewstate.Edit, path string) tea.Cmd {
	return func() tea.Msg {
		ref, err := edit.RequestGalleryImage(t.Ctx, path)
		return ImageAttachedMsg{Target: t.target(), Ref: ref, Err: err}
	}
}

// CameraImageCmd captures a photo into the working copy
func CameraImageCmd(t Task, edit *viewstate.Edit) tea.Cmd {
	return func() tea.Msg {
		ref, err := edit.RequestCameraImage(t.Ctx)
		return ImageAttachedMsg{Target: t.target(), Ref: ref, Err: err}
	}
}

// DescribeImageCmd resolves an image reference lazily
func DescribeImageCmd(t Task, loader domain.ImageLoader, ref string) tea.Cmd {
	if loader == nil || ref == "" {
		return nil
	}
	return func() tea.Msg {
		info, err := images.Describe(loader, ref)
		return ImageInfoMsg{Target: t.target(), Ref: ref, Info: info, Err: err}
	}
}

// OpenURLCmd opens url with the system opener
func OpenURLCmd(opener URLOpener, url string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return StatusMsg{Message: err.Error(), IsError: true}
		}
		return StatusMsg{Message: "Opened " + url}
	}
}

// NavigateCmd pushes the screen for path
func NavigateCmd(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

// BackCmd pops the top screen
func BackCmd() tea.Cmd {
	return func() tea.Msg { return BackMsg{} }
}

// StatusCmd shows a status message
func StatusCmd(message string, isError bool) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Message: message, IsError: isError} }
}

// ClearStatusCmd returns a command that clears status message seq after a delay
func ClearStatusCmd(delay time.Duration, seq int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
