package tui

import (
	"github.com/mmcdole/nomnom/internal/domain"
	"github.com/mmcdole/nomnom/internal/images"
)

// Message types for the TUI

// screenMsg is an async result addressed to the screen that started it.
// Results for screens no longer on top are dropped.
type screenMsg interface {
	targetScreen() int
}

// Target records which screen issued a command
type Target struct {
	ScreenID int
}

func (t Target) targetScreen() int { return t.ScreenID }

// RecipesChangedMsg carries a new store snapshot
type RecipesChangedMsg struct {
	Recipes []domain.Recipe
}

// NotificationMsg carries a collaborator notification (snackbar)
type NotificationMsg struct {
	Message string
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message if it is still the one shown
type ClearStatusMsg struct {
	Seq int
}

// NavigateMsg pushes the screen for Path
type NavigateMsg struct {
	Path        string
	PopUpToList bool // Drop everything above the list before pushing
	SingleTop   bool // Don't push if the top screen already shows Path
}

// BackMsg pops the top screen
type BackMsg struct{}

// ImportDoneMsg signals the import flow finished
type ImportDoneMsg struct {
	Target
	Recipe domain.Recipe
	Err    error
}

// RecipeSelectedMsg signals a recipe was loaded into the edit holder
type RecipeSelectedMsg struct {
	Target
	Recipe domain.Recipe
}

// RecipeCreatedMsg signals a draft was committed
type RecipeCreatedMsg struct {
	Target
	Recipe domain.Recipe
}

// RecipeSavedMsg signals the working copy was committed
type RecipeSavedMsg struct {
	Target
	Err error
}

// RecipeDeletedMsg signals a recipe was removed
type RecipeDeletedMsg struct {
	Target
	Err error
}

// ImageAttachedMsg signals a gallery/camera request finished
type ImageAttachedMsg struct {
	Target
	Ref string
	Err error
}

// ImageInfoMsg describes the image of the shown recipe
type ImageInfoMsg struct {
	Target
	Ref  string
	Info images.Info
	Err  error
}
