package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrRecipeNotFound indicates no recipe in the store has the given id
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrNoRecipe indicates a fetched page did not contain a recognisable recipe
	ErrNoRecipe = errors.New("no recipe found on page")

	// ErrCancelled indicates a screen task was abandoned because the screen went away.
	// It is never shown to the user.
	ErrCancelled = errors.New("operation cancelled")

	// ErrUnknownRoute indicates a path that matches no route template
	ErrUnknownRoute = errors.New("unknown route")

	// ErrNoCamera indicates no capture command is configured
	ErrNoCamera = errors.New("no camera command configured")

	// ErrImageNotFound indicates an image reference that resolves to nothing
	ErrImageNotFound = errors.New("image not found")
)
