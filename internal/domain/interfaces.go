package domain

import "context"

// RecipeImporter fetches a web page and parses it into a recipe draft.
type RecipeImporter interface {
	LoadData(ctx context.Context, url string) (RecipeDraft, error)
}

// ImageFetcher fetches a remote image and stores it locally.
type ImageFetcher interface {
	// FetchAndStore returns a local image reference for the image at url
	FetchAndStore(ctx context.Context, url string) (string, error)
}

// ImageProvider produces image references from user-facing sources.
// "Gallery" picks an existing file; "camera" runs a capture device.
type ImageProvider interface {
	FromFile(ctx context.Context, path string) (string, error)
	Capture(ctx context.Context) (string, error)
}

// ImageLoader resolves an image reference to its encoded bytes
type ImageLoader interface {
	Load(ref string) ([]byte, error)
}

// ImageRemover frees the bytes behind an image reference
type ImageRemover interface {
	Delete(ref string) error
}

// Notifier surfaces a transient, dismissable message to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// NoOpNotifier discards notifications (for testing/batch operations).
type NoOpNotifier struct{}

func (NoOpNotifier) Notify(string) {}
