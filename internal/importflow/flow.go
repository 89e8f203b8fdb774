// Package importflow seeds a new recipe draft from a web page.
package importflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/nomnom/internal/domain"
)

// ImageFailedMessage is shown when the page parsed but its image could not be fetched
const ImageFailedMessage = "Unable to load data from url..."

// Flow fetches the page, then its image, sequentially
type Flow struct {
	importer domain.RecipeImporter
	images   domain.ImageFetcher
	notifier domain.Notifier
	logger   *slog.Logger
}

// New creates an import flow
func New(importer domain.RecipeImporter, images domain.ImageFetcher, notifier domain.Notifier, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = domain.NoOpNotifier{}
	}
	return &Flow{importer: importer, images: images, notifier: notifier, logger: logger}
}

// Run builds a draft from url. An empty url yields an empty draft.
//
// A page failure is returned to the caller. An image failure falls back to
// no image and notifies once, unless ctx was cancelled, in which case
// ErrCancelled is returned and nothing is shown.
func (f *Flow) Run(ctx context.Context, url string) (domain.Recipe, error) {
	if url == "" {
		return domain.Recipe{}, nil
	}

	draft, err := f.importer.LoadData(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Recipe{}, cancelled(ctx)
		}
		f.logger.Error("failed to import recipe page", "url", url, "error", err)
		return domain.Recipe{}, fmt.Errorf("import %s: %w", url, err)
	}

	imageRef, err := f.images.FetchAndStore(ctx, draft.ImageURL)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Recipe{}, cancelled(ctx)
		}
		f.logger.Warn("failed to fetch recipe image", "url", draft.ImageURL, "error", err)
		f.notifier.Notify(ImageFailedMessage)
		imageRef = ""
	}

	return draft.AsRecipe(url, imageRef), nil
}

func cancelled(ctx context.Context) error {
	return fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
}
