package viewstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mmcdole/nomnom/internal/domain"
	"github.com/mmcdole/nomnom/internal/store"
)

// Edit holds the working copy of the recipe being shown, created or edited.
// Changes to the working copy are not committed until CreateRecipe or SaveRecipe.
type Edit struct {
	store   *store.Store
	images  domain.ImageProvider
	remover domain.ImageRemover
	logger  *slog.Logger
	newID   func() string

	mu     sync.RWMutex
	recipe domain.Recipe
}

// NewEdit creates an edit holder. images may be nil when no image source is
// available; remover may be nil when images need not be freed.
func NewEdit(s *store.Store, images domain.ImageProvider, remover domain.ImageRemover, logger *slog.Logger) *Edit {
	if logger == nil {
		logger = slog.Default()
	}
	return &Edit{
		store:   s,
		images:  images,
		remover: remover,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// Recipe returns the working copy
func (e *Edit) Recipe() domain.Recipe {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.recipe.Clone()
}

// SelectRecipe loads the recipe with id into the working copy.
// An unknown id yields an empty draft.
func (e *Edit) SelectRecipe(id string) domain.Recipe {
	r, ok := e.store.GetOne(id)
	if !ok {
		e.logger.Debug("selected unknown recipe, using empty draft", "id", id)
		r = domain.Recipe{}
	}
	e.UpdateRecipe(r)
	return r
}

// UpdateRecipe replaces the working copy without committing it
func (e *Edit) UpdateRecipe(r domain.Recipe) {
	e.mu.Lock()
	e.recipe = r.Clone()
	e.mu.Unlock()
}

// CreateRecipe assigns a fresh id to draft and commits it
func (e *Edit) CreateRecipe(draft domain.Recipe) domain.Recipe {
	r := draft.Clone()
	r.ID = e.newID()
	e.store.Create(r)
	e.UpdateRecipe(r)
	e.logger.Info("created recipe", "id", r.ID, "title", r.Title)
	return r
}

// SaveRecipe commits the working copy over its stored version
func (e *Edit) SaveRecipe() error {
	r := e.Recipe()
	if r.IsDraft() {
		return fmt.Errorf("save draft: %w", domain.ErrRecipeNotFound)
	}
	if err := e.store.Update(r); err != nil {
		e.logger.Warn("save failed", "id", r.ID, "error", err)
		return err
	}
	return nil
}

// Delete removes r from the store, frees its image and clears the working copy.
// Deleting a draft only frees its image and clears the working copy. On a
// store miss the working copy is kept.
func (e *Edit) Delete(r domain.Recipe) error {
	if !r.IsDraft() {
		if err := e.store.Delete(r.ID); err != nil {
			return err
		}
		e.logger.Info("deleted recipe", "id", r.ID)
	}
	e.removeImage(r.ImageRef)
	e.UpdateRecipe(domain.Recipe{})
	return nil
}

// RequestGalleryImage imports the image file at path and attaches it to the working copy
func (e *Edit) RequestGalleryImage(ctx context.Context, path string) (string, error) {
	if e.images == nil {
		return "", errors.New("no image provider")
	}
	ref, err := e.images.FromFile(ctx, path)
	if err != nil {
		return "", fmt.Errorf("gallery image: %w", err)
	}
	e.attachImage(ref)
	return ref, nil
}

// RequestCameraImage captures a photo and attaches it to the working copy
func (e *Edit) RequestCameraImage(ctx context.Context) (string, error) {
	if e.images == nil {
		return "", errors.New("no image provider")
	}
	ref, err := e.images.Capture(ctx)
	if err != nil {
		return "", fmt.Errorf("camera image: %w", err)
	}
	e.attachImage(ref)
	return ref, nil
}

// Modify applies fn to the working copy under the lock and returns the result.
// Fields fn leaves alone keep any concurrent change, such as an attached image.
func (e *Edit) Modify(fn func(r *domain.Recipe)) domain.Recipe {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.recipe)
	e.recipe = e.recipe.Clone()
	return e.recipe.Clone()
}

// SetImage replaces only the image of the working copy and returns the previous reference
func (e *Edit) SetImage(ref string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	old := e.recipe.ImageRef
	e.recipe.ImageRef = ref
	return old
}

func (e *Edit) attachImage(ref string) {
	if old := e.SetImage(ref); old != ref {
		e.removeImage(old)
	}
}

func (e *Edit) removeImage(ref string) {
	if ref == "" || e.remover == nil {
		return
	}
	if err := e.remover.Delete(ref); err != nil {
		e.logger.Warn("failed to free image", "ref", ref, "error", err)
	}
}
