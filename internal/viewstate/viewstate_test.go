package viewstate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/nomnom/internal/domain"
	"github.com/mmcdole/nomnom/internal/images"
	"github.com/mmcdole/nomnom/internal/store"
)

type fakeImages struct {
	ref  string
	err  error
	path string
}

func (f *fakeImages) FromFile(_ context.Context, path string) (string, error) {
	f.path = path
	return f.ref, f.err
}

func (f *fakeImages) Capture(context.Context) (string, error) {
	return f.ref, f.err
}

type fakeRemover struct {
	deleted []string
}

func (f *fakeRemover) Delete(ref string) error {
	f.deleted = append(f.deleted, ref)
	return nil
}

func newStore() *store.Store {
	return store.New(nil,
		domain.Recipe{ID: "r1", Title: "A", Ingredients: []string{"2 eggs", "flour"}},
		domain.Recipe{ID: "r2", Title: "B", Ingredients: []string{"tomatoes", "basil"}},
	)
}

func TestEdit_SelectMissingGivesEmptyDraft(t *testing.T) {
	e := NewEdit(newStore(), nil, nil, nil)
	e.UpdateRecipe(domain.Recipe{ID: "r1", Title: "stale"})

	got := e.SelectRecipe("missing-id")

	assert.True(t, got.IsDraft())
	assert.Equal(t, domain.Recipe{}, e.Recipe())
}

func TestEdit_SelectLoadsFromStore(t *testing.T) {
	e := NewEdit(newStore(), nil, nil, nil)
	e.SelectRecipe("r2")
	assert.Equal(t, "B", e.Recipe().Title)
}

func TestEdit_UpdateDoesNotCommit(t *testing.T) {
	s := newStore()
	e := NewEdit(s, nil, nil, nil)
	e.SelectRecipe("r1")

	r := e.Recipe()
	r.Title = "A2"
	e.UpdateRecipe(r)

	stored, _ := s.GetOne("r1")
	assert.Equal(t, "A", stored.Title)
	assert.Equal(t, "A2", e.Recipe().Title)

	require.NoError(t, e.SaveRecipe())
	stored, _ = s.GetOne("r1")
	assert.Equal(t, "A2", stored.Title)
}

func TestEdit_CreateAssignsFreshID(t *testing.T) {
	s := newStore()
	e := NewEdit(s, nil, nil, nil)

	first := e.CreateRecipe(domain.Recipe{Title: "C"})
	second := e.CreateRecipe(domain.Recipe{Title: "D"})

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, second, e.Recipe())

	all := s.All()
	require.Len(t, all, 4)
	assert.Equal(t, "C", all[2].Title)
	assert.Equal(t, first.ID, all[2].ID)
}

func TestEdit_SaveDraftFails(t *testing.T) {
	e := NewEdit(newStore(), nil, nil, nil)
	e.UpdateRecipe(domain.Recipe{Title: "draft"})
	assert.ErrorIs(t, e.SaveRecipe(), domain.ErrRecipeNotFound)
}

func TestEdit_Delete(t *testing.T) {
	s := newStore()
	e := NewEdit(s, nil, nil, nil)
	r := e.SelectRecipe("r1")

	require.NoError(t, e.Delete(r))
	assert.Equal(t, domain.Recipe{}, e.Recipe())
	_, ok := s.GetOne("r1")
	assert.False(t, ok)

	// Deleting a draft only clears the working copy
	e.UpdateRecipe(domain.Recipe{Title: "draft"})
	require.NoError(t, e.Delete(e.Recipe()))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, domain.Recipe{}, e.Recipe())
}

func TestEdit_DeleteMissKeepsWorkingCopy(t *testing.T) {
	rm := &fakeRemover{}
	e := NewEdit(newStore(), nil, rm, nil)
	r := domain.Recipe{ID: "gone", Title: "Ghost", ImageRef: "image:ghost"}
	e.UpdateRecipe(r)

	assert.ErrorIs(t, e.Delete(r), domain.ErrRecipeNotFound)
	assert.Equal(t, r, e.Recipe())
	assert.Empty(t, rm.deleted, "the image of a recipe that was not deleted stays")
}

func TestEdit_DeleteFreesImage(t *testing.T) {
	imageStore, err := images.OpenStore("")
	require.NoError(t, err)
	defer imageStore.Close()

	ref, err := imageStore.Put([]byte("jpeg bytes"))
	require.NoError(t, err)

	s := newStore()
	e := NewEdit(s, &fakeImages{ref: ref}, imageStore, nil)
	e.SelectRecipe("r1")
	_, err = e.RequestGalleryImage(context.Background(), "/tmp/dinner.jpg")
	require.NoError(t, err)
	require.NoError(t, e.SaveRecipe())

	require.NoError(t, e.Delete(e.Recipe()))
	_, ok := s.GetOne("r1")
	assert.False(t, ok)
	_, err = imageStore.Load(ref)
	assert.ErrorIs(t, err, domain.ErrImageNotFound)
}

func TestEdit_ImageLifecycle(t *testing.T) {
	tests := []struct {
		name        string
		run         func(e *Edit)
		wantDeleted []string
	}{
		{
			name: "discarded draft frees its image",
			run: func(e *Edit) {
				e.UpdateRecipe(domain.Recipe{Title: "draft", ImageRef: "image:draft"})
				_ = e.Delete(e.Recipe())
			},
			wantDeleted: []string{"image:draft"},
		},
		{
			name: "replacing an image frees the old one",
			run: func(e *Edit) {
				e.UpdateRecipe(domain.Recipe{Title: "T", ImageRef: "image:old"})
				_, _ = e.RequestCameraImage(context.Background())
			},
			wantDeleted: []string{"image:old"},
		},
		{
			name: "first image frees nothing",
			run: func(e *Edit) {
				e.UpdateRecipe(domain.Recipe{Title: "T"})
				_, _ = e.RequestCameraImage(context.Background())
			},
		},
		{
			name: "deleting a recipe without image frees nothing",
			run: func(e *Edit) {
				_ = e.Delete(e.SelectRecipe("r2"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := &fakeRemover{}
			e := NewEdit(newStore(), &fakeImages{ref: "image:new"}, rm, nil)
			tt.run(e)
			assert.Equal(t, tt.wantDeleted, rm.deleted)
		})
	}
}

func TestEdit_ModifyKeepsConcurrentImage(t *testing.T) {
	e := NewEdit(newStore(), nil, nil, nil)
	e.UpdateRecipe(domain.Recipe{Title: "T"})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			e.Modify(func(r *domain.Recipe) {
				r.Title += "x"
				r.Steps = []string{"stir"}
			})
		}
	}()
	assert.Empty(t, e.SetImage("image:new"))
	wg.Wait()

	got := e.Recipe()
	assert.Equal(t, "image:new", got.ImageRef)
	assert.Len(t, got.Title, 201)
	assert.Equal(t, []string{"stir"}, got.Steps)
}

func TestEdit_RequestImages(t *testing.T) {
	tests := []struct {
		name    string
		images  *fakeImages
		request func(e *Edit) (string, error)
		wantRef string
		wantErr bool
	}{
		{
			name:    "gallery success",
			images:  &fakeImages{ref: "image:1"},
			request: func(e *Edit) (string, error) { return e.RequestGalleryImage(context.Background(), "/tmp/a.jpg") },
			wantRef: "image:1",
		},
		{
			name:    "camera success",
			images:  &fakeImages{ref: "image:2"},
			request: func(e *Edit) (string, error) { return e.RequestCameraImage(context.Background()) },
			wantRef: "image:2",
		},
		{
			name:    "provider failure keeps old image",
			images:  &fakeImages{err: errors.New("boom")},
			request: func(e *Edit) (string, error) { return e.RequestCameraImage(context.Background()) },
			wantRef: "image:old",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEdit(newStore(), tt.images, nil, nil)
			e.UpdateRecipe(domain.Recipe{Title: "T", ImageRef: "image:old"})

			_, err := tt.request(e)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantRef, e.Recipe().ImageRef)
			assert.Equal(t, "T", e.Recipe().Title)
		})
	}
}

func TestList_PassThrough(t *testing.T) {
	s := newStore()
	l := NewList(s)
	assert.Equal(t, s.All(), l.Recipes())

	sub := l.Subscribe()
	defer sub.Close()
	assert.Len(t, <-sub.C(), 2)
}

func TestList_Search(t *testing.T) {
	l := NewList(newStore())

	tests := []struct {
		query   string
		wantIDs []string
	}{
		{query: "egg", wantIDs: []string{"r1"}},
		{query: "BASIL", wantIDs: []string{"r2"}},
		{query: "zzz", wantIDs: nil},
		{query: "  ", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var ids []string
			for _, res := range l.Search(tt.query) {
				ids = append(ids, res.Recipe.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
