package importflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/nomnom/internal/domain"
)

type fakeImporter struct {
	draft domain.RecipeDraft
	err   error
	calls int
}

func (f *fakeImporter) LoadData(context.Context, string) (domain.RecipeDraft, error) {
	f.calls++
	return f.draft, f.err
}

type fakeFetcher struct {
	ref    string
	err    error
	cancel context.CancelFunc // cancels the caller's context before failing
	gotURL string
}

func (f *fakeFetcher) FetchAndStore(_ context.Context, url string) (string, error) {
	f.gotURL = url
	if f.cancel != nil {
		f.cancel()
	}
	return f.ref, f.err
}

type countingNotifier struct {
	messages []string
}

func (n *countingNotifier) Notify(msg string) { n.messages = append(n.messages, msg) }

var pancakes = domain.RecipeDraft{
	Title:       "Pancakes",
	Ingredients: []string{"flour", "eggs"},
	Steps:       []string{"mix", "fry"},
	ImageURL:    "https://cdn.example.com/p.jpg",
}

func TestRun_Success(t *testing.T) {
	imp := &fakeImporter{draft: pancakes}
	img := &fakeFetcher{ref: "image:abc"}
	n := &countingNotifier{}

	got, err := New(imp, img, n, nil).Run(context.Background(), "https://example.com/p")
	require.NoError(t, err)

	assert.True(t, got.IsDraft())
	assert.Equal(t, "Pancakes", got.Title)
	assert.Equal(t, "image:abc", got.ImageRef)
	assert.Equal(t, "https://example.com/p", got.SourceURL)
	assert.Equal(t, pancakes.ImageURL, img.gotURL)
	assert.Empty(t, n.messages)
}

func TestRun_ImageFailureFallsBack(t *testing.T) {
	imp := &fakeImporter{draft: pancakes}
	img := &fakeFetcher{err: errors.New("404")}
	n := &countingNotifier{}

	got, err := New(imp, img, n, nil).Run(context.Background(), "https://example.com/p")
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", got.Title)
	assert.Equal(t, []string{"flour", "eggs"}, got.Ingredients)
	assert.Empty(t, got.ImageRef)
	assert.Equal(t, []string{ImageFailedMessage}, n.messages)
}

func TestRun_CancelledDuringImageIsNotNotified(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	imp := &fakeImporter{draft: pancakes}
	img := &fakeFetcher{err: context.Canceled, cancel: cancel}
	n := &countingNotifier{}

	_, err := New(imp, img, n, nil).Run(ctx, "https://example.com/p")
	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, n.messages)
}

func TestRun_PageFailurePropagates(t *testing.T) {
	boom := errors.New("unreachable")
	imp := &fakeImporter{err: boom}
	img := &fakeFetcher{}
	n := &countingNotifier{}

	_, err := New(imp, img, n, nil).Run(context.Background(), "https://example.com/p")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrCancelled)
	assert.Empty(t, img.gotURL, "image fetch must not run after page failure")
	assert.Empty(t, n.messages)
}

func TestRun_EmptyURL(t *testing.T) {
	imp := &fakeImporter{}
	got, err := New(imp, &fakeFetcher{}, nil, nil).Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.Recipe{}, got)
	assert.Zero(t, imp.calls)
}
