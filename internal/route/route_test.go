package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/nomnom/internal/domain"
)

func TestCreate_RoundTrip(t *testing.T) {
	seeds := []string{
		"",
		"https://example.com/recipes/lasagne",
		"https://example.com/search?q=pizza&page=2#top",
		"a b/c?d=e&f=g%20h",
		"100% + more",
		"ünïcödé/ 🍕",
		"{url}",
	}

	for _, s := range seeds {
		t.Run(s, func(t *testing.T) {
			got, err := Parse(CreateLink(s))
			require.NoError(t, err)
			assert.Equal(t, Create, got.Kind)
			assert.Equal(t, s, got.URL())
		})
	}
}

func TestCreateLink_EncodesReservedCharacters(t *testing.T) {
	link := CreateLink("https://x.io/a b?c=d")
	assert.Equal(t, "create?url=https%3A%2F%2Fx.io%2Fa+b%3Fc%3Dd", link)
}

func TestShowEdit_ParseID(t *testing.T) {
	r := domain.Recipe{ID: "5b0c2f3e-1d7a-4e7e-9a51-1c0a2d3e4f50", Title: "Soup"}

	show, err := Parse(ShowLink(r))
	require.NoError(t, err)
	assert.Equal(t, Show, show.Kind)
	assert.Equal(t, r.ID, show.ID())

	edit, err := Parse(EditLink(r))
	require.NoError(t, err)
	assert.Equal(t, Edit, edit.Kind)
	assert.Equal(t, r.ID, edit.ID())
}

func TestShowEdit_IDWithReservedCharacters(t *testing.T) {
	ids := []string{"a/b", "a b?c=d", "50%", "ünïcode", "../list"}
	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			r := domain.Recipe{ID: id}

			show, err := Parse(ShowLink(r))
			require.NoError(t, err)
			assert.Equal(t, Show, show.Kind)
			assert.Equal(t, id, show.ID())
			assert.Equal(t, ShowLink(r), show.Link())

			edit, err := Parse(EditLink(r))
			require.NoError(t, err)
			assert.Equal(t, Edit, edit.Kind)
			assert.Equal(t, id, edit.ID())
		})
	}
	assert.Equal(t, "show/a%2Fb", ShowLink(domain.Recipe{ID: "a/b"}))
}

func TestParse(t *testing.T) {
	tests := []struct {
		path     string
		wantKind Kind
		wantErr  bool
	}{
		{path: "list", wantKind: List},
		{path: "create", wantKind: Create},
		{path: "create?url=", wantKind: Create},
		{path: "show/r1", wantKind: Show},
		{path: "edit/r1", wantKind: Edit},
		{path: "", wantErr: true},
		{path: "settings", wantErr: true},
		{path: "show/r1/extra", wantErr: true},
		{path: "create?url=%zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Parse(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, got.Kind)
		})
	}
}

func TestParse_UnknownRoute(t *testing.T) {
	_, err := Parse("settings")
	assert.ErrorIs(t, err, domain.ErrUnknownRoute)
}

func TestCreate_AbsentURLIsEmpty(t *testing.T) {
	r, err := Parse("create")
	require.NoError(t, err)
	assert.Equal(t, "", r.URL())
}

func TestID_MissingIsFatal(t *testing.T) {
	r, err := Parse("show/")
	require.NoError(t, err)
	assert.Panics(t, func() { r.ID() })
}

func TestLink_RoundTrip(t *testing.T) {
	paths := []string{"list", CreateLink("https://a.b/c d"), "show/r1", "edit/r2"}
	for _, p := range paths {
		assert.Equal(t, p, MustParse(p).Link())
	}
}
