package images

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/nomnom/internal/domain"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fakeCamera struct {
	data []byte
	err  error
}

func (c fakeCamera) Capture(_ context.Context, out string) error {
	if c.err != nil {
		return c.err
	}
	return os.WriteFile(out, c.data, 0644)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.db")

	s, err := OpenStore(path)
	require.NoError(t, err)
	ref, err := s.Put([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenStore(path)
	require.NoError(t, err)
	defer s.Close()

	data, err := s.Load(ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	require.NoError(t, s.Delete(ref))
	_, err = s.Load(ref)
	assert.ErrorIs(t, err, domain.ErrImageNotFound)
}

func TestStore_Load(t *testing.T) {
	s, err := OpenStore("")
	require.NoError(t, err)
	ref, err := s.Put([]byte{1, 2, 3})
	require.NoError(t, err)

	tests := []struct {
		name    string
		ref     string
		wantErr bool
	}{
		{name: "stored", ref: ref},
		{name: "bad prefix", ref: "file:/tmp/x", wantErr: true},
		{name: "empty key", ref: "image:", wantErr: true},
		{name: "unknown", ref: "image:nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Load(tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrImageNotFound)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProvider_FetchAndStoreResizes(t *testing.T) {
	data := pngBytes(t, 200, 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/big.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(data)
		case "/junk":
			w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s, err := OpenStore("")
	require.NoError(t, err)
	p := NewProvider(s, nil, 50, nil)

	ref, err := p.FetchAndStore(context.Background(), srv.URL+"/big.png")
	require.NoError(t, err)

	info, err := Describe(p, ref)
	require.NoError(t, err)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 50, info.Height)
	assert.Equal(t, 100, info.Width)

	_, err = p.FetchAndStore(context.Background(), srv.URL+"/junk")
	assert.Error(t, err)

	_, err = p.FetchAndStore(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)

	_, err = p.FetchAndStore(context.Background(), "")
	assert.Error(t, err)
}

func TestProvider_FromFileKeepsSmallImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 20, 10), 0644))

	s, _ := OpenStore("")
	p := NewProvider(s, nil, 0, nil)

	ref, err := p.FromFile(context.Background(), path)
	require.NoError(t, err)

	info, err := Describe(p, ref)
	require.NoError(t, err)
	assert.Equal(t, 20, info.Width)
	assert.Equal(t, 10, info.Height)

	_, err = p.FromFile(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestProvider_Capture(t *testing.T) {
	s, _ := OpenStore("")

	_, err := NewProvider(s, nil, 0, nil).Capture(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoCamera)

	ref, err := NewProvider(s, fakeCamera{data: pngBytes(t, 4, 4)}, 0, nil).Capture(context.Background())
	require.NoError(t, err)
	assert.Contains(t, ref, "image:")

	boom := errors.New("device busy")
	_, err = NewProvider(s, fakeCamera{err: boom}, 0, nil).Capture(context.Background())
	assert.ErrorIs(t, err, boom)
}
