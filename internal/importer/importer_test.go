package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/nomnom/internal/domain"
)

const ldPage = `<!doctype html>
<html><head>
<title>Site | Pancakes</title>
<meta property="og:image" content="https://cdn.example.com/og.jpg">
<script type="application/ld+json">
{"@context":"https://schema.org","@graph":[
  {"@type":"WebSite","name":"Site"},
  {"@type":["Recipe","Thing"],
   "name":"Fluffy Pancakes",
   "image":{"@type":"ImageObject","url":"/img/pancakes.jpg"},
   "recipeIngredient":["200g flour","2  eggs"," 300ml milk ",""],
   "recipeInstructions":[
     {"@type":"HowToSection","name":"Batter","itemListElement":[
       {"@type":"HowToStep","text":"Whisk everything."}
     ]},
     {"@type":"HowToStep","text":"Fry in a hot pan."}
   ]}
]}
</script>
</head><body></body></html>`

const ogPage = `<html><head>
<title>Plain Title</title>
<meta property="og:title" content="Grandma&#39;s Stew">
<meta property="og:image" content="https://cdn.example.com/stew.png">
<script type="application/ld+json">not json</script>
</head><body><p>Stew.</p></body></html>`

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.RecipeDraft
		wantErr error
	}{
		{
			name:  "json-ld graph recipe",
			input: ldPage,
			want: domain.RecipeDraft{
				Title:       "Fluffy Pancakes",
				Ingredients: []string{"200g flour", "2 eggs", "300ml milk"},
				Steps:       []string{"Whisk everything.", "Fry in a hot pan."},
				ImageURL:    "/img/pancakes.jpg",
			},
		},
		{
			name:  "open graph fallback",
			input: ogPage,
			want: domain.RecipeDraft{
				Title:       "Grandma's Stew",
				Ingredients: []string{},
				Steps:       []string{},
				ImageURL:    "https://cdn.example.com/stew.png",
			},
		},
		{
			name:  "string instructions and image list",
			input: `<script type="application/ld+json">{"@type":"Recipe","name":"Toast","image":["a.jpg","b.jpg"],"recipeIngredient":"bread","recipeInstructions":"Toast it.\nButter it."}</script>`,
			want: domain.RecipeDraft{
				Title:       "Toast",
				Ingredients: []string{"bread"},
				Steps:       []string{"Toast it.", "Butter it."},
				ImageURL:    "a.jpg",
			},
		},
		{
			name:    "no title",
			input:   `<html><body>nothing</body></html>`,
			wantErr: domain.ErrNoRecipe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadData(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/pancakes":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(ldPage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	imp := New(nil, WithUserAgent("test-agent"))

	draft, err := imp.LoadData(context.Background(), srv.URL+"/pancakes")
	require.NoError(t, err)
	assert.Equal(t, "Fluffy Pancakes", draft.Title)
	assert.Equal(t, srv.URL+"/img/pancakes.jpg", draft.ImageURL)
	assert.Equal(t, "test-agent", gotUA)

	_, err = imp.LoadData(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestLoadData_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).LoadData(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_TimeoutOption(t *testing.T) {
	caller := &http.Client{}

	tests := []struct {
		name        string
		opts        []Option
		wantTimeout time.Duration
	}{
		{name: "default", wantTimeout: defaultTimeout},
		{name: "timeout only", opts: []Option{WithTimeout(5 * time.Second)}, wantTimeout: 5 * time.Second},
		{name: "caller client keeps its timeout", opts: []Option{WithHTTPClient(caller)}, wantTimeout: 0},
		{name: "timeout before client", opts: []Option{WithTimeout(time.Second), WithHTTPClient(caller)}, wantTimeout: time.Second},
		{name: "timeout after client", opts: []Option{WithHTTPClient(caller), WithTimeout(time.Second)}, wantTimeout: time.Second},
		{name: "nil client", opts: []Option{WithHTTPClient(nil), WithTimeout(2 * time.Second)}, wantTimeout: 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := New(nil, tt.opts...)
			require.NotNil(t, imp.httpClient)
			assert.Equal(t, tt.wantTimeout, imp.httpClient.Timeout)
			assert.NotSame(t, caller, imp.httpClient)
			assert.Zero(t, caller.Timeout, "the caller's client is never modified")
		})
	}
}
