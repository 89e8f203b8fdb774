// Package route is the closed table of navigable screens.
//
// Each route has a path template with named placeholders, a link
// constructor from domain values and accessors that extract typed
// parameters back out of a parsed path.
package route

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/nomnom/internal/domain"
)

// Kind identifies a screen
type Kind int

const (
	List Kind = iota
	Create
	Show
	Edit
)

const (
	paramURL = "url"
	paramID  = "id"
)

// Templates, in the form the navigation table registers them
const (
	ListTemplate   = "list"
	CreateTemplate = "create?url={url}"
	ShowTemplate   = "show/{id}"
	EditTemplate   = "edit/{id}"
)

var templates = map[Kind]string{
	List:   ListTemplate,
	Create: CreateTemplate,
	Show:   ShowTemplate,
	Edit:   EditTemplate,
}

// String returns the route name
func (k Kind) String() string {
	switch k {
	case List:
		return "list"
	case Create:
		return "create"
	case Show:
		return "show"
	case Edit:
		return "edit"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Template returns the path template for k
func (k Kind) Template() string {
	return templates[k]
}

// Route is a parsed navigation target
type Route struct {
	Kind   Kind
	params map[string]string
}

// ListLink returns the path of the recipe list
func ListLink() string {
	return ListTemplate
}

// CreateLink returns the path of the create screen seeded with url.
// The url is form-encoded so it survives as a single query value.
func CreateLink(seedURL string) string {
	return strings.Replace(CreateTemplate, "{url}", url.QueryEscape(seedURL), 1)
}

// ShowLink returns the path of the show screen for r
func ShowLink(r domain.Recipe) string {
	return idLink(ShowTemplate, r.ID)
}

// EditLink returns the path of the edit screen for r
func EditLink(r domain.Recipe) string {
	return idLink(EditTemplate, r.ID)
}

// idLink fills the id placeholder, escaped so it stays one path segment
func idLink(template, id string) string {
	return strings.Replace(template, "{id}", url.PathEscape(id), 1)
}

// Parse matches path against the route table
func Parse(path string) (Route, error) {
	base, rawQuery, _ := strings.Cut(path, "?")
	segments := strings.Split(base, "/")

	switch {
	case base == "list" && rawQuery == "":
		return Route{Kind: List}, nil

	case base == "create":
		q, err := url.ParseQuery(rawQuery)
		if err != nil {
			return Route{}, fmt.Errorf("parse %q: %w", path, err)
		}
		params := map[string]string{}
		if q.Has(paramURL) {
			params[paramURL] = q.Get(paramURL)
		}
		return Route{Kind: Create, params: params}, nil

	case len(segments) == 2 && rawQuery == "" && (segments[0] == "show" || segments[0] == "edit"):
		kind := Show
		if segments[0] == "edit" {
			kind = Edit
		}
		id, err := url.PathUnescape(segments[1])
		if err != nil {
			return Route{}, fmt.Errorf("%w: %q: %v", domain.ErrUnknownRoute, path, err)
		}
		params := map[string]string{}
		if id != "" {
			params[paramID] = id
		}
		return Route{Kind: kind, params: params}, nil
	}

	return Route{}, fmt.Errorf("%w: %q", domain.ErrUnknownRoute, path)
}

// MustParse is Parse for paths built by the link constructors
func MustParse(path string) Route {
	r, err := Parse(path)
	if err != nil {
		panic(err)
	}
	return r
}

// URL returns the Create seed URL. An absent parameter means no seed.
func (r Route) URL() string {
	return r.params[paramURL]
}

// ID returns the Show/Edit recipe id.
// The route table guarantees the id exists; a missing one is a programming error.
func (r Route) ID() string {
	id, ok := r.params[paramID]
	if !ok {
		panic(fmt.Sprintf("route %s: missing required parameter %q", r.Kind, paramID))
	}
	return id
}

// HasID reports whether the Show/Edit id is present
func (r Route) HasID() bool {
	_, ok := r.params[paramID]
	return ok
}

// Link serialises the route back to a path
func (r Route) Link() string {
	switch r.Kind {
	case Create:
		return CreateLink(r.URL())
	case Show:
		return idLink(ShowTemplate, r.ID())
	case Edit:
		return idLink(EditTemplate, r.ID())
	default:
		return ListLink()
	}
}
