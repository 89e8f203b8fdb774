package importer

import (
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mmcdole/nomnom/internal/domain"
)

// page holds what the HTML walk collects
type page struct {
	title   string
	ogTitle string
	ogImage string
	ldJSON  []string
}

// Parse extracts a recipe draft from an HTML document.
//
// A schema.org Recipe in JSON-LD wins; otherwise the Open Graph title and
// image (or the document title) are used and the lists stay empty.
func Parse(r io.Reader) (domain.RecipeDraft, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return domain.RecipeDraft{}, err
	}

	var p page
	collect(doc, &p)

	var draft domain.RecipeDraft
	for _, raw := range p.ldJSON {
		if d, ok := fromLDJSON(raw); ok {
			draft = d
			break
		}
	}

	if draft.Title == "" {
		draft.Title = firstNonEmpty(p.ogTitle, p.title)
	}
	if draft.ImageURL == "" {
		draft.ImageURL = p.ogImage
	}
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Ingredients = normalizeLines(draft.Ingredients)
	draft.Steps = normalizeLines(draft.Steps)

	if draft.Title == "" {
		return domain.RecipeDraft{}, domain.ErrNoRecipe
	}
	return draft, nil
}

func collect(n *html.Node, p *page) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Title:
			if p.title == "" {
				p.title = textContent(n)
			}
		case atom.Meta:
			prop := attr(n, "property")
			if prop == "" {
				prop = attr(n, "name")
			}
			switch prop {
			case "og:title":
				p.ogTitle = attr(n, "content")
			case "og:image":
				if p.ogImage == "" {
					p.ogImage = attr(n, "content")
				}
			}
		case atom.Script:
			if strings.EqualFold(attr(n, "type"), "application/ld+json") {
				p.ldJSON = append(p.ldJSON, textContent(n))
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, p)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// fromLDJSON finds the first Recipe object in a JSON-LD block
func fromLDJSON(raw string) (domain.RecipeDraft, bool) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return domain.RecipeDraft{}, false
	}
	obj, ok := findRecipe(v)
	if !ok {
		return domain.RecipeDraft{}, false
	}

	draft := domain.RecipeDraft{
		Title:    asString(obj["name"]),
		ImageURL: imageURL(obj["image"]),
		Steps:    instructions(obj["recipeInstructions"]),
	}
	draft.Ingredients = stringList(obj["recipeIngredient"])
	if len(draft.Ingredients) == 0 {
		draft.Ingredients = stringList(obj["ingredients"])
	}
	return draft, true
}

func findRecipe(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if obj, ok := findRecipe(item); ok {
				return obj, true
			}
		}
	case map[string]any:
		if isType(t["@type"], "Recipe") {
			return t, true
		}
		if graph, ok := t["@graph"]; ok {
			return findRecipe(graph)
		}
	}
	return nil, false
}

func isType(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return t == want
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func asString(v any) string {
	s, _ := v.(string)
	return html.UnescapeString(s)
}

func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{html.UnescapeString(t)}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, html.UnescapeString(s))
			}
		}
		return out
	}
	return nil
}

// instructions flattens strings, HowToStep and HowToSection into lines
func instructions(v any) []string {
	switch t := v.(type) {
	case string:
		return strings.Split(html.UnescapeString(t), "\n")
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, instructions(item)...)
		}
		return out
	case map[string]any:
		if items, ok := t["itemListElement"]; ok {
			return instructions(items)
		}
		if text := asString(t["text"]); text != "" {
			return []string{text}
		}
		if name := asString(t["name"]); name != "" {
			return []string{name}
		}
	}
	return nil
}

func imageURL(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		for _, item := range t {
			if u := imageURL(item); u != "" {
				return u
			}
		}
	case map[string]any:
		return asString(t["url"])
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// resolveURL makes ref absolute relative to base
func resolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
