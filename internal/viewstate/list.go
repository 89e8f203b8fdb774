// Package viewstate holds the state screens bind to, so that screens never
// touch the recipe store directly.
package viewstate

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/nomnom/internal/domain"
	"github.com/mmcdole/nomnom/internal/store"
)

// List exposes the live recipe collection unmodified
type List struct {
	store *store.Store
}

// NewList creates a list holder over s
func NewList(s *store.Store) *List {
	return &List{store: s}
}

// Recipes returns the current collection
func (l *List) Recipes() []domain.Recipe {
	return l.store.All()
}

// Subscribe observes the collection; see store.Subscription
func (l *List) Subscribe() *store.Subscription {
	return l.store.Subscribe()
}

// SearchResult is a recipe matched by Search
type SearchResult struct {
	Recipe      domain.Recipe
	MatchedText string // Title or ingredient line that matched best
	Distance    int    // Lower is better
}

// Search finds recipes whose title or any ingredient fuzzy-matches query.
// Results are ordered by match distance, then collection order.
func (l *List) Search(query string) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	recipes := l.store.All()

	// Flatten title + ingredients, remembering which recipe each line belongs to
	var targets []string
	var owners []int
	for i, r := range recipes {
		targets = append(targets, r.Title)
		owners = append(owners, i)
		for _, ing := range r.Ingredients {
			targets = append(targets, ing)
			owners = append(owners, i)
		}
	}

	best := make(map[int]fuzzy.Rank)
	for _, rank := range fuzzy.RankFindFold(query, targets) {
		owner := owners[rank.OriginalIndex]
		if cur, ok := best[owner]; !ok || rank.Distance < cur.Distance {
			best[owner] = rank
		}
	}

	results := make([]SearchResult, 0, len(best))
	order := make([]int, 0, len(best))
	for owner := range best {
		order = append(order, owner)
	}
	sort.Slice(order, func(i, j int) bool {
		di, dj := best[order[i]].Distance, best[order[j]].Distance
		if di != dj {
			return di < dj
		}
		return order[i] < order[j]
	})
	for _, owner := range order {
		rank := best[owner]
		results = append(results, SearchResult{
			Recipe:      recipes[owner],
			MatchedText: rank.Target,
			Distance:    rank.Distance,
		})
	}
	return results
}
