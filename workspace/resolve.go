package workspace

import (
	"context"
	"strings"

	"github.com/dspiers/pageant"
	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
)

// DefaultFuzzyThreshold is the minimum title similarity accepted when no
// exact match exists.
const DefaultFuzzyThreshold = 0.6

// Resolver maps user-supplied page and section names onto workspace objects.
// Matching is exact (case- and whitespace-insensitive) first, then fuzzy by
// similarity ratio over the title strings.
type Resolver struct {
	client    Client
	threshold float64
	logger    *zap.Logger
}

// NewResolver creates a Resolver. A non-positive threshold selects
// DefaultFuzzyThreshold.
func NewResolver(client Client, threshold float64, logger *zap.Logger) *Resolver {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{client: client, threshold: threshold, logger: logger}
}

// Page resolves a page by name. Search narrows the candidate set; when
// nothing in it matches well enough the full page list is matched instead,
// so a fuzzy name the search backend misses can still resolve.
func (r *Resolver) Page(ctx context.Context, name string) (*Page, error) {
	pages, err := r.client.SearchPages(ctx, name)
	if err != nil {
		return nil, err
	}

	page, ok := BestMatch(pages, name, r.threshold)
	if !ok {
		// The search may return nothing, or only poor candidates; the full
		// page list is the authority either way.
		if pages, err = r.client.SearchPages(ctx, ""); err != nil {
			return nil, err
		}
		page, ok = BestMatch(pages, name, r.threshold)
	}
	if !ok {
		return nil, &pageant.NotFoundError{Target: name, Scope: "page"}
	}

	r.logger.Debug("resolved page",
		zap.String("name", name),
		zap.String("title", page.Title),
		zap.String("id", page.ID))
	return page, nil
}

// Section resolves a named target inside a page: a subpage, heading or
// toggle whose text matches name.
func (r *Resolver) Section(ctx context.Context, page *Page, name string) (*SectionRef, error) {
	children, err := r.client.ChildBlocks(ctx, page.ID)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		ref   SectionRef
		title string
	}
	var candidates []candidate
	for _, b := range children {
		switch {
		case b.ChildPage != nil:
			candidates = append(candidates, candidate{
				ref:   SectionRef{BlockID: b.ID, Title: b.ChildPage.Title, Type: "child_page"},
				title: b.ChildPage.Title,
			})
		case b.Heading != nil:
			candidates = append(candidates, candidate{
				ref:   SectionRef{BlockID: b.ID, Title: b.Text(), Type: "heading_2"},
				title: b.Text(),
			})
		case b.Toggle != nil:
			candidates = append(candidates, candidate{
				ref:   SectionRef{BlockID: b.ID, Title: b.Text(), Type: "toggle"},
				title: b.Text(),
			})
		}
	}

	bestScore := 0.0
	var best *SectionRef
	for i, c := range candidates {
		if equalFoldTrim(c.title, name) {
			return &candidates[i].ref, nil
		}
		if score := Similarity(c.title, name); score >= r.threshold && score > bestScore {
			bestScore = score
			best = &candidates[i].ref
		}
	}
	if best != nil {
		return best, nil
	}
	return nil, &pageant.NotFoundError{Target: name, Scope: "section"}
}

// BestMatch returns the page whose title best matches name: an exact
// (folded) match wins immediately, otherwise the highest similarity ratio at
// or above threshold.
func BestMatch(pages []Page, name string, threshold float64) (*Page, bool) {
	bestScore := 0.0
	var best *Page
	for i := range pages {
		if equalFoldTrim(pages[i].Title, name) {
			return &pages[i], true
		}
		if score := Similarity(pages[i].Title, name); score >= threshold && score > bestScore {
			bestScore = score
			best = &pages[i]
		}
	}
	return best, best != nil
}

// Similarity scores two titles in [0, 1] using a character-level sequence
// match on the folded strings.
func Similarity(a, b string) float64 {
	fa := strings.ToLower(strings.TrimSpace(a))
	fb := strings.ToLower(strings.TrimSpace(b))
	if fa == "" || fb == "" {
		return 0
	}
	m := difflib.NewMatcher(strings.Split(fa, ""), strings.Split(fb, ""))
	return m.Ratio()
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
