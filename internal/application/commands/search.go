package commands

import (
	"context"
	"sort"
	"strings"

	"plotnav/internal/domain"
	"plotnav/internal/ports"
)

// SearchResult wraps a plot with a relevance score
type SearchResult struct {
	domain.Plot
	Score int
}

// SearchPlotsCommand finds plots of a format by title or file name
type SearchPlotsCommand struct {
	catalog ports.PlotCatalog
	Format  string
	Query   string
}

// NewSearchPlotsCommand creates a new SearchPlotsCommand
func NewSearchPlotsCommand(catalog ports.PlotCatalog, format, query string) *SearchPlotsCommand {
	return &SearchPlotsCommand{
		catalog: catalog,
		Format:  format,
		Query:   query,
	}
}

// Execute runs the search and returns scored, sorted results
func (c *SearchPlotsCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if len(c.Query) < 2 {
		return nil, nil
	}

	plots, err := c.catalog.ListPlots(ctx, c.Format)
	if err != nil {
		return nil, err
	}

	return FuzzySort(plots, c.Query), nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: chars must appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] != query[queryIdx] {
			continue
		}
		if prevMatchIdx == i-1 {
			score += 10 // consecutive chars
		}
		if i == 0 {
			score += 15 // start of string
		}
		if i > 0 && isSeparator(target[i-1]) {
			score += 10
		}
		score++
		prevMatchIdx = i
		queryIdx++
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

func isSeparator(b byte) bool {
	return b == ' ' || b == '.' || b == '-' || b == '_' || b == '/'
}

// FuzzySort scores plots against the query and sorts them by relevance.
// Ties keep catalog order.
func FuzzySort(plots []domain.Plot, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(plots))

	for _, p := range plots {
		best := max(
			FuzzyScore(p.Title, query),
			FuzzyScore(p.Filename, query),
			FuzzyScore(p.Anchor(), query),
		)
		if best > 0 {
			scored = append(scored, SearchResult{Plot: p, Score: best})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
