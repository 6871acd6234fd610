package catalog

import (
	"sort"

	"github.com/fkgudeta/curio/internal/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SearchCategories ranks every category in the tree by how closely its
// label matches query. Non-matching categories are dropped.
func SearchCategories(tree []domain.Category, query string) []domain.Category {
	if query == "" {
		return nil
	}

	var all []domain.Category
	walk(tree, func(c *domain.Category) bool {
		all = append(all, *c)
		return true
	})

	labels := make([]string, len(all))
	for i, c := range all {
		labels[i] = c.Label
	}

	ranks := fuzzy.RankFindNormalizedFold(query, labels)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	results := make([]domain.Category, len(ranks))
	for i, r := range ranks {
		results[i] = all[r.OriginalIndex]
	}
	return results
}
