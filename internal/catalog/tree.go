package catalog

import "github.com/fkgudeta/curio/internal/domain"

// walk visits the tree depth-first in pre-order until fn returns false.
// It uses an explicit stack and keeps no visited set: the tree comes from
// the API and is assumed finite and acyclic, which is what bounds the walk.
func walk(tree []domain.Category, fn func(c *domain.Category) bool) {
	stack := make([]*domain.Category, 0, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		stack = append(stack, &tree[i])
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(node) {
			return
		}

		// Push children reversed so the first child is visited next
		for i := len(node.Subcategories) - 1; i >= 0; i-- {
			stack = append(stack, &node.Subcategories[i])
		}
	}
}

// FindCategory returns the first category (pre-order) whose id equals id
func FindCategory(tree []domain.Category, id string) (domain.Category, bool) {
	var found *domain.Category
	walk(tree, func(c *domain.Category) bool {
		if string(c.ID) == id {
			found = c
			return false
		}
		return true
	})
	if found == nil {
		return domain.Category{}, false
	}
	return *found, true
}
