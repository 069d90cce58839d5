package services

import (
	"sort"

	"therapyhub-menus/models"
)

// lessMenu orders siblings by sort order with unset orders first, then by id.
func lessMenu(a, b *models.Menu) bool {
	switch {
	case a.SortOrder != nil && b.SortOrder != nil:
		if *a.SortOrder != *b.SortOrder {
			return *a.SortOrder < *b.SortOrder
		}
	case a.SortOrder == nil && b.SortOrder != nil:
		return true
	case a.SortOrder != nil && b.SortOrder == nil:
		return false
	}
	return a.ID < b.ID
}

func sortMenus(menus []models.Menu) {
	sort.SliceStable(menus, func(i, j int) bool { return lessMenu(&menus[i], &menus[j]) })
}

// BuildMenuTree returns the visible tree for a set of granted menu ids. The result holds every
// granted menu found in active plus all of its active ancestors; a node whose parent is not in
// that set becomes a root. Each level is ordered like siblings are ordered for moves.
func BuildMenuTree(active []models.Menu, assignedIDs []uint) []MenuResponse {
	byID := make(map[uint]*models.Menu, len(active))
	for i := range active {
		byID[active[i].ID] = &active[i]
	}

	visible := make(map[uint]bool)
	for _, id := range assignedIDs {
		for cur, ok := byID[id]; ok && !visible[cur.ID]; {
			visible[cur.ID] = true
			if cur.ParentID == nil {
				break
			}
			cur, ok = byID[*cur.ParentID]
		}
	}

	nodes := make([]models.Menu, 0, len(visible))
	for id := range visible {
		nodes = append(nodes, *byID[id])
	}
	sortMenus(nodes)

	children := make(map[uint][]models.Menu)
	var roots []models.Menu
	for _, n := range nodes {
		if n.ParentID != nil && visible[*n.ParentID] {
			children[*n.ParentID] = append(children[*n.ParentID], n)
			continue
		}
		roots = append(roots, n)
	}

	var build func(m models.Menu, seen map[uint]bool) MenuResponse
	build = func(m models.Menu, seen map[uint]bool) MenuResponse {
		resp := mapMenuToResponse(m)
		seen[m.ID] = true
		for _, c := range children[m.ID] {
			if seen[c.ID] {
				continue
			}
			resp.Children = append(resp.Children, build(c, seen))
		}
		return resp
	}

	tree := make([]MenuResponse, 0, len(roots))
	seen := make(map[uint]bool, len(nodes))
	for _, r := range roots {
		tree = append(tree, build(r, seen))
	}
	return tree
}
