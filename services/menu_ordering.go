package services

import (
	"context"
	"fmt"

	"therapyhub-menus/models"
	"therapyhub-menus/repositories"

	"go.uber.org/zap"
)

type moveDirection int

const (
	moveUp moveDirection = iota
	moveDown
)

func (d moveDirection) String() string {
	if d == moveUp {
		return "up"
	}
	return "down"
}

// reorderSiblings returns the sibling group with id swapped one step in the given direction
// and reports whether anything moved. The input is ordered in place first.
func reorderSiblings(siblings []models.Menu, id uint, dir moveDirection) ([]models.Menu, bool) {
	sortMenus(siblings)

	idx := -1
	for i := range siblings {
		if siblings[i].ID == id {
			idx = i
			break
		}
	}

	target := idx - 1
	if dir == moveDown {
		target = idx + 1
	}
	if idx < 0 || target < 0 || target >= len(siblings) {
		return siblings, false
	}

	siblings[idx], siblings[target] = siblings[target], siblings[idx]
	return siblings, true
}

// renumber writes 0..n-1 in slice order, skipping rows that already hold their position.
func renumber(ctx context.Context, menus repositories.MenuRepository, ordered []models.Menu) error {
	for i := range ordered {
		if ordered[i].SortOrder != nil && *ordered[i].SortOrder == i {
			continue
		}
		if err := menus.UpdateSortOrder(ctx, ordered[i].ID, i); err != nil {
			return fmt.Errorf("renumbering menu %d: %w", ordered[i].ID, err)
		}
	}
	return nil
}

// move shifts a menu one place among its siblings. A menu already at the edge is left alone.
func (s *menuService) move(ctx context.Context, id uint, dir moveDirection) error {
	var moved bool
	err := s.uow.Transaction(ctx, func(tx repositories.UnitOfWork) error {
		menu, err := tx.Menus().FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "Menu", id)
		}

		siblings, err := tx.Menus().FindSiblings(ctx, menu.ParentID)
		if err != nil {
			return fmt.Errorf("loading siblings of menu %d: %w", id, err)
		}

		ordered, ok := reorderSiblings(siblings, id, dir)
		if !ok {
			return nil
		}
		moved = true
		return renumber(ctx, tx.Menus(), ordered)
	})
	if err != nil {
		return err
	}

	if moved {
		s.logger.Info("Menu moved", zap.Uint("id", id), zap.Stringer("direction", dir))
	}
	return nil
}
