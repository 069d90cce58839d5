package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"therapyhub-menus/models"
	"therapyhub-menus/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The MenuService interface defines the menu tree operations exposed to the transports
type MenuService interface {
	ListMenus(ctx context.Context) ([]MenuResponse, error)
	GetMenu(ctx context.Context, id uint) (*MenuResponse, error)
	CreateMenu(ctx context.Context, input *MenuInput) (*MenuResponse, error)
	UpdateMenu(ctx context.Context, id uint, input *MenuInput) (*MenuResponse, error)
	DeleteMenu(ctx context.Context, id uint) error
	MoveUp(ctx context.Context, id uint) error
	MoveDown(ctx context.Context, id uint) error

	GetMenuTreeForUserType(ctx context.Context, userTypeID uint) ([]MenuResponse, error)
	GetUserTypeWithMenus(ctx context.Context, userTypeID uint) (*UserTypeMenusResponse, error)
	GetAssignedMenuIDs(ctx context.Context, userTypeID uint) ([]uint, error)
	AssignMenus(ctx context.Context, input *AssignMenusInput) error
}

type menuService struct {
	uow    repositories.UnitOfWork
	logger *zap.Logger
}

var _ MenuService = (*menuService)(nil)

// NewMenuService creates a new MenuService instance
func NewMenuService(uow repositories.UnitOfWork, logger *zap.Logger) MenuService {
	return &menuService{uow: uow, logger: logger.Named("menus")}
}

// ListMenus returns every menu, active or not, flat and in sibling order.
func (s *menuService) ListMenus(ctx context.Context) ([]MenuResponse, error) {
	menus, err := s.uow.Menus().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing menus: %w", err)
	}
	sortMenus(menus)
	return mapMenusToResponse(menus), nil
}

func (s *menuService) GetMenu(ctx context.Context, id uint) (*MenuResponse, error) {
	menu, err := s.uow.Menus().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Menu", id)
	}
	resp := mapMenuToResponse(*menu)
	return &resp, nil
}

// CreateMenu validates the input and stores a new menu.
func (s *menuService) CreateMenu(ctx context.Context, input *MenuInput) (*MenuResponse, error) {
	var created models.Menu
	err := s.uow.Transaction(ctx, func(tx repositories.UnitOfWork) error {
		route, err := s.validateMenuInput(ctx, tx, nil, input)
		if err != nil {
			return err
		}

		created = models.Menu{
			Title:     strings.TrimSpace(input.Title),
			Route:     route,
			Icon:      trimOptional(input.Icon),
			SortOrder: input.SortOrder,
			ParentID:  input.ParentID,
			IsActive:  input.IsActive,
			CreatedAt: time.Now(),
		}
		if err := tx.Menus().Create(ctx, &created); err != nil {
			return routeConflictOr(err, route, "creating menu")
		}
		return nil
	})
	if err != nil {
		s.logFailure("create", 0, err)
		return nil, err
	}

	s.logger.Info("Menu created", zap.Uint("id", created.ID), zap.String("route", created.Route))
	resp := mapMenuToResponse(created)
	return &resp, nil
}

// UpdateMenu replaces the editable fields of a menu. The new parent may not be the menu itself
// or any of its descendants.
func (s *menuService) UpdateMenu(ctx context.Context, id uint, input *MenuInput) (*MenuResponse, error) {
	var updated *models.Menu
	err := s.uow.Transaction(ctx, func(tx repositories.UnitOfWork) error {
		menu, err := tx.Menus().FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "Menu", id)
		}

		route, err := s.validateMenuInput(ctx, tx, &id, input)
		if err != nil {
			return err
		}

		menu.Title = strings.TrimSpace(input.Title)
		menu.Route = route
		menu.Icon = trimOptional(input.Icon)
		menu.SortOrder = input.SortOrder
		menu.ParentID = input.ParentID
		menu.IsActive = input.IsActive
		if err := tx.Menus().Update(ctx, menu); err != nil {
			return routeConflictOr(err, route, fmt.Sprintf("updating menu %d", id))
		}
		updated = menu
		return nil
	})
	if err != nil {
		s.logFailure("update", id, err)
		return nil, err
	}

	s.logger.Info("Menu updated", zap.Uint("id", id))
	resp := mapMenuToResponse(*updated)
	return &resp, nil
}

// validateMenuInput checks the input in a fixed order and returns the normalized route.
// selfID is nil on create.
func (s *menuService) validateMenuInput(ctx context.Context, tx repositories.UnitOfWork, selfID *uint, input *MenuInput) (string, error) {
	if strings.TrimSpace(input.Title) == "" {
		return "", &ValidationError{Message: "Title is required."}
	}
	// Lengths apply to the values that get stored.
	normalized := *input
	normalized.Title = strings.TrimSpace(input.Title)
	normalized.Route = normalizeRoute(input.Route)
	normalized.Icon = trimOptional(input.Icon)
	if err := validateStruct(&normalized); err != nil {
		return "", err
	}

	route := normalized.Route
	if !models.IsContainerRoute(route) {
		exists, err := tx.Menus().ExistsByRoute(ctx, route, selfID)
		if err != nil {
			return "", fmt.Errorf("checking route %q: %w", route, err)
		}
		if exists {
			return "", validationErrorf("A menu with route '%s' already exists.", route)
		}
	}

	if input.ParentID == nil {
		return route, nil
	}
	parentID := *input.ParentID
	if _, err := tx.Menus().FindByID(ctx, parentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", validationErrorf("Parent menu with Id %d not found.", parentID)
		}
		return "", fmt.Errorf("loading parent menu %d: %w", parentID, err)
	}

	if selfID != nil {
		if parentID == *selfID {
			return "", &ValidationError{Message: "A menu cannot be its own parent."}
		}
		cycle, err := isDescendant(ctx, tx.Menus(), parentID, *selfID)
		if err != nil {
			return "", err
		}
		if cycle {
			return "", &ValidationError{Message: "A menu cannot be moved under one of its own submenus."}
		}
	}
	return route, nil
}

// isDescendant walks up from candidate and reports whether ancestorID is on its parent chain.
func isDescendant(ctx context.Context, menus repositories.MenuRepository, candidate, ancestorID uint) (bool, error) {
	visited := map[uint]bool{}
	cur := candidate
	for !visited[cur] {
		visited[cur] = true
		m, err := menus.FindByID(ctx, cur)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("walking ancestors of menu %d: %w", candidate, err)
		}
		if m.ParentID == nil {
			return false, nil
		}
		if *m.ParentID == ancestorID {
			return true, nil
		}
		cur = *m.ParentID
	}
	// Existing data already loops; refuse to extend it.
	return true, nil
}

// DeleteMenu removes a leaf menu together with its grants.
func (s *menuService) DeleteMenu(ctx context.Context, id uint) error {
	err := s.uow.Transaction(ctx, func(tx repositories.UnitOfWork) error {
		if _, err := tx.Menus().FindByID(ctx, id); err != nil {
			return notFoundOr(err, "Menu", id)
		}

		hasChildren, err := tx.Menus().HasChildren(ctx, id)
		if err != nil {
			return fmt.Errorf("checking submenus of menu %d: %w", id, err)
		}
		if hasChildren {
			return &ValidationError{Message: "Cannot delete a menu that has submenus. Remove or reassign submenus first."}
		}

		if err := tx.Assignments().DeleteByMenu(ctx, id); err != nil {
			return fmt.Errorf("deleting grants of menu %d: %w", id, err)
		}
		if err := tx.Menus().Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting menu %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("delete", id, err)
		return err
	}

	s.logger.Info("Menu deleted", zap.Uint("id", id))
	return nil
}

func (s *menuService) MoveUp(ctx context.Context, id uint) error {
	return s.move(ctx, id, moveUp)
}

func (s *menuService) MoveDown(ctx context.Context, id uint) error {
	return s.move(ctx, id, moveDown)
}

// GetMenuTreeForUserType builds the tree a user of the given type sees. Unknown user types
// simply have no grants.
func (s *menuService) GetMenuTreeForUserType(ctx context.Context, userTypeID uint) ([]MenuResponse, error) {
	active, err := s.uow.Menus().FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active menus: %w", err)
	}
	assigned, err := s.uow.Assignments().FindMenuIDsByUserType(ctx, userTypeID)
	if err != nil {
		return nil, fmt.Errorf("loading grants of user type %d: %w", userTypeID, err)
	}
	return BuildMenuTree(active, assigned), nil
}

func (s *menuService) GetUserTypeWithMenus(ctx context.Context, userTypeID uint) (*UserTypeMenusResponse, error) {
	userType, err := s.uow.UserTypes().FindByID(ctx, userTypeID)
	if err != nil {
		return nil, notFoundOr(err, "User type", userTypeID)
	}

	menus, err := s.uow.Assignments().FindActiveMenusByUserType(ctx, userTypeID)
	if err != nil {
		return nil, fmt.Errorf("loading menus of user type %d: %w", userTypeID, err)
	}
	sortMenus(menus)

	return &UserTypeMenusResponse{
		UserTypeID:   userType.ID,
		UserTypeName: userType.Name,
		Menus:        mapMenusToResponse(menus),
	}, nil
}

func (s *menuService) GetAssignedMenuIDs(ctx context.Context, userTypeID uint) ([]uint, error) {
	ids, err := s.uow.Assignments().FindMenuIDsByUserType(ctx, userTypeID)
	if err != nil {
		return nil, fmt.Errorf("loading grants of user type %d: %w", userTypeID, err)
	}
	return ids, nil
}

// AssignMenus replaces every grant of the user type with input.MenuIDs. Either the whole set
// is stored or nothing changes.
func (s *menuService) AssignMenus(ctx context.Context, input *AssignMenusInput) error {
	menuIDs := uniqueIDs(input.MenuIDs)

	err := s.uow.Transaction(ctx, func(tx repositories.UnitOfWork) error {
		if _, err := tx.UserTypes().FindByID(ctx, input.UserTypeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationErrorf("User type with Id %d not found.", input.UserTypeID)
			}
			return fmt.Errorf("loading user type %d: %w", input.UserTypeID, err)
		}

		found, err := tx.Menus().FindByIDs(ctx, menuIDs)
		if err != nil {
			return fmt.Errorf("loading menus: %w", err)
		}
		if missing := missingIDs(menuIDs, found); len(missing) > 0 {
			return validationErrorf("The following menus do not exist: %s", joinIDs(missing))
		}

		if err := tx.Assignments().DeleteByUserType(ctx, input.UserTypeID); err != nil {
			return fmt.Errorf("clearing grants of user type %d: %w", input.UserTypeID, err)
		}

		now := time.Now()
		rows := make([]models.UserTypeMenu, 0, len(menuIDs))
		for _, id := range menuIDs {
			rows = append(rows, models.UserTypeMenu{UserTypeID: input.UserTypeID, MenuID: id, AssignedAt: now})
		}
		if err := tx.Assignments().CreateBatch(ctx, rows); err != nil {
			return fmt.Errorf("storing grants of user type %d: %w", input.UserTypeID, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("assign", input.UserTypeID, err)
		return err
	}

	s.logger.Info("Menus assigned", zap.Uint("user_type_id", input.UserTypeID), zap.Int("count", len(menuIDs)))
	return nil
}

// logFailure logs rejected input at warn and everything else at error.
func (s *menuService) logFailure(op string, id uint, err error) {
	logFailure(s.logger, "Menu", op, id, err)
}

// --- Helpers ---

// routeConflictOr reports a unique index violation on the route the same way the up-front check
// does. Concurrent writers can both pass that check.
func routeConflictOr(err error, route, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return validationErrorf("A menu with route '%s' already exists.", route)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func missingIDs(want []uint, found []models.Menu) []uint {
	have := make(map[uint]bool, len(found))
	for _, m := range found {
		have[m.ID] = true
	}
	var missing []uint
	for _, id := range want {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
