package repositories

import (
	"context"
	"errors"

	"therapyhub-menus/models"

	"gorm.io/gorm"
)

// MenuRepository interface defines Menu-related database operations
type MenuRepository interface {
	Create(ctx context.Context, menu *models.Menu) error
	FindByID(ctx context.Context, id uint) (*models.Menu, error)
	FindAll(ctx context.Context) ([]models.Menu, error)
	FindActive(ctx context.Context) ([]models.Menu, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Menu, error)
	FindSiblings(ctx context.Context, parentID *uint) ([]models.Menu, error)
	ExistsByRoute(ctx context.Context, route string, excludeID *uint) (bool, error)
	HasChildren(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, menu *models.Menu) error
	UpdateSortOrder(ctx context.Context, id uint, sortOrder int) error
	Delete(ctx context.Context, id uint) error
}

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new MenuRepository instance
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

// FindByID returns gorm.ErrRecordNotFound when the menu does not exist.
func (r *menuRepository) FindByID(ctx context.Context, id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := r.db.WithContext(ctx).First(&menu, id).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) FindAll(ctx context.Context) ([]models.Menu, error) {
	var menus []models.Menu
	err := r.db.WithContext(ctx).Order("id").Find(&menus).Error
	return menus, err
}

func (r *menuRepository) FindActive(ctx context.Context) ([]models.Menu, error) {
	var menus []models.Menu
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&menus).Error
	return menus, err
}

func (r *menuRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Menu, error) {
	var menus []models.Menu
	if len(ids) == 0 {
		return menus, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&menus).Error
	return menus, err
}

// FindSiblings returns every menu in the group of parentID; nil selects the top level.
func (r *menuRepository) FindSiblings(ctx context.Context, parentID *uint) ([]models.Menu, error) {
	var menus []models.Menu
	q := r.db.WithContext(ctx)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	err := q.Order("id").Find(&menus).Error
	return menus, err
}

func (r *menuRepository) ExistsByRoute(ctx context.Context, route string, excludeID *uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Menu{}).Where("route = ?", route)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *menuRepository) HasChildren(ctx context.Context, id uint) (bool, error) {
	var child models.Menu
	err := r.db.WithContext(ctx).Select("id").Where("parent_id = ?", id).Take(&child).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update saves every column of the menu, writing NULL for nil optional fields.
func (r *menuRepository) Update(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Save(menu).Error
}

func (r *menuRepository) UpdateSortOrder(ctx context.Context, id uint, sortOrder int) error {
	return r.db.WithContext(ctx).Model(&models.Menu{}).Where("id = ?", id).Update("sort_order", sortOrder).Error
}

func (r *menuRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Menu{}, id).Error
}
