package repositories

import (
	"context"

	"therapyhub-menus/models"

	"gorm.io/gorm"
)

// AssignmentRepository stores the menu grants of each user type.
type AssignmentRepository interface {
	FindMenuIDsByUserType(ctx context.Context, userTypeID uint) ([]uint, error)
	FindActiveMenusByUserType(ctx context.Context, userTypeID uint) ([]models.Menu, error)
	CreateBatch(ctx context.Context, assignments []models.UserTypeMenu) error
	DeleteByUserType(ctx context.Context, userTypeID uint) error
	DeleteByMenu(ctx context.Context, menuID uint) error
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) FindMenuIDsByUserType(ctx context.Context, userTypeID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.UserTypeMenu{}).
		Where("user_type_id = ?", userTypeID).
		Order("menu_id").
		Pluck("menu_id", &ids).Error
	return ids, err
}

// FindActiveMenusByUserType returns the active menus granted directly to the user type.
func (r *assignmentRepository) FindActiveMenusByUserType(ctx context.Context, userTypeID uint) ([]models.Menu, error) {
	var menus []models.Menu
	sub := r.db.Model(&models.UserTypeMenu{}).Select("menu_id").Where("user_type_id = ?", userTypeID)
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("id IN (?)", sub).
		Order("id").
		Find(&menus).Error
	return menus, err
}

func (r *assignmentRepository) CreateBatch(ctx context.Context, assignments []models.UserTypeMenu) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&assignments).Error
}

func (r *assignmentRepository) DeleteByUserType(ctx context.Context, userTypeID uint) error {
	return r.db.WithContext(ctx).Where("user_type_id = ?", userTypeID).Delete(&models.UserTypeMenu{}).Error
}

func (r *assignmentRepository) DeleteByMenu(ctx context.Context, menuID uint) error {
	return r.db.WithContext(ctx).Where("menu_id = ?", menuID).Delete(&models.UserTypeMenu{}).Error
}
