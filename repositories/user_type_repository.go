package repositories

import (
	"context"
	"strings"

	"therapyhub-menus/models"

	"gorm.io/gorm"
)

type UserTypeRepository interface {
	Create(ctx context.Context, userType *models.UserType) error
	FindByID(ctx context.Context, id uint) (*models.UserType, error)
	FindAll(ctx context.Context) ([]models.UserType, error)
	ExistsByName(ctx context.Context, name string, excludeID *uint) (bool, error)
	Update(ctx context.Context, userType *models.UserType) error
}

type userTypeRepository struct {
	db *gorm.DB
}

func NewUserTypeRepository(db *gorm.DB) UserTypeRepository {
	return &userTypeRepository{db: db}
}

func (r *userTypeRepository) Create(ctx context.Context, userType *models.UserType) error {
	return r.db.WithContext(ctx).Create(userType).Error
}

func (r *userTypeRepository) FindByID(ctx context.Context, id uint) (*models.UserType, error) {
	var userType models.UserType
	if err := r.db.WithContext(ctx).First(&userType, id).Error; err != nil {
		return nil, err
	}
	return &userType, nil
}

func (r *userTypeRepository) FindAll(ctx context.Context) ([]models.UserType, error) {
	var userTypes []models.UserType
	err := r.db.WithContext(ctx).Order("id").Find(&userTypes).Error
	return userTypes, err
}

// ExistsByName compares names case-insensitively.
func (r *userTypeRepository) ExistsByName(ctx context.Context, name string, excludeID *uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.UserType{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userTypeRepository) Update(ctx context.Context, userType *models.UserType) error {
	return r.db.WithContext(ctx).Save(userType).Error
}
