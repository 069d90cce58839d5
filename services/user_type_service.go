package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"therapyhub-menus/models"
	"therapyhub-menus/repositories"

	"go.uber.org/zap"
)

// UserTypeService manages the permission groups menus are granted to.
type UserTypeService interface {
	ListUserTypes(ctx context.Context) ([]UserTypeResponse, error)
	GetUserType(ctx context.Context, id uint) (*UserTypeResponse, error)
	CreateUserType(ctx context.Context, input *UserTypeInput) (*UserTypeResponse, error)
	UpdateUserType(ctx context.Context, id uint, input *UserTypeInput) (*UserTypeResponse, error)
	DeactivateUserType(ctx context.Context, id uint) error
}

type UserTypeInput struct {
	Name        string  `json:"name" validate:"max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"` // Defaults to true on create; unchanged on update when omitted
}

type UserTypeResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type userTypeService struct {
	uow    repositories.UnitOfWork
	logger *zap.Logger
}

var _ UserTypeService = (*userTypeService)(nil)

func NewUserTypeService(uow repositories.UnitOfWork, logger *zap.Logger) UserTypeService {
	return &userTypeService{uow: uow, logger: logger.Named("user_types")}
}

// ListUserTypes hides system user types.
func (s *userTypeService) ListUserTypes(ctx context.Context) ([]UserTypeResponse, error) {
	all, err := s.uow.UserTypes().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing user types: %w", err)
	}
	out := make([]UserTypeResponse, 0, len(all))
	for _, ut := range all {
		if ut.IsSystem {
			continue
		}
		out = append(out, mapUserTypeToResponse(ut))
	}
	return out, nil
}

func (s *userTypeService) GetUserType(ctx context.Context, id uint) (*UserTypeResponse, error) {
	ut, err := s.uow.UserTypes().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User type", id)
	}
	resp := mapUserTypeToResponse(*ut)
	return &resp, nil
}

func (s *userTypeService) CreateUserType(ctx context.Context, input *UserTypeInput) (*UserTypeResponse, error) {
	var created models.UserType
	err := s.uow.Transaction(ctx, func(tx repositories.UnitOfWork) error {
		name, err := validateUserTypeInput(ctx, tx, nil, input)
		if err != nil {
			return err
		}

		created = models.UserType{
			Name:        name,
			Description: trimOptional(input.Description),
			IsActive:    input.IsActive == nil || *input.IsActive,
			CreatedAt:   time.Now(),
		}
		if err := tx.UserTypes().Create(ctx, &created); err != nil {
			return fmt.Errorf("creating user type: %w", err)
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "User type", "create", 0, err)
		return nil, err
	}

	s.logger.Info("User type created", zap.Uint("id", created.ID), zap.String("name", created.Name))
	resp := mapUserTypeToResponse(created)
	return &resp, nil
}

func (s *userTypeService) UpdateUserType(ctx context.Context, id uint, input *UserTypeInput) (*UserTypeResponse, error) {
	var updated *models.UserType
	err := s.uow.Transaction(ctx, func(tx repositories.UnitOfWork) error {
		ut, err := tx.UserTypes().FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "User type", id)
		}

		name, err := validateUserTypeInput(ctx, tx, &id, input)
		if err != nil {
			return err
		}

		ut.Name = name
		ut.Description = trimOptional(input.Description)
		if input.IsActive != nil {
			ut.IsActive = *input.IsActive
		}
		if err := tx.UserTypes().Update(ctx, ut); err != nil {
			return fmt.Errorf("updating user type %d: %w", id, err)
		}
		updated = ut
		return nil
	})
	if err != nil {
		logFailure(s.logger, "User type", "update", id, err)
		return nil, err
	}

	s.logger.Info("User type updated", zap.Uint("id", id))
	resp := mapUserTypeToResponse(*updated)
	return &resp, nil
}

// DeactivateUserType marks the user type inactive; rows are never removed.
func (s *userTypeService) DeactivateUserType(ctx context.Context, id uint) error {
	err := s.uow.Transaction(ctx, func(tx repositories.UnitOfWork) error {
		ut, err := tx.UserTypes().FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "User type", id)
		}
		if !ut.IsActive {
			return nil
		}
		ut.IsActive = false
		if err := tx.UserTypes().Update(ctx, ut); err != nil {
			return fmt.Errorf("deactivating user type %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "User type", "deactivate", id, err)
		return err
	}

	s.logger.Info("User type deactivated", zap.Uint("id", id))
	return nil
}

func validateUserTypeInput(ctx context.Context, tx repositories.UnitOfWork, selfID *uint, input *UserTypeInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", &ValidationError{Message: "Name is required."}
	}
	if err := validateStruct(input); err != nil {
		return "", err
	}

	exists, err := tx.UserTypes().ExistsByName(ctx, name, selfID)
	if err != nil {
		return "", fmt.Errorf("checking user type name: %w", err)
	}
	if exists {
		return "", validationErrorf("A user type with name '%s' already exists", name)
	}
	return name, nil
}

func mapUserTypeToResponse(ut models.UserType) UserTypeResponse {
	return UserTypeResponse{
		ID:          ut.ID,
		Name:        ut.Name,
		Description: ut.Description,
		IsActive:    ut.IsActive,
		CreatedAt:   ut.CreatedAt,
	}
}
