package services

import (
	"strings"
	"time"

	"therapyhub-menus/models"

	"github.com/go-playground/validator"
)

// --- Structs for Input/Output ---

// MenuInput is the body of both create and update.
type MenuInput struct {
	Title     string  `json:"title" validate:"max=100"`
	Route     string  `json:"route" validate:"max=255"`
	Icon      *string `json:"icon" validate:"omitempty,max=100"`
	SortOrder *int    `json:"sortOrder"`
	ParentID  *uint   `json:"parentId"`
	IsActive  bool    `json:"isActive"`
}

type AssignMenusInput struct {
	UserTypeID uint   `json:"userTypeId"`
	MenuIDs    []uint `json:"menuIds"`
}

type MenuResponse struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	Route     string         `json:"route"`
	Icon      *string        `json:"icon"`
	SortOrder *int           `json:"sortOrder"`
	ParentID  *uint          `json:"parentId"`
	IsActive  bool           `json:"isActive"`
	IsSystem  bool           `json:"isSystem"`
	CreatedAt time.Time      `json:"createdAt"`
	Children  []MenuResponse `json:"children"`
}

// UserTypeMenusResponse pairs a user type with the active menus granted to it directly.
type UserTypeMenusResponse struct {
	UserTypeID   uint           `json:"userTypeId"`
	UserTypeName string         `json:"userTypeName"`
	Menus        []MenuResponse `json:"menus"`
}

var validate = validator.New()

// validateStruct runs the struct tags and reports the first violation as a ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "max" {
			return validationErrorf("%s must be at most %s characters.", fe.Field(), fe.Param())
		}
		return validationErrorf("%s is invalid.", fe.Field())
	}
	return &ValidationError{Message: err.Error()}
}

// normalizeRoute trims the route; a blank route becomes the container sentinel.
func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return models.ContainerRoute
	}
	return route
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func mapMenuToResponse(m models.Menu) MenuResponse {
	return MenuResponse{
		ID:        m.ID,
		Title:     m.Title,
		Route:     m.Route,
		Icon:      m.Icon,
		SortOrder: m.SortOrder,
		ParentID:  m.ParentID,
		IsActive:  m.IsActive,
		IsSystem:  m.IsSystem,
		CreatedAt: m.CreatedAt,
		Children:  []MenuResponse{},
	}
}

func mapMenusToResponse(menus []models.Menu) []MenuResponse {
	out := make([]MenuResponse, 0, len(menus))
	for _, m := range menus {
		out = append(out, mapMenuToResponse(m))
	}
	return out
}
