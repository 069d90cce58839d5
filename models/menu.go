package models

import "time"

// ContainerRoute marks a menu that only groups children and has no page of its own.
const ContainerRoute = "#"

// Menu is a node of the navigation tree. ParentID nil means the menu is top level.
type Menu struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:100;not null"`
	Route     string    `gorm:"size:255;not null;index"`
	Icon      *string   `gorm:"size:100"`
	SortOrder *int      `gorm:"column:sort_order"`
	ParentID  *uint     `gorm:"index"`
	IsActive  bool      `gorm:"not null"`
	IsSystem  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// IsContainerRoute reports whether route belongs to a pure grouping node. Container routes are
// exempt from route uniqueness.
func IsContainerRoute(route string) bool {
	return route == ContainerRoute
}
