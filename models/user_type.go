package models

import "time"

// UserType is the permission group menus are granted to.
type UserType struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null"`
	Description *string   `gorm:"size:500"`
	IsActive    bool      `gorm:"not null"`
	IsSystem    bool      `gorm:"not null"` // System types are hidden from listings
	CreatedAt   time.Time `gorm:"not null"`
}
