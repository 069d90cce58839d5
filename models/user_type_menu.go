package models

import "time"

// UserTypeMenu grants one menu to one user type.
type UserTypeMenu struct {
	ID         uint      `gorm:"primaryKey"`
	UserTypeID uint      `gorm:"not null;uniqueIndex:idx_user_type_menu"`
	MenuID     uint      `gorm:"not null;uniqueIndex:idx_user_type_menu;index"`
	AssignedAt time.Time `gorm:"not null"`
}
