package model

import (
	"time"
)

// Usuario stores system users with role-based access.
type Usuario struct {
	ID           uint   `gorm:"primaryKey"`
	Nombre       string `gorm:"type:varchar(100);not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Rol          Rol    `gorm:"type:varchar(20);not null;default:'cashier'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
