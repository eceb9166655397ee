package models

import (
	"rms/src/types"
	"time"
)

type User struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `json:"name,omitempty"`
	Email         string    `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash  string    `json:"-"`
	Role          string    `gorm:"default:'customer'" json:"role,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	EmailVerified bool      `json:"email_verified,omitempty"`
	VerifiedAt    time.Time `json:"verified_at,omitempty"`
	LastActive    time.Time `json:"last_active,omitempty"`

	Reservations []Reservation `gorm:"foreignKey:user_id" json:"reservations,omitempty"`
	Payments     []Payment     `gorm:"foreignKey:user_id" json:"payments,omitempty"`

	types.Timestamps
}
