package models

import "rms/src/types"

type Payment struct {
	ID              uint    `gorm:"primarykey" json:"id"`
	ReservationID   uint    `gorm:"index" json:"reservation_id,omitempty"`
	UserID          uint    `json:"user_id,omitempty"`
	Amount          float64 `json:"amount,omitempty"`
	Method          string  `json:"method,omitempty"`
	Status          string  `gorm:"default:'pending'" json:"status,omitempty"`
	Currency        string  `gorm:"default:'usd'" json:"currency,omitempty"`
	PaymentIntentId *string `json:"-"`

	Reservation *Reservation `gorm:"foreignKey:reservation_id" json:"reservation,omitempty"`
	User        *User        `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}
