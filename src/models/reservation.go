package models

import "rms/src/types"

// Reservation holds a slot for a party. CustomerEmail is always resolved
// from the owning account, never taken from the request body. TableID stays
// nil while the reservation is pending and is required once confirmed.
type Reservation struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Date          string `gorm:"index" json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
	Duration      int    `gorm:"default:120" json:"duration,omitempty"`
	PartySize     int    `json:"party_size,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Status        string `gorm:"default:'pending'" json:"status,omitempty"`
	CheckinCode   string `json:"-"`
	UserID        uint   `gorm:"index" json:"user_id,omitempty"`
	TableID       *uint  `gorm:"index" json:"table_id,omitempty"`

	User     *User        `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Table    *DiningTable `gorm:"foreignKey:table_id" json:"table,omitempty"`
	PreOrder *PreOrder    `gorm:"foreignKey:reservation_id" json:"pre_order,omitempty"`
	Payments []Payment    `gorm:"foreignKey:reservation_id" json:"payments,omitempty"`

	types.Timestamps
}
