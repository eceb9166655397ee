package models

import "rms/src/types"

type Feedback struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	UserID        uint   `gorm:"index" json:"user_id,omitempty"`
	ReservationID *uint  `json:"reservation_id,omitempty"`
	Rating        int    `json:"rating,omitempty"`
	Comment       string `json:"comment,omitempty"`

	User        *User        `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Reservation *Reservation `gorm:"foreignKey:reservation_id" json:"reservation,omitempty"`

	types.Timestamps
}

func (Feedback) TableName() string {
	return "feedback"
}
