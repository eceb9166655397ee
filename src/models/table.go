package models

import "rms/src/types"

// DiningTable is a physical table in the dining room. Available is the
// in-service flag, independent of whether any reservation holds the table.
type DiningTable struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Number    uint   `gorm:"uniqueIndex" json:"number,omitempty"`
	Capacity  uint   `json:"capacity,omitempty"`
	Available bool   `gorm:"default:true" json:"available"`
	Location  string `json:"location,omitempty"`

	Reservations []Reservation `gorm:"foreignKey:table_id" json:"reservations,omitempty"`

	types.Timestamps
}

func (DiningTable) TableName() string {
	return "dining_tables"
}
