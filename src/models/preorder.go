package models

import "rms/src/types"

type PreOrder struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	ReservationID uint    `gorm:"uniqueIndex" json:"reservation_id,omitempty"`
	Status        string  `gorm:"default:'placed'" json:"status,omitempty"`
	Total         float64 `json:"total,omitempty"`

	Reservation *Reservation   `gorm:"foreignKey:reservation_id" json:"reservation,omitempty"`
	Items       []PreOrderItem `gorm:"foreignKey:pre_order_id" json:"items,omitempty"`

	types.Timestamps
}

type PreOrderItem struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	PreOrderID uint    `json:"pre_order_id,omitempty"`
	MenuItemID uint    `json:"menu_item_id,omitempty"`
	Qty        uint    `json:"qty,omitempty"`
	UnitPrice  float64 `json:"unit_price,omitempty"`

	MenuItem *MenuItem `gorm:"foreignKey:menu_item_id" json:"menu_item,omitempty"`

	types.Timestamps
}
