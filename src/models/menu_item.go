package models

import "rms/src/types"

type MenuItem struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Name        string  `json:"name,omitempty"`
	Slug        string  `gorm:"uniqueIndex" json:"slug,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Category    string  `gorm:"index" json:"category,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Available   bool    `gorm:"default:true" json:"available"`

	types.Timestamps
}
