package models

import (
	"gorm.io/gorm"
)

// Custom field types
const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeEmail    = "email"
	FieldTypeDate     = "date"
	FieldTypeTextarea = "textarea"
	FieldTypeSelect   = "select"
	FieldTypeCheckbox = "checkbox"
)

// CustomField is an admin-defined campaign field. Definitions are
// created and deleted, never edited in place.
type CustomField struct {
	gorm.Model

	// Name is the storage key, a lowercase slug unique across
	// definitions and distinct from every builtin column key.
	Name        string   `gorm:"uniqueIndex;not null" json:"name"`
	Label       string   `gorm:"not null" json:"label"`
	Type        string   `gorm:"not null" json:"type"`
	Required    bool     `gorm:"default:false" json:"required"`
	Placeholder string   `json:"placeholder"`
	Description string   `json:"description"`
	Options     []string `gorm:"type:jsonb;serializer:json" json:"options"`
}
