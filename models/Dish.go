package models

import (
	"strings"
	"time"
)

// Dish is a catalog entry for something that can be cooked or eaten.
type Dish struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	NameKey   string    `gorm:"uniqueIndex;not null" json:"-"`
	Notes     *string   `gorm:"type:text" json:"notes"`
	Meals     []Meal    `gorm:"foreignKey:DishID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the historical table name used by earlier deployments.
func (Dish) TableName() string {
	return "foods"
}

// NameKey folds a dish name into the form stored in the unique index.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NotesText returns the notes or an empty string when none are recorded.
func (d Dish) NotesText() string {
	if d.Notes == nil {
		return ""
	}
	return *d.Notes
}
