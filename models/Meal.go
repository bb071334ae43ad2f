package models

import "time"

// Meal records one dated occasion of eating a dish.
type Meal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DishID    uint      `gorm:"column:food_id;not null;index" json:"dish_id"`
	Date      string    `gorm:"type:varchar(10);not null;index" json:"date"` // YYYY-MM-DD
	Notes     *string   `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
