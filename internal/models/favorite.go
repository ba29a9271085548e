package models

import (
	"gorm.io/gorm"
)

// Favorite links a user to a recipe they saved
type Favorite struct {
	gorm.Model

	UserID   uint `json:"user_id" gorm:"index"`
	RecipeID uint `json:"recipe_id" gorm:"index"`
}

// Comment is an append-only note a user left on a recipe
type Comment struct {
	gorm.Model

	UserID   uint   `json:"user_id" gorm:"index"`
	RecipeID uint   `json:"recipe_id" gorm:"index"`
	Body     string `json:"body" gorm:"not null"`
}
