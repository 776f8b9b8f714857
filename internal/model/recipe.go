package model

import (
	"strings"
	"time"
)

// Category is the dish category. The wire values match the `categorie`
// column of the remote store.
type Category string

const (
	CategoryStarter Category = "Entree"
	CategoryMain    Category = "Plat"
	CategoryDessert Category = "Dessert"
)

// ParseCategory maps a column value or user input to a Category, defaulting
// to main dish for anything unrecognized.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entree", "entrée":
		return CategoryStarter
	case "dessert":
		return CategoryDessert
	default:
		return CategoryMain
	}
}

// Recipe is a row in the remote `recettes` table.
//
// ExternalID is a stable client-generated idempotency key and the conflict
// column for upserts; it must be set before Recipes.Upsert is called.
// PhotoLocalPath is the on-device cached copy of the photo and is never sent
// to the remote store.
type Recipe struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	OwnerID        string    `json:"owner_user_id"`
	ExternalID     string    `json:"external_id"`
	Name           string    `json:"nom"`
	Category       Category  `json:"categorie"`
	PrepMinutes    int       `json:"temps_minutes"`
	Rating         int       `json:"note"`
	IsFavorite     bool      `json:"is_favorite"`
	Instructions   string    `json:"instructions"`
	PhotoURL       string    `json:"photo_url,omitempty"`
	PhotoLocalPath string    `json:"-"`
}

// RecipeIngredient is one required-ingredient line of a recipe
// (`recette_ingredients`). Lines are owned by the recipe and replaced
// wholesale on every edit.
type RecipeIngredient struct {
	RecipeID string `json:"recette_id"`
	Name     string `json:"ingredient_nom"`
	Quantity string `json:"quantite"`
	Unit     string `json:"unite"`
}
