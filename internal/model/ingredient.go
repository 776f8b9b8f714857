package model

import "time"

// Ingredient is a row in the remote `ingredients` table. IDs are
// server-assigned uuids; the name is free text and compared through
// normalize.Name everywhere availability matters.
type Ingredient struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"nom"`
	Quantity    string    `json:"quantite"`
	Unit        string    `json:"unite"`
	IsAvailable bool      `json:"est_disponible"`
	IsFavorite  bool      `json:"is_favorite"`
	CreatedAt   time.Time `json:"created_at"`
}
