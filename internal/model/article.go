package model

import "time"

// Article is a shopping-list item (`articles_courses`). It belongs either to
// the owning user's personal list (ListID empty) or to a shared list.
type Article struct {
	ID          int64     `json:"id"`
	ListID      string    `json:"list_id,omitempty"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"nom"`
	Quantity    string    `json:"quantite"`
	Unit        string    `json:"unite"`
	IsPurchased bool      `json:"est_achete"`
	CreatedAt   time.Time `json:"created_at"`
}
