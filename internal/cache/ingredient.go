package cache

import (
	"database/sql"
	"fmt"

	"github.com/logecui/pantry/internal/model"
)

// IngredientStore mirrors the remote `ingredients` set.
type IngredientStore struct {
	db *sql.DB
}

func NewIngredientStore(db *sql.DB) *IngredientStore {
	return &IngredientStore{db: db}
}

const ingredientCols = `id, user_id, name, quantity, unit, is_available, is_favorite, created_at`

func scanIngredient(scanner interface{ Scan(...any) error }) (*model.Ingredient, error) {
	var i model.Ingredient
	var available, favorite int
	err := scanner.Scan(&i.ID, &i.UserID, &i.Name, &i.Quantity, &i.Unit, &available, &favorite, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	i.IsAvailable = available != 0
	i.IsFavorite = favorite != 0
	return &i, nil
}

// GetAll returns the cached snapshot, newest first, matching the remote
// list order.
func (s *IngredientStore) GetAll() ([]model.Ingredient, error) {
	rows, err := s.db.Query(`SELECT ` + ingredientCols + ` FROM ingredients ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list cached ingredients: %w", err)
	}
	defer rows.Close()

	var items []model.Ingredient
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

// ReplaceAll atomically swaps the snapshot for items.
func (s *IngredientStore) ReplaceAll(items []model.Ingredient) error {
	return replaceAll(s.db, "ingredients", items, func(tx *sql.Tx, i model.Ingredient) error {
		_, err := tx.Exec(
			`INSERT INTO ingredients (`+ingredientCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i.ID, i.UserID, i.Name, i.Quantity, i.Unit, boolInt(i.IsAvailable), boolInt(i.IsFavorite), i.CreatedAt,
		)
		return err
	})
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
