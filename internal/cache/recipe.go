package cache

import (
	"database/sql"
	"fmt"

	"github.com/logecui/pantry/internal/model"
)

// RecipeStore mirrors the remote `recettes` set. PhotoLocalPath is the one
// field that exists only here: the remote store knows the public photo URL,
// the cache additionally remembers where the downloaded copy lives on disk.
type RecipeStore struct {
	db *sql.DB
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

const recipeCols = `id, external_id, owner_id, name, category, prep_minutes, rating, is_favorite, instructions, photo_url, photo_local_path, created_at`

func scanRecipe(scanner interface{ Scan(...any) error }) (*model.Recipe, error) {
	var r model.Recipe
	var favorite int
	var category string
	err := scanner.Scan(
		&r.ID, &r.ExternalID, &r.OwnerID, &r.Name, &category, &r.PrepMinutes,
		&r.Rating, &favorite, &r.Instructions, &r.PhotoURL, &r.PhotoLocalPath, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Category = model.ParseCategory(category)
	r.IsFavorite = favorite != 0
	return &r, nil
}

// GetAll returns the cached snapshot, newest first.
func (s *RecipeStore) GetAll() ([]model.Recipe, error) {
	rows, err := s.db.Query(`SELECT ` + recipeCols + ` FROM recipes ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list cached recipes: %w", err)
	}
	defer rows.Close()

	var items []model.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}

// GetByExternalID returns the cached recipe with the given external id, or
// nil when absent.
func (s *RecipeStore) GetByExternalID(externalID string) (*model.Recipe, error) {
	row := s.db.QueryRow(`SELECT `+recipeCols+` FROM recipes WHERE external_id = ?`, externalID)
	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe by external id: %w", err)
	}
	return r, nil
}

// ReplaceAll atomically swaps the snapshot for items. Local photo paths of
// recipes surviving the swap are preserved from the previous snapshot, since
// the remote result never carries them.
func (s *RecipeStore) ReplaceAll(items []model.Recipe) error {
	previous, err := s.localPhotoPaths()
	if err != nil {
		return err
	}

	return replaceAll(s.db, "recipes", items, func(tx *sql.Tx, r model.Recipe) error {
		local := r.PhotoLocalPath
		if local == "" {
			local = previous[r.ID]
		}
		_, err := tx.Exec(
			`INSERT INTO recipes (`+recipeCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.ExternalID, r.OwnerID, r.Name, string(r.Category), r.PrepMinutes,
			r.Rating, boolInt(r.IsFavorite), r.Instructions, r.PhotoURL, local, r.CreatedAt,
		)
		return err
	})
}

func (s *RecipeStore) localPhotoPaths() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT id, photo_local_path FROM recipes WHERE photo_local_path != ''`)
	if err != nil {
		return nil, fmt.Errorf("read photo paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]string)
	for rows.Next() {
		var id, path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, fmt.Errorf("scan photo path: %w", err)
		}
		paths[id] = path
	}
	return paths, rows.Err()
}
