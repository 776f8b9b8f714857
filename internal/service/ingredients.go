package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/remote"
)

const (
	ingredientsTable  = "ingredients"
	ingredientColumns = "select=id,user_id,nom,quantite,unite,est_disponible,is_favorite,created_at"
)

// Ingredients wraps the remote `ingredients` table.
type Ingredients struct {
	client *remote.Client
}

func NewIngredients(client *remote.Client) *Ingredients {
	return &Ingredients{client: client}
}

// List returns the user's full ingredient inventory, newest first.
func (s *Ingredients) List(ctx context.Context, userID string) ([]model.Ingredient, error) {
	q := ingredientsTable + "?" + ingredientColumns +
		"&user_id=eq." + userID +
		"&order=created_at.desc"

	var items []model.Ingredient
	if err := s.client.Get(ctx, q, &items); err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return items, nil
}

// Create inserts a new ingredient and returns the server-assigned row.
func (s *Ingredients) Create(ctx context.Context, userID string, ing model.Ingredient) (*model.Ingredient, error) {
	if strings.TrimSpace(ing.Name) == "" {
		return nil, ValidationError("ingredient name is required")
	}

	payload := struct {
		UserID      string  `json:"user_id"`
		Name        string  `json:"nom"`
		Quantity    *string `json:"quantite"`
		Unit        *string `json:"unite"`
		IsAvailable bool    `json:"est_disponible"`
	}{
		UserID:      userID,
		Name:        strings.TrimSpace(ing.Name),
		Quantity:    nullIfBlank(ing.Quantity),
		Unit:        nullIfBlank(ing.Unit),
		IsAvailable: ing.IsAvailable,
	}

	var created []model.Ingredient
	err := s.client.Post(ctx, ingredientsTable+"?"+ingredientColumns, payload,
		remote.PostOptions{ReturnRepresentation: true}, &created)
	if err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create ingredient: empty representation")
	}
	return &created[0], nil
}

// SetAvailable flips the availability flag of one ingredient.
func (s *Ingredients) SetAvailable(ctx context.Context, id string, available bool) error {
	payload := struct {
		IsAvailable bool `json:"est_disponible"`
	}{IsAvailable: available}

	if err := s.client.Patch(ctx, ingredientsTable+"?id=eq."+id, payload); err != nil {
		return fmt.Errorf("set ingredient availability: %w", err)
	}
	return nil
}

// SetFavorite flips the favorite flag of one ingredient.
func (s *Ingredients) SetFavorite(ctx context.Context, id string, favorite bool) error {
	payload := struct {
		IsFavorite bool `json:"is_favorite"`
	}{IsFavorite: favorite}

	if err := s.client.Patch(ctx, ingredientsTable+"?id=eq."+id, payload); err != nil {
		return fmt.Errorf("set ingredient favorite: %w", err)
	}
	return nil
}

// Delete removes one ingredient.
func (s *Ingredients) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ValidationError("ingredient id is required")
	}
	if err := s.client.Delete(ctx, ingredientsTable+"?id=eq."+id); err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return nil
}
