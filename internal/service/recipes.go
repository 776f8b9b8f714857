package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/remote"
)

const (
	recipesTable  = "recettes"
	recipeColumns = "select=id,created_at,owner_user_id,external_id,nom,categorie,temps_minutes,note,is_favorite,instructions,photo_url"
)

// Recipes wraps the remote `recettes` table. Creation goes through Upsert so
// a retried save with the same external id can never produce a duplicate
// row.
type Recipes struct {
	client *remote.Client
}

func NewRecipes(client *remote.Client) *Recipes {
	return &Recipes{client: client}
}

// List returns all of the user's recipes, newest first.
func (s *Recipes) List(ctx context.Context, userID string) ([]model.Recipe, error) {
	return s.ListByCategory(ctx, userID, "")
}

// ListByCategory returns the user's recipes, optionally filtered to one
// category; an empty category means all.
func (s *Recipes) ListByCategory(ctx context.Context, userID string, category model.Category) ([]model.Recipe, error) {
	q := recipesTable + "?" + recipeColumns +
		"&owner_user_id=eq." + userID +
		"&order=created_at.desc"
	if category != "" {
		q += "&categorie=eq." + url.QueryEscape(string(category))
	}

	var items []model.Recipe
	if err := s.client.Get(ctx, q, &items); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return items, nil
}

type recipePayload struct {
	OwnerID      string  `json:"owner_user_id"`
	ExternalID   string  `json:"external_id"`
	Name         string  `json:"nom"`
	Category     string  `json:"categorie"`
	PrepMinutes  int     `json:"temps_minutes"`
	Rating       int     `json:"note"`
	IsFavorite   bool    `json:"is_favorite"`
	Instructions string  `json:"instructions"`
	PhotoURL     *string `json:"photo_url,omitempty"`
}

func toPayload(userID string, r model.Recipe) recipePayload {
	rating := r.Rating
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	return recipePayload{
		OwnerID:      userID,
		ExternalID:   r.ExternalID,
		Name:         strings.TrimSpace(r.Name),
		Category:     string(r.Category),
		PrepMinutes:  r.PrepMinutes,
		Rating:       rating,
		IsFavorite:   r.IsFavorite,
		Instructions: r.Instructions,
		PhotoURL:     nullIfBlank(r.PhotoURL),
	}
}

// Upsert inserts or updates the recipe keyed on its external id. The
// external id is the conflict column and must be set; the server enforces a
// uniqueness constraint on it, so calling twice with the same id leaves one
// row carrying the latest fields.
func (s *Recipes) Upsert(ctx context.Context, userID string, r model.Recipe) error {
	if strings.TrimSpace(r.Name) == "" {
		return ValidationError("recipe name is required")
	}
	if strings.TrimSpace(r.ExternalID) == "" {
		return ValidationError("recipe external id is required for upsert")
	}

	payload := []recipePayload{toPayload(userID, r)}
	err := s.client.Post(ctx, recipesTable+"?on_conflict=external_id", payload,
		remote.PostOptions{MergeDuplicates: true}, nil)
	if err != nil {
		return fmt.Errorf("upsert recipe: %w", err)
	}
	return nil
}

// IDByExternalID resolves the server-assigned row id for a client-generated
// external id. Empty when no row matches.
func (s *Recipes) IDByExternalID(ctx context.Context, userID, externalID string) (string, error) {
	if strings.TrimSpace(externalID) == "" {
		return "", ValidationError("external id is required")
	}

	q := recipesTable + "?select=id" +
		"&owner_user_id=eq." + userID +
		"&external_id=eq." + url.QueryEscape(externalID) +
		"&limit=1"

	var rows []struct {
		ID string `json:"id"`
	}
	if err := s.client.Get(ctx, q, &rows); err != nil {
		return "", fmt.Errorf("resolve recipe id: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].ID, nil
}

// SetFavorite flips the favorite flag of one recipe.
func (s *Recipes) SetFavorite(ctx context.Context, id string, favorite bool) error {
	payload := struct {
		IsFavorite bool `json:"is_favorite"`
	}{IsFavorite: favorite}

	if err := s.client.Patch(ctx, recipesTable+"?id=eq."+id, payload); err != nil {
		return fmt.Errorf("set recipe favorite: %w", err)
	}
	return nil
}

// SetPhotoURL records the public URL of an uploaded recipe photo. Always a
// plain update by row id, never an upsert.
func (s *Recipes) SetPhotoURL(ctx context.Context, id, photoURL string) error {
	payload := struct {
		PhotoURL string `json:"photo_url"`
	}{PhotoURL: photoURL}

	if err := s.client.Patch(ctx, recipesTable+"?id=eq."+id, payload); err != nil {
		return fmt.Errorf("set recipe photo url: %w", err)
	}
	return nil
}

// Delete removes one recipe. Its ingredient lines are removed by the
// server's cascade.
func (s *Recipes) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ValidationError("recipe id is required")
	}
	if err := s.client.Delete(ctx, recipesTable+"?id=eq."+id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}
