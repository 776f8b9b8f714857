package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/remote"
)

const linesTable = "recette_ingredients"

// RecipeLines wraps the remote `recette_ingredients` table. Lines are owned
// wholesale by their recipe: every edit replaces the full set, no per-line
// diffing.
type RecipeLines struct {
	client *remote.Client
}

func NewRecipeLines(client *remote.Client) *RecipeLines {
	return &RecipeLines{client: client}
}

// ForRecipe returns the recipe's ingredient lines in insertion order,
// blank names dropped.
func (s *RecipeLines) ForRecipe(ctx context.Context, recipeID string) ([]model.RecipeIngredient, error) {
	q := linesTable + "?select=ingredient_nom,quantite,unite" +
		"&recette_id=eq." + recipeID +
		"&order=created_at.asc"

	var rows []model.RecipeIngredient
	if err := s.client.Get(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("list recipe lines: %w", err)
	}

	lines := rows[:0]
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		row.RecipeID = recipeID
		row.Name = name
		lines = append(lines, row)
	}
	return lines, nil
}

// Replace swaps the recipe's full line set: delete everything, then batch
// insert. Lines with blank names are skipped.
func (s *RecipeLines) Replace(ctx context.Context, recipeID string, lines []model.RecipeIngredient) error {
	if recipeID == "" {
		return ValidationError("recipe id is required")
	}

	if err := s.client.Delete(ctx, linesTable+"?recette_id=eq."+recipeID); err != nil {
		return fmt.Errorf("clear recipe lines: %w", err)
	}

	type linePayload struct {
		RecipeID string  `json:"recette_id"`
		Name     string  `json:"ingredient_nom"`
		Quantity *string `json:"quantite"`
		Unit     *string `json:"unite"`
	}

	payload := make([]linePayload, 0, len(lines))
	for _, line := range lines {
		name := strings.TrimSpace(line.Name)
		if name == "" {
			continue
		}
		payload = append(payload, linePayload{
			RecipeID: recipeID,
			Name:     name,
			Quantity: nullIfBlank(line.Quantity),
			Unit:     nullIfBlank(line.Unit),
		})
	}
	if len(payload) == 0 {
		return nil
	}

	if err := s.client.Post(ctx, linesTable, payload, remote.PostOptions{}, nil); err != nil {
		return fmt.Errorf("insert recipe lines: %w", err)
	}
	return nil
}
