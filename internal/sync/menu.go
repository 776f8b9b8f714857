package sync

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/logecui/pantry/internal/model"
)

// MenuOptions selects which courses a generated menu should cover.
type MenuOptions struct {
	Categories []model.Category
}

// MenuEntry is one picked recipe with its availability verdict.
type MenuEntry struct {
	Recipe   model.Recipe
	Analysis Analysis
}

// Menu is a generated meal plan. Missing is only meaningful when
// CanSendMissing is true; an indeterminate plan (some recipe without
// ingredient data) never exposes a sendable list.
type Menu struct {
	Entries        []MenuEntry
	Missing        []string
	CanSendMissing bool
}

// GenerateMenu picks one random recipe per requested category, analyzes
// each against the current inventory, and aggregates what is missing.
// Categories with no recipes are skipped.
func (e *Engine) GenerateMenu(ctx context.Context, opts MenuOptions) (*Menu, error) {
	categories := opts.Categories
	if len(categories) == 0 {
		categories = []model.Category{model.CategoryStarter, model.CategoryMain, model.CategoryDessert}
	}

	recipes, _, err := e.LoadRecipes(ctx)
	if err != nil {
		return nil, err
	}
	ings, _, err := e.LoadIngredients(ctx)
	if err != nil {
		return nil, err
	}
	avail := AvailableNames(ings)

	menu := &Menu{}
	var analyses []Analysis
	for _, cat := range categories {
		var pool []model.Recipe
		for _, r := range recipes {
			if r.Category == cat {
				pool = append(pool, r)
			}
		}
		if len(pool) == 0 {
			continue
		}
		picked := pool[rand.IntN(len(pool))]

		analysis := Analysis{Status: StatusUnknown}
		if e.refreshable(ctx) {
			lines, err := e.cfg.Lines.ForRecipe(ctx, picked.ID)
			switch {
			case err == nil:
				analysis = Analyze(lines, avail)
			case fallbackOnTransient(err):
				e.cfg.Logger.Warn("recipe lines unavailable", "recipe", picked.ID, "error", err)
			default:
				return nil, fmt.Errorf("load lines for %s: %w", picked.ID, err)
			}
		}

		menu.Entries = append(menu.Entries, MenuEntry{Recipe: picked, Analysis: analysis})
		analyses = append(analyses, analysis)
	}

	missing, ok := Aggregate(analyses)
	menu.Missing = missing
	menu.CanSendMissing = ok && len(missing) > 0
	return menu, nil
}

// SendMissing pushes a menu's missing ingredients onto the shopping list
// addressed by ref, returning how many were actually added.
func (e *Engine) SendMissing(ctx context.Context, ref model.ListRef, menu *Menu) (int, error) {
	if menu == nil || !menu.CanSendMissing {
		return 0, fmt.Errorf("menu has no sendable missing list")
	}
	return e.cfg.Shopping.AddMissing(ctx, ref, menu.Missing)
}
