package sync

import (
	"context"
	"reflect"
	"testing"

	"github.com/logecui/pantry/internal/model"
)

func TestGenerateMenuOneRecipePerCategory(t *testing.T) {
	f := newFixture(t)
	f.remote.recipes = []model.Recipe{
		{ID: "r1", Name: "Salade", Category: model.CategoryStarter},
		{ID: "r2", Name: "Gratin", Category: model.CategoryMain},
		{ID: "r3", Name: "Tarte", Category: model.CategoryDessert},
	}
	f.remote.ingredients = []model.Ingredient{
		{Name: "Tomates", IsAvailable: true},
		{Name: "Pommes", IsAvailable: true},
	}
	f.remote.lines = map[string][]model.RecipeIngredient{
		"r1": {{Name: "Tomates"}},
		"r2": {{Name: "Pommes de terre"}, {Name: "Lait"}},
		"r3": {{Name: "Pommes"}},
	}

	menu, err := f.engine.GenerateMenu(context.Background(), MenuOptions{})
	if err != nil {
		t.Fatalf("GenerateMenu: %v", err)
	}
	if len(menu.Entries) != 3 {
		t.Fatalf("entries = %d, want one per category", len(menu.Entries))
	}
	if !menu.CanSendMissing {
		t.Fatal("all recipes have line data, missing list must be sendable")
	}
	if !reflect.DeepEqual(menu.Missing, []string{"pommes de terre", "lait"}) {
		t.Errorf("missing = %v, want [pommes de terre lait]", menu.Missing)
	}
}

func TestGenerateMenuSkipsEmptyCategories(t *testing.T) {
	f := newFixture(t)
	f.remote.recipes = []model.Recipe{
		{ID: "r2", Name: "Gratin", Category: model.CategoryMain},
	}
	f.remote.lines = map[string][]model.RecipeIngredient{
		"r2": {{Name: "Lait"}},
	}

	menu, err := f.engine.GenerateMenu(context.Background(), MenuOptions{})
	if err != nil {
		t.Fatalf("GenerateMenu: %v", err)
	}
	if len(menu.Entries) != 1 || menu.Entries[0].Recipe.ID != "r2" {
		t.Errorf("entries = %+v, want only the main course", menu.Entries)
	}
}

func TestGenerateMenuIndeterminateWithoutLineData(t *testing.T) {
	f := newFixture(t)
	f.remote.recipes = []model.Recipe{
		{ID: "r1", Category: model.CategoryStarter},
		{ID: "r2", Category: model.CategoryMain},
	}
	// r2 has no lines at all, so its analysis is unknown.
	f.remote.lines = map[string][]model.RecipeIngredient{
		"r1": {{Name: "Lait"}},
	}

	menu, err := f.engine.GenerateMenu(context.Background(), MenuOptions{})
	if err != nil {
		t.Fatalf("GenerateMenu: %v", err)
	}
	if menu.CanSendMissing {
		t.Error("a recipe without line data must disable the send action")
	}
	if menu.Missing != nil {
		t.Errorf("missing = %v, want none when indeterminate", menu.Missing)
	}

	if _, err := f.engine.SendMissing(context.Background(), model.PersonalList("u1"), menu); err == nil {
		t.Error("SendMissing must refuse an indeterminate menu")
	}
}

func TestSendMissing(t *testing.T) {
	f := newFixture(t)
	menu := &Menu{Missing: []string{"lait", "sel"}, CanSendMissing: true}

	n, err := f.engine.SendMissing(context.Background(), model.PersonalList("u1"), menu)
	if err != nil {
		t.Fatalf("SendMissing: %v", err)
	}
	if n != 2 {
		t.Errorf("added = %d, want 2", n)
	}
	if !reflect.DeepEqual(f.remote.addedNames, []string{"lait", "sel"}) {
		t.Errorf("names sent = %v, want the missing list", f.remote.addedNames)
	}
}
