package sync

import (
	"context"
	"fmt"

	"github.com/logecui/pantry/internal/model"
)

// Gate blocks re-entry while a toggle is in flight, typically a disabled
// control in a UI. The engine re-enables it on every path.
type Gate interface {
	Disable()
	Enable()
}

// NopGate is a Gate for callers with nothing to block.
type NopGate struct{}

func (NopGate) Disable() {}
func (NopGate) Enable()  {}

// ToggleArticlePurchased flips the purchased flag optimistically: the
// in-memory value changes first, the remote PATCH follows, and a failed
// PATCH rolls the value back.
func (e *Engine) ToggleArticlePurchased(ctx context.Context, gate Gate, a *model.Article, purchased bool) error {
	gate.Disable()
	defer gate.Enable()

	prev := a.IsPurchased
	a.IsPurchased = purchased
	if err := e.cfg.Shopping.SetPurchased(ctx, a.ID, purchased); err != nil {
		a.IsPurchased = prev
		return fmt.Errorf("set purchased: %w", err)
	}
	return nil
}

// ToggleIngredientAvailable is the same optimistic protocol for the
// inventory's available flag.
func (e *Engine) ToggleIngredientAvailable(ctx context.Context, gate Gate, ing *model.Ingredient, available bool) error {
	gate.Disable()
	defer gate.Enable()

	prev := ing.IsAvailable
	ing.IsAvailable = available
	if err := e.cfg.Ingredients.SetAvailable(ctx, ing.ID, available); err != nil {
		ing.IsAvailable = prev
		return fmt.Errorf("set available: %w", err)
	}
	return nil
}
