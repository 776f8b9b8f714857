// Package sync implements the cache-then-network load protocol: every read
// first serves the local sqlite snapshot, then refreshes it wholesale from
// the remote store when the backend is reachable and a session is live.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	gosync "sync"

	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/remote"
	"github.com/logecui/pantry/internal/service"
)

// Origin says which snapshot a load returned.
type Origin int

const (
	OriginCache Origin = iota
	OriginRemote
)

func (o Origin) String() string {
	if o == OriginRemote {
		return "remote"
	}
	return "cache"
}

// Entity names the data set a load or change event refers to.
type Entity string

const (
	EntityIngredients Entity = "ingredients"
	EntityArticles    Entity = "articles"
	EntityRecipes     Entity = "recipes"
)

// Event is published to subscribers after every completed load.
type Event struct {
	Entity Entity
	Origin Origin
	Count  int
}

// Store is the slice of the local cache a load needs: the whole snapshot in,
// the whole snapshot out.
type Store[T any] interface {
	GetAll() ([]T, error)
	ReplaceAll(items []T) error
}

// The remote surfaces the engine drives, satisfied by the service package.
type (
	IngredientAPI interface {
		List(ctx context.Context, userID string) ([]model.Ingredient, error)
		Create(ctx context.Context, userID string, ing model.Ingredient) (*model.Ingredient, error)
		SetAvailable(ctx context.Context, id string, available bool) error
	}
	RecipeAPI interface {
		List(ctx context.Context, userID string) ([]model.Recipe, error)
	}
	LineAPI interface {
		ForRecipe(ctx context.Context, recipeID string) ([]model.RecipeIngredient, error)
	}
	ShoppingAPI interface {
		List(ctx context.Context, ref model.ListRef) ([]model.Article, error)
		SetPurchased(ctx context.Context, id int64, purchased bool) error
		AddMissing(ctx context.Context, ref model.ListRef, names []string) (int, error)
	}
)

// Config carries the engine's collaborators. Cache stores and remote
// services are required; Reachable defaults to AlwaysReachable and Logger
// to slog.Default().
type Config struct {
	IngredientCache Store[model.Ingredient]
	ArticleCache    Store[model.Article]
	RecipeCache     Store[model.Recipe]

	Ingredients IngredientAPI
	Recipes     RecipeAPI
	Lines       LineAPI
	Shopping    ShoppingAPI

	Session   *remote.Session
	Reachable remote.Reachability
	Logger    *slog.Logger
}

// Engine coordinates the local cache and the remote store.
type Engine struct {
	cfg Config

	mu   gosync.Mutex
	subs []func(Event)
}

func New(cfg Config) *Engine {
	if cfg.Reachable == nil {
		cfg.Reachable = remote.AlwaysReachable
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{cfg: cfg}
}

// Subscribe registers fn to run after every completed load. Callbacks run
// on the loading goroutine and must not block.
func (e *Engine) Subscribe(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

func (e *Engine) publish(ev Event) {
	e.mu.Lock()
	subs := make([]func(Event), len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// CacheWriteError reports that a refresh fetched a remote snapshot but
// could not persist it. The returned items are still the remote snapshot;
// only the cache is stale.
type CacheWriteError struct {
	Entity Entity
	Err    error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("cache write for %s failed: %v", e.Entity, e.Err)
}

func (e *CacheWriteError) Unwrap() error { return e.Err }

// fallbackOnTransient is the refresh recovery policy: an expired session or
// an unreachable backend falls back to the cached snapshot, every other
// failure reaches the caller.
func fallbackOnTransient(err error) bool {
	return remote.IsTransient(err)
}

// LoadIngredients returns the inventory, cache first then remote.
func (e *Engine) LoadIngredients(ctx context.Context) ([]model.Ingredient, Origin, error) {
	return load(ctx, e, EntityIngredients, e.cfg.IngredientCache, func(ctx context.Context) ([]model.Ingredient, error) {
		return e.cfg.Ingredients.List(ctx, e.cfg.Session.UserID())
	})
}

// LoadArticles returns the shopping list addressed by ref.
func (e *Engine) LoadArticles(ctx context.Context, ref model.ListRef) ([]model.Article, Origin, error) {
	return load(ctx, e, EntityArticles, e.cfg.ArticleCache, func(ctx context.Context) ([]model.Article, error) {
		return e.cfg.Shopping.List(ctx, ref)
	})
}

// LoadRecipes returns the recipe book.
func (e *Engine) LoadRecipes(ctx context.Context) ([]model.Recipe, Origin, error) {
	return load(ctx, e, EntityRecipes, e.cfg.RecipeCache, func(ctx context.Context) ([]model.Recipe, error) {
		return e.cfg.Recipes.List(ctx, e.cfg.Session.UserID())
	})
}

// load is the two-phase protocol shared by every entity. Phase 1 reads the
// cache and never fails the caller. Phase 2 runs only when the probe passes
// and a session is live; its result replaces both the returned slice and
// the cached snapshot in full.
func load[T any](ctx context.Context, e *Engine, entity Entity, store Store[T], fetch func(context.Context) ([]T, error)) ([]T, Origin, error) {
	cached, err := store.GetAll()
	if err != nil {
		e.cfg.Logger.Warn("cache read failed", "entity", entity, "error", err)
		cached = nil
	}

	if !e.refreshable(ctx) {
		e.publish(Event{Entity: entity, Origin: OriginCache, Count: len(cached)})
		return cached, OriginCache, nil
	}

	items, err := fetch(ctx)
	if err != nil {
		if fallbackOnTransient(err) {
			e.cfg.Logger.Warn("refresh failed, serving cache", "entity", entity, "error", err)
			e.publish(Event{Entity: entity, Origin: OriginCache, Count: len(cached)})
			return cached, OriginCache, nil
		}
		return nil, OriginCache, fmt.Errorf("refresh %s: %w", entity, err)
	}

	var loadErr error
	if err := store.ReplaceAll(items); err != nil {
		loadErr = &CacheWriteError{Entity: entity, Err: err}
	}
	e.publish(Event{Entity: entity, Origin: OriginRemote, Count: len(items)})
	return items, OriginRemote, loadErr
}

func (e *Engine) refreshable(ctx context.Context) bool {
	return e.cfg.Session.Valid() && e.cfg.Reachable(ctx)
}

// CreateIngredient adds an inventory item remotely after checking the
// cached snapshot for a duplicate name. The cache check covers rows created
// offline on this device that the backend has not seen yet.
func (e *Engine) CreateIngredient(ctx context.Context, ing model.Ingredient) (*model.Ingredient, error) {
	cached, err := e.cfg.IngredientCache.GetAll()
	if err != nil {
		e.cfg.Logger.Warn("cache read failed", "entity", EntityIngredients, "error", err)
	}
	want := strings.ToLower(strings.TrimSpace(ing.Name))
	for _, existing := range cached {
		if strings.ToLower(strings.TrimSpace(existing.Name)) == want {
			return nil, service.ValidationError("ingredient already exists: " + existing.Name)
		}
	}
	return e.cfg.Ingredients.Create(ctx, e.cfg.Session.UserID(), ing)
}

// Watcher delivers remote row-change notifications, satisfied by
// remote.Realtime.
type Watcher interface {
	Listen(ctx context.Context, onChange remote.ChangeFunc) error
}

// WatchRemote reloads the affected entity whenever the backend reports a
// row change. Articles reload against ref. Blocks until ctx is cancelled
// or the connection drops; reconnecting is the caller's call.
func (e *Engine) WatchRemote(ctx context.Context, w Watcher, ref model.ListRef) error {
	return w.Listen(ctx, func(table string) {
		var err error
		switch table {
		case "ingredients":
			_, _, err = e.LoadIngredients(ctx)
		case "articles_courses":
			_, _, err = e.LoadArticles(ctx, ref)
		case "recettes":
			_, _, err = e.LoadRecipes(ctx)
		default:
			return
		}
		if err != nil {
			e.cfg.Logger.Error("reload after remote change failed", "table", table, "error", err)
		}
	})
}
