// Package command implements the pantry CLI commands.
package command

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/logecui/pantry/internal/cache"
	"github.com/logecui/pantry/internal/config"
	"github.com/logecui/pantry/internal/logging"
	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/remote"
	"github.com/logecui/pantry/internal/service"
	"github.com/logecui/pantry/internal/sync"
)

// App carries everything a command needs, built once per invocation.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DB      *sql.DB
	Client  *remote.Client
	Auth    *remote.Auth
	Session *remote.Session

	Ingredients *service.Ingredients
	Recipes     *service.Recipes
	Lines       *service.RecipeLines
	Shopping    *service.Shopping
	Lists       *service.Lists

	IngredientCache *cache.IngredientStore
	ArticleCache    *cache.ArticleStore
	RecipeCache     *cache.RecipeStore

	Engine *sync.Engine
}

func newApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := logging.Setup(cfg.LogLevel)

	db, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Client:  remote.NewClient(cfg.BaseURL, cfg.AnonKey),
		Auth:    remote.NewAuth(cfg.BaseURL, cfg.AnonKey),
		Session: remote.NewSession("", ""),

		IngredientCache: cache.NewIngredientStore(db),
		ArticleCache:    cache.NewArticleStore(db),
		RecipeCache:     cache.NewRecipeStore(db),
	}
	if err := app.loadSession(); err != nil {
		logger.Warn("stored session unreadable", "error", err)
	}
	app.Client.Bind(app.Session)

	app.Ingredients = service.NewIngredients(app.Client)
	app.Recipes = service.NewRecipes(app.Client)
	app.Lines = service.NewRecipeLines(app.Client)
	app.Shopping = service.NewShopping(app.Client)
	app.Lists = service.NewLists(app.Client)

	app.Engine = sync.New(sync.Config{
		IngredientCache: app.IngredientCache,
		ArticleCache:    app.ArticleCache,
		RecipeCache:     app.RecipeCache,
		Ingredients:     app.Ingredients,
		Recipes:         app.Recipes,
		Lines:           app.Lines,
		Shopping:        app.Shopping,
		Session:         app.Session,
		Reachable:       remote.DialProbe(cfg.BaseURL),
		Logger:          logger,
	})
	return app, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}

// NewRealtime builds the change listener for every synced table.
func (a *App) NewRealtime() *remote.Realtime {
	tables := []string{"ingredients", "articles_courses", "recettes"}
	return remote.NewRealtime(a.Config.BaseURL, a.Config.AnonKey, tables, a.Logger)
}

// ListRef resolves the shopping list the current user works against: the
// first shared list they are a member of, else their personal list
// (created on first use). Falls back to the personal ref offline.
func (a *App) ListRef(ctx context.Context) model.ListRef {
	if !a.Session.Valid() {
		return model.PersonalList(a.Session.UserID())
	}
	if listID, err := a.Lists.FirstForUser(ctx, a.Session.UserID()); err == nil && listID != "" {
		return model.SharedList(listID)
	}
	return model.PersonalList(a.Session.UserID())
}

type storedSession struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
}

func (a *App) sessionPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

func (a *App) loadSession() error {
	path, err := a.sessionPath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var s storedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s.AccessToken != "" && s.UserID != "" {
		a.Session.Set(s.AccessToken, s.UserID)
	}
	return nil
}

// SaveSession persists the live session for non-interactive reuse (0600).
func (a *App) SaveSession() error {
	path, err := a.sessionPath()
	if err != nil {
		return err
	}
	data, err := json.Marshal(storedSession{
		AccessToken: a.Session.Token(),
		UserID:      a.Session.UserID(),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ClearSession removes the stored credentials.
func (a *App) ClearSession() error {
	path, err := a.sessionPath()
	if err != nil {
		return err
	}
	a.Session.Clear()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
