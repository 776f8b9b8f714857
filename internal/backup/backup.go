// Package backup exports the local cache as a single passphrase-encrypted
// file and restores it. The file is a JSON snapshot of every cached entity
// sealed with AES-256-GCM under an Argon2id-derived key.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/logecui/pantry/internal/cache"
	"github.com/logecui/pantry/internal/model"
)

const formatVersion = 1

// Stores bundles the cache stores a backup covers.
type Stores struct {
	Ingredients *cache.IngredientStore
	Articles    *cache.ArticleStore
	Recipes     *cache.RecipeStore
}

type snapshot struct {
	Version     int                `json:"version"`
	ExportedAt  time.Time          `json:"exported_at"`
	Ingredients []model.Ingredient `json:"ingredients"`
	Articles    []model.Article    `json:"articles"`
	Recipes     []model.Recipe     `json:"recipes"`
}

// Export writes an encrypted snapshot of the cache to path (mode 0600).
func Export(path, passphrase string, stores Stores) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase is required")
	}

	snap := snapshot{
		Version:    formatVersion,
		ExportedAt: time.Now().UTC(),
	}

	var err error
	if snap.Ingredients, err = stores.Ingredients.GetAll(); err != nil {
		return fmt.Errorf("read ingredients: %w", err)
	}
	if snap.Articles, err = stores.Articles.GetAll(); err != nil {
		return fmt.Errorf("read articles: %w", err)
	}
	if snap.Recipes, err = stores.Recipes.GetAll(); err != nil {
		return fmt.Errorf("read recipes: %w", err)
	}

	plaintext, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	sealed, err := encrypt(plaintext, passphrase)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, sealed, 0600); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// Import decrypts the snapshot at path and replaces every cached entity
// with its contents. Decryption and decoding happen before any store is
// touched, so a wrong passphrase or a corrupt file leaves the cache intact.
func Import(path, passphrase string, stores Stores) error {
	sealed, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	plaintext, err := decrypt(sealed, passphrase)
	if err != nil {
		return err
	}

	var snap snapshot
	if err := json.Unmarshal(plaintext, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != formatVersion {
		return fmt.Errorf("unsupported backup version %d", snap.Version)
	}

	if err := stores.Ingredients.ReplaceAll(snap.Ingredients); err != nil {
		return fmt.Errorf("restore ingredients: %w", err)
	}
	if err := stores.Articles.ReplaceAll(snap.Articles); err != nil {
		return fmt.Errorf("restore articles: %w", err)
	}
	if err := stores.Recipes.ReplaceAll(snap.Recipes); err != nil {
		return fmt.Errorf("restore recipes: %w", err)
	}
	return nil
}
