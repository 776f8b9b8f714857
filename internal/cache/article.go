package cache

import (
	"database/sql"
	"fmt"

	"github.com/logecui/pantry/internal/model"
)

// ArticleStore mirrors the remote `articles_courses` set for whichever list
// (personal or shared) was last synced.
type ArticleStore struct {
	db *sql.DB
}

func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

const articleCols = `id, list_id, user_id, name, quantity, unit, is_purchased, created_at`

func scanArticle(scanner interface{ Scan(...any) error }) (*model.Article, error) {
	var a model.Article
	var purchased int
	err := scanner.Scan(&a.ID, &a.ListID, &a.UserID, &a.Name, &a.Quantity, &a.Unit, &purchased, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.IsPurchased = purchased != 0
	return &a, nil
}

// GetAll returns the cached snapshot with unpurchased items first, the order
// the shopping view wants.
func (s *ArticleStore) GetAll() ([]model.Article, error) {
	rows, err := s.db.Query(`SELECT ` + articleCols + ` FROM articles ORDER BY is_purchased ASC, created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list cached articles: %w", err)
	}
	defer rows.Close()

	var items []model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// ReplaceAll atomically swaps the snapshot for items.
func (s *ArticleStore) ReplaceAll(items []model.Article) error {
	return replaceAll(s.db, "articles", items, func(tx *sql.Tx, a model.Article) error {
		_, err := tx.Exec(
			`INSERT INTO articles (`+articleCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.ListID, a.UserID, a.Name, a.Quantity, a.Unit, boolInt(a.IsPurchased), a.CreatedAt,
		)
		return err
	})
}
