package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/remote"
)

const (
	articlesTable  = "articles_courses"
	articleColumns = "select=id,list_id,user_id,nom,quantite,unite,est_achete,created_at"
)

// Shopping wraps the remote `articles_courses` table. Every query is
// addressed through a ListRef, so personal (by user) and shared (by list)
// filters can never be mixed in one call.
type Shopping struct {
	client *remote.Client
}

func NewShopping(client *remote.Client) *Shopping {
	return &Shopping{client: client}
}

func refFilter(ref model.ListRef) (string, error) {
	if ref.IsZero() {
		return "", ValidationError("list ref is required")
	}
	if ref.Shared() {
		return "list_id=eq." + ref.ListID(), nil
	}
	return "user_id=eq." + ref.UserID(), nil
}

// List returns the articles of the addressed list, unpurchased first.
func (s *Shopping) List(ctx context.Context, ref model.ListRef) ([]model.Article, error) {
	filter, err := refFilter(ref)
	if err != nil {
		return nil, err
	}
	q := articlesTable + "?" + articleColumns +
		"&" + filter +
		"&order=est_achete.asc,created_at.asc"

	var items []model.Article
	if err := s.client.Get(ctx, q, &items); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return items, nil
}

// Add inserts one article into the addressed list and returns the
// server-assigned row.
func (s *Shopping) Add(ctx context.Context, ref model.ListRef, a model.Article) (*model.Article, error) {
	if strings.TrimSpace(a.Name) == "" {
		return nil, ValidationError("article name is required")
	}
	if ref.IsZero() {
		return nil, ValidationError("list ref is required")
	}

	payload := articlePayload(ref, a)
	var created []model.Article
	err := s.client.Post(ctx, articlesTable+"?"+articleColumns, payload,
		remote.PostOptions{ReturnRepresentation: true}, &created)
	if err != nil {
		return nil, fmt.Errorf("add article: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("add article: empty representation")
	}
	return &created[0], nil
}

// Update overwrites the editable fields of one article.
func (s *Shopping) Update(ctx context.Context, id int64, a model.Article) error {
	if strings.TrimSpace(a.Name) == "" {
		return ValidationError("article name is required")
	}
	payload := struct {
		Name        string  `json:"nom"`
		Quantity    *string `json:"quantite"`
		Unit        *string `json:"unite"`
		IsPurchased bool    `json:"est_achete"`
	}{
		Name:        strings.TrimSpace(a.Name),
		Quantity:    nullIfBlank(a.Quantity),
		Unit:        nullIfBlank(a.Unit),
		IsPurchased: a.IsPurchased,
	}

	if err := s.client.Patch(ctx, articlesTable+"?id=eq."+strconv.FormatInt(id, 10), payload); err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// SetPurchased flips the purchased flag of one article.
func (s *Shopping) SetPurchased(ctx context.Context, id int64, purchased bool) error {
	payload := struct {
		IsPurchased bool `json:"est_achete"`
	}{IsPurchased: purchased}

	if err := s.client.Patch(ctx, articlesTable+"?id=eq."+strconv.FormatInt(id, 10), payload); err != nil {
		return fmt.Errorf("set article purchased: %w", err)
	}
	return nil
}

// Delete removes one article.
func (s *Shopping) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, articlesTable+"?id=eq."+strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// DeletePurchased clears every purchased article of the addressed list.
func (s *Shopping) DeletePurchased(ctx context.Context, ref model.ListRef) error {
	filter, err := refFilter(ref)
	if err != nil {
		return err
	}
	if err := s.client.Delete(ctx, articlesTable+"?"+filter+"&est_achete=eq.true"); err != nil {
		return fmt.Errorf("delete purchased articles: %w", err)
	}
	return nil
}

// AddMissing batch-inserts the given ingredient names into the addressed
// list, skipping any that already exist unpurchased. Existence is a raw
// trimmed case-insensitive name match, looser on purpose than the
// normalized comparison the availability diff uses. It returns the number
// of articles actually inserted.
func (s *Shopping) AddMissing(ctx context.Context, ref model.ListRef, names []string) (int, error) {
	filter, err := refFilter(ref)
	if err != nil {
		return 0, err
	}

	wanted := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		wanted = append(wanted, n)
	}
	if len(wanted) == 0 {
		return 0, nil
	}

	var existingRows []struct {
		Name string `json:"nom"`
	}
	q := articlesTable + "?select=nom&" + filter + "&est_achete=eq.false"
	if err := s.client.Get(ctx, q, &existingRows); err != nil {
		return 0, fmt.Errorf("read existing articles: %w", err)
	}

	existing := make(map[string]struct{}, len(existingRows))
	for _, row := range existingRows {
		existing[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}

	type insertRow struct {
		ListID      *string `json:"list_id,omitempty"`
		UserID      *string `json:"user_id,omitempty"`
		Name        string  `json:"nom"`
		Quantity    *string `json:"quantite"`
		Unit        *string `json:"unite"`
		IsPurchased bool    `json:"est_achete"`
	}

	var payload []insertRow
	for _, n := range wanted {
		if _, ok := existing[strings.ToLower(n)]; ok {
			continue
		}
		row := insertRow{Name: n}
		if ref.Shared() {
			listID := ref.ListID()
			row.ListID = &listID
		} else {
			userID := ref.UserID()
			row.UserID = &userID
		}
		payload = append(payload, row)
	}
	if len(payload) == 0 {
		return 0, nil
	}

	if err := s.client.Post(ctx, articlesTable, payload, remote.PostOptions{}, nil); err != nil {
		return 0, fmt.Errorf("insert missing articles: %w", err)
	}
	return len(payload), nil
}

func articlePayload(ref model.ListRef, a model.Article) any {
	type row struct {
		ListID      *string `json:"list_id,omitempty"`
		UserID      *string `json:"user_id,omitempty"`
		Name        string  `json:"nom"`
		Quantity    *string `json:"quantite"`
		Unit        *string `json:"unite"`
		IsPurchased bool    `json:"est_achete"`
	}
	r := row{
		Name:        strings.TrimSpace(a.Name),
		Quantity:    nullIfBlank(a.Quantity),
		Unit:        nullIfBlank(a.Unit),
		IsPurchased: a.IsPurchased,
	}
	if ref.Shared() {
		listID := ref.ListID()
		r.ListID = &listID
	} else {
		userID := ref.UserID()
		r.UserID = &userID
	}
	return r
}
