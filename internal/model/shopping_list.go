package model

import "time"

// ShoppingList is a row in `shopping_lists`. Shared lists are joined by
// share code; membership lives in `shopping_list_members`.
type ShoppingList struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_user_id"`
	Name      string    `json:"name"`
	ShareCode string    `json:"share_code"`
	CreatedAt time.Time `json:"created_at"`
}

// ListRef addresses a shopping list: either the owning user's personal list
// or a shared list by id. Exactly one addressing mode is set; every article
// query derives its filter from the ref so the two modes are never mixed.
type ListRef struct {
	userID string
	listID string
}

// PersonalList addresses the user's own articles.
func PersonalList(userID string) ListRef {
	return ListRef{userID: userID}
}

// SharedList addresses a shared list by its id.
func SharedList(listID string) ListRef {
	return ListRef{listID: listID}
}

// Shared reports whether the ref addresses a shared list.
func (r ListRef) Shared() bool { return r.listID != "" }

func (r ListRef) UserID() string { return r.userID }

func (r ListRef) ListID() string { return r.listID }

// IsZero reports whether the ref addresses nothing.
func (r ListRef) IsZero() bool { return r.userID == "" && r.listID == "" }
