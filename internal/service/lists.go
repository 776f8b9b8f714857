package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/remote"
)

const (
	listsTable   = "shopping_lists"
	membersTable = "shopping_list_members"
	listColumns  = "select=id,owner_user_id,name,share_code,created_at"
)

// Lists wraps the remote `shopping_lists` table and the join-by-code
// procedure.
type Lists struct {
	client *remote.Client
}

func NewLists(client *remote.Client) *Lists {
	return &Lists{client: client}
}

// EnsurePersonal returns the id of the user's own list, creating one when
// none exists yet. The share code is generated server-side.
func (s *Lists) EnsurePersonal(ctx context.Context, userID string) (string, error) {
	q := listsTable + "?" + listColumns +
		"&owner_user_id=eq." + userID +
		"&order=created_at.asc&limit=1"

	var existing []model.ShoppingList
	if err := s.client.Get(ctx, q, &existing); err != nil {
		return "", fmt.Errorf("find personal list: %w", err)
	}
	if len(existing) > 0 {
		return existing[0].ID, nil
	}

	payload := []struct {
		OwnerID string `json:"owner_user_id"`
		Name    string `json:"name"`
	}{{OwnerID: userID, Name: "Ma liste"}}

	var created []model.ShoppingList
	err := s.client.Post(ctx, listsTable+"?"+listColumns, payload,
		remote.PostOptions{ReturnRepresentation: true}, &created)
	if err != nil {
		return "", fmt.Errorf("create personal list: %w", err)
	}
	if len(created) == 0 {
		return "", fmt.Errorf("create personal list: empty representation")
	}
	return created[0].ID, nil
}

// FirstForUser returns the first shared list the user is a member of, empty
// when there is none.
func (s *Lists) FirstForUser(ctx context.Context, userID string) (string, error) {
	q := membersTable + "?select=list_id&user_id=eq." + userID + "&limit=1"

	var rows []struct {
		ListID string `json:"list_id"`
	}
	if err := s.client.Get(ctx, q, &rows); err != nil {
		return "", fmt.Errorf("find list membership: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].ListID, nil
}

// JoinByCode joins a shared list via its invite code and returns the list
// id. The membership insert happens server-side in the procedure.
func (s *Lists) JoinByCode(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ValidationError("invite code is required")
	}

	args := struct {
		Code string `json:"p_share_code"`
	}{Code: code}

	var result struct {
		ListID string `json:"list_id"`
	}
	if err := s.client.Rpc(ctx, "join_list_by_code", args, &result); err != nil {
		return "", fmt.Errorf("join list by code: %w", err)
	}
	if result.ListID == "" {
		return "", fmt.Errorf("join list by code: no list returned")
	}
	return result.ListID, nil
}
