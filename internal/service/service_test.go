package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/remote"
)

// fakeBackend records the last request the client made and replies with a
// canned body per method+path.
type fakeBackend struct {
	t *testing.T

	lastMethod string
	lastPath   string
	lastQuery  string
	lastPrefer []string
	lastBody   []byte

	status int
	reply  string

	// replyFor, when set, picks the response per request instead of reply.
	replyFor func(r *http.Request) string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *remote.Client) {
	t.Helper()
	fb := &fakeBackend{t: t, status: http.StatusOK, reply: "[]"}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	return fb, remote.NewClient(srv.URL, "anon-key")
}

func (fb *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		fb.t.Errorf("read request body: %v", err)
	}
	fb.lastMethod = r.Method
	fb.lastPath = r.URL.Path
	fb.lastQuery = r.URL.RawQuery
	fb.lastPrefer = r.Header.Values("Prefer")
	fb.lastBody = body

	reply := fb.reply
	if fb.replyFor != nil {
		reply = fb.replyFor(r)
	}
	w.WriteHeader(fb.status)
	io.WriteString(w, reply)
}

func (fb *fakeBackend) hasPrefer(want string) bool {
	for _, p := range fb.lastPrefer {
		if p == want {
			return true
		}
	}
	return false
}

func TestIngredientsCreate(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.reply = `[{"id":"i1","user_id":"u1","nom":"Tomates","est_disponible":true}]`

	svc := NewIngredients(client)
	created, err := svc.Create(context.Background(), "u1", model.Ingredient{
		Name:        "Tomates",
		IsAvailable: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "i1" || created.Name != "Tomates" {
		t.Errorf("created = %+v, want id i1 nom Tomates", created)
	}
	if fb.lastMethod != http.MethodPost || fb.lastPath != "/rest/v1/ingredients" {
		t.Errorf("request = %s %s, want POST /rest/v1/ingredients", fb.lastMethod, fb.lastPath)
	}
	if !fb.hasPrefer("return=representation") {
		t.Errorf("Prefer = %v, want return=representation", fb.lastPrefer)
	}
}

func TestIngredientsCreateRejectsBlankName(t *testing.T) {
	_, client := newFakeBackend(t)
	svc := NewIngredients(client)

	_, err := svc.Create(context.Background(), "u1", model.Ingredient{Name: "   "})
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestRecipesUpsertIsMergeDuplicates(t *testing.T) {
	fb, client := newFakeBackend(t)
	svc := NewRecipes(client)

	err := svc.Upsert(context.Background(), "u1", model.Recipe{
		Name:       "Gratin",
		ExternalID: "ext-1",
		Category:   model.CategoryMain,
		Rating:     9,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if fb.lastMethod != http.MethodPost || fb.lastPath != "/rest/v1/recettes" {
		t.Errorf("request = %s %s, want POST /rest/v1/recettes", fb.lastMethod, fb.lastPath)
	}
	if fb.lastQuery != "on_conflict=external_id" {
		t.Errorf("query = %q, want on_conflict=external_id", fb.lastQuery)
	}
	if !fb.hasPrefer("resolution=merge-duplicates") {
		t.Errorf("Prefer = %v, want resolution=merge-duplicates", fb.lastPrefer)
	}

	var rows []map[string]any
	if err := json.Unmarshal(fb.lastBody, &rows); err != nil {
		t.Fatalf("payload is not an array: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("payload rows = %d, want 1", len(rows))
	}
	if got := rows[0]["note"]; got != float64(5) {
		t.Errorf("rating sent = %v, want clamped to 5", got)
	}
}

func TestRecipesUpsertRequiresExternalID(t *testing.T) {
	_, client := newFakeBackend(t)
	svc := NewRecipes(client)

	err := svc.Upsert(context.Background(), "u1", model.Recipe{Name: "Gratin"})
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestShoppingAddMissingSkipsExisting(t *testing.T) {
	fb, client := newFakeBackend(t)
	// First request is the GET of unpurchased names; the POST that follows
	// reuses the same canned reply, which the client ignores (out == nil).
	fb.reply = `[{"nom":"Lait"},{"nom":" farine "}]`

	svc := NewShopping(client)
	n, err := svc.AddMissing(context.Background(), model.PersonalList("u1"),
		[]string{"lait", "Oeufs", " oeufs ", "", "Farine"})
	if err != nil {
		t.Fatalf("AddMissing: %v", err)
	}
	if n != 1 {
		t.Fatalf("inserted = %d, want 1", n)
	}

	var rows []map[string]any
	if err := json.Unmarshal(fb.lastBody, &rows); err != nil {
		t.Fatalf("payload is not an array: %v", err)
	}
	if len(rows) != 1 || rows[0]["nom"] != "Oeufs" {
		t.Errorf("payload = %v, want single row nom Oeufs", rows)
	}
	if rows[0]["user_id"] != "u1" {
		t.Errorf("user_id = %v, want u1", rows[0]["user_id"])
	}
}

func TestShoppingAddMissingAllPresent(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.reply = `[{"nom":"Lait"}]`

	svc := NewShopping(client)
	n, err := svc.AddMissing(context.Background(), model.PersonalList("u1"), []string{"LAIT"})
	if err != nil {
		t.Fatalf("AddMissing: %v", err)
	}
	if n != 0 {
		t.Errorf("inserted = %d, want 0", n)
	}
	if fb.lastMethod != http.MethodGet {
		t.Errorf("last request = %s, want no insert after the GET", fb.lastMethod)
	}
}

func TestShoppingRejectsZeroListRef(t *testing.T) {
	_, client := newFakeBackend(t)
	svc := NewShopping(client)

	_, err := svc.List(context.Background(), model.ListRef{})
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestShoppingListFiltersBySharedList(t *testing.T) {
	fb, client := newFakeBackend(t)
	svc := NewShopping(client)

	if _, err := svc.List(context.Background(), model.SharedList("L9")); err != nil {
		t.Fatalf("List: %v", err)
	}
	if fb.lastQuery == "" || !containsParam(fb.lastQuery, "list_id=eq.L9") {
		t.Errorf("query = %q, want list_id=eq.L9 filter", fb.lastQuery)
	}
}

func containsParam(rawQuery, param string) bool {
	for _, p := range splitQuery(rawQuery) {
		if p == param {
			return true
		}
	}
	return false
}

func splitQuery(rawQuery string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(rawQuery); i++ {
		if i == len(rawQuery) || rawQuery[i] == '&' {
			parts = append(parts, rawQuery[start:i])
			start = i + 1
		}
	}
	return parts
}

func TestListsEnsurePersonalCreatesWhenAbsent(t *testing.T) {
	fb, client := newFakeBackend(t)
	// GET finds nothing; the POST that follows returns the created row.
	fb.replyFor = func(r *http.Request) string {
		if r.Method == http.MethodGet {
			return "[]"
		}
		return `[{"id":"L1","owner_user_id":"u1","name":"Ma liste"}]`
	}

	svc := NewLists(client)
	id, err := svc.EnsurePersonal(context.Background(), "u1")
	if err != nil {
		t.Fatalf("EnsurePersonal: %v", err)
	}
	if id != "L1" {
		t.Errorf("id = %q, want L1", id)
	}
	if fb.lastMethod != http.MethodPost {
		t.Errorf("last request = %s, want POST creating the list", fb.lastMethod)
	}
}

func TestVersionsCheckForUpdate(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.reply = `[{"id":1,"platform":"windows","version":"2.1.0","download_url":"https://example.com/v2"}]`

	svc := NewVersions(client)
	if got := svc.CheckForUpdate(context.Background(), "windows", "2.0.3"); got == nil || got.Version != "2.1.0" {
		t.Errorf("CheckForUpdate = %+v, want version 2.1.0", got)
	}
	if got := svc.CheckForUpdate(context.Background(), "windows", "2.1.0"); got != nil {
		t.Errorf("CheckForUpdate same version = %+v, want nil", got)
	}
}

func TestVersionsCheckSwallowsErrors(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.status = http.StatusInternalServerError
	fb.reply = "boom"

	svc := NewVersions(client)
	if got := svc.CheckForUpdate(context.Background(), "windows", "1.0.0"); got != nil {
		t.Errorf("CheckForUpdate on server error = %+v, want nil", got)
	}
}

func TestNewerVersion(t *testing.T) {
	cases := []struct {
		latest, current string
		want            bool
	}{
		{"2.0.0", "1.9.9", true},
		{"1.2.10", "1.2.9", true},
		{"1.2", "1.2.0", false},
		{"1.2.0", "1.2", false},
		{"1.0.0", "1.0.0", false},
		{"abc", "1.0.0", false},
	}
	for _, tc := range cases {
		if got := newerVersion(tc.latest, tc.current); got != tc.want {
			t.Errorf("newerVersion(%q, %q) = %v, want %v", tc.latest, tc.current, got, tc.want)
		}
	}
}
