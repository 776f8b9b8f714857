package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestClientSendsAnonKeyWhenUnbound(t *testing.T) {
	var gotAuth, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		fmt.Fprint(w, "[]")
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "anon-key")
	var out []struct{}
	if err := c.Get(context.Background(), "ingredients", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotKey != "anon-key" {
		t.Errorf("apikey = %q, want anon-key", gotKey)
	}
	if gotAuth != "Bearer anon-key" {
		t.Errorf("Authorization = %q, want anon bearer", gotAuth)
	}
}

func TestClientSendsSessionBearerWhenBound(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, "[]")
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "anon-key")
	c.Bind(NewSession("user-token", "u1"))
	var out []struct{}
	if err := c.Get(context.Background(), "ingredients", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer user-token" {
		t.Errorf("Authorization = %q, want session bearer", gotAuth)
	}

	// A cleared session falls back to the anon key.
	c.Session().Clear()
	if err := c.Get(context.Background(), "ingredients", &out); err != nil {
		t.Fatalf("Get after clear: %v", err)
	}
	if gotAuth != "Bearer anon-key" {
		t.Errorf("Authorization after clear = %q, want anon bearer", gotAuth)
	}
}

func TestClientNonOKBecomesRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"duplicate key"}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "anon-key")
	err := c.Post(context.Background(), "ingredients", map[string]string{"nom": "x"}, PostOptions{}, nil)

	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *RequestError", err)
	}
	if re.Status != http.StatusConflict {
		t.Errorf("status = %d, want 409", re.Status)
	}
	if IsTransient(err) {
		t.Errorf("a 409 must not be classified as transient")
	}
}

func TestIsSessionInvalid(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"unauthorized status", &RequestError{Status: 401, Body: "whatever"}, true},
		{"expired jwt marker", &RequestError{Status: 403, Body: `{"message":"JWT expired"}`}, true},
		{"pgrst marker", &RequestError{Status: 400, Body: `{"code":"PGRST301"}`}, true},
		{"plain server error", &RequestError{Status: 500, Body: "boom"}, false},
		{"transport error", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("refused")}, false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		if got := IsSessionInvalid(tc.err); got != tc.want {
			t.Errorf("%s: IsSessionInvalid = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsUnavailable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"url error", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("refused")}, true},
		{"cancelled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("load: %w", context.DeadlineExceeded), true},
		{"request error", &RequestError{Status: 503, Body: "down"}, false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		if got := IsUnavailable(tc.err); got != tc.want {
			t.Errorf("%s: IsUnavailable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestClientUnreachableHostIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "anon-key")
	var out []struct{}
	err := c.Get(context.Background(), "ingredients", &out)
	if err == nil {
		t.Fatal("expected an error against a closed server")
	}
	if !IsUnavailable(err) {
		t.Errorf("err = %v, want classified unavailable", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession("tok", "u1")
	if !s.Valid() {
		t.Fatal("fresh session must be valid")
	}
	if s.Token() != "tok" || s.UserID() != "u1" {
		t.Errorf("session = %q/%q, want tok/u1", s.Token(), s.UserID())
	}

	s.Clear()
	if s.Valid() {
		t.Error("cleared session must not be valid")
	}
	if s.Token() != "" {
		t.Errorf("token after clear = %q, want empty", s.Token())
	}

	s.Set("tok2", "u2")
	if !s.Valid() || s.UserID() != "u2" {
		t.Errorf("session after Set = valid %v user %q, want valid u2", s.Valid(), s.UserID())
	}
}
