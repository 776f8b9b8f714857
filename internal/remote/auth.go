package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Auth talks to the backend's authentication endpoints (/auth/v1) and to the
// account-deletion edge function. It is the only producer of Sessions.
type Auth struct {
	baseURL string
	anonKey string
	http    *http.Client
}

func NewAuth(baseURL, anonKey string) *Auth {
	return &Auth{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account and returns the new user id when the
// backend reports one.
func (a *Auth) SignUp(ctx context.Context, email, password string) (string, error) {
	if err := checkEmail(email); err != nil {
		return "", err
	}
	if len(password) < 6 {
		return "", fmt.Errorf("password must be at least 6 characters")
	}

	body, status, err := a.post(ctx, "/auth/v1/signup", "", credentials{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("sign up: %s", authError(body, status))
	}

	// The backend answers either {user:{id:...}} or {id:...}.
	var envelope struct {
		ID   string `json:"id"`
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.User.ID != "" {
			return envelope.User.ID, nil
		}
		if envelope.ID != "" {
			return envelope.ID, nil
		}
	}
	return "", nil
}

// SignIn authenticates with email and password and returns a live Session.
func (a *Auth) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if err := checkEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	body, status, err := a.post(ctx, "/auth/v1/token?grant_type=password", "", credentials{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("sign in: %s", authError(body, status))
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode sign-in response: %w", err)
	}
	if resp.AccessToken == "" || resp.User.ID == "" {
		return nil, fmt.Errorf("sign-in response missing token or user id")
	}
	return NewSession(resp.AccessToken, resp.User.ID), nil
}

// Recover asks the backend to send a password-reset email.
func (a *Auth) Recover(ctx context.Context, email string) error {
	if err := checkEmail(email); err != nil {
		return err
	}
	payload := struct {
		Email string `json:"email"`
	}{Email: strings.TrimSpace(email)}

	body, status, err := a.post(ctx, "/auth/v1/recover", "", payload)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("recover: %s", authError(body, status))
	}
	return nil
}

// UpdatePassword changes the password of the user the session belongs to.
func (a *Auth) UpdatePassword(ctx context.Context, s *Session, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	payload := struct {
		Password string `json:"password"`
	}{Password: newPassword}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, a.baseURL+"/auth/v1/user", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	a.setHeaders(req, s.Token())

	body, status, err := a.send(req)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("update password: %s", authError(body, status))
	}
	return nil
}

// DeleteAccount invokes the delete-account edge function, then clears the
// session. Remote row cleanup is the function's job, not the client's.
func (a *Auth) DeleteAccount(ctx context.Context, s *Session) error {
	if !s.Valid() {
		return fmt.Errorf("no authenticated session")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/functions/v1/delete-account", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	a.setHeaders(req, s.Token())

	body, status, err := a.send(req)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("delete account: %s", authError(body, status))
	}
	s.Clear()
	return nil
}

func (a *Auth) post(ctx context.Context, path, token string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	a.setHeaders(req, token)
	return a.send(req)
}

func (a *Auth) setHeaders(req *http.Request, token string) {
	req.Header.Set("apikey", a.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if token == "" {
		token = a.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func (a *Auth) send(req *http.Request) ([]byte, int, error) {
	resp, err := a.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func checkEmail(email string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// authError extracts the human-readable message from an auth error body.
// The backend is inconsistent about the field name.
func authError(body []byte, status int) string {
	var fields struct {
		Msg       string `json:"msg"`
		ErrorDesc string `json:"error_description"`
		Message   string `json:"message"`
		ErrorMsg  string `json:"error"`
	}
	if json.Unmarshal(body, &fields) == nil {
		for _, m := range []string{fields.Msg, fields.ErrorDesc, fields.Message, fields.ErrorMsg} {
			if m != "" {
				return m
			}
		}
	}
	if len(body) > 0 && len(body) < 400 {
		return string(body)
	}
	return fmt.Sprintf("status %d", status)
}
