package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

// Client executes typed requests against the tabular REST surface of the
// backend (PostgREST convention: path is "<table>?<filters>"). Every call
// carries the project api key; authenticated calls additionally carry the
// bearer token of the bound session.
type Client struct {
	restURL string
	anonKey string
	session *Session
	http    *http.Client
}

// NewClient creates a client for the backend at baseURL (the project root,
// without the /rest/v1 suffix).
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		restURL: strings.TrimRight(baseURL, "/") + "/rest/v1/",
		anonKey: anonKey,
		http: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Bind attaches a session; subsequent requests use its bearer token. A nil
// session reverts the client to anonymous access.
func (c *Client) Bind(s *Session) { c.session = s }

// Session returns the currently bound session, or nil.
func (c *Client) Session() *Session { return c.session }

// PostOptions select the PostgREST Prefer headers of a write:
// ReturnRepresentation echoes the written rows back, MergeDuplicates turns
// the insert into an upsert on the table's declared conflict column.
type PostOptions struct {
	ReturnRepresentation bool
	MergeDuplicates      bool
}

// Get executes a GET for the given path-and-query and decodes the response
// into out (usually a *[]T).
func (c *Client) Get(ctx context.Context, pathAndQuery string, out any) error {
	return c.do(ctx, http.MethodGet, pathAndQuery, nil, PostOptions{}, out)
}

// Post inserts (or upserts, per opts) rows. out may be nil for
// fire-and-forget batch inserts.
func (c *Client) Post(ctx context.Context, pathAndQuery string, payload any, opts PostOptions, out any) error {
	return c.do(ctx, http.MethodPost, pathAndQuery, payload, opts, out)
}

// Patch applies a partial update to every row matched by the filter query.
func (c *Client) Patch(ctx context.Context, pathAndQuery string, payload any) error {
	return c.do(ctx, http.MethodPatch, pathAndQuery, payload, PostOptions{}, nil)
}

// Delete removes every row matched by the filter query.
func (c *Client) Delete(ctx context.Context, pathAndQuery string) error {
	return c.do(ctx, http.MethodDelete, pathAndQuery, nil, PostOptions{}, nil)
}

// Rpc invokes a server-side procedure ("rpc/<name>") with the given
// arguments, decoding the result into out when non-nil.
func (c *Client) Rpc(ctx context.Context, name string, args any, out any) error {
	return c.do(ctx, http.MethodPost, "rpc/"+name, args, PostOptions{}, out)
}

func (c *Client) do(ctx context.Context, method, pathAndQuery string, payload any, opts PostOptions, out any) error {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.restURL+pathAndQuery, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer())

	if opts.ReturnRepresentation {
		req.Header.Add("Prefer", "return=representation")
	}
	if opts.MergeDuplicates {
		req.Header.Add("Prefer", "resolution=merge-duplicates")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, pathAndQuery, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Status: resp.StatusCode, Body: string(body)}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// bearer picks the session token when a valid session is bound, the anon key
// otherwise.
func (c *Client) bearer() string {
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			return token
		}
	}
	return c.anonKey
}
