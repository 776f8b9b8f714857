// Package service holds the thin typed wrappers that translate domain
// operations into remote store calls. Services do no caching and no
// fallback; that is the sync engine's job.
package service

import "strings"

// ValidationError is a request rejected before any I/O because a required
// field is missing or malformed.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// nullIfBlank maps empty/whitespace strings to JSON null, the convention the
// remote store uses for optional text columns.
func nullIfBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
