package model

import "time"

// AppVersion is a row in `app_versions`, one per published release.
type AppVersion struct {
	ID           int64     `json:"id"`
	Platform     string    `json:"platform"`
	Version      string    `json:"version"`
	DownloadURL  string    `json:"download_url"`
	IsMandatory  bool      `json:"is_mandatory"`
	ReleaseNotes string    `json:"release_notes"`
	CreatedAt    time.Time `json:"created_at"`
}
