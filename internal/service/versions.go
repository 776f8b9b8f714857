package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/remote"
)

const versionsTable = "app_versions"

// Versions checks the `app_versions` table for a newer published release.
// The check is best-effort: any failure (offline, table missing) reports
// "no update" rather than an error, since an update prompt is never worth
// blocking the app over.
type Versions struct {
	client *remote.Client
}

func NewVersions(client *remote.Client) *Versions {
	return &Versions{client: client}
}

// CheckForUpdate returns the newest release for the platform when it is
// strictly newer than current, nil otherwise.
func (s *Versions) CheckForUpdate(ctx context.Context, platform, current string) *model.AppVersion {
	q := versionsTable + "?select=id,platform,version,download_url,is_mandatory,release_notes,created_at" +
		"&platform=eq." + platform +
		"&order=created_at.desc&limit=1"

	var rows []model.AppVersion
	if err := s.client.Get(ctx, q, &rows); err != nil {
		return nil
	}
	if len(rows) == 0 {
		return nil
	}

	latest := rows[0]
	if !newerVersion(latest.Version, current) {
		return nil
	}
	return &latest
}

// newerVersion compares dotted numeric versions ("1.2.3"); anything
// unparsable counts as not newer.
func newerVersion(latest, current string) bool {
	lp := strings.Split(latest, ".")
	cp := strings.Split(current, ".")
	for i := 0; i < len(lp) || i < len(cp); i++ {
		l, c := 0, 0
		var err error
		if i < len(lp) {
			if l, err = strconv.Atoi(lp[i]); err != nil {
				return false
			}
		}
		if i < len(cp) {
			if c, err = strconv.Atoi(cp[i]); err != nil {
				return false
			}
		}
		if l != c {
			return l > c
		}
	}
	return false
}
