package remote

import (
	"context"
	"net"
	"net/url"
	"time"
)

const probeTimeout = 3 * time.Second

// Reachability answers "is the backend worth contacting right now". The sync
// engine consults it before entering the refresh phase so an offline device
// never waits out a full request timeout.
type Reachability func(ctx context.Context) bool

// AlwaysReachable skips the connectivity check. Used in tests and on
// platforms where the probe is redundant.
func AlwaysReachable(context.Context) bool { return true }

// DialProbe returns a Reachability that opens (and immediately closes) a TCP
// connection to the backend host.
func DialProbe(baseURL string) Reachability {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return func(context.Context) bool { return false }
	}

	addr := u.Host
	if u.Port() == "" {
		port := "443"
		if u.Scheme == "http" {
			port = "80"
		}
		addr = net.JoinHostPort(u.Hostname(), port)
	}

	return func(ctx context.Context) bool {
		ctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
}
