package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ws "github.com/coder/websocket"
)

const heartbeatInterval = 30 * time.Second

// ChangeFunc is called once per row-change notification with the name of the
// table that changed. The payload itself is not forwarded: a change only
// tells the sync engine that its snapshot may be stale, and the engine
// re-fetches the full set anyway.
type ChangeFunc func(table string)

// realtimeMessage is the phoenix-style frame the realtime endpoint speaks.
type realtimeMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// Realtime subscribes to row-change notifications for a set of tables over
// the backend's websocket endpoint. It does not reconnect: a dropped
// connection simply ends Listen, and staleness is covered by the next
// user-triggered refresh.
type Realtime struct {
	wsURL   string
	anonKey string
	tables  []string
	logger  *slog.Logger
}

// NewRealtime prepares a listener for the given tables (e.g. "ingredients",
// "articles_courses", "recettes").
func NewRealtime(baseURL, anonKey string, tables []string, logger *slog.Logger) *Realtime {
	wsURL := strings.TrimRight(baseURL, "/")
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	return &Realtime{
		wsURL:   wsURL + "/realtime/v1/websocket?vsn=1.0.0&apikey=" + anonKey,
		anonKey: anonKey,
		tables:  tables,
		logger:  logger,
	}
}

// Listen connects, joins one channel per table, and invokes onChange for
// every change notification until the context is cancelled or the
// connection drops.
func (r *Realtime) Listen(ctx context.Context, onChange ChangeFunc) error {
	conn, _, err := ws.Dial(ctx, r.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial realtime: %w", err)
	}
	defer conn.Close(ws.StatusNormalClosure, "")

	ref := 0
	send := func(msg realtimeMessage) error {
		ref++
		msg.Ref = fmt.Sprintf("%d", ref)
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal frame: %w", err)
		}
		return conn.Write(ctx, ws.MessageText, data)
	}

	for _, table := range r.tables {
		join := realtimeMessage{
			Topic:   "realtime:public:" + table,
			Event:   "phx_join",
			Payload: json.RawMessage(`{}`),
		}
		if err := send(join); err != nil {
			return fmt.Errorf("join %s: %w", table, err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Heartbeat pump; the read loop below owns the connection lifetime.
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				beat := realtimeMessage{Topic: "phoenix", Event: "heartbeat", Payload: json.RawMessage(`{}`)}
				if err := send(beat); err != nil {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read realtime: %w", err)
		}

		var msg realtimeMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			r.logger.Warn("realtime: bad frame", "error", err)
			continue
		}

		switch msg.Event {
		case "phx_reply", "phx_close", "heartbeat", "presence_state":
			continue
		case "INSERT", "UPDATE", "DELETE":
			if table, ok := strings.CutPrefix(msg.Topic, "realtime:public:"); ok {
				onChange(table)
			}
		}
	}
}
