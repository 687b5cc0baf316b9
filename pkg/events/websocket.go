package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Broadcaster fans events out to connected websocket clients, e.g. an admin
// dashboard following sign-in activity. Clients are write-only; anything
// they send is discarded.
type Broadcaster struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Handler upgrades the request and keeps the connection registered until the
// peer goes away.
func (b *Broadcaster) Handler(c echo.Context) error {
	ws, err := b.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	b.mu.Lock()
	b.conns[ws] = struct{}{}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.conns, ws)
		b.mu.Unlock()
	}()

	// the read loop only serves to notice the close
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return nil
		}
	}
}

func (b *Broadcaster) Deliver(ctx context.Context, event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ws := range b.conns {
		if err := ws.WriteJSON(event); err != nil {
			slog.Warn("dropping websocket subscriber", "error", err)
			ws.Close()
			delete(b.conns, ws)
		}
	}
	return nil
}

var _ Sink = (*Broadcaster)(nil)
