package devserver

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
)

// chatHub relays every valid chat frame to all connected peers, the sender
// included. Nothing is stored.
type chatHub struct {
	log      zerolog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	peers map[*chatPeer]struct{}
}

type chatPeer struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func newChatHub(log zerolog.Logger) *chatHub {
	return &chatHub{
		log: log.With().Str("component", "chat_hub").Logger(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		peers: make(map[*chatPeer]struct{}),
	}
}

func (h *chatHub) serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("upgrade failed")
		return nil
	}
	peer := &chatPeer{conn: conn}
	h.mu.Lock()
	h.peers[peer] = struct{}{}
	h.mu.Unlock()
	h.log.Debug().Str("remote", c.RealIP()).Msg("peer joined")

	defer func() {
		h.mu.Lock()
		delete(h.peers, peer)
		h.mu.Unlock()
		_ = conn.Close()
		h.log.Debug().Str("remote", c.RealIP()).Msg("peer left")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil
		}
		var msg domain.ChatMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.log.Warn().Err(err).Msg("dropping malformed frame")
			continue
		}
		h.broadcast(msg)
	}
}

func (h *chatHub) broadcast(msg domain.ChatMessage) {
	h.mu.Lock()
	peers := make([]*chatPeer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		p.writeMu.Lock()
		err := p.conn.WriteJSON(msg)
		p.writeMu.Unlock()
		if err != nil {
			h.log.Debug().Err(err).Msg("write to peer failed")
		}
	}
}

// closeAll disconnects every peer; used on shutdown.
func (h *chatHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		_ = p.conn.Close()
	}
}

func (h *chatHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}
