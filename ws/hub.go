package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"xyzzy-server/auth"
	"xyzzy-server/config"
	"xyzzy-server/game"
	"xyzzy-server/wsutil"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub maintains the set of active clients and fans session output out to
// them. It is the session's Transport: the game treats it as an opaque
// message bus.
type Hub struct {
	cfg     *config.Config
	session *game.Session
	auth    auth.AdminAuthenticator

	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	outbound   chan []byte
	drop       chan string
}

// NewHub creates a new Hub for the given session.
func NewHub(cfg *config.Config, session *game.Session, adminAuth auth.AdminAuthenticator) *Hub {
	return &Hub{
		cfg:        cfg,
		session:    session,
		auth:       adminAuth,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan []byte, 256),
		drop:       make(chan string, 4),
	}
}

// Run is the hub's main loop; it owns the clients map. Should be run as a
// goroutine. When ctx is cancelled the hub stops accepting registrations.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("hub stopping", "tag", "ws")
			return

		case client := <-h.register:
			h.clients[client] = true
			slog.Info("client connected", "tag", "ws", "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				slog.Info("client disconnected", "tag", "ws", "total", len(h.clients))

				if id, _ := client.identity(); id != "" {
					h.session.Dispatch(game.Action{
						Type: game.ActionClientGone,
						Ctx:  game.ConnCtx{PlayerID: id},
						Send: client.send,
					})
				}
			}

		case data := <-h.outbound:
			for client := range h.clients {
				wsutil.SafeSend(client.send, data)
			}

		case playerID := <-h.drop:
			for client := range h.clients {
				if id, _ := client.identity(); id == playerID {
					client.conn.Close()
				}
			}
		}
	}
}

// Broadcast queues data for delivery to every connected client.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.outbound <- data:
	default:
		slog.Warn("broadcast queue full, dropping message", "tag", "ws")
	}
}

// DisconnectPlayer closes the connection bound to the given player id.
func (h *Hub) DisconnectPlayer(playerID string) {
	select {
	case h.drop <- playerID:
	default:
	}
}

// ServeWS handles WebSocket upgrade requests and creates a new Client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "tag", "ws", "err", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	h.session.Dispatch(game.Action{Type: game.ActionHello, Send: client.send})
}
