package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"xyzzy-server/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is a middleman between one websocket connection and the session.
// Identity is bound once, at set_identity time; it is the
// ConnectionContext every later action carries.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu       sync.Mutex
	playerID string
	isAdmin  bool
}

func (c *Client) identity() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID, c.isAdmin
}

func (c *Client) bindIdentity(playerID string, isAdmin bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
	c.isAdmin = isAdmin
}

func (c *Client) ctx() game.ConnCtx {
	id, admin := c.identity()
	return game.ConnCtx{PlayerID: id, IsAdmin: admin}
}

// readPump pumps messages from the websocket connection to the session.
// It runs in its own goroutine per connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "tag", "ws", "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the websocket
// connection. It runs in its own goroutine per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	switch envelope.Type {
	case "set_identity":
		c.handleSetIdentity(envelope.Raw)
	case "chat_send":
		c.handleChatSend(envelope.Raw)
	case "submit_card":
		c.handleSubmitCard(envelope.Raw)
	case "judge_pick":
		c.handleJudgePick(envelope.Raw)
	case "request_state":
		c.dispatch(game.Action{Type: game.ActionRequestState})
	case "admin_set_settings":
		c.handleSetSettings(envelope.Raw)
	case "admin_set_bots":
		c.handleSetBots(envelope.Raw)
	case "admin_start_game":
		c.dispatch(game.Action{Type: game.ActionStartGame})
	case "admin_next_round":
		c.dispatch(game.Action{Type: game.ActionNextRound})
	case "admin_pause_toggle":
		c.dispatch(game.Action{Type: game.ActionPauseToggle})
	case "admin_reset_game":
		c.dispatch(game.Action{Type: game.ActionResetGame})
	case "admin_clear_chat":
		c.dispatch(game.Action{Type: game.ActionClearChat})
	case "admin_kick":
		c.handleKick(envelope.Raw)
	default:
		c.sendError("Unknown message type: " + envelope.Type)
	}
}

// dispatch forwards an action to the session with this connection's
// context and reply channel attached.
func (c *Client) dispatch(a game.Action) {
	a.Ctx = c.ctx()
	a.Send = c.send
	c.hub.session.Dispatch(a)
}

func (c *Client) handleSetIdentity(raw json.RawMessage) {
	var msg SetIdentityMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid set_identity message.")
		return
	}

	playerID := sanitizeText(msg.PlayerID, 64)
	name := sanitizeText(msg.Name, c.hub.cfg.MaxNameLength)
	if playerID == "" || name == "" {
		c.sendError("Missing name or playerId.")
		return
	}
	if game.IsBotID(playerID) {
		c.sendError("Invalid playerId.")
		return
	}

	// Admin resolution may block (JWKS fetch); it happens here, outside
	// the session's serialized context.
	isAdmin := c.hub.auth.IsAdmin(msg.AdminKey)
	c.bindIdentity(playerID, isAdmin)

	c.dispatch(game.Action{Type: game.ActionRegister, Name: name})
}

func (c *Client) handleChatSend(raw json.RawMessage) {
	if !c.requireIdentity() {
		return
	}
	var msg ChatSendMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid chat_send message.")
		return
	}
	text := sanitizeText(msg.Text, c.hub.cfg.MaxChatLength)
	if text == "" {
		return
	}
	c.dispatch(game.Action{Type: game.ActionChat, Text: text})
}

func (c *Client) handleSubmitCard(raw json.RawMessage) {
	if !c.requireIdentity() {
		return
	}
	var msg SubmitCardMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid submit_card message.")
		return
	}
	text := sanitizeText(msg.Text, c.hub.cfg.MaxChatLength)
	if text == "" {
		return
	}
	c.dispatch(game.Action{Type: game.ActionSubmitCard, Text: text})
}

func (c *Client) handleJudgePick(raw json.RawMessage) {
	if !c.requireIdentity() {
		return
	}
	var msg JudgePickMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid judge_pick message.")
		return
	}
	winnerID := sanitizeText(msg.WinnerID, 64)
	if winnerID == "" {
		return
	}
	c.dispatch(game.Action{Type: game.ActionJudgePick, WinnerID: winnerID})
}

func (c *Client) handleSetSettings(raw json.RawMessage) {
	if !c.requireIdentity() {
		return
	}
	var msg SetSettingsMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid admin_set_settings message.")
		return
	}
	settings := msg.Settings
	c.dispatch(game.Action{Type: game.ActionSetSettings, Settings: &settings})
}

func (c *Client) handleSetBots(raw json.RawMessage) {
	if !c.requireIdentity() {
		return
	}
	var msg SetBotsMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid admin_set_bots message.")
		return
	}
	c.dispatch(game.Action{Type: game.ActionSetBots, BotsEnabled: msg.Enabled, BotCount: msg.Count})
}

func (c *Client) handleKick(raw json.RawMessage) {
	if !c.requireIdentity() {
		return
	}
	var msg KickMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid admin_kick message.")
		return
	}
	targetID := sanitizeText(msg.PlayerID, 64)
	if targetID == "" {
		return
	}
	c.dispatch(game.Action{Type: game.ActionKick, TargetID: targetID})
}

func (c *Client) requireIdentity() bool {
	if id, _ := c.identity(); id == "" {
		c.sendError("Set your identity first.")
		return false
	}
	return true
}

func (c *Client) sendError(message string) {
	msg := ErrorMsg{Type: "error_msg", Message: message}
	data, _ := json.Marshal(msg)
	select {
	case c.send <- data:
	default:
	}
}
