package socket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/coveytown/townserver/internal/domain/conversation"
	"github.com/coveytown/townserver/internal/domain/player"
	"github.com/coveytown/townserver/internal/domain/session"
	"github.com/coveytown/townserver/internal/domain/town"
	"github.com/coveytown/townserver/internal/infrastructure/observability/logging"
)

// outboundMessage is the wire shape of every server-to-client frame:
// {type, payload}, matching the six kinds named in §6.
type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// inboundMessage is the wire shape of the one client-to-server frame
// kind this adapter understands.
type inboundMessage struct {
	Type     string          `json:"type"`
	Location json.RawMessage `json:"location"`
}

const msgTypePlayerMovement = "playerMovement"

const (
	msgTypeNewPlayer             = "newPlayer"
	msgTypePlayerMoved           = "playerMoved"
	msgTypePlayerDisconnect      = "playerDisconnect"
	msgTypeTownClosing           = "townClosing"
	msgTypeConversationUpdated   = "conversationUpdated"
	msgTypeConversationDestroyed = "conversationDestroyed"
)

// connection pumps one websocket connection and doubles as the
// events.Listener registered with the owning controller (§6 steps 4-6).
type connection struct {
	conn    *websocket.Conn
	ctrl    *town.Controller
	session *session.Session
	logger  *logging.ChanneledLogger

	sendMu sync.Mutex
	closed chan struct{}
	once   sync.Once
}

func newConnection(conn *websocket.Conn, ctrl *town.Controller, sess *session.Session, logger *logging.ChanneledLogger) *connection {
	return &connection{
		conn:    conn,
		ctrl:    ctrl,
		session: sess,
		logger:  logger,
		closed:  make(chan struct{}),
	}
}

func (conn *connection) run() {
	conn.ctrl.AddListener(conn)
	defer conn.ctrl.RemoveListener(conn)

	conn.conn.SetReadLimit(maxMessageSize)
	conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go conn.pingLoop()

	for {
		_, raw, err := conn.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Type != msgTypePlayerMovement {
			continue
		}

		var loc player.Location
		if err := json.Unmarshal(msg.Location, &loc); err != nil {
			continue
		}
		conn.ctrl.UpdatePlayerLocation(conn.session.Player.ID, loc)
	}

	conn.teardown()
}

func (conn *connection) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-conn.closed:
			return
		case <-ticker.C:
			conn.sendMu.Lock()
			conn.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.conn.WriteMessage(websocket.PingMessage, nil)
			conn.sendMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// teardown runs once per connection on client disconnect: it destroys
// the session (§6 step 6) and closes the socket.
func (conn *connection) teardown() {
	conn.once.Do(func() {
		close(conn.closed)
		conn.ctrl.DestroySession(conn.session.Token)
		conn.conn.Close()
	})
}

// closeOnly closes the socket without calling back into the
// controller, for use from within a listener callback (OnTownDestroyed)
// where the controller already owns the teardown (§5 reentrancy rule).
func (conn *connection) closeOnly() {
	conn.once.Do(func() {
		close(conn.closed)
		conn.conn.Close()
	})
}

func (conn *connection) send(msgType string, payload interface{}) {
	conn.sendMu.Lock()
	defer conn.sendMu.Unlock()
	conn.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.conn.WriteJSON(outboundMessage{Type: msgType, Payload: payload}); err != nil {
		conn.logger.Socket().Warn("failed to write to socket", "error", err)
	}
}

// The following methods implement events.Listener, translating each
// core event into the outbound message kind named in §6.

func (conn *connection) OnPlayerJoined(p *player.Player) {
	conn.send(msgTypeNewPlayer, p)
}

func (conn *connection) OnPlayerMoved(p *player.Player) {
	conn.send(msgTypePlayerMoved, p)
}

func (conn *connection) OnPlayerDisconnected(p *player.Player) {
	conn.send(msgTypePlayerDisconnect, p)
}

func (conn *connection) OnConversationAreaUpdated(a *conversation.Area) {
	conn.send(msgTypeConversationUpdated, a)
}

func (conn *connection) OnConversationAreaDestroyed(a *conversation.Area) {
	conn.send(msgTypeConversationDestroyed, a)
}

func (conn *connection) OnTownDestroyed() {
	conn.send(msgTypeTownClosing, nil)
	conn.closeOnly()
}
