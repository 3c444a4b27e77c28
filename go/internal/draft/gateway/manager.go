package gateway

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ConnectionManager fans draft events out to the WebSocket clients watching
// each draft room.
type ConnectionManager struct {
	draftConnections map[uuid.UUID]map[*Connection]struct{}
	mu               sync.RWMutex

	upgrader    websocket.Upgrader
	config      ConnectionConfig
	broadcastCh chan broadcast
}

// Connection is one client's WebSocket subscription to a draft room.
type Connection struct {
	ID      string
	UserID  string
	DraftID uuid.UUID

	conn    *websocket.Conn
	send    chan []byte
	manager *ConnectionManager
}

// ConnectionConfig holds WebSocket tuning knobs.
type ConnectionConfig struct {
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	CheckOrigin    func(r *http.Request) bool
}

type broadcast struct {
	draftID uuid.UUID
	data    []byte
}

// DefaultConnectionConfig returns the default WebSocket configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 1024,
	}
}

func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if config.CheckOrigin != nil {
		upgrader.CheckOrigin = config.CheckOrigin
	}
	return &ConnectionManager{
		draftConnections: make(map[uuid.UUID]map[*Connection]struct{}),
		upgrader:         upgrader,
		config:           config,
		broadcastCh:      make(chan broadcast, 1000),
	}
}

// Run processes broadcasts until the context is cancelled.
func (cm *ConnectionManager) Run(ctx context.Context) error {
	log.Info().Msg("connection manager started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			cm.closeAll()
			return ctx.Err()
		case msg := <-cm.broadcastCh:
			cm.deliver(msg)
		}
	}
}

// Subscribe upgrades an HTTP request and registers the resulting connection
// under the draft.
func (cm *ConnectionManager) Subscribe(w http.ResponseWriter, r *http.Request, userID string, draftID uuid.UUID) error {
	ws, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	conn := &Connection{
		ID:      uuid.New().String(),
		UserID:  userID,
		DraftID: draftID,
		conn:    ws,
		send:    make(chan []byte, 256),
		manager: cm,
	}
	cm.register(conn)

	go conn.writePump()
	go conn.readPump()

	log.Info().
		Str("connection_id", conn.ID).
		Str("user_id", userID).
		Str("draft_id", draftID.String()).
		Msg("websocket subscribed")
	return nil
}

// Broadcast queues an already-encoded event for every connection in a draft.
// Drops the message if the broadcast queue is full rather than blocking the
// event consumer.
func (cm *ConnectionManager) Broadcast(draftID uuid.UUID, data []byte) {
	select {
	case cm.broadcastCh <- broadcast{draftID: draftID, data: data}:
	default:
		log.Warn().Str("draft_id", draftID.String()).Msg("broadcast queue full, dropping event")
	}
}

func (cm *ConnectionManager) register(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.draftConnections[conn.DraftID] == nil {
		cm.draftConnections[conn.DraftID] = make(map[*Connection]struct{})
	}
	cm.draftConnections[conn.DraftID][conn] = struct{}{}
}

func (cm *ConnectionManager) unregister(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	connections, ok := cm.draftConnections[conn.DraftID]
	if !ok {
		return
	}
	if _, ok := connections[conn]; !ok {
		return
	}
	delete(connections, conn)
	close(conn.send)
	if len(connections) == 0 {
		delete(cm.draftConnections, conn.DraftID)
	}

	log.Info().
		Str("connection_id", conn.ID).
		Str("draft_id", conn.DraftID.String()).
		Msg("websocket unsubscribed")
}

func (cm *ConnectionManager) deliver(msg broadcast) {
	cm.mu.RLock()
	targets := make([]*Connection, 0, len(cm.draftConnections[msg.draftID]))
	for conn := range cm.draftConnections[msg.draftID] {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range targets {
		select {
		case conn.send <- msg.data:
		default:
			// Slow consumer, drop the connection.
			log.Warn().
				Str("connection_id", conn.ID).
				Str("user_id", conn.UserID).
				Msg("send buffer full, closing connection")
			cm.unregister(conn)
			conn.conn.Close()
		}
	}
}

func (cm *ConnectionManager) closeAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for draftID, connections := range cm.draftConnections {
		for conn := range connections {
			close(conn.send)
			conn.conn.Close()
		}
		delete(cm.draftConnections, draftID)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.manager.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.manager.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
		return nil
	})

	// Clients only listen; inbound frames just refresh the read deadline.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("connection_id", c.ID).Msg("websocket closed unexpectedly")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	}
}
