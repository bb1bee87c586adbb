package relay

import (
	"context"
	"encoding/json"
	"sync"

	"scan-sync/core/tabular"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler terminates websocket connections and feeds their frames to the hub.
type Handler struct {
	hub    *Hub
	logger *zap.Logger
}

// NewHandler creates a new websocket handler.
func NewHandler(hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// RegisterRoutes registers the relay endpoint.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(h.serve))
}

// serve runs one connection's read loop until the socket closes.
func (h *Handler) serve(ws *websocket.Conn) {
	conn := newWSConn(ws)
	defer h.hub.Leave(conn)

	ctx := context.Background()
	for {
		var msg Message
		if err := ws.ReadJSON(&msg); err != nil {
			h.logger.Debug("connection closed",
				zap.String("conn", conn.ID()),
				zap.Error(err))
			return
		}
		h.dispatch(ctx, conn, msg)
	}
}

// dispatch routes one inbound frame. Unknown events and malformed payloads
// answer with an error frame but keep the connection open.
func (h *Handler) dispatch(ctx context.Context, conn Conn, msg Message) {
	switch msg.Event {
	case EventJoinSession:
		var payload JoinPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			h.hub.sendError(conn, err)
			return
		}
		// Join errors are already reported to the member by the hub.
		_ = h.hub.Join(ctx, conn, payload.Session)

	case EventNewScan:
		var payload ScanPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			h.hub.sendError(conn, err)
			return
		}
		h.hub.Scan(ctx, conn, payload.Code)

	case EventUpdateCatalog:
		var table tabular.Table
		if err := json.Unmarshal(msg.Data, &table); err != nil {
			h.hub.sendError(conn, err)
			return
		}
		h.hub.Publish(ctx, conn, &table)

	default:
		h.hub.sendError(conn, fiber.NewError(fiber.StatusBadRequest, "unknown event: "+msg.Event))
	}
}

// wsConn adapts a websocket connection to the hub's Conn contract. Writes are
// serialized because the hub broadcasts from multiple goroutines.
type wsConn struct {
	id string
	mu sync.Mutex
	ws *websocket.Conn
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{id: uuid.NewString(), ws: ws}
}

func (c *wsConn) ID() string {
	return c.id
}

func (c *wsConn) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(msg)
}
