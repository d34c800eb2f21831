package journal

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	journalService "github.com/zhouzirui/mood-journal/backend/internal/service/journal"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
	wsMaxFrameSize = 1 << 20
)

type outgoingMessage struct {
	Type      string                       `json:"type"`
	Data      *journalService.SubmitResult `json:"data,omitempty"`
	Error     string                       `json:"error,omitempty"`
	Timestamp int64                        `json:"timestamp"`
}

// wsConn serialises writes; the ping loop and the read loop share the socket.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
}

// handleWebSocket 处理日记 WebSocket 连接，每个入站帧等同一次 /submit
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	conn := &wsConn{conn: raw}
	defer raw.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	raw.SetReadLimit(wsMaxFrameSize)
	raw.SetReadDeadline(time.Now().Add(wsReadTimeout))
	raw.SetPongHandler(func(string) error {
		raw.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	go h.pingLoop(ctx, conn)

	h.log.Debug("websocket connected", "remote", r.RemoteAddr)

	for {
		_, data, err := raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read error", "error", err)
			}
			return
		}
		raw.SetReadDeadline(time.Now().Add(wsReadTimeout))

		if err := conn.writeJSON(h.handleFrame(ctx, data)); err != nil {
			h.log.Warn("websocket write failed", "error", err)
			return
		}
	}
}

func (h *Handler) handleFrame(ctx context.Context, data []byte) outgoingMessage {
	now := time.Now().Unix()

	var payload submitPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return outgoingMessage{Type: "error", Error: msgInvalidBody, Timestamp: now}
	}

	result, status, msg := h.submit(ctx, payload)
	if status != http.StatusOK {
		return outgoingMessage{Type: "error", Error: msg, Timestamp: now}
	}
	return outgoingMessage{Type: "result", Data: &result, Timestamp: time.Now().Unix()}
}

func (h *Handler) pingLoop(ctx context.Context, conn *wsConn) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}
