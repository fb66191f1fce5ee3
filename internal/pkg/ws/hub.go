package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/qs3c/repurpose_server/internal/pkg/pubsub"
)

const writeWait = 10 * time.Second

// Client 一个已认证的浏览器连接
type Client struct {
	UserID int64
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

func (c *Client) write(frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteMessage(websocket.TextMessage, frame)
}

// Hub 按用户索引在线连接，同一用户可同时开多个标签页
type Hub struct {
	mu     sync.RWMutex
	byUser map[int64]map[*Client]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		byUser: make(map[int64]map[*Client]struct{}),
		logger: logger.With("component", "ws_hub"),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.byUser[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.byUser[c.UserID] = set
	}
	set[c] = struct{}{}
	n := len(set)
	h.mu.Unlock()

	h.logger.Debug("client connected", "user_id", c.UserID, "user_conns", n)
}

// Unregister 可重复调用
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	removed := h.remove(c)
	h.mu.Unlock()

	if removed {
		h.logger.Debug("client disconnected", "user_id", c.UserID)
	}
}

func (h *Hub) remove(c *Client) bool {
	set, ok := h.byUser[c.UserID]
	if !ok {
		return false
	}
	if _, ok := set[c]; !ok {
		return false
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.byUser, c.UserID)
	}
	return true
}

func (h *Hub) clientsOf(userID int64) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.byUser[userID]
	out := make([]*Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// SendToUser 发给该用户的每个连接。写失败的连接被关闭并移出 hub，
// 读循环随后退出；只有编码失败才返回错误
func (h *Hub) SendToUser(userID int64, msg *Message) error {
	clients := h.clientsOf(userID)
	if len(clients) == 0 {
		return nil
	}
	frame, err := msg.encode()
	if err != nil {
		return err
	}

	for _, c := range clients {
		if err := c.write(frame); err != nil {
			h.logger.Warn("drop connection after write failure", "user_id", userID, "type", msg.Type, "error", err)
			h.Unregister(c)
			_ = c.Conn.Close()
		}
	}
	return nil
}

// ForwardCredits pubsub 订阅回调，只推给本实例上在线的用户
func (h *Hub) ForwardCredits(evt *pubsub.CreditEvent) {
	if evt == nil || !h.IsOnline(evt.UserID) {
		return
	}
	if err := h.SendToUser(evt.UserID, NewCreditsMessage(evt)); err != nil {
		h.logger.Warn("forward credit event failed", "user_id", evt.UserID, "error", err)
	}
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID]) > 0
}

// ConnectionCount 所有用户的连接总数
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, set := range h.byUser {
		total += len(set)
	}
	return total
}
