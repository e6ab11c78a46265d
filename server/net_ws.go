package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws        *websocket.Conn
	send      chan []byte
	frameType int
}

func NewClientConn(ws *websocket.Conn, frameType int) *ClientConn {
	return &ClientConn{
		ws:        ws,
		send:      make(chan []byte, 64),
		frameType: frameType,
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(b []byte) {
	if c.send == nil {
		return
	}
	select {
	case c.send <- b:
	default:
		// 为了实时性，丢弃新消息（防止阻塞 Tick）
	}
}

// Close 关闭发送队列；写协程发送完剩余消息后关闭底层连接
func (c *ClientConn) Close() {
	if c.send != nil {
		close(c.send)
		c.send = nil
	}
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *ClientConn) writePump(send <-chan []byte) {
	defer c.ws.Close()
	for msg := range send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.ws.WriteMessage(c.frameType, msg); err != nil {
			Log.Debugf("ws write: %v", err)
			return
		}
	}
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
}

// readPump 读取客户端消息，解码后注入会话
func (c *ClientConn) readPump(m *SessionManager, runner *SessionRunner) {
	// 读泵退出时，通知管理器停止该会话（连接由 Tick 协程关闭）
	defer m.Close(runner.ID)
	c.ws.SetReadLimit(1 << 16)
	_ = c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(60 * time.Second)) })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				Log.Warnf("session %s: read: %v", runner.ID, err)
			}
			return
		}
		// 任何入站消息都视为存活
		_ = c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg ClientMessage
		if err := runner.codec.Unmarshal(payload, &msg); err != nil {
			Log.Debugf("session %s: bad message: %v", runner.ID, err)
			continue
		}
		runner.OnInput(msg)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 渲染端可能来自任意来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：/ws?codec=json|msgpack&seed=42
// 每个连接拥有一个独立会话
func (m *SessionManager) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	codec := m.codec
	if name := q.Get("codec"); name != "" {
		c, err := CodecByName(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		codec = c
	}
	var seed int64
	if s := q.Get("seed"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			http.Error(w, "invalid seed", http.StatusBadRequest)
			return
		}
		seed = v
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	client := NewClientConn(ws, codec.FrameType())
	runner, err := m.Open(client, codec, seed)
	if err != nil {
		Log.Errorf("ws: %v", err)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "session unavailable"), time.Now().Add(time.Second))
		_ = ws.Close()
		return
	}

	go client.writePump(client.send)
	runner.StartTicker()
	go client.readPump(m, runner)
}
