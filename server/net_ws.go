package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// 入站信封：{"event":"move","data":{"direction":"up"}}
type inEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// 出站信封：{"event":"gameStateUpdate","data":{...}}
type outEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	id   string
	ws   *websocket.Conn
	send chan []byte
	once sync.Once
}

func NewClientConn(id string, ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		id:   id,
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
		// 为了实时性，丢弃消息（防止慢客户端阻塞事件循环）
	}
}

// Close 关闭底层连接与发送队列（幂等）
func (c *ClientConn) Close() {
	c.once.Do(func() {
		close(c.send)
		_ = c.ws.Close()
	})
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *ClientConn) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump 解析入站信封并转交 Hub；读泵退出即视为断线
func (c *ClientConn) readPump(hub *Hub, srv *WSServer) {
	defer func() {
		hub.Disconnect(c.id)
		srv.unregister(c.id)
	}()
	c.ws.SetReadLimit(1 << 20) // 1MB
	_ = c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var env inEnvelope
		if err := json.Unmarshal(payload, &env); err != nil {
			continue
		}
		switch env.Event {
		case EvJoinGame:
			var data struct {
				Name string `json:"name"`
			}
			_ = json.Unmarshal(env.Data, &data)
			hub.Join(c.id, data.Name)
		case EvMove:
			var data struct {
				Direction string `json:"direction"`
			}
			_ = json.Unmarshal(env.Data, &data)
			hub.Move(c.id, ParseDirection(data.Direction))
		case EvRequestRematch:
			hub.RequestRematch(c.id)
		case EvCancelRematch:
			hub.CancelRematch(c.id)
		case EvLeaveGame:
			hub.Leave(c.id)
		default:
			// 未知事件直接忽略
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// WSServer 连接登记表，实现 Broadcaster：按连接 ID 定向投递命名事件
type WSServer struct {
	hub   *Hub
	mu    sync.RWMutex
	conns map[string]*ClientConn
}

func NewWSServer(hub *Hub) *WSServer {
	return &WSServer{
		hub:   hub,
		conns: make(map[string]*ClientConn),
	}
}

// Send 实现 Broadcaster：编码信封并压入该连接的发送队列
func (s *WSServer) Send(connID, event string, data any) {
	s.mu.RLock()
	c, ok := s.conns[connID]
	s.mu.RUnlock()
	if !ok {
		return
	}
	b, err := json.Marshal(outEnvelope{Event: event, Data: data})
	if err != nil {
		Log.Errorf("marshal event %s failed: %v", event, err)
		return
	}
	c.Enqueue(b)
}

func (s *WSServer) register(c *ClientConn) {
	s.mu.Lock()
	s.conns[c.id] = c
	s.mu.Unlock()
}

func (s *WSServer) unregister(id string) {
	s.mu.Lock()
	c, ok := s.conns[id]
	delete(s.conns, id)
	s.mu.Unlock()
	if ok {
		c.Close()
	}
}

// HandleWS WebSocket 接入：服务端分配连接 ID，身份在 joinGame 时携带
func (s *WSServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	client := NewClientConn(uuid.NewString(), ws)
	s.register(client)
	Log.Infof("player connected: %s", client.id)

	go client.writePump()
	go client.readPump(s.hub, s)
}
