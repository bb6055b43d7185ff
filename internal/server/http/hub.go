package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const wsIdlePingInterval = 30 * time.Second

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type statePush struct {
	gameID string
	state  StateResponse
}

// Hub 按对局推送局面：每个连接订阅一个 game_id。
type Hub struct {
	mu        sync.Mutex
	clients   map[*Client]string
	broadcast chan statePush
	log       zerolog.Logger
}

type Client struct {
	hub  *Hub
	send chan []byte
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:   make(map[*Client]string),
		broadcast: make(chan statePush, 32),
		log:       logger,
	}
}

// Run 分发推送，done 关闭后返回
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case p := <-h.broadcast:
			msg := wsMessage{Type: "state", Payload: mustMarshal(p.state)}
			h.mu.Lock()
			for client, id := range h.clients {
				if id == p.gameID {
					client.sendJSON(msg)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish 不阻塞；队列满了就丢，前端可以再要 state
func (h *Hub) Publish(gameID string, state StateResponse) {
	select {
	case h.broadcast <- statePush{gameID: gameID, state: state}:
	default:
		h.log.Warn().Str("game", gameID).Msg("ws-broadcast-dropped")
	}
}

func (h *Hub) Register(c *Client, gameID string) {
	h.mu.Lock()
	h.clients[c] = gameID
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) Clients(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, id := range h.clients {
		if id == gameID {
			n++
		}
	}
	return n
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// serveWS 连上先推一次当前局面；客户端发 request_state 时再推一次。
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	g, err := h.games.Get(r.URL.Query().Get("game_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("ws-upgrade")
		return
	}
	client := &Client{hub: h.hub, send: make(chan []byte, 16)}
	h.hub.Register(client, g.ID)
	client.sendJSON(wsMessage{Type: "state", Payload: mustMarshal(stateFromView(g.View()))})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			h.log.Debug().Err(err).Str("game", g.ID).Msg("ws-write")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			h.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Type == "request_state" {
			client.sendJSON(wsMessage{Type: "state", Payload: mustMarshal(stateFromView(g.View()))})
		}
	}
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	ping := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
