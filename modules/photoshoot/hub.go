package photoshoot

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	sendBuffer = 256
	writeWait  = 10 * time.Second
)

// 배치를 구독 중인 WebSocket 연결
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// 배치별 구독자 묶음
type room struct {
	clients map[*client]struct{}
}

// Hub - 배치 결과를 구독자에게 전달
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	rooms map[string]*room
}

// NewHub - 허브 생성
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			// 개발용 - 모든 origin 허용
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		rooms: make(map[string]*room),
	}
}

// add - 구독 등록, initial 은 락 안에서 만들어 첫 메시지로 넣는다
// Broadcast 도 같은 락을 잡으므로 스냅샷 이후의 결과는 빠짐없이 뒤따른다.
func (h *Hub) add(batchID string, c *client, initial func() *Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rm, ok := h.rooms[batchID]
	if !ok {
		rm = &room{clients: make(map[*client]struct{})}
		h.rooms[batchID] = rm
	}
	rm.clients[c] = struct{}{}

	if initial != nil {
		if ev := initial(); ev != nil {
			if payload, err := json.Marshal(ev); err == nil {
				c.send <- payload
			}
		}
	}
	log.Debug().Str("batch_id", batchID).Int("clients", len(rm.clients)).Msg("🔌 Subscriber joined")
}

func (h *Hub) remove(batchID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rm, ok := h.rooms[batchID]
	if !ok {
		return
	}
	if _, ok := rm.clients[c]; ok {
		delete(rm.clients, c)
		close(c.send)
	}
	if len(rm.clients) == 0 {
		delete(h.rooms, batchID)
	}
}

// Subscribers - 배치 구독자 수
func (h *Hub) Subscribers(batchID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rm, ok := h.rooms[batchID]; ok {
		return len(rm.clients)
	}
	return 0
}

// Broadcast - 배치 구독자 전체에게 이벤트 전송
// 버퍼가 가득 찬 느린 구독자는 끊는다.
func (h *Hub) Broadcast(batchID string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("batch_id", batchID).Msg("❌ Error marshaling event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	rm, ok := h.rooms[batchID]
	if !ok {
		return
	}
	for c := range rm.clients {
		select {
		case c.send <- payload:
		default:
			delete(rm.clients, c)
			close(c.send)
		}
	}
	if len(rm.clients) == 0 {
		delete(h.rooms, batchID)
	}
}

// Serve - WebSocket 업그레이드 후 배치 구독 (initial 이 있으면 먼저 전송)
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, batchID string, initial func() *Event) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("batch_id", batchID).Msg("⚠️  WebSocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(batchID, c, initial)

	go c.writePump()
	go c.readPump(h, batchID)
}

// 구독자는 메시지를 보내지 않는다, 연결 종료 감지용
func (c *client) readPump(h *Hub, batchID string) {
	defer func() {
		h.remove(batchID, c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("batch_id", batchID).Msg("⚠️  WebSocket error")
			}
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Warn().Err(err).Msg("⚠️  WebSocket write error")
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
