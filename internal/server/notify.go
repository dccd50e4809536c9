package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const (
	tableRooms   = "rooms"
	tablePlayers = "players"
	tableRounds  = "rounds"
	tableClues   = "clues"
	tableVotes   = "votes"
	tableEvents  = "events"
	tableChat    = "chat_messages"
)

// ChangeNotice is the push channel's row-level change notification: which
// logical table changed for which room, stamped with the server clock.
// Delivery is at-least-once; subscribers refetch and merge by version, so
// duplicates and reordering are harmless.
type ChangeNotice struct {
	Table    string `json:"table"`
	RoomCode string `json:"room_code"`
	Round    int    `json:"round,omitempty"`
	Version  int64  `json:"version"`
}

type notifyHub struct {
	mu     sync.Mutex
	groups map[string]map[*websocket.Conn]struct{}
}

func newNotifyHub() *notifyHub {
	return &notifyHub{groups: make(map[string]map[*websocket.Conn]struct{})}
}

func (h *notifyHub) Add(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[code]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.groups[code] = group
	}
	group[conn] = struct{}{}
}

func (h *notifyHub) Remove(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[code]
	if group == nil {
		return
	}
	delete(group, conn)
	_ = conn.Close()
	if len(group) == 0 {
		delete(h.groups, code)
	}
}

func (h *notifyHub) Broadcast(code string, notice ChangeNotice) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0)
	for conn := range h.groups[code] {
		conns = append(conns, conn)
	}
	h.mu.Unlock()
	for _, conn := range conns {
		if err := conn.WriteJSON(notice); err != nil {
			h.Remove(code, conn)
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request, code string) {
	room, ok := s.store.GetRoom(code)
	if !ok {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed room_code=%s error=%v", room.Code, err)
		return
	}
	s.hub.Add(room.Code, conn)
	go func() {
		defer s.hub.Remove(room.Code, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// notifyChange fans one notice per touched table out to the room's
// subscribers.
func (s *Server) notifyChange(room *Room, tables ...string) {
	version := timeNowUTC().UnixMilli()
	roundNumber := 0
	if round := currentRound(room); round != nil {
		roundNumber = round.Number
	}
	for _, table := range tables {
		s.hub.Broadcast(room.Code, ChangeNotice{
			Table:    table,
			RoomCode: room.Code,
			Round:    roundNumber,
			Version:  version,
		})
	}
}
