package server

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds the live rooms. It is the only in-process synchronization
// point: every mutation runs inside UpdateRoom under the store mutex, and
// every closure re-checks the room's phase before acting so redundant
// triggers from racing clients collapse to no-ops.
type Store struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewStore() *Store {
	return &Store{rooms: make(map[string]*Room)}
}

func (s *Store) CreateRoom(creatorName string, cfg RoomConfig, settings Settings) (*Room, *Player) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := newRoomCode()
	for {
		if _, taken := s.rooms[code]; !taken {
			break
		}
		code = newRoomCode()
	}

	creator := Player{
		ID:        uuid.NewString(),
		Name:      creatorName,
		IsAlive:   true,
		TurnOrder: 0,
	}
	room := &Room{
		Code:           code,
		CreatorID:      creator.ID,
		NumPlayers:     cfg.NumPlayers,
		NumImposters:   cfg.NumImposters,
		Categories:     append([]string(nil), cfg.Categories...),
		HintEnabled:    cfg.HintEnabled,
		Phase:          phaseWaiting,
		PhaseStartedAt: timeNowUTC(),
		Settings:       settings,
		Players:        []Player{creator},
	}
	s.rooms[code] = room
	return room, &room.Players[0]
}

func (s *Store) GetRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[normalizeCode(code)]
	return room, ok
}

// UpdateRoom applies fn to the room under the store lock. A notFoundError is
// returned when the code resolves to nothing.
func (s *Store) UpdateRoom(code string, fn func(room *Room) error) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[normalizeCode(code)]
	if !ok {
		return nil, notFoundError("room %s", normalizeCode(code))
	}
	if err := fn(room); err != nil {
		return nil, err
	}
	return room, nil
}

// AddPlayer seats a new player while the room is still waiting. The turn
// order is the current seat count; uniqueness is re-checked under the lock
// and again by the (room, turn_order) index when the row is persisted.
func (s *Store) AddPlayer(code, name string) (*Room, *Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[normalizeCode(code)]
	if !ok {
		return nil, nil, notFoundError("room %s", normalizeCode(code))
	}
	if room.Phase != phaseWaiting {
		return nil, nil, invalidPhaseError(room.Phase, phaseWaiting)
	}
	if room.NumPlayers > 0 && len(room.Players) >= room.NumPlayers {
		return nil, nil, conflictError("room %s is full", room.Code)
	}
	for i := range room.Players {
		if room.Players[i].Name == name {
			return nil, nil, conflictError("name %q already taken", name)
		}
	}

	player := Player{
		ID:        uuid.NewString(),
		Name:      name,
		IsAlive:   true,
		TurnOrder: nextTurnOrder(room),
	}
	room.Players = append(room.Players, player)
	return room, &room.Players[len(room.Players)-1], nil
}

// RestoreRoom re-registers a room rebuilt from persisted rows. Restoring on
// top of a live room is a conflict; the live copy wins.
func (s *Store) RestoreRoom(room *Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.Code]; ok {
		return conflictError("room %s already live", room.Code)
	}
	s.rooms[room.Code] = room
	return nil
}

func (s *Store) RemoveRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, normalizeCode(code))
}

func (s *Store) ListRoomSummaries() []RoomSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]RoomSummary, 0, len(s.rooms))
	for _, room := range s.rooms {
		list = append(list, RoomSummary{
			Code:    room.Code,
			Phase:   room.Phase,
			Players: len(room.Players),
		})
	}
	return list
}

func (s *Store) FindPlayer(room *Room, playerID string) (*Player, bool) {
	return findPlayer(room, playerID)
}

func findPlayer(room *Room, playerID string) (*Player, bool) {
	for i := range room.Players {
		if room.Players[i].ID == playerID {
			return &room.Players[i], true
		}
	}
	return nil, false
}

// Turn orders stay unique even if a seat was ever vacated; contiguity is not
// guaranteed by contract.
func nextTurnOrder(room *Room) int {
	next := len(room.Players)
	for taken := true; taken; {
		taken = false
		for i := range room.Players {
			if room.Players[i].TurnOrder == next {
				next++
				taken = true
				break
			}
		}
	}
	return next
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
