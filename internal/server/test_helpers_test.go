package server

import (
	"fmt"
	"sort"
	"testing"

	"word-imposter/internal/config"
)

// newTestServer runs without a database; persistence calls become no-ops and
// every test exercises the in-memory path.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(nil, config.Default())
}

// seatRoom creates a room sized for total players and joins the remaining
// seats. The creator is the host and sits first.
func seatRoom(t *testing.T, s *Server, total, imposters int) *Room {
	t.Helper()
	room, _, err := s.CreateRoom("Host", RoomConfig{
		NumPlayers:   total,
		NumImposters: imposters,
		Categories:   []string{"Food"},
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	for i := 1; i < total; i++ {
		if _, _, err := s.Join(room.Code, fmt.Sprintf("Player%d", i+1)); err != nil {
			t.Fatalf("join player %d: %v", i+1, err)
		}
	}
	return room
}

func toCluePhase(t *testing.T, s *Server, room *Room) {
	t.Helper()
	if _, err := s.StartGame(room.Code, room.CreatorID); err != nil {
		t.Fatalf("start game: %v", err)
	}
	if _, err := s.ConfirmRoles(room.Code, room.CreatorID); err != nil {
		t.Fatalf("confirm roles: %v", err)
	}
}

func toVoting(t *testing.T, s *Server, room *Room) {
	t.Helper()
	toCluePhase(t, s, room)
	if _, err := s.AdvanceToVoting(room.Code, room.CreatorID); err != nil {
		t.Fatalf("advance to voting: %v", err)
	}
}

// splitRoles partitions the roster by role, each side ordered by turn order.
func splitRoles(room *Room) (imposters, innocents []*Player) {
	for i := range room.Players {
		if room.Players[i].IsImposter {
			imposters = append(imposters, &room.Players[i])
		} else {
			innocents = append(innocents, &room.Players[i])
		}
	}
	sort.Slice(imposters, func(i, j int) bool { return imposters[i].TurnOrder < imposters[j].TurnOrder })
	sort.Slice(innocents, func(i, j int) bool { return innocents[i].TurnOrder < innocents[j].TurnOrder })
	return imposters, innocents
}
