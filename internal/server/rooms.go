package server

import (
	"crypto/rand"
	"log"

	"word-imposter/internal/words"
)

// newRoomCode draws six characters from an alphabet with 0/O/1/I removed.
func newRoomCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "AAAAAA"
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}

// CreateRoom validates the configuration, seats the creator as host and
// persists the room together with its default settings.
func (s *Server) CreateRoom(creatorName string, cfg RoomConfig) (*Room, *Player, error) {
	name, err := validateName(creatorName)
	if err != nil {
		return nil, nil, validationError("%s", err.Error())
	}
	if err := validateRoomConfig(cfg); err != nil {
		return nil, nil, err
	}

	settings := Settings{
		RevealSeconds: s.cfg.RevealDurationSeconds,
		ClueSeconds:   s.cfg.ClueDurationSeconds,
		VoteSeconds:   s.cfg.VoteDurationSeconds,
		MaxRounds:     s.cfg.MaxRounds,
	}
	room, creator := s.store.CreateRoom(name, cfg, settings)
	if err := s.persistRoom(room); err != nil {
		s.store.RemoveRoom(room.Code)
		return nil, nil, err
	}
	log.Printf("room created room_code=%s creator=%s players=%d imposters=%d",
		room.Code, name, cfg.NumPlayers, cfg.NumImposters)
	return room, creator, nil
}

func validateRoomConfig(cfg RoomConfig) error {
	if cfg.NumPlayers < 2 {
		return validationError("at least 2 players required")
	}
	if cfg.NumImposters < 1 || cfg.NumImposters >= cfg.NumPlayers {
		return validationError("imposters must be between 1 and %d", cfg.NumPlayers-1)
	}
	if len(cfg.Categories) == 0 {
		return validationError("at least one category required")
	}
	for _, category := range cfg.Categories {
		if !words.IsKnown(category) {
			return validationError("unknown category %q", category)
		}
	}
	return nil
}

// FindRoom resolves a code case-insensitively, falling back to persisted
// rows for rooms not currently live in this process.
func (s *Server) FindRoom(code string) (*Room, error) {
	if room, ok := s.store.GetRoom(code); ok {
		return room, nil
	}
	if room, err := s.restoreRoomFromDB(code); err == nil {
		return room, nil
	}
	return nil, notFoundError("room %s", normalizeCode(code))
}

// Join seats a player while the room is waiting. Racing joins are resolved
// by the store lock in-process and by the turn-order unique index across
// processes.
func (s *Server) Join(code, displayName string) (*Room, *Player, error) {
	name, err := validateName(displayName)
	if err != nil {
		return nil, nil, validationError("%s", err.Error())
	}
	if _, err := s.FindRoom(code); err != nil {
		return nil, nil, err
	}

	room, player, err := s.store.AddPlayer(code, name)
	if err != nil {
		return nil, nil, err
	}
	if err := s.persistPlayer(room, player); err != nil {
		return nil, nil, err
	}
	log.Printf("player joined room_code=%s player=%s turn_order=%d", room.Code, name, player.TurnOrder)
	s.notifyChange(room, tablePlayers)
	return room, player, nil
}

// Leave is the client-driven exit. A departing host finishes the session for
// everyone; other players are only recorded as gone, the roster itself is
// untouched so in-flight rounds stay consistent.
func (s *Server) Leave(code, playerID string) error {
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if _, ok := s.store.FindPlayer(room, playerID); !ok {
			return notFoundError("player %s", playerID)
		}
		if playerID == room.CreatorID && room.Phase != phaseFinished {
			setPhase(room, phaseFinished)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if room.Phase == phaseFinished {
		s.cancelPhaseTimer(room.Code)
		if err := s.persistPhase(room, "room_finished", EventPayload{Phase: phaseFinished}); err != nil {
			log.Printf("persist finish failed room_code=%s error=%v", room.Code, err)
		}
	} else if err := s.persistEvent(room, "player_left", EventPayload{PlayerID: playerID}); err != nil {
		log.Printf("persist leave failed room_code=%s error=%v", room.Code, err)
	}
	s.notifyChange(room, tableRooms)
	return nil
}

func isHost(room *Room, playerID string) bool {
	return playerID != "" && playerID == room.CreatorID
}

func alivePlayers(room *Room) []*Player {
	alive := make([]*Player, 0, len(room.Players))
	for i := range room.Players {
		if room.Players[i].IsAlive {
			alive = append(alive, &room.Players[i])
		}
	}
	return alive
}

func aliveCounts(room *Room) (imposters, innocents int) {
	for i := range room.Players {
		if !room.Players[i].IsAlive {
			continue
		}
		if room.Players[i].IsImposter {
			imposters++
		} else {
			innocents++
		}
	}
	return imposters, innocents
}
