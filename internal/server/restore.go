package server

import (
	"encoding/json"
	"log"

	"word-imposter/internal/db"
)

// restoreRoomFromDB rebuilds a room from its persisted rows, for processes
// that were restarted while a session was running. The live copy, if one
// appeared meanwhile, wins.
func (s *Server) restoreRoomFromDB(code string) (*Room, error) {
	if s.db == nil {
		return nil, notFoundError("room %s", normalizeCode(code))
	}
	record, err := db.RoomByCode(s.db, code)
	if err != nil {
		return nil, notFoundError("room %s", normalizeCode(code))
	}

	players, err := db.PlayersByRoom(s.db, record.ID)
	if err != nil {
		return nil, err
	}
	settings, err := db.SettingsByRoom(s.db, record.ID)
	if err != nil {
		settings = db.GameSettings{
			RevealSeconds: s.cfg.RevealDurationSeconds,
			ClueSeconds:   s.cfg.ClueDurationSeconds,
			VoteSeconds:   s.cfg.VoteDurationSeconds,
			MaxRounds:     s.cfg.MaxRounds,
		}
	}

	var categories []string
	if err := json.Unmarshal(record.Categories, &categories); err != nil {
		log.Printf("restore categories unreadable room_code=%s error=%v", record.Code, err)
	}

	room := &Room{
		Code:           record.Code,
		DBID:           record.ID,
		CreatorID:      record.CreatorID,
		NumPlayers:     record.NumPlayers,
		NumImposters:   record.NumImposters,
		Categories:     categories,
		HintEnabled:    record.HintEnabled,
		Phase:          record.Phase,
		PhaseStartedAt: timeNowUTC(),
		Settings: Settings{
			RevealSeconds: settings.RevealSeconds,
			ClueSeconds:   settings.ClueSeconds,
			VoteSeconds:   settings.VoteSeconds,
			MaxRounds:     settings.MaxRounds,
		},
		Players: buildPlayers(players),
	}

	if messages, err := db.ChatByRoom(s.db, record.ID); err == nil {
		room.Chat = buildChat(messages, room.Players)
	}

	if round, err := db.LatestRound(s.db, record.ID); err == nil {
		state, err := s.buildRoundState(round)
		if err != nil {
			return nil, err
		}
		room.Rounds = append(room.Rounds, state)
	}

	if err := s.store.RestoreRoom(room); err != nil {
		if live, ok := s.store.GetRoom(room.Code); ok {
			return live, nil
		}
		return nil, err
	}
	log.Printf("room restored room_code=%s phase=%s players=%d", room.Code, room.Phase, len(room.Players))
	s.schedulePhaseTimer(room)
	return room, nil
}

func buildPlayers(records []db.Player) []Player {
	players := make([]Player, 0, len(records))
	for _, record := range records {
		secret := ""
		if record.Secret != nil {
			secret = *record.Secret
		}
		players = append(players, Player{
			ID:         record.ID,
			Name:       record.Name,
			IsImposter: record.IsImposter,
			Secret:     secret,
			IsAlive:    record.IsAlive,
			TurnOrder:  record.TurnOrder,
			Score:      record.Score,
		})
	}
	return players
}

func buildChat(records []db.ChatMessage, players []Player) []ChatMessage {
	names := make(map[string]string, len(players))
	for _, player := range players {
		names[player.ID] = player.Name
	}
	messages := make([]ChatMessage, 0, len(records))
	for _, record := range records {
		messages = append(messages, ChatMessage{
			PlayerID:   record.PlayerID,
			PlayerName: names[record.PlayerID],
			Text:       record.Text,
			SentAt:     record.CreatedAt,
		})
	}
	return messages
}

func (s *Server) buildRoundState(record db.Round) (RoundState, error) {
	state := RoundState{
		Number:    record.Number,
		DBID:      record.ID,
		Word:      record.SecretWord,
		Outcome:   record.Outcome,
		GuessedBy: make(map[string]struct{}),
	}
	if record.Hint != nil {
		state.Hint = *record.Hint
	}
	// Spent guesses survive a restart via their events; an imposter only
	// ever gets one per round.
	if events, err := db.EventsByRound(s.db, record.ID, "word_guessed"); err == nil {
		state.GuessedBy = guessedFrom(events)
	}
	clues, err := db.CluesByRound(s.db, record.ID)
	if err != nil {
		return state, err
	}
	for _, clue := range clues {
		state.Clues = append(state.Clues, ClueEntry{
			PlayerID:  clue.PlayerID,
			Text:      clue.Text,
			TurnOrder: clue.TurnOrder,
			DBID:      clue.ID,
		})
	}
	votes, err := db.VotesByRound(s.db, record.ID)
	if err != nil {
		return state, err
	}
	for _, vote := range votes {
		state.Votes = append(state.Votes, VoteEntry{
			VoterID:  vote.VoterID,
			TargetID: vote.TargetID,
			DBID:     vote.ID,
		})
	}
	return state, nil
}

func guessedFrom(events []db.Event) map[string]struct{} {
	guessed := make(map[string]struct{}, len(events))
	for _, event := range events {
		if event.Type != "word_guessed" || event.PlayerID == nil {
			continue
		}
		guessed[*event.PlayerID] = struct{}{}
	}
	return guessed
}
