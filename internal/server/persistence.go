package server

import (
	"encoding/json"
	"errors"

	"word-imposter/internal/db"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
)

// Write-through layer. The in-memory room is the working copy; these
// functions mirror it into Postgres. Cross-process races are settled here:
// phase moves are conditional updates on the expected current phase, and
// duplicate clue/vote/turn-order inserts bounce off unique indexes.

func (s *Server) persistRoom(room *Room) error {
	if s.db == nil {
		return nil
	}
	categories, err := json.Marshal(room.Categories)
	if err != nil {
		return err
	}
	record := db.Room{
		Code:         room.Code,
		CreatorID:    room.CreatorID,
		NumPlayers:   room.NumPlayers,
		NumImposters: room.NumImposters,
		Categories:   datatypes.JSON(categories),
		HintEnabled:  room.HintEnabled,
		Phase:        room.Phase,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	room.DBID = record.ID

	creator := db.Player{
		ID:        room.CreatorID,
		RoomID:    record.ID,
		Name:      room.Players[0].Name,
		IsAlive:   true,
		TurnOrder: 0,
	}
	if err := s.db.Create(&creator).Error; err != nil {
		return err
	}
	settings := db.GameSettings{
		RoomID:        record.ID,
		RevealSeconds: room.Settings.RevealSeconds,
		ClueSeconds:   room.Settings.ClueSeconds,
		VoteSeconds:   room.Settings.VoteSeconds,
		MaxRounds:     room.Settings.MaxRounds,
	}
	if err := s.db.Create(&settings).Error; err != nil {
		return err
	}
	return s.persistEvent(room, "room_created", EventPayload{RoomCode: room.Code})
}

// persistPlayer inserts the player's row. A turn-order collision means
// another process seated someone concurrently; the join retries with the
// next free index, adjusting the in-memory seat to match.
func (s *Server) persistPlayer(room *Room, player *Player) error {
	if s.db == nil {
		return nil
	}
	for attempt := 0; attempt < len(room.Players)+3; attempt++ {
		record := db.Player{
			ID:        player.ID,
			RoomID:    room.DBID,
			Name:      player.Name,
			IsAlive:   true,
			TurnOrder: player.TurnOrder,
		}
		err := s.db.Create(&record).Error
		if err == nil {
			return s.persistEvent(room, "player_joined", EventPayload{
				PlayerID:   player.ID,
				PlayerName: player.Name,
			})
		}
		if !isUniqueViolation(err) {
			return err
		}
		player.TurnOrder++
	}
	return conflictError("could not assign a turn order in room %s", room.Code)
}

// casPhase conditionally moves the persisted phase column. A false return
// means another client already applied the transition and this one is a
// benign no-op.
func (s *Server) casPhase(room *Room, from, to string) (bool, error) {
	if s.db == nil {
		return true, nil
	}
	result := s.db.Model(&db.Room{}).
		Where("id = ? AND phase = ?", room.DBID, from).
		Updates(map[string]any{"phase": to, "current_round": len(room.Rounds)})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Server) persistPhase(room *Room, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Model(&db.Room{}).Where("id = ?", room.DBID).Update("phase", room.Phase).Error; err != nil {
		return err
	}
	return s.persistEvent(room, eventType, payload)
}

// persistRoundStart writes the round row and the reassigned roles, then
// moves the phase with the expected-phase guard.
func (s *Server) persistRoundStart(room *Room, fromPhase string) error {
	if s.db == nil {
		return nil
	}
	round := currentRound(room)
	// The hint row is kept even when imposters do not see it, so results
	// can reveal it later.
	hint := round.Hint
	record := db.Round{
		RoomID:     room.DBID,
		Number:     round.Number,
		SecretWord: round.Word,
		Hint:       &hint,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if !isUniqueViolation(err) {
			return err
		}
		// Another client already created this round number; adopt it.
		existing, lookupErr := db.LatestRound(s.db, room.DBID)
		if lookupErr != nil {
			return lookupErr
		}
		record = existing
	}
	round.DBID = record.ID

	for i := range room.Players {
		player := &room.Players[i]
		updates := map[string]any{
			"is_imposter": player.IsImposter,
			"is_alive":    true,
			"turn_order":  player.TurnOrder,
			"secret":      nil,
		}
		if player.Secret != "" {
			updates["secret"] = player.Secret
		}
		if err := s.db.Model(&db.Player{}).Where("id = ?", player.ID).Updates(updates).Error; err != nil {
			return err
		}
	}
	if _, err := s.casPhase(room, fromPhase, room.Phase); err != nil {
		return err
	}
	return s.persistEvent(room, "round_started", EventPayload{RoundNumber: round.Number})
}

func (s *Server) persistClue(room *Room, playerID, text string) error {
	if s.db == nil {
		return nil
	}
	round := currentRound(room)
	if round == nil || round.DBID == 0 {
		return conflictError("round not persisted")
	}
	entry := findClue(round, playerID)
	if entry == nil {
		return notFoundError("clue for player %s", playerID)
	}
	record := db.Clue{
		RoundID:   round.DBID,
		PlayerID:  playerID,
		Text:      text,
		TurnOrder: entry.TurnOrder,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	entry.DBID = record.ID
	return s.persistEvent(room, "clue_submitted", EventPayload{PlayerID: playerID})
}

func (s *Server) persistVote(room *Room, voterID, targetID string) error {
	if s.db == nil {
		return nil
	}
	round := currentRound(room)
	if round == nil || round.DBID == 0 {
		return conflictError("round not persisted")
	}
	record := db.Vote{
		RoundID:  round.DBID,
		VoterID:  voterID,
		TargetID: targetID,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return s.persistEvent(room, "vote_submitted", EventPayload{PlayerID: voterID})
}

// persistResolution mirrors the elimination, outcome and scores. Only the
// resolver that won the phase CAS calls this.
func (s *Server) persistResolution(room *Room) error {
	if s.db == nil {
		return nil
	}
	round := currentRound(room)
	for i := range room.Players {
		player := &room.Players[i]
		updates := map[string]any{
			"is_alive": player.IsAlive,
			"score":    player.Score,
		}
		if err := s.db.Model(&db.Player{}).Where("id = ?", player.ID).Updates(updates).Error; err != nil {
			return err
		}
	}
	if round.DBID != 0 {
		if err := s.db.Model(&db.Round{}).Where("id = ?", round.DBID).Update("outcome", round.Outcome).Error; err != nil {
			return err
		}
	}
	return s.persistEvent(room, "round_resolved", EventPayload{
		RoundNumber: round.Number,
		Outcome:     round.Outcome,
	})
}

// persistClueRestart clears the round's clue and vote rows by filter and
// moves the phase back under the expected-phase guard.
func (s *Server) persistClueRestart(room *Room, fromPhase string) error {
	if s.db == nil {
		return nil
	}
	round := currentRound(room)
	if round != nil && round.DBID != 0 {
		if err := s.db.Where("round_id = ?", round.DBID).Delete(&db.Clue{}).Error; err != nil {
			return err
		}
		if err := s.db.Where("round_id = ?", round.DBID).Delete(&db.Vote{}).Error; err != nil {
			return err
		}
	}
	if _, err := s.casPhase(room, fromPhase, room.Phase); err != nil {
		return err
	}
	return s.persistEvent(room, "clues_restarted", EventPayload{Reason: "timeout"})
}

func (s *Server) persistGuess(room *Room, playerID string, correct bool) error {
	if s.db == nil {
		return nil
	}
	if correct {
		for i := range room.Players {
			player := &room.Players[i]
			if !player.IsImposter {
				continue
			}
			if err := s.db.Model(&db.Player{}).Where("id = ?", player.ID).Update("score", player.Score).Error; err != nil {
				return err
			}
		}
	}
	return s.persistEvent(room, "word_guessed", EventPayload{PlayerID: playerID, Correct: correct})
}

func (s *Server) persistChatMessage(room *Room, message ChatMessage) error {
	if s.db == nil {
		return nil
	}
	record := db.ChatMessage{
		RoomID:   room.DBID,
		PlayerID: message.PlayerID,
		Text:     message.Text,
	}
	return s.db.Create(&record).Error
}

func (s *Server) persistEvent(room *Room, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		RoomID:  room.DBID,
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	if round := currentRound(room); round != nil && round.DBID != 0 {
		id := round.DBID
		event.RoundID = &id
	}
	if payload.PlayerID != "" {
		id := payload.PlayerID
		event.PlayerID = &id
	}
	return s.db.Create(&event).Error
}

func findClue(round *RoundState, playerID string) *ClueEntry {
	for i := range round.Clues {
		if round.Clues[i].PlayerID == playerID {
			return &round.Clues[i]
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
