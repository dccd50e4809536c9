package server

import "log"

// SubmitClue appends one clue per alive player per round, in submission
// order. Once every alive player has one the room advances to voting on its
// own; a duplicate submission or a stale advancement attempt is a benign
// conflict for whoever lost the race.
func (s *Server) SubmitClue(code, playerID, text string) (*Room, error) {
	clue, err := validateClue(text)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}

	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if err := guardPhase(room, phaseClues); err != nil {
			return err
		}
		round := currentRound(room)
		if round == nil {
			return conflictError("round not started")
		}
		player, ok := s.store.FindPlayer(room, playerID)
		if !ok {
			return notFoundError("player %s", playerID)
		}
		if !player.IsAlive {
			return validationError("eliminated players cannot submit clues")
		}
		for i := range round.Clues {
			if round.Clues[i].PlayerID == playerID {
				return conflictError("clue already submitted this round")
			}
		}
		round.Clues = append(round.Clues, ClueEntry{
			PlayerID:  playerID,
			Text:      clue,
			TurnOrder: len(round.Clues),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.persistClue(room, playerID, clue); err != nil {
		log.Printf("persist clue failed room_code=%s player_id=%s error=%v", room.Code, playerID, err)
	}
	s.notifyChange(room, tableClues)

	if _, _, err := s.tryAdvanceToVoting(room.Code, true); err != nil {
		log.Printf("auto-advance to voting failed room_code=%s error=%v", room.Code, err)
	}
	return room, nil
}

// cluesComplete is the derived all-submitted predicate. It is advisory, not
// transactional: callers acting on it must tolerate losing the transition.
func cluesComplete(room *Room) bool {
	round := currentRound(room)
	if round == nil {
		return false
	}
	alive := len(alivePlayers(room))
	return alive > 0 && len(round.Clues) >= alive
}
