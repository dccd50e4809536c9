package server

import "log"

// setPhase moves the in-memory phase and bumps the generation token so any
// timer or client trigger scheduled against the old phase becomes stale.
func setPhase(room *Room, phase string) {
	room.Phase = phase
	room.Generation++
	room.PhaseStartedAt = timeNowUTC()
}

// guardPhase is the single gate every phase-bound action goes through.
func guardPhase(room *Room, required string) error {
	if room.Phase != required {
		return invalidPhaseError(room.Phase, required)
	}
	return nil
}

func requireHost(room *Room, playerID string) error {
	if !isHost(room, playerID) {
		return validationError("only the host can do that")
	}
	return nil
}

// StartGame runs the role assignor for round one and moves the room from
// waiting to role_reveal. Host action, needs at least three seated players.
func (s *Server) StartGame(code, playerID string) (*Room, error) {
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if err := guardPhase(room, phaseWaiting); err != nil {
			return err
		}
		if err := requireHost(room, playerID); err != nil {
			return err
		}
		if len(room.Players) < minPlayersToStart {
			return validationError("need at least %d players to start", minPlayersToStart)
		}
		assignRoles(room)
		setPhase(room, phaseRoleReveal)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.persistRoundStart(room, phaseWaiting); err != nil {
		return nil, err
	}
	log.Printf("game started room_code=%s round=1 players=%d", room.Code, len(room.Players))
	s.schedulePhaseTimer(room)
	s.notifyChange(room, tableRooms, tablePlayers, tableRounds)
	return room, nil
}

// ConfirmRoles is the host acknowledging that everyone has seen their role.
// The reveal timer takes the same transition when the host never does.
func (s *Server) ConfirmRoles(code, playerID string) (*Room, error) {
	return s.advanceFromReveal(code, func(room *Room) error {
		return requireHost(room, playerID)
	})
}

func (s *Server) advanceFromReveal(code string, check func(room *Room) error) (*Room, error) {
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if err := guardPhase(room, phaseRoleReveal); err != nil {
			return err
		}
		if check != nil {
			if err := check(room); err != nil {
				return err
			}
		}
		setPhase(room, phaseClues)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.casPhase(room, phaseRoleReveal, phaseClues); err != nil {
		log.Printf("persist phase failed room_code=%s error=%v", room.Code, err)
	}
	s.schedulePhaseTimer(room)
	s.notifyChange(room, tableRooms)
	return room, nil
}

// AdvanceToVoting is the host override for ending the clue phase early. The
// same transition happens automatically once every alive player has a clue;
// both paths run through the identical guarded update so the second trigger
// is a no-op.
func (s *Server) AdvanceToVoting(code, playerID string) (*Room, error) {
	room, err := s.FindRoom(code)
	if err != nil {
		return nil, err
	}
	if err := requireHost(room, playerID); err != nil {
		return nil, err
	}
	advanced, room, err := s.tryAdvanceToVoting(code, false)
	if err != nil {
		return nil, err
	}
	if !advanced {
		return nil, invalidPhaseError(room.Phase, phaseClues)
	}
	return room, nil
}

// tryAdvanceToVoting moves clue_phase to voting. With requireComplete the
// derived all-submitted predicate must hold; the host path skips it.
func (s *Server) tryAdvanceToVoting(code string, requireComplete bool) (bool, *Room, error) {
	advanced := false
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if room.Phase != phaseClues {
			return nil
		}
		round := currentRound(room)
		if round == nil {
			return conflictError("round not started")
		}
		if requireComplete && !cluesComplete(room) {
			return nil
		}
		setPhase(room, phaseVoting)
		advanced = true
		return nil
	})
	if err != nil || !advanced {
		return false, room, err
	}
	if _, err := s.casPhase(room, phaseClues, phaseVoting); err != nil {
		log.Printf("persist phase failed room_code=%s error=%v", room.Code, err)
	}
	s.schedulePhaseTimer(room)
	s.notifyChange(room, tableRooms)
	return true, room, nil
}

// NextRound re-runs the role assignor for a fresh round and returns the room
// to role_reveal. Host action from results, capped by the room's round limit.
func (s *Server) NextRound(code, playerID string) (*Room, error) {
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if err := guardPhase(room, phaseResults); err != nil {
			return err
		}
		if err := requireHost(room, playerID); err != nil {
			return err
		}
		if limit := room.Settings.MaxRounds; limit > 0 {
			if current := currentRound(room); current != nil && current.Number >= limit {
				return conflictError("round limit of %d reached", limit)
			}
		}
		assignRoles(room)
		setPhase(room, phaseRoleReveal)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.persistRoundStart(room, phaseResults); err != nil {
		return nil, err
	}
	round := currentRound(room)
	log.Printf("next round room_code=%s round=%d", room.Code, round.Number)
	s.schedulePhaseTimer(room)
	s.notifyChange(room, tableRooms, tablePlayers, tableRounds)
	return room, nil
}

// RestartClues is the timeout recovery path: the host confirms clearing the
// current round's clues and the room returns to clue_phase with roles kept.
func (s *Server) RestartClues(code, playerID string) (*Room, error) {
	from := ""
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if room.Phase != phaseClues && room.Phase != phaseResults {
			return invalidPhaseError(room.Phase, phaseClues)
		}
		if err := requireHost(room, playerID); err != nil {
			return err
		}
		round := currentRound(room)
		if round == nil {
			return conflictError("round not started")
		}
		from = room.Phase
		round.Clues = nil
		round.Votes = nil
		setPhase(room, phaseClues)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.persistClueRestart(room, from); err != nil {
		log.Printf("persist restart failed room_code=%s error=%v", room.Code, err)
	}
	log.Printf("clue phase restarted room_code=%s round=%d", room.Code, currentRound(room).Number)
	s.schedulePhaseTimer(room)
	s.notifyChange(room, tableRooms, tableClues, tableVotes)
	return room, nil
}
