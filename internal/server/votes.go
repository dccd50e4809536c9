package server

import (
	"log"
	"strings"
)

// SubmitVote records one vote per alive player per round. When the last
// alive player votes the round resolves; the resolution is guarded so that
// however many clients observe "all votes in", only one elimination happens.
func (s *Server) SubmitVote(code, voterID, targetID string) (*Room, error) {
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if err := guardPhase(room, phaseVoting); err != nil {
			return err
		}
		round := currentRound(room)
		if round == nil {
			return conflictError("round not started")
		}
		voter, ok := s.store.FindPlayer(room, voterID)
		if !ok {
			return notFoundError("player %s", voterID)
		}
		target, ok := s.store.FindPlayer(room, targetID)
		if !ok {
			return notFoundError("player %s", targetID)
		}
		if !voter.IsAlive {
			return validationError("eliminated players cannot vote")
		}
		if !target.IsAlive {
			return validationError("cannot vote for an eliminated player")
		}
		if voterID == targetID {
			return validationError("cannot vote for yourself")
		}
		for i := range round.Votes {
			if round.Votes[i].VoterID == voterID {
				return conflictError("vote already submitted this round")
			}
		}
		round.Votes = append(round.Votes, VoteEntry{VoterID: voterID, TargetID: targetID})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.persistVote(room, voterID, targetID); err != nil {
		log.Printf("persist vote failed room_code=%s voter_id=%s error=%v", room.Code, voterID, err)
	}
	s.notifyChange(room, tableVotes)

	if err := s.tryResolveRound(room.Code, true); err != nil {
		log.Printf("resolve failed room_code=%s error=%v", room.Code, err)
	}
	return room, nil
}

// tryResolveRound tallies votes, eliminates the elected target and evaluates
// the win condition. Safe to invoke redundantly: the whole step happens
// inside a single update conditioned on the room still being in voting, and
// the persisted phase column is moved with the same guard, so duplicate
// resolutions after the first are no-ops.
func (s *Server) tryResolveRound(code string, requireComplete bool) error {
	resolved := false
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if room.Phase != phaseVoting {
			return nil
		}
		round := currentRound(room)
		if round == nil || len(round.Votes) == 0 {
			return nil
		}
		if requireComplete && !votesComplete(room) {
			return nil
		}
		target := electTarget(room, round)
		if target == nil {
			return nil
		}
		target.IsAlive = false
		round.Outcome = evaluateOutcome(room)
		applyScores(room, round.Outcome)
		setPhase(room, phaseResults)
		resolved = true
		return nil
	})
	if err != nil || !resolved {
		return err
	}

	won, err := s.casPhase(room, phaseVoting, phaseResults)
	if err != nil {
		return err
	}
	if won {
		if err := s.persistResolution(room); err != nil {
			log.Printf("persist resolution failed room_code=%s error=%v", room.Code, err)
		}
	}
	round := currentRound(room)
	log.Printf("round resolved room_code=%s round=%d outcome=%s", room.Code, round.Number, round.Outcome)
	s.cancelPhaseTimer(room.Code)
	s.notifyChange(room, tableRooms, tablePlayers, tableRounds)
	return nil
}

func votesComplete(room *Room) bool {
	round := currentRound(room)
	if round == nil {
		return false
	}
	alive := len(alivePlayers(room))
	return alive > 0 && len(round.Votes) >= alive
}

func tallyVotes(round *RoundState) map[string]int {
	counts := make(map[string]int, len(round.Votes))
	for i := range round.Votes {
		counts[round.Votes[i].TargetID]++
	}
	return counts
}

// electTarget picks the most-voted player. Ties break deterministically to
// the lowest turn-order index among the tied targets.
func electTarget(room *Room, round *RoundState) *Player {
	counts := tallyVotes(round)
	var elected *Player
	max := 0
	for targetID, count := range counts {
		target, ok := findPlayer(room, targetID)
		if !ok {
			continue
		}
		if count > max {
			max = count
			elected = target
			continue
		}
		if count == max && elected != nil && target.TurnOrder < elected.TurnOrder {
			elected = target
		}
	}
	return elected
}

// evaluateOutcome inspects the post-elimination alive sets.
func evaluateOutcome(room *Room) string {
	imposters, innocents := aliveCounts(room)
	switch {
	case imposters == 0:
		return outcomeInnocentsWin
	case imposters >= innocents:
		return outcomeImpostersWin
	default:
		return outcomeContinue
	}
}

// applyScores credits cumulative scores on terminal outcomes: alive
// innocents on an innocents win, all imposters on an imposters win.
func applyScores(room *Room, outcome string) {
	for i := range room.Players {
		player := &room.Players[i]
		switch outcome {
		case outcomeInnocentsWin:
			if !player.IsImposter && player.IsAlive {
				player.Score += scoreInnocentsWin
			}
		case outcomeImpostersWin:
			if player.IsImposter {
				player.Score += scoreImpostersWin
			}
		}
	}
}

// GuessWord lets an imposter spend their one guess at the secret word during
// results. A correct guess earns every imposter a bonus.
func (s *Server) GuessWord(code, playerID, guess string) (*Room, bool, error) {
	correct := false
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if err := guardPhase(room, phaseResults); err != nil {
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
		if !player.IsImposter {
			return validationError("only imposters guess the word")
		}
		if _, done := round.GuessedBy[playerID]; done {
			return conflictError("guess already spent this round")
		}
		round.GuessedBy[playerID] = struct{}{}
		correct = strings.EqualFold(strings.TrimSpace(guess), round.Word)
		if correct {
			for i := range room.Players {
				if room.Players[i].IsImposter {
					room.Players[i].Score += scoreImposterGuess
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if err := s.persistGuess(room, playerID, correct); err != nil {
		log.Printf("persist guess failed room_code=%s player_id=%s error=%v", room.Code, playerID, err)
	}
	s.notifyChange(room, tablePlayers)
	return room, correct, nil
}
