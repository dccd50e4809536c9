package server

import (
	"log"
	"time"
)

// Timers are advisory: they run per room against the settings the clients
// also see, and every callback carries the generation token captured at
// scheduling time. A phase change bumps the generation, so a timer that
// fires late finds its token stale and does nothing.
func (s *Server) schedulePhaseTimer(room *Room) {
	duration := phaseDuration(room)
	if duration <= 0 {
		s.cancelPhaseTimer(room.Code)
		return
	}
	code := room.Code
	phase := room.Phase
	generation := room.Generation

	s.timersMu.Lock()
	if existing, ok := s.timers[code]; ok {
		existing.Stop()
	}
	s.timers[code] = time.AfterFunc(duration, func() {
		s.phaseTimerFired(code, phase, generation)
	})
	s.timersMu.Unlock()
}

func (s *Server) cancelPhaseTimer(code string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if timer, ok := s.timers[code]; ok {
		timer.Stop()
		delete(s.timers, code)
	}
}

func phaseDuration(room *Room) time.Duration {
	switch room.Phase {
	case phaseRoleReveal:
		return time.Duration(room.Settings.RevealSeconds) * time.Second
	case phaseClues:
		return time.Duration(room.Settings.ClueSeconds) * time.Second
	case phaseVoting:
		return time.Duration(room.Settings.VoteSeconds) * time.Second
	default:
		return 0
	}
}

func (s *Server) phaseTimerFired(code, expectedPhase string, expectedGeneration uint64) {
	room, ok := s.store.GetRoom(code)
	if !ok {
		return
	}
	if room.Phase != expectedPhase || room.Generation != expectedGeneration {
		return
	}

	switch expectedPhase {
	case phaseRoleReveal:
		// Everyone has had their look; continue without the host.
		if _, err := s.advanceFromReveal(code, nil); err != nil {
			log.Printf("timeout reveal advance failed room_code=%s error=%v", room.Code, err)
		}
	case phaseClues:
		// Clearing partial clues is user-visible, so expiry only surfaces
		// the timeout; the host confirms the restart.
		if err := s.persistEvent(room, "clue_timeout", EventPayload{Phase: room.Phase}); err != nil {
			log.Printf("persist timeout failed room_code=%s error=%v", room.Code, err)
		}
		log.Printf("clue phase timed out room_code=%s round=%d", room.Code, currentRound(room).Number)
		s.notifyChange(room, tableEvents)
	case phaseVoting:
		// Resolve with whatever votes landed before the deadline.
		if err := s.tryResolveRound(code, false); err != nil {
			log.Printf("timeout resolve failed room_code=%s error=%v", room.Code, err)
		}
	}
}
