package server

import (
	"math/rand"

	"word-imposter/internal/words"
)

// assignRoles reshuffles the roster, marks the first min(numImposters, n-1)
// players as imposters and hands out the secret material. At least one
// innocent always remains. The previous round's clues and votes are
// superseded by the fresh round's empty sets, and every alive flag resets.
func assignRoles(room *Room) RoundState {
	order := rand.Perm(len(room.Players))
	imposterCount := room.NumImposters
	if imposterCount > len(room.Players)-1 {
		imposterCount = len(room.Players) - 1
	}

	word, hint, _ := words.Draw(room.Categories)
	for position, index := range order {
		player := &room.Players[index]
		player.TurnOrder = position
		player.IsImposter = position < imposterCount
		player.IsAlive = true
		switch {
		case !player.IsImposter:
			player.Secret = word
		case room.HintEnabled:
			player.Secret = hint
		default:
			player.Secret = ""
		}
	}

	// Numbering continues from the latest round, not from the slice length;
	// a room rebuilt from persisted rows only carries its current round.
	number := 1
	if current := currentRound(room); current != nil {
		number = current.Number + 1
	}
	round := RoundState{
		Number:    number,
		Word:      word,
		Hint:      hint,
		GuessedBy: make(map[string]struct{}),
	}
	room.Rounds = append(room.Rounds, round)
	return round
}

func currentRound(room *Room) *RoundState {
	if len(room.Rounds) == 0 {
		return nil
	}
	return &room.Rounds[len(room.Rounds)-1]
}
