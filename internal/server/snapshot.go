package server

import (
	"sort"
	"time"
)

// snapshot renders the room for one requesting player. Secret material is
// bearer-scoped, not protected: the store itself is readable by any client
// holding the room code, so this scoping is presentation, not security.
// Roles and the word are only included once the round is over.
func snapshot(room *Room, viewerID string) map[string]any {
	players := make([]map[string]any, 0, len(room.Players))
	sorted := append([]Player(nil), room.Players...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TurnOrder < sorted[j].TurnOrder
	})
	roundOver := false
	round := currentRound(room)
	if round != nil && round.Outcome != "" && round.Outcome != outcomeContinue {
		roundOver = true
	}
	for _, player := range sorted {
		entry := map[string]any{
			"id":         player.ID,
			"name":       player.Name,
			"is_alive":   player.IsAlive,
			"turn_order": player.TurnOrder,
			"score":      player.Score,
			"is_host":    isHost(room, player.ID),
		}
		if player.ID == viewerID || roundOver {
			entry["is_imposter"] = player.IsImposter
		}
		if player.ID == viewerID && player.Secret != "" {
			entry["secret"] = player.Secret
		}
		players = append(players, entry)
	}

	payload := map[string]any{
		"room_code":     room.Code,
		"phase":         room.Phase,
		"generation":    room.Generation,
		"num_players":   room.NumPlayers,
		"num_imposters": room.NumImposters,
		"categories":    room.Categories,
		"hint_enabled":  room.HintEnabled,
		"players":       players,
		"settings": map[string]any{
			"reveal_seconds": room.Settings.RevealSeconds,
			"clue_seconds":   room.Settings.ClueSeconds,
			"vote_seconds":   room.Settings.VoteSeconds,
			"max_rounds":     room.Settings.MaxRounds,
		},
	}
	if duration := phaseDuration(room); duration > 0 && !room.PhaseStartedAt.IsZero() {
		payload["phase_ends_at"] = room.PhaseStartedAt.Add(duration).UTC().Format(time.RFC3339)
	}
	if round != nil {
		payload["round"] = snapshotRound(room, round, roundOver)
	}
	return payload
}

func snapshotRound(room *Room, round *RoundState, roundOver bool) map[string]any {
	clues := make([]map[string]any, 0, len(round.Clues))
	for _, clue := range round.Clues {
		clues = append(clues, map[string]any{
			"player_id":  clue.PlayerID,
			"text":       clue.Text,
			"turn_order": clue.TurnOrder,
		})
	}
	entry := map[string]any{
		"number":         round.Number,
		"clues":          clues,
		"clues_complete": cluesComplete(room),
		"votes_cast":     len(round.Votes),
		"votes_complete": votesComplete(room),
		"outcome":        round.Outcome,
	}
	if roundOver {
		entry["secret_word"] = round.Word
		entry["hint"] = round.Hint
		entry["votes"] = snapshotVotes(round)
	}
	return entry
}

func snapshotVotes(round *RoundState) []map[string]any {
	votes := make([]map[string]any, 0, len(round.Votes))
	for _, vote := range round.Votes {
		votes = append(votes, map[string]any{
			"voter_id":  vote.VoterID,
			"target_id": vote.TargetID,
		})
	}
	return votes
}
