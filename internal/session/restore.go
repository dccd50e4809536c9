package session

import (
	"strings"

	"word-imposter/internal/db"
)

// Restore rebuilds a view from a persisted (playerID, roomCode) pair, the
// bearer token a client keeps across reloads. Any miss, a purged room, a
// stale player id, a code that no longer matches, discards the pair: the
// caller gets (nil, false) and falls back to fresh entry, never an error.
func Restore(fetcher Fetcher, playerID, roomCode string) (*View, bool) {
	if playerID == "" || roomCode == "" {
		return nil, false
	}
	player, err := fetcher.Player(playerID)
	if err != nil {
		return nil, false
	}
	room, err := fetcher.Room(roomCode)
	if err != nil || room.ID != player.RoomID {
		return nil, false
	}
	if !strings.EqualFold(room.Code, strings.TrimSpace(roomCode)) {
		return nil, false
	}

	view := NewView(playerID)
	view.ApplyRoom(room)
	epoch := view.Epoch()
	view.ApplySettings(mustSettings(fetcher, room.ID), epoch)

	players, err := fetcher.Players(room.ID)
	if err != nil {
		return nil, false
	}
	view.ApplyPlayers(players, epoch)

	if round, err := fetcher.LatestRound(room.ID); err == nil {
		view.ApplyRound(round, epoch)
		if clues, err := fetcher.Clues(round.ID); err == nil {
			view.ApplyClues(clues, epoch)
		}
		if votes, err := fetcher.Votes(round.ID); err == nil {
			view.ApplyVotes(votes, epoch)
		}
	}
	return view, true
}

func mustSettings(fetcher Fetcher, roomID uint) db.GameSettings {
	if fetched, err := fetcher.Settings(roomID); err == nil {
		return fetched
	}
	return db.GameSettings{}
}
