// Package session keeps one client's local copy of a room converged with
// the store. Two channels feed it, push notifications and a fixed-interval
// poll, and both land in the same version-guarded merge: a snapshot replaces
// the cached value only if it is strictly newer, so at-least-once duplicate
// delivery from either channel is harmless.
package session

import (
	"sync"

	"word-imposter/internal/db"
)

// View is the client-local cache of one room's row state. The reconciler is
// its sole writer; everything else reads through Snapshot.
type View struct {
	mu       sync.Mutex
	playerID string

	room     db.Room
	player   db.Player
	players  []db.Player
	round    db.Round
	clues    []db.Clue
	votes    []db.Vote
	settings db.GameSettings

	// epoch advances whenever a newer room row lands. Round-scoped
	// collections carry the epoch they were fetched under, so a clue set
	// emptied by a round restart still supersedes the old one even though
	// its row timestamps went backwards.
	epoch        uint64
	roomVersion  int64
	versions     map[string]entryVersion
	onChange     func()
}

type entryVersion struct {
	epoch   uint64
	version int64
}

// Snapshot is a copy of the cached state, safe to hold across updates.
type Snapshot struct {
	Room     db.Room
	Player   db.Player
	Players  []db.Player
	Round    db.Round
	Clues    []db.Clue
	Votes    []db.Vote
	Settings db.GameSettings
}

func NewView(playerID string) *View {
	return &View{
		playerID: playerID,
		versions: make(map[string]entryVersion),
	}
}

// OnChange registers a callback invoked after any accepted merge. Rejected
// (stale or identical-version) applies never fire it, which is what spares
// downstream recomputation.
func (v *View) OnChange(fn func()) {
	v.mu.Lock()
	v.onChange = fn
	v.mu.Unlock()
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{
		Room:     v.room,
		Player:   v.player,
		Players:  append([]db.Player(nil), v.players...),
		Round:    v.round,
		Clues:    append([]db.Clue(nil), v.clues...),
		Votes:    append([]db.Vote(nil), v.votes...),
		Settings: v.settings,
	}
}

// Epoch returns the merge epoch collections should be stamped with when
// they are fetched.
func (v *View) Epoch() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.epoch
}

// ApplyRoom merges a room row, accepting only strictly newer versions.
// Accepting one advances the epoch.
func (v *View) ApplyRoom(room db.Room) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	version := room.UpdatedAt.UnixMilli()
	if version <= v.roomVersion {
		return false
	}
	v.room = room
	v.roomVersion = version
	v.epoch++
	v.notifyLocked()
	return true
}

func (v *View) ApplyPlayers(players []db.Player, epoch uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.acceptLocked("players", epoch, maxPlayerVersion(players)) {
		return false
	}
	v.players = append([]db.Player(nil), players...)
	for _, player := range players {
		if player.ID == v.playerID {
			v.player = player
		}
	}
	v.notifyLocked()
	return true
}

func (v *View) ApplyRound(round db.Round, epoch uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case round.Number < v.round.Number:
		return false
	case round.Number > v.round.Number:
		// A new round always supersedes, whatever its row timestamp. The
		// version entry resets to the new round's own timestamp so later
		// updates to it merge normally.
		v.versions["round"] = entryVersion{epoch: epoch, version: round.UpdatedAt.UnixMilli()}
	default:
		if !v.acceptLocked("round", epoch, round.UpdatedAt.UnixMilli()) {
			return false
		}
	}
	v.round = round
	v.notifyLocked()
	return true
}

func (v *View) ApplyClues(clues []db.Clue, epoch uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.acceptLocked("clues", epoch, maxClueVersion(clues)) {
		return false
	}
	v.clues = append([]db.Clue(nil), clues...)
	v.notifyLocked()
	return true
}

func (v *View) ApplyVotes(votes []db.Vote, epoch uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.acceptLocked("votes", epoch, maxVoteVersion(votes)) {
		return false
	}
	v.votes = append([]db.Vote(nil), votes...)
	v.notifyLocked()
	return true
}

func (v *View) ApplySettings(settings db.GameSettings, epoch uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.acceptLocked("settings", epoch, settings.UpdatedAt.UnixMilli()) {
		return false
	}
	v.settings = settings
	v.notifyLocked()
	return true
}

// acceptLocked is the single monotonicity rule: a snapshot wins on a newer
// epoch, or on the same epoch with a strictly newer version.
func (v *View) acceptLocked(key string, epoch uint64, version int64) bool {
	current, ok := v.versions[key]
	if ok {
		if epoch < current.epoch {
			return false
		}
		if epoch == current.epoch && version <= current.version {
			return false
		}
	}
	v.versions[key] = entryVersion{epoch: epoch, version: version}
	return true
}

func (v *View) notifyLocked() {
	if v.onChange != nil {
		v.onChange()
	}
}

func maxPlayerVersion(players []db.Player) int64 {
	var max int64
	for _, player := range players {
		if ts := player.UpdatedAt.UnixMilli(); ts > max {
			max = ts
		}
	}
	return max
}

func maxClueVersion(clues []db.Clue) int64 {
	var max int64
	for _, clue := range clues {
		if ts := clue.UpdatedAt.UnixMilli(); ts > max {
			max = ts
		}
	}
	return max
}

func maxVoteVersion(votes []db.Vote) int64 {
	var max int64
	for _, vote := range votes {
		if ts := vote.UpdatedAt.UnixMilli(); ts > max {
			max = ts
		}
	}
	return max
}
