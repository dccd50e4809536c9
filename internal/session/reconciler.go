package session

import (
	"context"
	"log"
	"time"
)

// Notice mirrors the server's change notification: which logical table
// changed for the subscribed room.
type Notice struct {
	Table    string `json:"table"`
	RoomCode string `json:"room_code"`
	Round    int    `json:"round,omitempty"`
	Version  int64  `json:"version"`
}

// Reconciler drives a View from both update channels. Push notices and the
// poll both end in refresh, which refetches the named entities and funnels
// them through the View's version-guarded merge; neither channel is
// authoritative over the other.
type Reconciler struct {
	fetcher  Fetcher
	view     *View
	code     string
	interval time.Duration
}

func NewReconciler(fetcher Fetcher, view *View, code string, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = 1500 * time.Millisecond
	}
	return &Reconciler{
		fetcher:  fetcher,
		view:     view,
		code:     code,
		interval: interval,
	}
}

// Run is the polling fallback loop. Errors are retried on the next tick and
// never surfaced; the poll interval is the only throttle on read load.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	r.refreshAll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshAll()
		}
	}
}

// HandleNotice reacts to one push notification by refetching the entity it
// names. Duplicate or late notices cost a refetch that the merge rejects.
func (r *Reconciler) HandleNotice(notice Notice) {
	switch notice.Table {
	case "rooms":
		r.refreshRoom()
	case "players":
		r.refreshPlayers()
	case "rounds":
		r.refreshRound()
	case "clues":
		r.refreshClues()
	case "votes":
		r.refreshVotes()
	default:
		r.refreshAll()
	}
}

func (r *Reconciler) refreshAll() {
	r.refreshRoom()
	r.refreshPlayers()
	r.refreshRound()
	r.refreshClues()
	r.refreshVotes()
	r.refreshSettings()
}

func (r *Reconciler) refreshRoom() {
	room, err := r.fetcher.Room(r.code)
	if err != nil {
		r.logMiss("rooms", err)
		return
	}
	r.view.ApplyRoom(room)
}

func (r *Reconciler) refreshPlayers() {
	roomID := r.view.Snapshot().Room.ID
	if roomID == 0 {
		return
	}
	epoch := r.view.Epoch()
	players, err := r.fetcher.Players(roomID)
	if err != nil {
		r.logMiss("players", err)
		return
	}
	r.view.ApplyPlayers(players, epoch)
}

func (r *Reconciler) refreshRound() {
	roomID := r.view.Snapshot().Room.ID
	if roomID == 0 {
		return
	}
	epoch := r.view.Epoch()
	round, err := r.fetcher.LatestRound(roomID)
	if err != nil {
		r.logMiss("rounds", err)
		return
	}
	r.view.ApplyRound(round, epoch)
}

func (r *Reconciler) refreshClues() {
	roundID := r.view.Snapshot().Round.ID
	if roundID == 0 {
		return
	}
	epoch := r.view.Epoch()
	clues, err := r.fetcher.Clues(roundID)
	if err != nil {
		r.logMiss("clues", err)
		return
	}
	r.view.ApplyClues(clues, epoch)
}

func (r *Reconciler) refreshVotes() {
	roundID := r.view.Snapshot().Round.ID
	if roundID == 0 {
		return
	}
	epoch := r.view.Epoch()
	votes, err := r.fetcher.Votes(roundID)
	if err != nil {
		r.logMiss("votes", err)
		return
	}
	r.view.ApplyVotes(votes, epoch)
}

func (r *Reconciler) refreshSettings() {
	roomID := r.view.Snapshot().Room.ID
	if roomID == 0 {
		return
	}
	epoch := r.view.Epoch()
	settings, err := r.fetcher.Settings(roomID)
	if err != nil {
		return
	}
	r.view.ApplySettings(settings, epoch)
}

func (r *Reconciler) logMiss(table string, err error) {
	// Background sync failures retry on the next interval; one log line is
	// all they get.
	log.Printf("sync refresh failed room_code=%s table=%s error=%v", r.code, table, err)
}
