package session

import (
	"testing"
	"time"

	"word-imposter/internal/db"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func roomRow(version time.Duration) db.Room {
	return db.Room{ID: 7, Code: "ABC234", Phase: "clue_phase", UpdatedAt: base.Add(version)}
}

func TestApplyRoomMonotonic(t *testing.T) {
	view := NewView("p1")

	if !view.ApplyRoom(roomRow(2 * time.Second)) {
		t.Fatal("first room row rejected")
	}
	if view.Epoch() != 1 {
		t.Fatalf("epoch = %d after first accept, want 1", view.Epoch())
	}
	if view.ApplyRoom(roomRow(1 * time.Second)) {
		t.Error("older room row accepted")
	}
	if view.ApplyRoom(roomRow(2 * time.Second)) {
		t.Error("identical-version room row accepted")
	}
	if !view.ApplyRoom(roomRow(3 * time.Second)) {
		t.Error("newer room row rejected")
	}
	if view.Epoch() != 2 {
		t.Fatalf("epoch = %d, want 2", view.Epoch())
	}
}

func TestApplyCluesDuplicateDeliveryIsNoop(t *testing.T) {
	view := NewView("p1")
	view.ApplyRoom(roomRow(time.Second))
	epoch := view.Epoch()

	clues := []db.Clue{
		{ID: 1, RoundID: 3, PlayerID: "p1", Text: "round", UpdatedAt: base.Add(5 * time.Second)},
		{ID: 2, RoundID: 3, PlayerID: "p2", Text: "heavy", UpdatedAt: base.Add(6 * time.Second)},
	}
	if !view.ApplyClues(clues, epoch) {
		t.Fatal("first clue set rejected")
	}
	// The push channel and the poll both deliver the same fetch; the second
	// merge must be rejected.
	if view.ApplyClues(clues, epoch) {
		t.Error("duplicate clue set accepted")
	}
	if len(view.Snapshot().Clues) != 2 {
		t.Fatalf("snapshot holds %d clues, want 2", len(view.Snapshot().Clues))
	}
}

func TestNewerEpochSupersedesVersion(t *testing.T) {
	view := NewView("p1")
	view.ApplyRoom(roomRow(time.Second))

	clues := []db.Clue{{ID: 1, RoundID: 3, Text: "loud", UpdatedAt: base.Add(10 * time.Second)}}
	if !view.ApplyClues(clues, view.Epoch()) {
		t.Fatal("clue set rejected")
	}

	// A clue restart empties the table, so the fresh fetch carries older (zero)
	// row timestamps. It still wins because the room row moved the epoch.
	if !view.ApplyRoom(roomRow(20 * time.Second)) {
		t.Fatal("newer room row rejected")
	}
	if !view.ApplyClues(nil, view.Epoch()) {
		t.Fatal("post-restart empty clue set rejected")
	}
	if got := len(view.Snapshot().Clues); got != 0 {
		t.Fatalf("snapshot holds %d clues after restart, want 0", got)
	}

	// The reverse never holds: a fetch stamped with a stale epoch loses even
	// with newer row timestamps.
	stale := []db.Clue{{ID: 9, RoundID: 3, Text: "late", UpdatedAt: base.Add(time.Hour)}}
	if view.ApplyClues(stale, view.Epoch()-1) {
		t.Error("stale-epoch clue set accepted")
	}
}

func TestApplyRoundNewNumberSupersedes(t *testing.T) {
	view := NewView("p1")
	view.ApplyRoom(roomRow(time.Second))
	epoch := view.Epoch()

	first := db.Round{ID: 3, RoomID: 7, Number: 1, SecretWord: "Pizza", UpdatedAt: base.Add(30 * time.Second)}
	if !view.ApplyRound(first, epoch) {
		t.Fatal("first round rejected")
	}
	// The second round's row was created before the first round's last
	// update; the higher round number still wins.
	second := db.Round{ID: 4, RoomID: 7, Number: 2, SecretWord: "Sushi", UpdatedAt: base.Add(10 * time.Second)}
	if !view.ApplyRound(second, epoch) {
		t.Fatal("new round with older timestamp rejected")
	}
	if view.Snapshot().Round.Number != 2 {
		t.Fatalf("round = %d, want 2", view.Snapshot().Round.Number)
	}
	if view.ApplyRound(first, epoch) {
		t.Error("old round re-accepted")
	}
}

func TestApplyRoundBackToBackWithinOneInstant(t *testing.T) {
	view := NewView("p1")
	view.ApplyRoom(roomRow(time.Second))
	epoch := view.Epoch()

	// Rounds landing with identical row timestamps, as a fast resolver
	// produces, must each supersede the previous by number alone.
	stamp := base.Add(5 * time.Second)
	for number := 1; number <= 3; number++ {
		round := db.Round{ID: uint(number + 2), RoomID: 7, Number: number, UpdatedAt: stamp}
		if !view.ApplyRound(round, epoch) {
			t.Fatalf("round %d rejected", number)
		}
	}
	if got := view.Snapshot().Round.Number; got != 3 {
		t.Fatalf("round = %d, want 3", got)
	}
}

func TestApplyPlayersTracksOwnRow(t *testing.T) {
	view := NewView("p2")
	view.ApplyRoom(roomRow(time.Second))

	players := []db.Player{
		{ID: "p1", RoomID: 7, Name: "Alice", UpdatedAt: base.Add(time.Second)},
		{ID: "p2", RoomID: 7, Name: "Bob", Score: 4, UpdatedAt: base.Add(2 * time.Second)},
	}
	if !view.ApplyPlayers(players, view.Epoch()) {
		t.Fatal("player set rejected")
	}
	snapshot := view.Snapshot()
	if snapshot.Player.ID != "p2" || snapshot.Player.Score != 4 {
		t.Fatalf("own player row = %+v, want p2 with score 4", snapshot.Player)
	}
}

func TestOnChangeFiresOnlyOnAcceptedMerges(t *testing.T) {
	view := NewView("p1")
	fired := 0
	view.OnChange(func() { fired++ })

	view.ApplyRoom(roomRow(time.Second))
	view.ApplyRoom(roomRow(time.Second)) // rejected
	view.ApplyClues(nil, view.Epoch())
	view.ApplyClues(nil, view.Epoch()) // rejected

	if fired != 2 {
		t.Fatalf("onChange fired %d times, want 2", fired)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	view := NewView("p1")
	view.ApplyRoom(roomRow(time.Second))
	view.ApplyClues([]db.Clue{{ID: 1, Text: "original", UpdatedAt: base}}, view.Epoch())

	snapshot := view.Snapshot()
	snapshot.Clues[0].Text = "mutated"
	if view.Snapshot().Clues[0].Text != "original" {
		t.Fatal("snapshot shares backing storage with the view")
	}
}
