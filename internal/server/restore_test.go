package server

import (
	"testing"
	"time"

	"word-imposter/internal/db"
)

func TestGuessedFromEvents(t *testing.T) {
	p1, p2 := "p1", "p2"
	events := []db.Event{
		{Type: "word_guessed", PlayerID: &p1},
		{Type: "word_guessed", PlayerID: nil},
		{Type: "round_started", PlayerID: &p2},
		{Type: "word_guessed", PlayerID: &p2},
		{Type: "word_guessed", PlayerID: &p1},
	}
	guessed := guessedFrom(events)
	if len(guessed) != 2 {
		t.Fatalf("guessed holds %d players, want 2", len(guessed))
	}
	for _, id := range []string{p1, p2} {
		if _, ok := guessed[id]; !ok {
			t.Errorf("spent guess of %s lost", id)
		}
	}
}

func TestBuildChatResolvesNames(t *testing.T) {
	sent := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []db.ChatMessage{
		{PlayerID: "p1", Text: "hello", CreatedAt: sent},
		{PlayerID: "gone", Text: "orphan", CreatedAt: sent},
	}
	players := []Player{{ID: "p1", Name: "Alice"}}

	messages := buildChat(records, players)
	if len(messages) != 2 {
		t.Fatalf("rebuilt %d messages, want 2", len(messages))
	}
	if messages[0].PlayerName != "Alice" || messages[0].Text != "hello" {
		t.Errorf("first message = %+v", messages[0])
	}
	if messages[1].PlayerName != "" {
		t.Errorf("unknown sender resolved to %q", messages[1].PlayerName)
	}
}

func TestBuildPlayersCopiesSecret(t *testing.T) {
	secret := "Pizza"
	records := []db.Player{
		{ID: "p1", Name: "Alice", Secret: &secret, IsAlive: true, TurnOrder: 0, Score: 2},
		{ID: "p2", Name: "Bob", Secret: nil, IsAlive: false, TurnOrder: 1},
	}
	players := buildPlayers(records)
	if players[0].Secret != "Pizza" || players[0].Score != 2 {
		t.Errorf("first player = %+v", players[0])
	}
	if players[1].Secret != "" || players[1].IsAlive {
		t.Errorf("second player = %+v", players[1])
	}
}
