package server

import (
	"errors"
	"testing"
)

func TestSubmitClueRecordsInOrder(t *testing.T) {
	s := newTestServer(t)
	room := seatRoom(t, s, 4, 1)
	toCluePhase(t, s, room)

	first := room.Players[2].ID
	second := room.Players[0].ID
	if _, err := s.SubmitClue(room.Code, first, "round thing"); err != nil {
		t.Fatalf("clue: %v", err)
	}
	if _, err := s.SubmitClue(room.Code, second, "  lots   of   space  "); err != nil {
		t.Fatalf("clue: %v", err)
	}

	round := currentRound(room)
	if round.Clues[0].PlayerID != first || round.Clues[0].TurnOrder != 0 {
		t.Errorf("first clue = %+v, want %s at position 0", round.Clues[0], first)
	}
	if round.Clues[1].Text != "lots of space" {
		t.Errorf("clue text = %q, want whitespace collapsed", round.Clues[1].Text)
	}
}

func TestSubmitClueGuards(t *testing.T) {
	s := newTestServer(t)
	room := seatRoom(t, s, 4, 1)

	if _, err := s.SubmitClue(room.Code, room.CreatorID, "early"); !errors.Is(err, ErrInvalidPhase) {
		t.Errorf("clue before start err = %v, want ErrInvalidPhase", err)
	}

	toCluePhase(t, s, room)
	if _, err := s.SubmitClue(room.Code, "nobody", "hello"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown player err = %v, want ErrNotFound", err)
	}
	if _, err := s.SubmitClue(room.Code, room.CreatorID, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("empty clue err = %v, want ErrValidation", err)
	}
	if _, err := s.SubmitClue(room.Code, room.CreatorID, "smørrebrød"); !errors.Is(err, ErrValidation) {
		t.Errorf("non-ascii clue err = %v, want ErrValidation", err)
	}
	if _, err := s.SubmitClue(room.Code, room.CreatorID, "fine"); err != nil {
		t.Fatalf("clue: %v", err)
	}
	if _, err := s.SubmitClue(room.Code, room.CreatorID, "again"); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate clue err = %v, want ErrConflict", err)
	}
}

func TestCluesCompleteCountsAliveOnly(t *testing.T) {
	s := newTestServer(t)
	room := seatRoom(t, s, 4, 1)
	toCluePhase(t, s, room)

	if cluesComplete(room) {
		t.Fatal("cluesComplete true with no clues")
	}
	room.Players[3].IsAlive = false
	for i := 0; i < 3; i++ {
		if _, err := s.SubmitClue(room.Code, room.Players[i].ID, "word"); err != nil {
			t.Fatalf("clue: %v", err)
		}
	}
	if room.Phase != phaseVoting {
		t.Fatalf("three alive players with three clues should advance, phase = %s", room.Phase)
	}
}

func TestValidateTextRules(t *testing.T) {
	if _, err := validateName("  Ada   Lovelace  "); err != nil {
		t.Errorf("normalized name rejected: %v", err)
	}
	if _, err := validateName("this name is way past twenty characters"); err == nil {
		t.Error("overlong name accepted")
	}
	if _, err := validateClue("<script>"); err == nil {
		t.Error("markup characters accepted in clue")
	}
	if got, _ := validateClue("it's round, no?"); got != "it's round, no?" {
		t.Errorf("allowed punctuation mangled: %q", got)
	}
}
