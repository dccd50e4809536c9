package server

import (
	"errors"
	"testing"
)

func TestTallyVotesConservation(t *testing.T) {
	round := &RoundState{Votes: []VoteEntry{
		{VoterID: "a", TargetID: "b"},
		{VoterID: "b", TargetID: "c"},
		{VoterID: "c", TargetID: "b"},
		{VoterID: "d", TargetID: "a"},
	}}
	counts := tallyVotes(round)
	total := 0
	for _, count := range counts {
		total += count
	}
	if total != len(round.Votes) {
		t.Fatalf("tally sums to %d, want %d", total, len(round.Votes))
	}
	if counts["b"] != 2 {
		t.Errorf("count for b = %d, want 2", counts["b"])
	}
}

func TestElectTargetMajority(t *testing.T) {
	room := &Room{Players: []Player{
		{ID: "a", TurnOrder: 0, IsAlive: true},
		{ID: "b", TurnOrder: 1, IsAlive: true},
		{ID: "c", TurnOrder: 2, IsAlive: true},
		{ID: "d", TurnOrder: 3, IsAlive: true},
	}}
	round := &RoundState{Votes: []VoteEntry{
		{VoterID: "a", TargetID: "d"},
		{VoterID: "b", TargetID: "d"},
		{VoterID: "c", TargetID: "d"},
		{VoterID: "d", TargetID: "a"},
	}}
	if elected := electTarget(room, round); elected == nil || elected.ID != "d" {
		t.Fatalf("elected = %+v, want d", elected)
	}
}

func TestElectTargetTieBreaksToLowestTurnOrder(t *testing.T) {
	room := &Room{Players: []Player{
		{ID: "a", TurnOrder: 1, IsAlive: true},
		{ID: "b", TurnOrder: 3, IsAlive: true},
		{ID: "c", TurnOrder: 0, IsAlive: true},
		{ID: "d", TurnOrder: 2, IsAlive: true},
	}}
	// Two votes each for a and b.
	round := &RoundState{Votes: []VoteEntry{
		{VoterID: "c", TargetID: "a"},
		{VoterID: "b", TargetID: "a"},
		{VoterID: "d", TargetID: "b"},
		{VoterID: "a", TargetID: "b"},
	}}
	if elected := electTarget(room, round); elected == nil || elected.ID != "a" {
		t.Fatalf("elected = %+v, want a (turn order 1 beats 3)", elected)
	}
}

func TestEvaluateOutcome(t *testing.T) {
	cases := []struct {
		name    string
		players []Player
		want    string
	}{
		{
			name: "no imposters alive",
			players: []Player{
				{IsImposter: true, IsAlive: false},
				{IsAlive: true}, {IsAlive: true},
			},
			want: outcomeInnocentsWin,
		},
		{
			name: "imposters reach parity",
			players: []Player{
				{IsImposter: true, IsAlive: true},
				{IsAlive: true}, {IsAlive: false},
			},
			want: outcomeImpostersWin,
		},
		{
			name: "imposters outnumber",
			players: []Player{
				{IsImposter: true, IsAlive: true},
				{IsImposter: true, IsAlive: true},
				{IsAlive: true},
			},
			want: outcomeImpostersWin,
		},
		{
			name: "game goes on",
			players: []Player{
				{IsImposter: true, IsAlive: true},
				{IsAlive: true}, {IsAlive: true}, {IsAlive: false},
			},
			want: outcomeContinue,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := evaluateOutcome(&Room{Players: tc.players}); got != tc.want {
				t.Errorf("outcome = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestApplyScores(t *testing.T) {
	room := &Room{Players: []Player{
		{ID: "imp", IsImposter: true, IsAlive: false},
		{ID: "inn1", IsAlive: true},
		{ID: "inn2", IsAlive: true},
		{ID: "inn3", IsAlive: false},
	}}
	applyScores(room, outcomeInnocentsWin)
	if room.Players[1].Score != scoreInnocentsWin || room.Players[2].Score != scoreInnocentsWin {
		t.Error("alive innocents should be credited on an innocents win")
	}
	if room.Players[3].Score != 0 {
		t.Error("eliminated innocents earn nothing")
	}
	if room.Players[0].Score != 0 {
		t.Error("imposters earn nothing on an innocents win")
	}

	applyScores(room, outcomeImpostersWin)
	if room.Players[0].Score != scoreImpostersWin {
		t.Error("imposters are credited on an imposters win even when eliminated")
	}
}

func TestVoteRoundEliminatesImposter(t *testing.T) {
	s := newTestServer(t)
	room := seatRoom(t, s, 4, 1)
	toVoting(t, s, room)
	imposters, innocents := splitRoles(room)
	imposter := imposters[0]

	if _, err := s.SubmitVote(room.Code, imposter.ID, innocents[0].ID); err != nil {
		t.Fatalf("imposter vote: %v", err)
	}
	for _, innocent := range innocents {
		if _, err := s.SubmitVote(room.Code, innocent.ID, imposter.ID); err != nil {
			t.Fatalf("innocent vote: %v", err)
		}
	}

	if room.Phase != phaseResults {
		t.Fatalf("phase = %s after all votes, want %s", room.Phase, phaseResults)
	}
	round := currentRound(room)
	if round.Outcome != outcomeInnocentsWin {
		t.Errorf("outcome = %s, want %s", round.Outcome, outcomeInnocentsWin)
	}
	if imposter.IsAlive {
		t.Error("elected imposter should be eliminated")
	}
	for _, innocent := range innocents {
		if innocent.Score != scoreInnocentsWin {
			t.Errorf("innocent %s score = %d, want %d", innocent.Name, innocent.Score, scoreInnocentsWin)
		}
	}
}

func TestVoteRoundContinuesAfterInnocentElimination(t *testing.T) {
	s := newTestServer(t)
	room := seatRoom(t, s, 5, 1)
	toVoting(t, s, room)
	imposters, innocents := splitRoles(room)
	scapegoat := innocents[len(innocents)-1]

	if _, err := s.SubmitVote(room.Code, scapegoat.ID, imposters[0].ID); err != nil {
		t.Fatalf("scapegoat vote: %v", err)
	}
	if _, err := s.SubmitVote(room.Code, imposters[0].ID, scapegoat.ID); err != nil {
		t.Fatalf("imposter vote: %v", err)
	}
	for _, innocent := range innocents[:len(innocents)-1] {
		if _, err := s.SubmitVote(room.Code, innocent.ID, scapegoat.ID); err != nil {
			t.Fatalf("vote: %v", err)
		}
	}

	round := currentRound(room)
	if round.Outcome != outcomeContinue {
		t.Errorf("outcome = %s, want %s", round.Outcome, outcomeContinue)
	}
	if scapegoat.IsAlive {
		t.Error("elected innocent should be eliminated")
	}
	if !imposters[0].IsAlive {
		t.Error("imposter survives the round")
	}
}

func TestSubmitVoteGuards(t *testing.T) {
	s := newTestServer(t)
	room := seatRoom(t, s, 4, 1)

	host := room.CreatorID
	if _, err := s.SubmitVote(room.Code, host, host); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("vote before voting err = %v, want ErrInvalidPhase", err)
	}

	toVoting(t, s, room)
	imposters, innocents := splitRoles(room)

	if _, err := s.SubmitVote(room.Code, innocents[0].ID, innocents[0].ID); !errors.Is(err, ErrValidation) {
		t.Errorf("self-vote err = %v, want ErrValidation", err)
	}
	if _, err := s.SubmitVote(room.Code, innocents[0].ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown target err = %v, want ErrNotFound", err)
	}
	if _, err := s.SubmitVote(room.Code, innocents[0].ID, imposters[0].ID); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if _, err := s.SubmitVote(room.Code, innocents[0].ID, innocents[1].ID); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate vote err = %v, want ErrConflict", err)
	}
}

func TestResolveRoundIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	room := seatRoom(t, s, 4, 1)
	toVoting(t, s, room)
	imposters, innocents := splitRoles(room)

	if _, err := s.SubmitVote(room.Code, imposters[0].ID, innocents[0].ID); err != nil {
		t.Fatalf("vote: %v", err)
	}
	for _, innocent := range innocents {
		if _, err := s.SubmitVote(room.Code, innocent.ID, imposters[0].ID); err != nil {
			t.Fatalf("vote: %v", err)
		}
	}
	aliveBefore := len(alivePlayers(room))
	generation := room.Generation

	// A racing trigger observing the same completed vote set must not
	// eliminate twice or move the phase again.
	if err := s.tryResolveRound(room.Code, false); err != nil {
		t.Fatalf("redundant resolve: %v", err)
	}
	if got := len(alivePlayers(room)); got != aliveBefore {
		t.Errorf("alive count changed on redundant resolve: %d -> %d", aliveBefore, got)
	}
	if room.Phase != phaseResults || room.Generation != generation {
		t.Errorf("phase/generation moved on redundant resolve: %s gen=%d", room.Phase, room.Generation)
	}
}

func TestVoteTimeoutResolvesWithPartialVotes(t *testing.T) {
	s := newTestServer(t)
	room := seatRoom(t, s, 4, 1)
	toVoting(t, s, room)
	imposters, innocents := splitRoles(room)

	if _, err := s.SubmitVote(room.Code, innocents[0].ID, imposters[0].ID); err != nil {
		t.Fatalf("vote: %v", err)
	}
	// The timeout path tallies whatever came in.
	if err := s.tryResolveRound(room.Code, false); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if room.Phase != phaseResults {
		t.Fatalf("phase = %s, want %s", room.Phase, phaseResults)
	}
	if imposters[0].IsAlive {
		t.Error("sole vote target should be eliminated")
	}
}

func TestGuessWord(t *testing.T) {
	s := newTestServer(t)
	room := seatRoom(t, s, 5, 1)
	toVoting(t, s, room)
	imposters, innocents := splitRoles(room)
	scapegoat := innocents[len(innocents)-1]

	if _, err := s.SubmitVote(room.Code, scapegoat.ID, imposters[0].ID); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if _, err := s.SubmitVote(room.Code, imposters[0].ID, scapegoat.ID); err != nil {
		t.Fatalf("vote: %v", err)
	}
	for _, innocent := range innocents[:len(innocents)-1] {
		if _, err := s.SubmitVote(room.Code, innocent.ID, scapegoat.ID); err != nil {
			t.Fatalf("vote: %v", err)
		}
	}
	if room.Phase != phaseResults {
		t.Fatalf("phase = %s, want %s", room.Phase, phaseResults)
	}

	if _, _, err := s.GuessWord(room.Code, innocents[0].ID, "anything"); !errors.Is(err, ErrValidation) {
		t.Errorf("innocent guess err = %v, want ErrValidation", err)
	}

	word := currentRound(room).Word
	scoreBefore := imposters[0].Score
	_, correct, err := s.GuessWord(room.Code, imposters[0].ID, "  "+word+"  ")
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	if !correct {
		t.Fatalf("guess %q should match word %q", word, word)
	}
	if imposters[0].Score != scoreBefore+scoreImposterGuess {
		t.Errorf("imposter score = %d, want %d", imposters[0].Score, scoreBefore+scoreImposterGuess)
	}

	if _, _, err := s.GuessWord(room.Code, imposters[0].ID, word); !errors.Is(err, ErrConflict) {
		t.Errorf("second guess err = %v, want ErrConflict", err)
	}
}
