package server

import "time"

const (
	phaseWaiting    = "waiting"
	phaseRoleReveal = "role_reveal"
	phaseClues      = "clue_phase"
	phaseVoting     = "voting"
	phaseResults    = "results"
	phaseFinished   = "finished"
)

const (
	outcomeInnocentsWin = "innocents_win"
	outcomeImpostersWin = "imposters_win"
	outcomeContinue     = "continue"
)

const (
	minPlayersToStart  = 3
	scoreInnocentsWin  = 2
	scoreImpostersWin  = 3
	scoreImposterGuess = 3
)

type RoomConfig struct {
	NumPlayers   int
	NumImposters int
	Categories   []string
	HintEnabled  bool
}

type Room struct {
	Code         string
	DBID         uint
	CreatorID    string
	NumPlayers   int
	NumImposters int
	Categories   []string
	HintEnabled  bool
	Phase        string
	// Generation increments on every phase change so a fired timer or a
	// stale client can tell its trigger no longer applies.
	Generation     uint64
	PhaseStartedAt time.Time
	Settings       Settings
	Players        []Player
	Rounds         []RoundState
	Chat           []ChatMessage
}

type Player struct {
	ID         string
	Name       string
	IsImposter bool
	Secret     string
	IsAlive    bool
	TurnOrder  int
	Score      int
}

type RoundState struct {
	Number  int
	DBID    uint
	Word    string
	Hint    string
	Outcome string
	Clues   []ClueEntry
	Votes   []VoteEntry
	// GuessedBy records imposters that already spent their word guess
	// this round.
	GuessedBy map[string]struct{}
}

type ClueEntry struct {
	PlayerID  string
	Text      string
	TurnOrder int
	DBID      uint
}

type VoteEntry struct {
	VoterID  string
	TargetID string
	DBID     uint
}

type Settings struct {
	RevealSeconds int
	ClueSeconds   int
	VoteSeconds   int
	MaxRounds     int
}

type ChatMessage struct {
	PlayerID   string
	PlayerName string
	Text       string
	SentAt     time.Time
}

type RoomSummary struct {
	Code    string
	Phase   string
	Players int
}
