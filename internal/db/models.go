package db

import (
	"time"

	"gorm.io/datatypes"
)

type Room struct {
	ID           uint           `gorm:"primaryKey"`
	Code         string         `gorm:"size:6;uniqueIndex;not null"`
	CreatorID    string         `gorm:"size:36;not null"`
	NumPlayers   int            `gorm:"not null"`
	NumImposters int            `gorm:"not null"`
	Categories   datatypes.JSON `gorm:"type:jsonb;not null"`
	HintEnabled  bool           `gorm:"not null;default:false"`
	Phase        string         `gorm:"size:32;not null"`
	CurrentRound int            `gorm:"not null;default:0"`
	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time      `gorm:"not null"`
	Players      []Player
	Rounds       []Round
	Events       []Event
}

// Player.ID is the self-issued bearer token a client presents on every
// action. The server never verifies identity beyond possession of it.
type Player struct {
	ID         string    `gorm:"primaryKey;size:36"`
	RoomID     uint      `gorm:"index;not null;uniqueIndex:idx_players_room_order"`
	Name       string    `gorm:"size:64;not null"`
	IsImposter bool      `gorm:"not null;default:false"`
	Secret     *string   `gorm:"size:64"`
	IsAlive    bool      `gorm:"not null;default:true"`
	TurnOrder  int       `gorm:"not null;uniqueIndex:idx_players_room_order"`
	Score      int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
	Clues      []Clue
}

type Round struct {
	ID         uint      `gorm:"primaryKey"`
	RoomID     uint      `gorm:"index;not null;uniqueIndex:idx_rounds_room_number"`
	Number     int       `gorm:"not null;uniqueIndex:idx_rounds_room_number"`
	SecretWord string    `gorm:"size:64;not null"`
	Hint       *string   `gorm:"size:64"`
	Outcome    string    `gorm:"size:32;not null;default:''"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
	Clues      []Clue
	Votes      []Vote
}

type Clue struct {
	ID        uint      `gorm:"primaryKey"`
	RoundID   uint      `gorm:"index;not null;uniqueIndex:idx_clues_round_player"`
	PlayerID  string    `gorm:"size:36;index;not null;uniqueIndex:idx_clues_round_player"`
	Text      string    `gorm:"size:140;not null"`
	TurnOrder int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Vote struct {
	ID        uint      `gorm:"primaryKey"`
	RoundID   uint      `gorm:"index;not null;uniqueIndex:idx_votes_round_voter"`
	VoterID   string    `gorm:"size:36;not null;uniqueIndex:idx_votes_round_voter"`
	TargetID  string    `gorm:"size:36;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type GameSettings struct {
	ID            uint      `gorm:"primaryKey"`
	RoomID        uint      `gorm:"uniqueIndex;not null"`
	RevealSeconds int       `gorm:"not null;default:8"`
	ClueSeconds   int       `gorm:"not null;default:30"`
	VoteSeconds   int       `gorm:"not null;default:20"`
	MaxRounds     int       `gorm:"not null;default:5"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null"`
	PlayerID  string    `gorm:"size:36;not null"`
	Text      string    `gorm:"size:200;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoomID    uint           `gorm:"index;not null"`
	RoundID   *uint          `gorm:"index"`
	PlayerID  *string        `gorm:"size:36;index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
