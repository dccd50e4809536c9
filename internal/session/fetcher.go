package session

import (
	"word-imposter/internal/db"

	"gorm.io/gorm"
)

// Fetcher reads the authoritative row state. The gorm implementation is the
// real one; tests substitute their own.
type Fetcher interface {
	Room(code string) (db.Room, error)
	Player(playerID string) (db.Player, error)
	Players(roomID uint) ([]db.Player, error)
	LatestRound(roomID uint) (db.Round, error)
	Clues(roundID uint) ([]db.Clue, error)
	Votes(roundID uint) ([]db.Vote, error)
	Settings(roomID uint) (db.GameSettings, error)
}

type gormFetcher struct {
	conn *gorm.DB
}

func NewFetcher(conn *gorm.DB) Fetcher {
	return gormFetcher{conn: conn}
}

func (f gormFetcher) Room(code string) (db.Room, error) {
	return db.RoomByCode(f.conn, code)
}

func (f gormFetcher) Player(playerID string) (db.Player, error) {
	return db.PlayerByID(f.conn, playerID)
}

func (f gormFetcher) Players(roomID uint) ([]db.Player, error) {
	return db.PlayersByRoom(f.conn, roomID)
}

func (f gormFetcher) LatestRound(roomID uint) (db.Round, error) {
	return db.LatestRound(f.conn, roomID)
}

func (f gormFetcher) Clues(roundID uint) ([]db.Clue, error) {
	return db.CluesByRound(f.conn, roundID)
}

func (f gormFetcher) Votes(roundID uint) ([]db.Vote, error) {
	return db.VotesByRound(f.conn, roundID)
}

func (f gormFetcher) Settings(roomID uint) (db.GameSettings, error) {
	return db.SettingsByRoom(f.conn, roomID)
}
