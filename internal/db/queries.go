package db

import (
	"strings"

	"gorm.io/gorm"
)

// RoomByCode performs a case-insensitive lookup on the room code.
func RoomByCode(conn *gorm.DB, code string) (Room, error) {
	var room Room
	err := conn.Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&room).Error
	return room, err
}

func PlayerByID(conn *gorm.DB, playerID string) (Player, error) {
	var player Player
	err := conn.Where("id = ?", playerID).First(&player).Error
	return player, err
}

// PlayersByRoom returns the roster ordered by turn order.
func PlayersByRoom(conn *gorm.DB, roomID uint) ([]Player, error) {
	var players []Player
	err := conn.Where("room_id = ?", roomID).Order("turn_order asc").Find(&players).Error
	return players, err
}

// LatestRound returns the current round, the one with the highest number.
func LatestRound(conn *gorm.DB, roomID uint) (Round, error) {
	var round Round
	err := conn.Where("room_id = ?", roomID).Order("number desc").First(&round).Error
	return round, err
}

// CluesByRound returns clues in submission order.
func CluesByRound(conn *gorm.DB, roundID uint) ([]Clue, error) {
	var clues []Clue
	err := conn.Where("round_id = ?", roundID).Order("turn_order asc").Find(&clues).Error
	return clues, err
}

func VotesByRound(conn *gorm.DB, roundID uint) ([]Vote, error) {
	var votes []Vote
	err := conn.Where("round_id = ?", roundID).Order("id asc").Find(&votes).Error
	return votes, err
}

func SettingsByRoom(conn *gorm.DB, roomID uint) (GameSettings, error) {
	var settings GameSettings
	err := conn.Where("room_id = ?", roomID).First(&settings).Error
	return settings, err
}

// ChatByRoom returns the room's chat in send order.
func ChatByRoom(conn *gorm.DB, roomID uint) ([]ChatMessage, error) {
	var messages []ChatMessage
	err := conn.Where("room_id = ?", roomID).Order("id asc").Find(&messages).Error
	return messages, err
}

// EventsByRound returns one round's events of the given type.
func EventsByRound(conn *gorm.DB, roundID uint, eventType string) ([]Event, error) {
	var events []Event
	err := conn.Where("round_id = ? AND type = ?", roundID, eventType).Find(&events).Error
	return events, err
}
