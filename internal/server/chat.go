package server

import "log"

// The in-memory backlog is bounded; older lines live only in their rows.
const maxChatBacklog = 200

// PostChatMessage appends a room-wide chat line. Chat stays open in every
// phase and eliminated players keep talking.
func (s *Server) PostChatMessage(code, playerID, text string) (*Room, error) {
	message, err := validateChatMessage(text)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}

	var entry ChatMessage
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		player, ok := s.store.FindPlayer(room, playerID)
		if !ok {
			return notFoundError("player %s", playerID)
		}
		entry = ChatMessage{
			PlayerID:   playerID,
			PlayerName: player.Name,
			Text:       message,
			SentAt:     timeNowUTC(),
		}
		room.Chat = append(room.Chat, entry)
		if len(room.Chat) > maxChatBacklog {
			room.Chat = room.Chat[len(room.Chat)-maxChatBacklog:]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.persistChatMessage(room, entry); err != nil {
		log.Printf("persist chat failed room_code=%s player_id=%s error=%v", room.Code, playerID, err)
	}
	s.notifyChange(room, tableChat)
	return room, nil
}

func snapshotChat(room *Room) []map[string]any {
	messages := make([]map[string]any, 0, len(room.Chat))
	for _, message := range room.Chat {
		messages = append(messages, map[string]any{
			"player_id": message.PlayerID,
			"player":    message.PlayerName,
			"text":      message.Text,
			"sent_at":   message.SentAt.UTC(),
		})
	}
	return messages
}
