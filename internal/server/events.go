package server

type EventPayload struct {
	RoomCode    string `json:"room_code,omitempty"`
	PlayerID    string `json:"player_id,omitempty"`
	PlayerName  string `json:"player,omitempty"`
	RoundNumber int    `json:"round_number,omitempty"`
	Phase       string `json:"phase,omitempty"`
	Outcome     string `json:"outcome,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Correct     bool   `json:"correct,omitempty"`
}
