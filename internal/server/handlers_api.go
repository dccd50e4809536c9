package server

import (
	"net/http"
	"strings"

	"word-imposter/internal/words"
)

type createRoomRequest struct {
	Name         string   `json:"name" validate:"required,playername"`
	NumPlayers   int      `json:"num_players" validate:"required,min=2"`
	NumImposters int      `json:"num_imposters" validate:"required,min=1"`
	Categories   []string `json:"categories" validate:"required,min=1"`
	HintEnabled  bool     `json:"hint_enabled"`
}

type joinRequest struct {
	Name string `json:"name" validate:"required,playername"`
}

type hostRequest struct {
	PlayerID string `json:"player_id" validate:"required,uuid4"`
}

type clueRequest struct {
	PlayerID string `json:"player_id" validate:"required,uuid4"`
	Text     string `json:"text" validate:"required,cluetext"`
}

type voteRequest struct {
	PlayerID string `json:"player_id" validate:"required,uuid4"`
	TargetID string `json:"target_id" validate:"required,uuid4"`
}

type guessRequest struct {
	PlayerID string `json:"player_id" validate:"required,uuid4"`
	Guess    string `json:"guess" validate:"required,max=64"`
}

type chatRequest struct {
	PlayerID string `json:"player_id" validate:"required,uuid4"`
	Text     string `json:"text" validate:"required,chattext"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := requestValidator().Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	room, creator, err := s.CreateRoom(req.Name, RoomConfig{
		NumPlayers:   req.NumPlayers,
		NumImposters: req.NumImposters,
		Categories:   req.Categories,
		HintEnabled:  req.HintEnabled,
	})
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"room_code": room.Code,
		"player_id": creator.ID,
	})
}

func (s *Server) handleRoomSubroutes(w http.ResponseWriter, r *http.Request) {
	code, action, ok := parseRoomPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		switch action {
		case "":
			s.handleGetRoom(w, r, code)
		case "qr":
			s.handleRoomQR(w, r, code)
		case "chat":
			s.handleChatList(w, r, code)
		default:
			http.NotFound(w, r)
		}
	case http.MethodPost:
		switch action {
		case "join":
			s.handleJoin(w, r, code)
		case "start":
			s.handleHostAction(w, r, code, s.StartGame)
		case "reveal":
			s.handleHostAction(w, r, code, s.ConfirmRoles)
		case "advance":
			s.handleHostAction(w, r, code, s.AdvanceToVoting)
		case "next":
			s.handleHostAction(w, r, code, s.NextRound)
		case "restart":
			s.handleHostAction(w, r, code, s.RestartClues)
		case "clues":
			s.handleClue(w, r, code)
		case "votes":
			s.handleVote(w, r, code)
		case "guess":
			s.handleGuess(w, r, code)
		case "chat":
			s.handleChatPost(w, r, code)
		case "leave":
			s.handleLeave(w, r, code)
		default:
			http.NotFound(w, r)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request, code string) {
	room, err := s.FindRoom(code)
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(room, r.URL.Query().Get("player_id")))
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request, code string) {
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := requestValidator().Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	room, player, err := s.Join(code, req.Name)
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"room_code":  room.Code,
		"player_id":  player.ID,
		"turn_order": player.TurnOrder,
	})
}

func (s *Server) handleHostAction(w http.ResponseWriter, r *http.Request, code string, action func(string, string) (*Room, error)) {
	var req hostRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if err := requestValidator().Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	room, err := action(code, req.PlayerID)
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(room, req.PlayerID))
}

func (s *Server) handleClue(w http.ResponseWriter, r *http.Request, code string) {
	var req clueRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := requestValidator().Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	room, err := s.SubmitClue(code, req.PlayerID, req.Text)
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(room, req.PlayerID))
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request, code string) {
	var req voteRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := requestValidator().Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	room, err := s.SubmitVote(code, req.PlayerID, req.TargetID)
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(room, req.PlayerID))
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request, code string) {
	var req guessRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := requestValidator().Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	room, correct, err := s.GuessWord(code, req.PlayerID, req.Guess)
	if err != nil {
		writeKindError(w, err)
		return
	}
	payload := snapshot(room, req.PlayerID)
	payload["guess_correct"] = correct
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleChatPost(w http.ResponseWriter, r *http.Request, code string) {
	var req chatRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := requestValidator().Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	room, err := s.PostChatMessage(code, req.PlayerID, req.Text)
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": snapshotChat(room)})
}

func (s *Server) handleChatList(w http.ResponseWriter, r *http.Request, code string) {
	room, err := s.FindRoom(code)
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": snapshotChat(room)})
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request, code string) {
	var req hostRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if err := s.Leave(code, req.PlayerID); err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": words.AllCategories()})
}

// handleSessionRestore rehydrates a client from its persisted bearer pair.
// A stale pair is not an error: the client falls back to fresh entry.
func (s *Server) handleSessionRestore(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player_id")
	code := r.URL.Query().Get("room_code")
	if playerID == "" || code == "" {
		writeJSON(w, http.StatusOK, map[string]any{"session": nil})
		return
	}
	room, err := s.FindRoom(code)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"session": nil})
		return
	}
	if _, ok := s.store.FindPlayer(room, playerID); !ok {
		writeJSON(w, http.StatusOK, map[string]any{"session": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": snapshot(room, playerID)})
}

func (s *Server) handleRoomSocket(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/ws/rooms/")
	if code == "" || strings.Contains(code, "/") {
		http.NotFound(w, r)
		return
	}
	s.handleSubscribe(w, r, code)
}

func parseRoomPath(path string) (code, action string, ok bool) {
	rest := strings.TrimPrefix(path, "/api/rooms/")
	if rest == path || rest == "" {
		return "", "", false
	}
	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 2)
	code = parts[0]
	if len(parts) == 2 {
		action = parts[1]
	}
	if code == "" || strings.Contains(action, "/") {
		return "", "", false
	}
	return code, action, true
}
