package server

import (
	"net/http"
	"sync"
	"time"

	"word-imposter/internal/config"

	"gorm.io/gorm"
)

type Server struct {
	store    *Store
	db       *gorm.DB
	hub      *notifyHub
	cfg      config.Config
	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		store:  NewStore(),
		db:     conn,
		hub:    newNotifyHub(),
		cfg:    cfg,
		timers: make(map[string]*time.Timer),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/", s.handleRoomSubroutes)
	mux.HandleFunc("POST /api/rooms/", s.handleRoomSubroutes)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/session", s.handleSessionRestore)
	mux.HandleFunc("GET /ws/rooms/", s.handleRoomSocket)
	return mux
}
