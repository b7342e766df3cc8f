package api

import (
	"net/http"

	"galeria-pdf/internal/config"
	"galeria-pdf/internal/database"
	"galeria-pdf/internal/storage"
	"galeria-pdf/internal/websocket"
)

type Server struct {
	config  *config.Config
	store   *database.PostgresStore
	storage *storage.LocalStorage
	wsHub   *websocket.Hub
}

func NewServer(cfg *config.Config, store *database.PostgresStore, storage *storage.LocalStorage, wsHub *websocket.Hub) *Server {
	return &Server{
		config:  cfg,
		store:   store,
		storage: storage,
		wsHub:   wsHub,
	}
}

func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.GetPool().Ping(r.Context()); err != nil {
		http.Error(w, "Database unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
