package server

import (
	"fmt"
	"log"
	"net/http"
	"triviabuzz/internal/config"
	"triviabuzz/internal/db"
	"triviabuzz/internal/metrics"
	"triviabuzz/internal/wshub"
)

func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	log.Println("[DB] Database connected and migrations applied")

	srv := &Server{
		DB:  database,
		Hub: wshub.NewHub(&hubStore{db: database}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/themes", srv.handleListThemes)
	mux.HandleFunc("POST /api/themes", srv.handleCreateTheme)
	mux.HandleFunc("GET /api/themes/{id}", srv.handleGetTheme)
	mux.HandleFunc("GET /api/questions", srv.handleListQuestions)
	mux.HandleFunc("POST /api/questions", srv.handleCreateQuestion)
	mux.HandleFunc("GET /api/questions/{id}", srv.handleGetQuestion)
	mux.HandleFunc("GET /api/rooms", srv.handleGetRoom)
	mux.HandleFunc("POST /api/rooms", srv.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/{code}/scores", srv.handleRoomScores)
	mux.HandleFunc("GET /api/rooms/{code}/buzzes", srv.handleRoomBuzzes)
	mux.HandleFunc("POST /api/users", srv.handleCreateUser)
	mux.HandleFunc("GET /ws", srv.handleWS)
	mux.HandleFunc("GET /health", srv.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	addr := "0.0.0.0:" + cfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", cfg.Port)
	return http.ListenAndServe(addr, mux)
}
