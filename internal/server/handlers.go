package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
	"triviabuzz/internal/db"
	"triviabuzz/internal/rooms"
	"triviabuzz/internal/wshub"

	"github.com/google/uuid"
)

type Server struct {
	DB  *db.DB
	Hub *wshub.Hub
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println(err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type themeResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := s.DB.ListThemes()
	if err != nil {
		log.Printf("[Handle:Themes] %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch themes")
		return
	}
	out := make([]themeResponse, 0, len(themes))
	for _, t := range themes {
		out = append(out, themeResponse{ID: t.ID, Name: t.Name, Description: t.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid theme id")
		return
	}
	theme, err := s.DB.GetTheme(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "theme not found")
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{ID: theme.ID, Name: theme.Name, Description: theme.Description})
}

func (s *Server) handleCreateTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "theme name is required")
		return
	}
	id, err := s.DB.CreateTheme(req.Name, req.Description)
	if err != nil {
		log.Printf("[Handle:Themes] %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to create theme")
		return
	}
	writeJSON(w, http.StatusCreated, themeResponse{ID: id, Name: req.Name, Description: req.Description})
}

type questionResponse struct {
	ID           int64  `json:"id"`
	ThemeID      int64  `json:"themeId,omitempty"`
	QuestionText string `json:"questionText"`
	AnswerText   string `json:"answerText"`
	Difficulty   int    `json:"difficulty"`
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	var themeID int64
	if tStr := r.URL.Query().Get("themeId"); tStr != "" {
		var err error
		themeID, err = strconv.ParseInt(tStr, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid theme id")
			return
		}
	}
	questions, err := s.DB.ListQuestions(themeID)
	if err != nil {
		log.Printf("[Handle:Questions] %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch questions")
		return
	}
	out := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionResponse{
			ID: q.ID, ThemeID: q.ThemeID, QuestionText: q.QuestionText,
			AnswerText: q.AnswerText, Difficulty: q.Difficulty,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	q, err := s.DB.GetQuestion(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	writeJSON(w, http.StatusOK, questionResponse{
		ID: q.ID, ThemeID: q.ThemeID, QuestionText: q.QuestionText,
		AnswerText: q.AnswerText, Difficulty: q.Difficulty,
	})
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ThemeID      int64  `json:"themeId"`
		QuestionText string `json:"questionText"`
		AnswerText   string `json:"answerText"`
		Difficulty   int    `json:"difficulty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionText == "" || req.AnswerText == "" {
		writeError(w, http.StatusBadRequest, "questionText and answerText are required")
		return
	}
	if req.Difficulty == 0 {
		req.Difficulty = 1
	}
	id, err := s.DB.CreateQuestion(req.ThemeID, req.QuestionText, req.AnswerText, req.Difficulty)
	if err != nil {
		log.Printf("[Handle:Questions] %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to create question")
		return
	}
	writeJSON(w, http.StatusCreated, questionResponse{
		ID: id, ThemeID: req.ThemeID, QuestionText: req.QuestionText,
		AnswerText: req.AnswerText, Difficulty: req.Difficulty,
	})
}

type roomResponse struct {
	ID       int64  `json:"id"`
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("code")))
	if code == "" {
		writeError(w, http.StatusBadRequest, "room code is required")
		return
	}
	room, err := s.DB.GetRoomByCode(code)
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, roomResponse{ID: room.ID, RoomCode: room.RoomCode, Name: room.Name})
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:Rooms] Create Request Received")
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "room name is required")
		return
	}

	// Try up to 10 times to generate a unique code
	for range 10 {
		code, err := rooms.GenerateCode()
		if err != nil {
			log.Printf("[Handle:Rooms] %v\n", err)
			writeError(w, http.StatusInternalServerError, "failed to create room")
			return
		}
		id, err := s.DB.CreateRoom(code, req.Name)
		if err != nil {
			// Most likely a code collision; try another
			continue
		}
		fmt.Printf("[Handle:Rooms] Created room %s\n", code)
		writeJSON(w, http.StatusCreated, roomResponse{ID: id, RoomCode: code, Name: req.Name})
		return
	}
	writeError(w, http.StatusInternalServerError, "failed to generate unique room code")
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		DisplayName string `json:"displayName"`
		IsHost      bool   `json:"isHost"`
		RoomCode    string `json:"roomCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.DisplayName == "" || req.RoomCode == "" {
		writeError(w, http.StatusBadRequest, "username, displayName and roomCode are required")
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.RoomCode))
	if _, err := s.DB.GetRoomByCode(code); err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	id := uuid.New().String()
	if err := s.DB.CreateUser(id, req.Username, req.DisplayName, req.IsHost); err != nil {
		log.Printf("[Handle:Users] %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	if err := s.DB.AddUserToRoom(code, id); err != nil {
		log.Printf("[Handle:Users] %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to join room")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":          id,
		"username":    req.Username,
		"displayName": req.DisplayName,
		"isHost":      req.IsHost,
		"roomCode":    code,
	})
}

func (s *Server) handleRoomScores(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
	scores, err := s.DB.ScoresForRoom(code)
	if err != nil {
		log.Printf("[Handle:Scores] %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch scores")
		return
	}

	type scoreResponse struct {
		UserID      string `json:"userId"`
		DisplayName string `json:"displayName"`
		TotalScore  int    `json:"totalScore"`
	}
	out := make([]scoreResponse, 0, len(scores))
	for _, sc := range scores {
		out = append(out, scoreResponse{UserID: sc.UserID, DisplayName: sc.DisplayName, TotalScore: sc.TotalScore})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRoomBuzzes(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
	questionID, err := strconv.ParseInt(r.URL.Query().Get("questionId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "questionId is required")
		return
	}
	events, err := s.DB.BuzzerEventsForQuestion(code, questionID)
	if err != nil {
		log.Printf("[Handle:Buzzes] %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch buzzes")
		return
	}

	type buzzResponse struct {
		UserID      string    `json:"userId"`
		DisplayName string    `json:"displayName"`
		BuzzTime    time.Time `json:"buzzTime"`
	}
	out := make([]buzzResponse, 0, len(events))
	for _, e := range events {
		out = append(out, buzzResponse{UserID: e.UserID, DisplayName: e.DisplayName, BuzzTime: e.BuzzTime})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.Ping(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"status":"db_error","error":"%s"}`, err.Error())
		return
	}
	roomCount, clientCount := s.Hub.Registry.Stats()
	fmt.Fprintf(w, `{"status":"ok","rooms":%d,"connections":%d}`, roomCount, clientCount)
}
