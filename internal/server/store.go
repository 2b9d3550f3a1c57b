package server

import (
	"triviabuzz/internal/db"
	"triviabuzz/internal/wshub"
)

// hubStore adapts db.DB to the hub's storage collaborator boundary.
type hubStore struct {
	db *db.DB
}

func (s *hubStore) ActiveQuestion(roomCode string) (int64, error) {
	return s.db.ActiveQuestion(roomCode)
}

func (s *hubStore) SetActiveQuestion(roomCode string, questionID int64) error {
	return s.db.SetActiveQuestion(roomCode, questionID)
}

func (s *hubStore) RecordBuzz(roomCode, userID string, questionID int64) (int64, error) {
	return s.db.RecordBuzz(roomCode, userID, questionID)
}

func (s *hubStore) RecordScore(roomCode, userID string, questionID int64, points int) (int64, error) {
	return s.db.RecordScore(roomCode, userID, questionID, points)
}

func (s *hubStore) TotalScore(roomCode, userID string) (int, error) {
	return s.db.TotalScore(roomCode, userID)
}

func (s *hubStore) ListParticipants(roomCode string) ([]wshub.Participant, error) {
	rows, err := s.db.ListParticipants(roomCode)
	if err != nil {
		return nil, err
	}
	participants := make([]wshub.Participant, 0, len(rows))
	for _, p := range rows {
		participants = append(participants, wshub.Participant{
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			IsHost:      p.IsHost,
			TotalScore:  p.TotalScore,
		})
	}
	return participants, nil
}
