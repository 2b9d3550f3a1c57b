package db

import (
	"fmt"
	"time"
)

type Room struct {
	ID                int64
	RoomCode          string
	Name              string
	IsActive          bool
	CurrentQuestionID int64 // 0 if no question is active
	CreatedAt         time.Time
}

func (d *DB) CreateRoom(roomCode, name string) (int64, error) {
	var id int64
	err := d.conn.QueryRow(`
		INSERT INTO rooms (room_code, name) VALUES ($1, $2)
		RETURNING id
	`, roomCode, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating room: %w", err)
	}
	return id, nil
}

func (d *DB) GetRoomByCode(roomCode string) (*Room, error) {
	var r Room
	err := d.conn.QueryRow(`
		SELECT id, room_code, name, is_active, COALESCE(current_question_id, 0), created_at
		FROM rooms WHERE room_code = $1
	`, roomCode).Scan(&r.ID, &r.RoomCode, &r.Name, &r.IsActive, &r.CurrentQuestionID, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting room %s: %w", roomCode, err)
	}
	return &r, nil
}

// ActiveQuestion returns the room's persisted active question, 0 if none.
func (d *DB) ActiveQuestion(roomCode string) (int64, error) {
	var questionID int64
	err := d.conn.QueryRow(`
		SELECT COALESCE(current_question_id, 0) FROM rooms WHERE room_code = $1
	`, roomCode).Scan(&questionID)
	if err != nil {
		return 0, fmt.Errorf("getting active question for room %s: %w", roomCode, err)
	}
	return questionID, nil
}

// SetActiveQuestion updates the room's persisted active question. questionID 0 clears it.
func (d *DB) SetActiveQuestion(roomCode string, questionID int64) error {
	res, err := d.conn.Exec(`
		UPDATE rooms SET current_question_id = NULLIF($1, 0) WHERE room_code = $2
	`, questionID, roomCode)
	if err != nil {
		return fmt.Errorf("setting active question for room %s: %w", roomCode, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting active question for room %s: %w", roomCode, err)
	}
	if n == 0 {
		return fmt.Errorf("setting active question: room %s not found", roomCode)
	}
	return nil
}
