package db

import (
	"fmt"
	"time"
)

type BuzzEvent struct {
	ID          int64
	UserID      string
	DisplayName string
	QuestionID  int64
	BuzzTime    time.Time
}

// RecordBuzz persists a buzz for the audit trail and returns the record id.
func (d *DB) RecordBuzz(roomCode, userID string, questionID int64) (int64, error) {
	var id int64
	err := d.conn.QueryRow(`
		INSERT INTO buzzer_events (room_id, user_id, question_id)
		SELECT r.id, $2, $3 FROM rooms r WHERE r.room_code = $1
		RETURNING id
	`, roomCode, userID, questionID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("recording buzz: %w", err)
	}
	return id, nil
}

// BuzzerEventsForQuestion returns buzzes for a room's question in arrival order.
func (d *DB) BuzzerEventsForQuestion(roomCode string, questionID int64) ([]BuzzEvent, error) {
	rows, err := d.conn.Query(`
		SELECT be.id, be.user_id, u.display_name, be.question_id, be.buzz_time
		FROM buzzer_events be
		JOIN users u ON u.id = be.user_id
		JOIN rooms r ON r.id = be.room_id
		WHERE r.room_code = $1 AND be.question_id = $2
		ORDER BY be.buzz_time, be.id
	`, roomCode, questionID)
	if err != nil {
		return nil, fmt.Errorf("listing buzzes: %w", err)
	}
	defer rows.Close()

	var events []BuzzEvent
	for rows.Next() {
		var e BuzzEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.DisplayName, &e.QuestionID, &e.BuzzTime); err != nil {
			return nil, fmt.Errorf("scanning buzz event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
