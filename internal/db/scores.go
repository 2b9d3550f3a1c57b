package db

import "fmt"

type RoomScore struct {
	UserID      string
	DisplayName string
	TotalScore  int
}

func (d *DB) RecordScore(roomCode, userID string, questionID int64, points int) (int64, error) {
	var id int64
	err := d.conn.QueryRow(`
		INSERT INTO scores (room_id, user_id, question_id, points)
		SELECT r.id, $2, $3, $4 FROM rooms r WHERE r.room_code = $1
		RETURNING id
	`, roomCode, userID, questionID, points).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("recording score: %w", err)
	}
	return id, nil
}

// ScoresForRoom returns per-user totals, highest first.
func (d *DB) ScoresForRoom(roomCode string) ([]RoomScore, error) {
	rows, err := d.conn.Query(`
		SELECT u.id, u.display_name, SUM(s.points) AS total_score
		FROM scores s
		JOIN users u ON u.id = s.user_id
		JOIN rooms r ON r.id = s.room_id
		WHERE r.room_code = $1
		GROUP BY u.id, u.display_name
		ORDER BY total_score DESC
	`, roomCode)
	if err != nil {
		return nil, fmt.Errorf("listing scores for room %s: %w", roomCode, err)
	}
	defer rows.Close()

	var scores []RoomScore
	for rows.Next() {
		var s RoomScore
		if err := rows.Scan(&s.UserID, &s.DisplayName, &s.TotalScore); err != nil {
			return nil, fmt.Errorf("scanning score: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func (d *DB) TotalScore(roomCode, userID string) (int, error) {
	var total int
	err := d.conn.QueryRow(`
		SELECT COALESCE(SUM(s.points), 0)
		FROM scores s
		JOIN rooms r ON r.id = s.room_id
		WHERE r.room_code = $1 AND s.user_id = $2
	`, roomCode, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("getting total score: %w", err)
	}
	return total, nil
}
