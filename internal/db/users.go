package db

import (
	"fmt"
	"time"
)

type User struct {
	ID          string
	Username    string
	DisplayName string
	IsHost      bool
	CreatedAt   time.Time
}

// Participant is a user as seen from inside a room, with their running total.
type Participant struct {
	UserID      string
	DisplayName string
	IsHost      bool
	TotalScore  int
}

func (d *DB) CreateUser(id, username, displayName string, isHost bool) error {
	_, err := d.conn.Exec(`
		INSERT INTO users (id, username, display_name, is_host)
		VALUES ($1, $2, $3, $4)
	`, id, username, displayName, isHost)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (d *DB) GetUser(id string) (*User, error) {
	var u User
	err := d.conn.QueryRow(`
		SELECT id, username, display_name, is_host, created_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.DisplayName, &u.IsHost, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return &u, nil
}

func (d *DB) AddUserToRoom(roomCode, userID string) error {
	// No-op when the user is already a member
	_, err := d.conn.Exec(`
		INSERT INTO room_users (room_id, user_id)
		SELECT r.id, $2 FROM rooms r WHERE r.room_code = $1
		ON CONFLICT (room_id, user_id) DO NOTHING
	`, roomCode, userID)
	if err != nil {
		return fmt.Errorf("adding user %s to room %s: %w", userID, roomCode, err)
	}
	return nil
}

// ListParticipants returns the room's users ordered host first, with score totals.
func (d *DB) ListParticipants(roomCode string) ([]Participant, error) {
	rows, err := d.conn.Query(`
		SELECT u.id, u.display_name, u.is_host, COALESCE(SUM(s.points), 0)
		FROM users u
		JOIN room_users ru ON ru.user_id = u.id
		JOIN rooms r ON r.id = ru.room_id
		LEFT JOIN scores s ON s.user_id = u.id AND s.room_id = r.id
		WHERE r.room_code = $1
		GROUP BY u.id, u.display_name, u.is_host
		ORDER BY u.is_host DESC, u.display_name
	`, roomCode)
	if err != nil {
		return nil, fmt.Errorf("listing participants for room %s: %w", roomCode, err)
	}
	defer rows.Close()

	var participants []Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.UserID, &p.DisplayName, &p.IsHost, &p.TotalScore); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
