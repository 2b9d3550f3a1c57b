package db

import (
	"fmt"
	"time"
)

type Theme struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

func (d *DB) ListThemes() ([]Theme, error) {
	rows, err := d.conn.Query(`
		SELECT id, name, COALESCE(description, ''), created_at
		FROM themes ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing themes: %w", err)
	}
	defer rows.Close()

	var themes []Theme
	for rows.Next() {
		var t Theme
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning theme: %w", err)
		}
		themes = append(themes, t)
	}
	return themes, rows.Err()
}

func (d *DB) GetTheme(id int64) (*Theme, error) {
	var t Theme
	err := d.conn.QueryRow(`
		SELECT id, name, COALESCE(description, ''), created_at
		FROM themes WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting theme %d: %w", id, err)
	}
	return &t, nil
}

func (d *DB) CreateTheme(name, description string) (int64, error) {
	var id int64
	err := d.conn.QueryRow(`
		INSERT INTO themes (name, description) VALUES ($1, NULLIF($2, ''))
		RETURNING id
	`, name, description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating theme: %w", err)
	}
	return id, nil
}
