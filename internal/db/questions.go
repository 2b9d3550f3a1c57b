package db

import (
	"fmt"
	"time"
)

type Question struct {
	ID           int64
	ThemeID      int64 // 0 if the question has no theme
	QuestionText string
	AnswerText   string
	Difficulty   int
	CreatedAt    time.Time
}

// ListQuestions returns all questions, or only those for a theme when themeID > 0.
func (d *DB) ListQuestions(themeID int64) ([]Question, error) {
	query := `
		SELECT id, COALESCE(theme_id, 0), question_text, answer_text, difficulty, created_at
		FROM questions
	`
	args := []any{}
	if themeID > 0 {
		query += ` WHERE theme_id = $1`
		args = append(args, themeID)
	}
	query += ` ORDER BY id`

	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.ThemeID, &q.QuestionText, &q.AnswerText, &q.Difficulty, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (d *DB) GetQuestion(id int64) (*Question, error) {
	var q Question
	err := d.conn.QueryRow(`
		SELECT id, COALESCE(theme_id, 0), question_text, answer_text, difficulty, created_at
		FROM questions WHERE id = $1
	`, id).Scan(&q.ID, &q.ThemeID, &q.QuestionText, &q.AnswerText, &q.Difficulty, &q.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting question %d: %w", id, err)
	}
	return &q, nil
}

func (d *DB) CreateQuestion(themeID int64, questionText, answerText string, difficulty int) (int64, error) {
	var id int64
	err := d.conn.QueryRow(`
		INSERT INTO questions (theme_id, question_text, answer_text, difficulty)
		VALUES (NULLIF($1, 0), $2, $3, $4)
		RETURNING id
	`, themeID, questionText, answerText, difficulty).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating question: %w", err)
	}
	return id, nil
}
