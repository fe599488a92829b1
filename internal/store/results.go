package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ResultRecord is one completed session.
type ResultRecord struct {
	SessionID    string
	TestCode     string
	TestName     string
	PracticeExam bool
	Score        float64
	Correct      int
	Total        int
	Duration     time.Duration
	StartedAt    time.Time
	FinishedAt   time.Time
	Questions    []QuestionRow
}

// QuestionRow is the per-question detail stored with a result.
type QuestionRow struct {
	Position  int
	Text      string
	Answer    string
	Answered  bool
	Validated bool
	Correct   bool
	Attempts  int
	TimeSpent time.Duration
}

// ResultRepo persists and lists completed sessions.
type ResultRepo interface {
	// Save stores a completed session with its per-question rows.
	Save(ctx context.Context, rec *ResultRecord) error

	// Recent returns the newest results first, with question rows attached.
	Recent(ctx context.Context, limit int) ([]ResultRecord, error)
}

type resultRepo struct {
	db *sql.DB
}

func (r *resultRepo) Save(ctx context.Context, rec *ResultRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO results (session_id, test_code, test_name, practice_exam,
			score, correct, total, duration_secs, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.TestCode, rec.TestName, boolToInt(rec.PracticeExam),
		rec.Score, rec.Correct, rec.Total, int(rec.Duration.Seconds()),
		rec.StartedAt.UTC().Format(time.RFC3339), rec.FinishedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	resultID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("result id: %w", err)
	}

	for _, q := range rec.Questions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO question_results (result_id, position, question_text,
				answer, answered, validated, correct, attempts, time_spent_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			resultID, q.Position, q.Text, q.Answer, boolToInt(q.Answered),
			boolToInt(q.Validated), boolToInt(q.Correct), q.Attempts,
			q.TimeSpent.Milliseconds())
		if err != nil {
			return fmt.Errorf("insert question result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *resultRepo) Recent(ctx context.Context, limit int) ([]ResultRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, test_code, test_name, practice_exam,
			score, correct, total, duration_secs, started_at, finished_at
		FROM results ORDER BY finished_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var records []ResultRecord
	var ids []int64
	for rows.Next() {
		var (
			id                   int64
			rec                  ResultRecord
			practice             int
			durationSecs         int
			startedAt, finished  string
		)
		err := rows.Scan(&id, &rec.SessionID, &rec.TestCode, &rec.TestName, &practice,
			&rec.Score, &rec.Correct, &rec.Total, &durationSecs, &startedAt, &finished)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		rec.PracticeExam = practice != 0
		rec.Duration = time.Duration(durationSecs) * time.Second
		rec.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		rec.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		records = append(records, rec)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	for i, id := range ids {
		questions, err := r.questionRows(ctx, id)
		if err != nil {
			return nil, err
		}
		records[i].Questions = questions
	}
	return records, nil
}

func (r *resultRepo) questionRows(ctx context.Context, resultID int64) ([]QuestionRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT position, question_text, answer, answered, validated, correct,
			attempts, time_spent_ms
		FROM question_results WHERE result_id = ? ORDER BY position`, resultID)
	if err != nil {
		return nil, fmt.Errorf("query question results: %w", err)
	}
	defer rows.Close()

	var out []QuestionRow
	for rows.Next() {
		var (
			q                              QuestionRow
			answered, validated, correct   int
			timeSpentMs                    int64
		)
		err := rows.Scan(&q.Position, &q.Text, &q.Answer, &answered, &validated,
			&correct, &q.Attempts, &timeSpentMs)
		if err != nil {
			return nil, fmt.Errorf("scan question result: %w", err)
		}
		q.Answered = answered != 0
		q.Validated = validated != 0
		q.Correct = correct != 0
		q.TimeSpent = time.Duration(timeSpentMs) * time.Millisecond
		out = append(out, q)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
