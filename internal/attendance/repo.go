package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a record if none exists for (student_id, date). The conditional
// insert rides on the unique constraint, so two concurrent marks for the same
// student and day cannot both commit.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (id, student_id, student_name, class_name, roll_no, date, time, status, confidence_score, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (student_id, date) DO NOTHING
		RETURNING created_at
	`, rec.ID, rec.StudentID, rec.StudentName, rec.ClassName, rec.RollNo, rec.Date, rec.Time, rec.Status, rec.ConfidenceScore, rec.CreatedAt)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, &AlreadyMarkedError{StudentName: rec.StudentName}
		}
		return Record{}, err
	}
	return rec, nil
}

// ListByDate returns all records for one date, newest first.
func (r *Repository) ListByDate(ctx context.Context, date string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, student_name, class_name, roll_no, date, time, status, confidence_score, created_at
		FROM attendance
		WHERE date = $1
		ORDER BY time DESC
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListByClassAndDate returns one class's records for a date, newest first.
func (r *Repository) ListByClassAndDate(ctx context.Context, className, date string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, student_name, class_name, roll_no, date, time, status, confidence_score, created_at
		FROM attendance
		WHERE class_name = $1 AND date = $2
		ORDER BY time DESC
	`, className, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// CountByDate returns how many students were marked present on a date.
func (r *Repository) CountByDate(ctx context.Context, date string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance WHERE date = $1`, date).Scan(&n)
	return n, err
}

// RefreshClassSummary recomputes the per-class daily present count. Called by
// the summary worker after each successful mark.
func (r *Repository) RefreshClassSummary(ctx context.Context, className, date string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO class_daily_summary (class_name, date, present_count, updated_at)
		SELECT class_name, date, COUNT(*), NOW()
		FROM attendance
		WHERE class_name = $1 AND date = $2
		GROUP BY class_name, date
		ON CONFLICT (class_name, date) DO UPDATE
		SET present_count = EXCLUDED.present_count, updated_at = NOW()
	`, className, date)
	return err
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.StudentName, &rec.ClassName, &rec.RollNo, &rec.Date, &rec.Time, &rec.Status, &rec.ConfidenceScore, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
