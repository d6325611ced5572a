package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Statements are idempotent so this can run on
// every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"students", `
CREATE TABLE IF NOT EXISTS students (
    id UUID PRIMARY KEY,
    student_name TEXT NOT NULL,
    class_name TEXT NOT NULL,
    roll_no INTEGER NOT NULL,
    father_name TEXT NOT NULL DEFAULT '',
    face_encoding TEXT NOT NULL,
    face_image_b64 TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (class_name, roll_no)
)`},
		{"attendance", `
CREATE TABLE IF NOT EXISTS attendance (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL,
    student_name TEXT NOT NULL,
    class_name TEXT NOT NULL,
    roll_no INTEGER NOT NULL,
    date TEXT NOT NULL,
    time TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'Present',
    confidence_score DOUBLE PRECISION,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (student_id, date)
)`},
		{"class_daily_summary", `
CREATE TABLE IF NOT EXISTS class_daily_summary (
    class_name TEXT NOT NULL,
    date TEXT NOT NULL,
    present_count INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (class_name, date)
)`},
		{"devices", `
CREATE TABLE IF NOT EXISTS devices (
    device_id TEXT PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
		{"refresh_tokens", `
CREATE TABLE IF NOT EXISTS refresh_tokens (
    token TEXT PRIMARY KEY,
    device_id TEXT NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL,
    revoked BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	}

	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s.sql); err != nil {
			return fmt.Errorf("migrate %s: %w", s.name, err)
		}
	}
	return nil
}
