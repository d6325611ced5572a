package roster

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Repository persists students in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new student. The UNIQUE (class_name, roll_no) constraint
// turns concurrent duplicate registrations into ErrDuplicateRoll.
func (r *Repository) Create(ctx context.Context, s Student) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, student_name, class_name, roll_no, father_name, face_encoding, face_image_b64, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, s.ID, s.StudentName, s.ClassName, s.RollNo, s.FatherName, s.FaceEncoding, s.FaceImageB64, s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRoll
		}
		return err
	}
	return nil
}

// ExistsByClassRoll reports whether a (class, roll) pair is already registered.
func (r *Repository) ExistsByClassRoll(ctx context.Context, className string, rollNo int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM students WHERE class_name = $1 AND roll_no = $2)
	`, className, rollNo).Scan(&exists)
	return exists, err
}

// List returns all students ordered by class then roll number.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_name, class_name, roll_no, father_name, face_encoding, face_image_b64, created_at
		FROM students
		ORDER BY class_name, roll_no
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStudents(rows)
}

// ListByClass returns a class roster ordered by roll number.
func (r *Repository) ListByClass(ctx context.Context, className string) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_name, class_name, roll_no, father_name, face_encoding, face_image_b64, created_at
		FROM students
		WHERE class_name = $1
		ORDER BY roll_no
	`, className)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStudents(rows)
}

// Classes returns the distinct class names in roster order.
func (r *Repository) Classes(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT class_name FROM students ORDER BY class_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		classes = append(classes, name)
	}
	return classes, rows.Err()
}

// Count returns the total number of registered students.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&n)
	return n, err
}

func scanStudents(rows *sql.Rows) ([]Student, error) {
	var students []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.StudentName, &s.ClassName, &s.RollNo, &s.FatherName, &s.FaceEncoding, &s.FaceImageB64, &s.CreatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
