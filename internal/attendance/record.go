package attendance

import (
	"errors"
	"fmt"
	"time"
)

// StatusPresent is the only status this protocol records.
const StatusPresent = "Present"

// matchConfidence is the fixed score attached to every match; the model does
// not report a variable confidence.
const matchConfidence = 0.95

// Record is one attendance entry. Append-only: never mutated or deleted.
// Student fields are a snapshot taken at mark time, not a live reference.
type Record struct {
	ID              string    `json:"id"`
	StudentID       string    `json:"student_id"`
	StudentName     string    `json:"student_name"`
	ClassName       string    `json:"class_name"`
	RollNo          int       `json:"roll_no"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Status          string    `json:"status"`
	ConfidenceScore float64   `json:"confidence_score"`
	CreatedAt       time.Time `json:"created_at"`
}

// ErrNoStudents signals an empty class roster.
var ErrNoStudents = errors.New("no students found in this class")

// ErrRecognitionUnavailable signals a vision service failure during matching.
// Unlike registration there is no soft-fail here: a degraded match would
// silently corrupt attendance data.
var ErrRecognitionUnavailable = errors.New("face recognition service unavailable")

// NoMatchError is the business outcome when the model's answer resolves to no
// roster entry. Carries the raw recognized text for the caller.
type NoMatchError struct {
	Recognized string
}

func (e *NoMatchError) Error() string {
	return "no matching student found"
}

// AlreadyMarkedError is the business outcome when the student already has a
// record for today.
type AlreadyMarkedError struct {
	StudentName string
}

func (e *AlreadyMarkedError) Error() string {
	return fmt.Sprintf("%s is already marked present today", e.StudentName)
}
