package roster

import (
	"errors"
	"time"
)

// Student is a registered roster entry. Immutable after creation.
type Student struct {
	ID           string    `json:"id"`
	StudentName  string    `json:"student_name"`
	ClassName    string    `json:"class_name"`
	RollNo       int       `json:"roll_no"`
	FatherName   string    `json:"father_name"`
	FaceEncoding string    `json:"face_encoding,omitempty"`
	FaceImageB64 string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ErrDuplicateRoll signals that the (class, roll) pair is already taken.
var ErrDuplicateRoll = errors.New("roll number already exists in this class")
