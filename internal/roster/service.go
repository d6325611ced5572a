package roster

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/metrics"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/vision"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, s Student) error
	ExistsByClassRoll(ctx context.Context, className string, rollNo int) (bool, error)
	List(ctx context.Context) ([]Student, error)
	ListByClass(ctx context.Context, className string) ([]Student, error)
	Classes(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	StudentName string
	ClassName   string
	RollNo      int
	FatherName  string
	FaceImage   []byte
}

// Service handles student registration and roster queries.
type Service struct {
	store  Store
	vision vision.Provider
	now    func() time.Time
}

// NewService creates a service backed by a store and a vision provider.
func NewService(store Store, provider vision.Provider) *Service {
	return &Service{
		store:  store,
		vision: provider,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register validates the request, generates the reference description and
// persists the student. Description generation soft-fails: an unreachable
// vision service degrades the stored description to a placeholder instead of
// blocking registration.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Student, error) {
	if in.StudentName == "" || in.ClassName == "" {
		return Student{}, errors.New("student name and class required")
	}
	if in.RollNo <= 0 {
		return Student{}, errors.New("roll number must be positive")
	}
	if len(in.FaceImage) == 0 {
		return Student{}, errors.New("face image required")
	}

	// Check before any inference call so a doomed request never spends tokens.
	exists, err := s.store.ExistsByClassRoll(ctx, in.ClassName, in.RollNo)
	if err != nil {
		return Student{}, err
	}
	if exists {
		return Student{}, ErrDuplicateRoll
	}

	encoding, err := s.vision.DescribeReference(ctx, in.FaceImage, in.StudentName)
	if err != nil {
		log.Printf("reference description failed for %s: %v", in.StudentName, err)
		encoding = fmt.Sprintf("Face image stored for %s", in.StudentName)
		metrics.Registrations.WithLabelValues("placeholder").Inc()
	} else {
		metrics.Registrations.WithLabelValues("model").Inc()
	}

	student := Student{
		ID:           uuid.NewString(),
		StudentName:  in.StudentName,
		ClassName:    in.ClassName,
		RollNo:       in.RollNo,
		FatherName:   in.FatherName,
		FaceEncoding: encoding,
		FaceImageB64: base64.StdEncoding.EncodeToString(in.FaceImage),
		CreatedAt:    s.now(),
	}
	if err := s.store.Create(ctx, student); err != nil {
		return Student{}, err
	}
	return student, nil
}

// List returns all students ordered by class then roll number.
func (s *Service) List(ctx context.Context) ([]Student, error) {
	return s.store.List(ctx)
}

// ListByClass returns one class roster ordered by roll number.
func (s *Service) ListByClass(ctx context.Context, className string) ([]Student, error) {
	return s.store.ListByClass(ctx, className)
}

// Classes returns the distinct class names.
func (s *Service) Classes(ctx context.Context) ([]string, error) {
	return s.store.Classes(ctx)
}
