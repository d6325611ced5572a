package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/metrics"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/queue"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/roster"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/vision"
)

// Roster is the slice of the roster store the matcher needs.
type Roster interface {
	ListByClass(ctx context.Context, className string) ([]roster.Student, error)
}

// Ledger persists attendance records.
type Ledger interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	ListByDate(ctx context.Context, date string) ([]Record, error)
	ListByClassAndDate(ctx context.Context, className, date string) ([]Record, error)
	CountByDate(ctx context.Context, date string) (int, error)
}

// MarkResult is a successful attendance mark.
type MarkResult struct {
	Student roster.Student
	Record  Record
}

// MarkEvent is the queue payload published after a successful mark.
type MarkEvent struct {
	ClassName string `json:"class_name"`
	Date      string `json:"date"`
}

// Service runs the probe-match-commit protocol.
type Service struct {
	roster Roster
	ledger Ledger
	vision vision.Provider
	queue  queue.Queue
	now    func() time.Time
}

// NewService creates the attendance service. The queue may be nil; summary
// events are then skipped.
func NewService(rosterStore Roster, ledger Ledger, provider vision.Provider, q queue.Queue) *Service {
	return &Service{
		roster: rosterStore,
		ledger: ledger,
		vision: provider,
		queue:  q,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Mark runs the two-stage recognition protocol against one class roster and
// commits at most one record per student per day.
//
// Outcomes: MarkResult on success; ErrNoStudents for an empty roster;
// *NoMatchError when the answer resolves to nobody; *AlreadyMarkedError when
// today's record exists; ErrRecognitionUnavailable (wrapped) on vision failure.
func (s *Service) Mark(ctx context.Context, className string, probe []byte) (MarkResult, error) {
	students, err := s.roster.ListByClass(ctx, className)
	if err != nil {
		return MarkResult{}, err
	}
	if len(students) == 0 {
		metrics.MarkOutcomes.WithLabelValues("no_students").Inc()
		return MarkResult{}, ErrNoStudents
	}

	// The two inference calls are sequential: the ranking prompt embeds the
	// probe description.
	probeDescription, err := s.vision.DescribeProbe(ctx, probe)
	if err != nil {
		metrics.MarkOutcomes.WithLabelValues("unavailable").Inc()
		return MarkResult{}, fmt.Errorf("%w: %v", ErrRecognitionUnavailable, err)
	}

	candidates := make([]vision.Candidate, 0, len(students))
	for _, st := range students {
		candidates = append(candidates, vision.Candidate{
			StudentName:  st.StudentName,
			RollNo:       st.RollNo,
			FaceEncoding: st.FaceEncoding,
		})
	}
	recognized, err := s.vision.RankCandidates(ctx, probeDescription, candidates)
	if err != nil {
		metrics.MarkOutcomes.WithLabelValues("unavailable").Inc()
		return MarkResult{}, fmt.Errorf("%w: %v", ErrRecognitionUnavailable, err)
	}

	matched := ResolveName(recognized, students)
	if matched == nil {
		metrics.MarkOutcomes.WithLabelValues("no_match").Inc()
		return MarkResult{}, &NoMatchError{Recognized: recognized}
	}

	now := s.now()
	rec, err := s.ledger.Insert(ctx, Record{
		StudentID:       matched.ID,
		StudentName:     matched.StudentName,
		ClassName:       matched.ClassName,
		RollNo:          matched.RollNo,
		Date:            now.Format("2006-01-02"),
		Time:            now.Format("15:04:05"),
		Status:          StatusPresent,
		ConfidenceScore: matchConfidence,
		CreatedAt:       now,
	})
	if err != nil {
		var already *AlreadyMarkedError
		if errors.As(err, &already) {
			metrics.MarkOutcomes.WithLabelValues("already_marked").Inc()
		}
		return MarkResult{}, err
	}

	metrics.MarkOutcomes.WithLabelValues("matched").Inc()
	s.publishMarkEvent(ctx, rec)

	return MarkResult{Student: *matched, Record: rec}, nil
}

// Today returns today's records across all classes, newest first.
func (s *Service) Today(ctx context.Context) ([]Record, error) {
	return s.ledger.ListByDate(ctx, s.today())
}

// TodayByClass returns today's records for one class, newest first.
func (s *Service) TodayByClass(ctx context.Context, className string) ([]Record, error) {
	return s.ledger.ListByClassAndDate(ctx, className, s.today())
}

// PresentToday counts today's records.
func (s *Service) PresentToday(ctx context.Context) (int, error) {
	return s.ledger.CountByDate(ctx, s.today())
}

func (s *Service) today() string {
	return s.now().Format("2006-01-02")
}

func (s *Service) publishMarkEvent(ctx context.Context, rec Record) {
	if s.queue == nil {
		return
	}
	body, err := json.Marshal(MarkEvent{ClassName: rec.ClassName, Date: rec.Date})
	if err != nil {
		return
	}
	if err := s.queue.Publish(ctx, queue.Message{Type: "mark", Body: body}); err != nil {
		log.Printf("queue publish failed: %v", err)
	}
}
