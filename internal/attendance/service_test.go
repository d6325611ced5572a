package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/queue"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/roster"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/vision"
)

type fakeRoster struct {
	classes map[string][]roster.Student
}

func (f *fakeRoster) ListByClass(ctx context.Context, className string) ([]roster.Student, error) {
	return f.classes[className], nil
}

type fakeLedger struct {
	records []Record
}

func (f *fakeLedger) Insert(ctx context.Context, rec Record) (Record, error) {
	for _, existing := range f.records {
		if existing.StudentID == rec.StudentID && existing.Date == rec.Date {
			return Record{}, &AlreadyMarkedError{StudentName: rec.StudentName}
		}
	}
	rec.ID = "rec-" + rec.StudentID
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeLedger) ListByDate(ctx context.Context, date string) ([]Record, error) {
	var out []Record
	for _, r := range f.records {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListByClassAndDate(ctx context.Context, className, date string) ([]Record, error) {
	var out []Record
	for _, r := range f.records {
		if r.ClassName == className && r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLedger) CountByDate(ctx context.Context, date string) (int, error) {
	recs, _ := f.ListByDate(ctx, date)
	return len(recs), nil
}

// scriptedVision answers deterministically so the surrounding protocol is
// testable independent of model behavior.
type scriptedVision struct {
	probeDescription string
	answer           string
	describeErr      error
	rankErr          error
	rankedWith       []vision.Candidate
}

func (f *scriptedVision) Name() string { return "scripted" }

func (f *scriptedVision) DescribeReference(ctx context.Context, image []byte, studentName string) (string, error) {
	return "reference description", nil
}

func (f *scriptedVision) DescribeProbe(ctx context.Context, image []byte) (string, error) {
	if f.describeErr != nil {
		return "", f.describeErr
	}
	return f.probeDescription, nil
}

func (f *scriptedVision) RankCandidates(ctx context.Context, probeDescription string, candidates []vision.Candidate) (string, error) {
	f.rankedWith = candidates
	if f.rankErr != nil {
		return "", f.rankErr
	}
	return f.answer, nil
}

func newTestService(rosterStore *fakeRoster, ledger *fakeLedger, v vision.Provider) *Service {
	svc := NewService(rosterStore, ledger, v, nil)
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	}
	return svc
}

func tenA() *fakeRoster {
	return &fakeRoster{classes: map[string][]roster.Student{
		"10A": {
			{ID: "s1", StudentName: "Alice Johnson", ClassName: "10A", RollNo: 1, FaceEncoding: "oval face"},
			{ID: "s2", StudentName: "Bob Smith", ClassName: "10A", RollNo: 2, FaceEncoding: "square face"},
		},
	}}
}

func TestMark_Success(t *testing.T) {
	ledger := &fakeLedger{}
	v := &scriptedVision{probeDescription: "oval face, glasses", answer: "Alice Johnson"}
	svc := newTestService(tenA(), ledger, v)

	res, err := svc.Mark(context.Background(), "10A", []byte("probe"))
	if err != nil {
		t.Fatalf("Mark failed: %v", err)
	}
	if res.Student.StudentName != "Alice Johnson" {
		t.Errorf("matched wrong student: %q", res.Student.StudentName)
	}
	if res.Record.Status != StatusPresent {
		t.Errorf("expected status %q, got %q", StatusPresent, res.Record.Status)
	}
	if res.Record.ConfidenceScore != 0.95 {
		t.Errorf("expected fixed confidence 0.95, got %v", res.Record.ConfidenceScore)
	}
	if res.Record.Date != "2026-09-01" || res.Record.Time != "09:30:00" {
		t.Errorf("unexpected date/time snapshot: %s %s", res.Record.Date, res.Record.Time)
	}
	if len(v.rankedWith) != 2 {
		t.Errorf("expected both candidates in ranking prompt, got %d", len(v.rankedWith))
	}
}

func TestMark_SecondCallSameDayIsAlreadyMarked(t *testing.T) {
	ledger := &fakeLedger{}
	v := &scriptedVision{probeDescription: "oval face", answer: "Alice Johnson"}
	svc := newTestService(tenA(), ledger, v)

	if _, err := svc.Mark(context.Background(), "10A", []byte("probe")); err != nil {
		t.Fatalf("first mark failed: %v", err)
	}

	_, err := svc.Mark(context.Background(), "10A", []byte("probe"))
	var already *AlreadyMarkedError
	if !errors.As(err, &already) {
		t.Fatalf("expected AlreadyMarkedError, got %v", err)
	}
	if already.StudentName != "Alice Johnson" {
		t.Errorf("unexpected student in outcome: %q", already.StudentName)
	}
	if len(ledger.records) != 1 {
		t.Errorf("second mark must not add a record, have %d", len(ledger.records))
	}
}

func TestMark_EmptyClass(t *testing.T) {
	svc := newTestService(&fakeRoster{classes: map[string][]roster.Student{}}, &fakeLedger{}, &scriptedVision{})

	_, err := svc.Mark(context.Background(), "10A", []byte("probe"))
	if !errors.Is(err, ErrNoStudents) {
		t.Fatalf("expected ErrNoStudents, got %v", err)
	}
}

func TestMark_NoMatchCarriesRecognizedText(t *testing.T) {
	v := &scriptedVision{probeDescription: "unknown face", answer: "NO_MATCH"}
	svc := newTestService(tenA(), &fakeLedger{}, v)

	_, err := svc.Mark(context.Background(), "10A", []byte("probe"))
	var noMatch *NoMatchError
	if !errors.As(err, &noMatch) {
		t.Fatalf("expected NoMatchError, got %v", err)
	}
	if noMatch.Recognized != "NO_MATCH" {
		t.Errorf("expected raw answer in outcome, got %q", noMatch.Recognized)
	}
}

func TestMark_DescribeFailureIsUnavailable(t *testing.T) {
	v := &scriptedVision{describeErr: errors.New("timeout")}
	svc := newTestService(tenA(), &fakeLedger{}, v)

	_, err := svc.Mark(context.Background(), "10A", []byte("probe"))
	if !errors.Is(err, ErrRecognitionUnavailable) {
		t.Fatalf("expected ErrRecognitionUnavailable, got %v", err)
	}
}

func TestMark_RankFailureIsUnavailable(t *testing.T) {
	v := &scriptedVision{probeDescription: "oval face", rankErr: errors.New("api error")}
	svc := newTestService(tenA(), &fakeLedger{}, v)

	_, err := svc.Mark(context.Background(), "10A", []byte("probe"))
	if !errors.Is(err, ErrRecognitionUnavailable) {
		t.Fatalf("expected ErrRecognitionUnavailable, got %v", err)
	}
}

func TestMark_PublishesSummaryEvent(t *testing.T) {
	q := queue.NewInMemory(4)
	v := &scriptedVision{probeDescription: "oval face", answer: "Alice Johnson"}
	svc := NewService(tenA(), &fakeLedger{}, v, q)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC) }

	if _, err := svc.Mark(context.Background(), "10A", []byte("probe")); err != nil {
		t.Fatalf("Mark failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	msgs, err := q.Consume(ctx)
	if err != nil {
		t.Fatal(err)
	}
	select {
	case msg := <-msgs:
		if msg.Type != "mark" {
			t.Errorf("expected mark message, got %q", msg.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no summary event published")
	}
}

func TestToday_FiltersByDate(t *testing.T) {
	ledger := &fakeLedger{records: []Record{
		{ID: "r1", StudentID: "s1", ClassName: "10A", Date: "2026-09-01"},
		{ID: "r2", StudentID: "s2", ClassName: "10B", Date: "2026-08-31"},
	}}
	svc := newTestService(tenA(), ledger, &scriptedVision{})

	recs, err := svc.Today(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].ID != "r1" {
		t.Errorf("expected only today's record, got %v", recs)
	}
}
