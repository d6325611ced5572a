package attendance

import (
	"testing"

	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/roster"
)

func classOf(names ...string) []roster.Student {
	students := make([]roster.Student, len(names))
	for i, n := range names {
		students[i] = roster.Student{ID: n, StudentName: n, ClassName: "10A", RollNo: i + 1}
	}
	return students
}

func TestResolveName_SentinelAnyCase(t *testing.T) {
	students := classOf("Alice Johnson", "Bob Smith")

	for _, raw := range []string{"NO_MATCH", "no_match", "No_Match", "  NO_MATCH  "} {
		if got := ResolveName(raw, students); got != nil {
			t.Errorf("raw %q: expected no resolution, got %q", raw, got.StudentName)
		}
	}
}

func TestResolveName_ExactName(t *testing.T) {
	students := classOf("Alice Johnson", "Bob Smith")

	got := ResolveName("Alice Johnson", students)
	if got == nil || got.StudentName != "Alice Johnson" {
		t.Fatalf("expected Alice Johnson, got %v", got)
	}
}

func TestResolveName_PartialToken(t *testing.T) {
	students := classOf("Alice Johnson", "Bob Smith")

	got := ResolveName("the student appears to be Smith", students)
	if got == nil || got.StudentName != "Bob Smith" {
		t.Fatalf("expected Bob Smith, got %v", got)
	}
}

func TestResolveName_ShortTokensIgnored(t *testing.T) {
	students := classOf("Alice Johnson")

	// "Al" is a substring of "Alice" but too short to count.
	if got := ResolveName("Al", students); got != nil {
		t.Errorf("expected no resolution on 2-char token, got %q", got.StudentName)
	}
	if got := ResolveName("al on it", students); got != nil {
		t.Errorf("expected no resolution on short tokens only, got %q", got.StudentName)
	}
}

func TestResolveName_ScanOrderBreaksTies(t *testing.T) {
	// Two students share the token "johnson"; the first in input order wins.
	students := classOf("Mary Johnson", "Alice Johnson")

	got := ResolveName("Johnson", students)
	if got == nil || got.StudentName != "Mary Johnson" {
		t.Fatalf("expected first candidate in scan order, got %v", got)
	}
}

func TestResolveName_NoCandidateContainsToken(t *testing.T) {
	students := classOf("Alice Johnson", "Bob Smith")

	if got := ResolveName("Charlie Brown", students); got != nil {
		t.Errorf("expected no resolution, got %q", got.StudentName)
	}
}

func TestResolveName_EmptyAnswer(t *testing.T) {
	if got := ResolveName("", classOf("Alice Johnson")); got != nil {
		t.Errorf("expected no resolution for empty answer, got %q", got.StudentName)
	}
}
