package vision

import "context"

// NoMatch is the literal answer the model is instructed to return when no
// roster member reasonably matches the probe.
const NoMatch = "NO_MATCH"

// Candidate is one roster entry offered to the model during ranking.
type Candidate struct {
	StudentName  string
	RollNo       int
	FaceEncoding string
}

// Provider defines the vision inference capability. Implementations must be
// safe for concurrent use; the service layer runs one provider per process.
type Provider interface {
	Name() string

	// DescribeReference produces the durable facial description stored at
	// registration time. The student name is prompt context only.
	DescribeReference(ctx context.Context, image []byte, studentName string) (string, error)

	// DescribeProbe describes a live attendance photo, distinctive features
	// only, no identity guess.
	DescribeProbe(ctx context.Context, image []byte) (string, error)

	// RankCandidates asks the model to pick the best-matching candidate for
	// the probe description. Returns the raw trimmed answer: a student name
	// or the NoMatch sentinel.
	RankCandidates(ctx context.Context, probeDescription string, candidates []Candidate) (string, error)
}
