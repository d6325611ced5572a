package attendance

import (
	"strings"

	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/roster"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/vision"
)

// minTokenLen filters out connector words ("of", "al") that would otherwise
// match almost any name.
const minTokenLen = 3

// ResolveName maps the model's freeform answer to at most one roster entry.
//
// The answer is not a structured identifier, so this is a best-effort
// heuristic: the answer is tokenized, short tokens are dropped, and the first
// candidate in scan order whose name contains any surviving token wins. Ties
// between students sharing a token go to whichever appears first.
func ResolveName(raw string, students []roster.Student) *roster.Student {
	answer := strings.TrimSpace(raw)
	if strings.EqualFold(answer, vision.NoMatch) {
		return nil
	}

	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(answer)) {
		if len(tok) >= minTokenLen {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return nil
	}

	for i := range students {
		name := strings.ToLower(students[i].StudentName)
		for _, tok := range tokens {
			if strings.Contains(name, tok) {
				return &students[i]
			}
		}
	}
	return nil
}
