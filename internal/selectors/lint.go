package selectors

import "fmt"

// ProblemKind classifies a lint finding.
type ProblemKind string

const (
	ProblemDuplicate ProblemKind = "duplicate"
	ProblemMissing   ProblemKind = "missing"
)

// Problem is one lint finding. Line is zero for missing keys.
type Problem struct {
	Kind    ProblemKind `json:"kind" yaml:"kind"`
	Key     string      `json:"key" yaml:"key"`
	Line    int         `json:"line,omitempty" yaml:"line,omitempty"`
	Message string      `json:"message" yaml:"message"`
}

// Lint reports duplicate keys, which Lookup silently resolves to the first
// row, and required keys absent from records.
func Lint(records []Record, required ...string) []Problem {
	var problems []Problem

	firstLine := make(map[string]int, len(records))
	for _, rec := range records {
		if first, seen := firstLine[rec.Key]; seen {
			problems = append(problems, Problem{
				Kind:    ProblemDuplicate,
				Key:     rec.Key,
				Line:    rec.Line,
				Message: fmt.Sprintf("key '%s' on line %d shadowed by line %d", rec.Key, rec.Line, first),
			})
			continue
		}
		firstLine[rec.Key] = rec.Line
	}

	for _, key := range required {
		if _, ok := firstLine[key]; !ok {
			problems = append(problems, Problem{
				Kind:    ProblemMissing,
				Key:     key,
				Message: fmt.Sprintf("required key '%s' has no row", key),
			})
		}
	}
	return problems
}
