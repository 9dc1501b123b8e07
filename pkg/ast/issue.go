package ast

import "fmt"

// IssueType tells which processing stage found an issue.
type IssueType int

// Issue types.
const (
	Lexical IssueType = iota
	Syntactic
	Semantic
	Translation
)

// String returns the lowercase type name.
func (t IssueType) String() string {
	switch t {
	case Lexical:
		return "lexical"
	case Syntactic:
		return "syntactic"
	case Semantic:
		return "semantic"
	case Translation:
		return "translation"
	default:
		return fmt.Sprintf("IssueType(%d)", int(t))
	}
}

// Severity ranks issues.
type Severity int

// Severities.
const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns the uppercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Issue is a non-fatal diagnostic.
type Issue struct {
	Type     IssueType
	Severity Severity
	Message  string
	Range    *Range
}

// String renders the issue as "SEVERITY type: message (range)".
func (i Issue) String() string {
	s := i.Severity.String() + " " + i.Type.String() + ": " + i.Message
	if i.Range != nil {
		s += " (" + i.Range.String() + ")"
	}

	return s
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}

	return false
}
