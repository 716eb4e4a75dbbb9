package model

import "fmt"

// FormatError reports a syntactic defect in an instance text. Line is the
// 1-based physical line of the offending record.
type FormatError struct {
	Line   int
	Reason string
}

func (err FormatError) Error() string {
	return fmt.Sprintf("instance format error at line %d: %v", err.Line, err.Reason)
}

// DomainError reports a solution that is structurally incompatible with the
// instance it is evaluated against (wrong sequence lengths, out-of-range room
// or surgery indices). It is unrelated to feasibility: an infeasible but
// well-shaped candidate evaluates normally.
type DomainError struct {
	Reason string
}

func (err DomainError) Error() string {
	return fmt.Sprintf("solution domain error: %v", err.Reason)
}
