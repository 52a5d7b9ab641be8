// Package errors provides the uniform error formatting used by the
// scanner, parser, and evaluator.
package errors

import "fmt"

// CompilerError is a single scan/parse/runtime error tied to a source
// line and, where available, the offending token's lexeme.
type CompilerError struct {
	Line    int
	Where   string // "" for EOF, or " at '<lexeme>'" (leading space) otherwise
	Message string
}

func New(line int, where, message string) *CompilerError {
	return &CompilerError{Line: line, Where: where, Message: message}
}

// AtToken builds a CompilerError whose Where clause names the offending
// token, or is empty for EOF.
func AtToken(line int, lexeme string, isEOF bool, message string) *CompilerError {
	if isEOF {
		return New(line, "", message)
	}
	return New(line, fmt.Sprintf(" at '%s'", lexeme), message)
}

// Error formats the message in the form spec.md documents:
// "[line N ] error <where>: <message>" (note the literal space before
// the closing bracket). This matches spec.md's own rendering, not the
// reference driver's literal format string, which inserts a second space
// between "error" and the where-clause.
func (e *CompilerError) Error() string {
	return fmt.Sprintf("[line %d ] error%s: %s", e.Line, e.Where, e.Message)
}
