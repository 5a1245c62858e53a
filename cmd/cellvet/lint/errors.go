package lint

import (
	"fmt"
	"go/token"
)

// Rule names reported by the linter.
const (
	RuleDiscardedToken = "discarded-token"
	RuleChainedToken   = "chained-token"
	RuleLeakedToken    = "leaked-token"
)

// Finding is a token misuse located in a source file.
//
// Format: file:line:column: message [rule]
//
// If Suggestion is non-empty, Error appends it on a new line with a
// "Suggestion: " prefix.
type Finding struct {
	File       string // Source file path
	Line       int    // Line number (1-indexed)
	Column     int    // Column number (1-indexed)
	Rule       string // Rule that produced the finding
	Message    string // Human-readable description
	Suggestion string // Optional fix hint (empty if none)
}

// Error implements the error interface.
func (f *Finding) Error() string {
	result := fmt.Sprintf("%s:%d:%d: %s [%s]", f.File, f.Line, f.Column, f.Message, f.Rule)
	if f.Suggestion != "" {
		result += fmt.Sprintf("\n\nSuggestion: %s", f.Suggestion)
	}
	return result
}

// Position returns the finding's location as file:line:column.
func (f *Finding) Position() string {
	return fmt.Sprintf("%s:%d:%d", f.File, f.Line, f.Column)
}

func newFinding(fset *token.FileSet, pos token.Pos, rule, msg, suggestion string) *Finding {
	position := fset.Position(pos)
	return &Finding{
		File:       position.Filename,
		Line:       position.Line,
		Column:     position.Column,
		Rule:       rule,
		Message:    msg,
		Suggestion: suggestion,
	}
}
