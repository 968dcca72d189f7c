package models

import "fmt"

// ErrorKind tags the failure class of an analysis call.
type ErrorKind string

const (
	// ErrDecode means the input could not be read as UTF-8 text.
	ErrDecode ErrorKind = "decode"
	// ErrGrammar means the syntax tree could not be constructed.
	// Only the tree-based frontend produces this kind.
	ErrGrammar ErrorKind = "grammar"
	// ErrUsage means the caller invoked the driver incorrectly.
	// Never produced by the core analyzers.
	ErrUsage ErrorKind = "usage"
)

// AnalysisError is a tagged analysis failure. The core never returns a
// partial metric pair alongside one of these; a call either yields a full
// FileMetrics or an AnalysisError.
type AnalysisError struct {
	Kind    ErrorKind `json:"kind" toon:"kind"`
	Message string    `json:"message" toon:"message"`
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewDecodeError reports input that is not valid text.
func NewDecodeError(msg string) *AnalysisError {
	return &AnalysisError{Kind: ErrDecode, Message: msg}
}

// NewGrammarError reports a syntax tree that could not be built.
func NewGrammarError(msg string) *AnalysisError {
	return &AnalysisError{Kind: ErrGrammar, Message: msg}
}

// NewUsageError reports an invalid driver invocation.
func NewUsageError(msg string) *AnalysisError {
	return &AnalysisError{Kind: ErrUsage, Message: msg}
}
