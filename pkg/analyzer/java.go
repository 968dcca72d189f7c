package analyzer

import (
	"regexp"
	"unicode/utf8"

	"github.com/scrylabs/scry/pkg/models"
	"github.com/scrylabs/scry/pkg/parser"
)

// Sanitization passes, applied in order: line comments, block comments,
// double-quoted literals, single-quoted literals. The string patterns are
// escape-aware so an escaped quote does not end the literal early.
var (
	javaLineComments  = regexp.MustCompile(`(?m)//.*$`)
	javaBlockComments = regexp.MustCompile(`(?s)/\*.*?\*/`)
	javaStringLits    = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
	javaCharLits      = regexp.MustCompile(`'(?:[^'\\]|\\.)*'`)
)

// javaImportPattern matches "import [static] a.b.C;" or "import a.b.*;" at
// the start of a line. The static marker is consumed but does not appear in
// the import key.
var javaImportPattern = regexp.MustCompile(`(?m)^\s*import\s+(?:static\s+)?([a-zA-Z_][\w.]*(?:\.\*)?)\s*;`)

// javaDecisionPatterns each contribute one decision point per match in the
// sanitized text. The case pattern's trailing whitespace excludes "default:"
// by shape; the ternary pattern is a shallow approximation that can misfire
// on "?" and ":" pairs from other constructs, kept for behavioral parity.
var javaDecisionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bif\s*\(`),
	regexp.MustCompile(`\bfor\s*\(`),
	regexp.MustCompile(`\bwhile\s*\(`),
	regexp.MustCompile(`\bdo\s*\{`),
	regexp.MustCompile(`\bcase\s+`),
	regexp.MustCompile(`\bcatch\s*\(`),
	regexp.MustCompile(`\?[^:]*:`),
	regexp.MustCompile(`&&`),
	regexp.MustCompile(`\|\|`),
}

// JavaAnalyzer is the text-pattern frontend. It enforces no grammar: the
// text is sanitized and both metrics come from pattern counts, so malformed
// input degrades to partial or zero matches instead of failing.
type JavaAnalyzer struct{}

// NewJavaAnalyzer creates the Java frontend.
func NewJavaAnalyzer() *JavaAnalyzer {
	return &JavaAnalyzer{}
}

// Language returns the language this frontend handles.
func (a *JavaAnalyzer) Language() parser.Language {
	return parser.LangJava
}

// Analyze sanitizes the source once and computes both metrics from the
// sanitized text.
func (a *JavaAnalyzer) Analyze(source []byte) (*models.FileMetrics, *models.AnalysisError) {
	if !utf8.Valid(source) {
		return nil, models.NewDecodeError("source is not valid UTF-8")
	}

	sanitized := sanitizeJava(string(source))

	imports := models.ImportCounts{}
	for _, match := range javaImportPattern.FindAllStringSubmatch(sanitized, -1) {
		imports.Add(match[1], 1)
	}

	complexity := 1
	for _, pattern := range javaDecisionPatterns {
		complexity += len(pattern.FindAllStringIndex(sanitized, -1))
	}

	return &models.FileMetrics{Imports: imports, Complexity: complexity}, nil
}

// CountImports returns per-package import counts. Duplicate statements
// accumulate.
func (a *JavaAnalyzer) CountImports(source []byte) (models.ImportCounts, *models.AnalysisError) {
	metrics, err := a.Analyze(source)
	if err != nil {
		return nil, err
	}
	return metrics.Imports, nil
}

// Complexity returns the cyclomatic complexity score.
func (a *JavaAnalyzer) Complexity(source []byte) (int, *models.AnalysisError) {
	metrics, err := a.Analyze(source)
	if err != nil {
		return 0, err
	}
	return metrics.Complexity, nil
}

// sanitizeJava strips comments and string/character literals so decision
// keywords inside them are never counted. Comments are stripped before
// literals so a quote character inside a comment never opens a literal.
func sanitizeJava(content string) string {
	content = javaLineComments.ReplaceAllString(content, "")
	content = javaBlockComments.ReplaceAllString(content, "")
	content = javaStringLits.ReplaceAllString(content, "")
	content = javaCharLits.ReplaceAllString(content, "")
	return content
}
