package analyzer

import (
	"fmt"

	"github.com/scrylabs/scry/pkg/models"
	"github.com/scrylabs/scry/pkg/parser"
)

// Frontend is the per-language analyzer contract: two pure operations over a
// raw source buffer. Implementations hold no cross-call state, so a single
// Frontend value is safe for concurrent use.
type Frontend interface {
	// Language returns the language this frontend handles.
	Language() parser.Language

	// Analyze produces both metrics in one pass over the source.
	Analyze(source []byte) (*models.FileMetrics, *models.AnalysisError)

	// CountImports returns the per-module import occurrence map.
	CountImports(source []byte) (models.ImportCounts, *models.AnalysisError)

	// Complexity returns the cyclomatic complexity score.
	Complexity(source []byte) (int, *models.AnalysisError)
}

// ForLanguage selects the frontend for a language. The set of frontends is
// closed; adding a language means adding a case here.
func ForLanguage(lang parser.Language) (Frontend, error) {
	switch lang {
	case parser.LangPython:
		return NewPythonAnalyzer(), nil
	case parser.LangJava:
		return NewJavaAnalyzer(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// ForFile selects the frontend by file extension.
func ForFile(path string) (Frontend, error) {
	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
	return ForLanguage(lang)
}

// AnalyzeFile runs the matching frontend over content read for path and
// returns a per-file report. Unsupported extensions and analysis failures
// become error reports; this function never returns a partial metric set.
func AnalyzeFile(path string, content []byte) models.FileReport {
	frontend, err := ForFile(path)
	if err != nil {
		return models.ReportFromError(path, models.NewUsageError(err.Error()))
	}

	metrics, aerr := frontend.Analyze(content)
	if aerr != nil {
		return models.ReportFromError(path, aerr)
	}

	metrics.Path = path
	metrics.Language = string(frontend.Language())
	return models.ReportFromMetrics(metrics)
}

// SupportedExtensions lists the file extensions the dispatcher routes.
func SupportedExtensions() []string {
	return []string{".py", ".pyw", ".pyi", ".java"}
}
