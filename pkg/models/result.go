package models

// ImportCounts maps a normalized module identifier to the number of import
// occurrences attributed to it. Keys are dotted identifiers, optionally
// suffixed with a wildcard marker (java.util.*) or prefixed with relative
// import dots (.pkg, ..); values are always >= 1.
type ImportCounts map[string]int

// Add increments the count for a module identifier.
func (c ImportCounts) Add(module string, n int) {
	if module == "" || n <= 0 {
		return
	}
	c[module] += n
}

// Total returns the sum of all import occurrences.
func (c ImportCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// FileMetrics is the result of one analysis call: import usage counts and a
// cyclomatic complexity score for a single source file. Immutable after
// construction.
type FileMetrics struct {
	Path       string       `json:"path,omitempty" toon:"path,omitempty"`
	Language   string       `json:"language,omitempty" toon:"language,omitempty"`
	Imports    ImportCounts `json:"imports" toon:"imports"`
	Complexity int          `json:"complexity" toon:"complexity"`
}

// FileReport is either a FileMetrics or an error descriptor for one file.
// Exactly one of Metrics and Error is set; the two are never mixed.
type FileReport struct {
	Path       string       `json:"path" toon:"path"`
	Language   string       `json:"language,omitempty" toon:"language,omitempty"`
	Imports    ImportCounts `json:"imports,omitempty" toon:"imports,omitempty"`
	Complexity int          `json:"complexity,omitempty" toon:"complexity,omitempty"`
	Error      string       `json:"error,omitempty" toon:"error,omitempty"`
	ErrorKind  ErrorKind    `json:"error_kind,omitempty" toon:"error_kind,omitempty"`
}

// Failed reports whether this file's analysis produced an error.
func (r *FileReport) Failed() bool {
	return r.Error != ""
}

// ReportFromMetrics wraps successful metrics in a FileReport.
func ReportFromMetrics(m *FileMetrics) FileReport {
	return FileReport{
		Path:       m.Path,
		Language:   m.Language,
		Imports:    m.Imports,
		Complexity: m.Complexity,
	}
}

// ReportFromError wraps an analysis failure in a FileReport.
func ReportFromError(path string, err *AnalysisError) FileReport {
	return FileReport{
		Path:      path,
		Error:     err.Message,
		ErrorKind: err.Kind,
	}
}

// ProjectAnalysis aggregates per-file reports with summary statistics.
type ProjectAnalysis struct {
	Files   []FileReport   `json:"files" toon:"files"`
	Summary ProjectSummary `json:"summary" toon:"summary"`
}

// ProjectSummary provides aggregate statistics across analyzed files.
type ProjectSummary struct {
	TotalFiles      int     `json:"total_files" toon:"total_files"`
	FailedFiles     int     `json:"failed_files" toon:"failed_files"`
	TotalImports    int     `json:"total_imports" toon:"total_imports"`
	DistinctModules int     `json:"distinct_modules" toon:"distinct_modules"`
	MaxComplexity   int     `json:"max_complexity" toon:"max_complexity"`
	AvgComplexity   float64 `json:"avg_complexity" toon:"avg_complexity"`
	P50Complexity   float64 `json:"p50_complexity" toon:"p50_complexity"`
	P90Complexity   float64 `json:"p90_complexity" toon:"p90_complexity"`
	P95Complexity   float64 `json:"p95_complexity" toon:"p95_complexity"`
}
