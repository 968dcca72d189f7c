package analyzer

import (
	"encoding/json"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/scrylabs/scry/internal/cache"
	"github.com/scrylabs/scry/internal/fileproc"
	"github.com/scrylabs/scry/pkg/models"
)

// ProjectAnalyzer runs the per-file frontends over many files, with an
// optional result cache keyed by file path and validated by content hash.
type ProjectAnalyzer struct {
	cache   *cache.Cache
	workers int
}

// NewProjectAnalyzer creates a project analyzer. A nil cache disables
// caching; workers <= 0 selects the default pool size.
func NewProjectAnalyzer(c *cache.Cache, workers int) *ProjectAnalyzer {
	return &ProjectAnalyzer{cache: c, workers: workers}
}

// AnalyzeProject analyzes all files in parallel and aggregates a summary.
// Per-file failures become error reports; only unreadable files are dropped
// via the error callback.
func (p *ProjectAnalyzer) AnalyzeProject(files []string) *models.ProjectAnalysis {
	return p.AnalyzeProjectWithProgress(files, nil)
}

// AnalyzeProjectWithProgress is AnalyzeProject with a per-file progress callback.
func (p *ProjectAnalyzer) AnalyzeProjectWithProgress(files []string, onProgress fileproc.ProgressFunc) *models.ProjectAnalysis {
	reports := fileproc.ForEachFileN(files, p.workers, p.analyzeOne, onProgress, nil)

	// Pool order is arbitrary; make output deterministic.
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Path < reports[j].Path
	})

	return &models.ProjectAnalysis{
		Files:   reports,
		Summary: Summarize(reports),
	}
}

// analyzeOne reads, analyzes, and caches a single file. Read failures are
// the only error path; analysis failures are ordinary reports.
func (p *ProjectAnalyzer) analyzeOne(path string) (models.FileReport, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.FileReport{}, err
	}

	hash := cache.HashBytes(content)
	if p.cache != nil {
		if data, ok := p.cache.GetWithHash(path, hash); ok {
			var report models.FileReport
			if err := json.Unmarshal(data, &report); err == nil {
				return report, nil
			}
		}
	}

	report := AnalyzeFile(path, content)

	if p.cache != nil {
		if data, err := json.Marshal(report); err == nil {
			_ = p.cache.SetWithHash(path, hash, data)
		}
	}

	return report, nil
}

// Summarize aggregates per-file reports into project statistics. Complexity
// percentiles cover successful files only.
func Summarize(reports []models.FileReport) models.ProjectSummary {
	summary := models.ProjectSummary{TotalFiles: len(reports)}

	modules := make(map[string]struct{})
	var scores []float64

	for _, r := range reports {
		if r.Failed() {
			summary.FailedFiles++
			continue
		}

		for module, n := range r.Imports {
			modules[module] = struct{}{}
			summary.TotalImports += n
		}

		if r.Complexity > summary.MaxComplexity {
			summary.MaxComplexity = r.Complexity
		}
		scores = append(scores, float64(r.Complexity))
	}

	summary.DistinctModules = len(modules)

	if len(scores) > 0 {
		sort.Float64s(scores)
		summary.AvgComplexity = stat.Mean(scores, nil)
		summary.P50Complexity = stat.Quantile(0.50, stat.Empirical, scores, nil)
		summary.P90Complexity = stat.Quantile(0.90, stat.Empirical, scores, nil)
		summary.P95Complexity = stat.Quantile(0.95, stat.Empirical, scores, nil)
	}

	return summary
}
