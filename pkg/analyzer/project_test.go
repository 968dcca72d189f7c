package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrylabs/scry/internal/cache"
	"github.com/scrylabs/scry/pkg/models"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeProject(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFixture(t, dir, "a.py", "import os\nif x:\n    pass\n"),
		writeFixture(t, dir, "B.java", "import java.util.List;\nclass B { void f() { if (x) {} } }\n"),
		writeFixture(t, dir, "broken.py", "def f(:\n"),
	}

	p := NewProjectAnalyzer(nil, 0)
	analysis := p.AnalyzeProject(files)

	require.Len(t, analysis.Files, 3)
	// Reports come back sorted by path.
	assert.Equal(t, "B.java", filepath.Base(analysis.Files[0].Path))
	assert.Equal(t, "a.py", filepath.Base(analysis.Files[1].Path))
	assert.Equal(t, "broken.py", filepath.Base(analysis.Files[2].Path))

	assert.False(t, analysis.Files[0].Failed())
	assert.False(t, analysis.Files[1].Failed())
	assert.True(t, analysis.Files[2].Failed())
	assert.Equal(t, models.ErrGrammar, analysis.Files[2].ErrorKind)

	assert.Equal(t, 3, analysis.Summary.TotalFiles)
	assert.Equal(t, 1, analysis.Summary.FailedFiles)
	assert.Equal(t, 2, analysis.Summary.TotalImports)
	assert.Equal(t, 2, analysis.Summary.DistinctModules)
	assert.Equal(t, 2, analysis.Summary.MaxComplexity)
	assert.Equal(t, 2.0, analysis.Summary.AvgComplexity)
}

func TestAnalyzeProjectUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.py", "import os\n")

	c, err := cache.New(filepath.Join(dir, ".cache"), 1, true)
	require.NoError(t, err)

	p := NewProjectAnalyzer(c, 1)
	first := p.AnalyzeProject([]string{path})
	second := p.AnalyzeProject([]string{path})
	assert.Equal(t, first.Files, second.Files)

	// A content change must invalidate the cached report.
	require.NoError(t, os.WriteFile(path, []byte("import os\nimport sys\n"), 0o644))
	third := p.AnalyzeProject([]string{path})
	assert.Equal(t, models.ImportCounts{"os": 1, "sys": 1}, third.Files[0].Imports)
}

func TestAnalyzeProjectSkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	good := writeFixture(t, dir, "a.py", "x = 1\n")
	missing := filepath.Join(dir, "missing.py")

	p := NewProjectAnalyzer(nil, 0)
	analysis := p.AnalyzeProject([]string{good, missing})

	require.Len(t, analysis.Files, 1)
	assert.Equal(t, good, analysis.Files[0].Path)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.TotalFiles)
	assert.Zero(t, summary.AvgComplexity)
	assert.Zero(t, summary.P95Complexity)
}

func TestSummarizePercentiles(t *testing.T) {
	reports := make([]models.FileReport, 0, 10)
	for i := 1; i <= 10; i++ {
		reports = append(reports, models.FileReport{
			Path:       "f.py",
			Imports:    models.ImportCounts{},
			Complexity: i,
		})
	}

	summary := Summarize(reports)
	assert.Equal(t, 10, summary.MaxComplexity)
	assert.Equal(t, 5.5, summary.AvgComplexity)
	assert.GreaterOrEqual(t, summary.P90Complexity, summary.P50Complexity)
	assert.GreaterOrEqual(t, summary.P95Complexity, summary.P90Complexity)
	assert.LessOrEqual(t, summary.P95Complexity, 10.0)
}
