package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrylabs/scry/pkg/models"
	"github.com/scrylabs/scry/pkg/parser"
)

func TestForLanguage(t *testing.T) {
	py, err := ForLanguage(parser.LangPython)
	require.NoError(t, err)
	assert.Equal(t, parser.LangPython, py.Language())

	java, err := ForLanguage(parser.LangJava)
	require.NoError(t, err)
	assert.Equal(t, parser.LangJava, java.Language())

	_, err = ForLanguage(parser.LangUnknown)
	assert.Error(t, err)
}

func TestForFile(t *testing.T) {
	tests := []struct {
		path    string
		want    parser.Language
		wantErr bool
	}{
		{"main.py", parser.LangPython, false},
		{"types.pyi", parser.LangPython, false},
		{"Main.java", parser.LangJava, false},
		{"script.rb", parser.LangUnknown, true},
		{"Makefile", parser.LangUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			frontend, err := ForFile(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, frontend.Language())
		})
	}
}

func TestAnalyzeFile(t *testing.T) {
	report := AnalyzeFile("app.py", []byte("import os\n"))
	assert.False(t, report.Failed())
	assert.Equal(t, "app.py", report.Path)
	assert.Equal(t, "python", report.Language)
	assert.Equal(t, models.ImportCounts{"os": 1}, report.Imports)
	assert.Equal(t, 1, report.Complexity)
}

func TestAnalyzeFileUnsupportedExtension(t *testing.T) {
	report := AnalyzeFile("script.rb", []byte("puts 1\n"))
	assert.True(t, report.Failed())
	assert.Equal(t, models.ErrUsage, report.ErrorKind)
	assert.Empty(t, report.Imports)
}

func TestAnalyzeFileGrammarFailure(t *testing.T) {
	report := AnalyzeFile("broken.py", []byte("def f(:\n"))
	assert.True(t, report.Failed())
	assert.Equal(t, models.ErrGrammar, report.ErrorKind)
	// A failed file never carries metrics alongside the error.
	assert.Nil(t, report.Imports)
	assert.Zero(t, report.Complexity)
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	assert.Contains(t, exts, ".py")
	assert.Contains(t, exts, ".java")
	for _, ext := range exts {
		assert.NotEqual(t, parser.LangUnknown, parser.DetectLanguage("x"+ext))
	}
}
