package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/scrylabs/scry/pkg/config"
)

// TestGetPaths verifies path handling from CLI arguments.
func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "no args defaults to current dir",
			args:     []string{},
			expected: []string{"."},
		},
		{
			name:     "single path",
			args:     []string{"/foo/bar"},
			expected: []string{"/foo/bar"},
		},
		{
			name:     "multiple paths",
			args:     []string{"/foo", "/bar"},
			expected: []string{"/foo", "/bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Action: func(c *cli.Context) error {
					result := getPaths(c)
					if len(result) != len(tt.expected) {
						t.Errorf("getPaths() = %v, want %v", result, tt.expected)
						return nil
					}
					for i := range result {
						if result[i] != tt.expected[i] {
							t.Errorf("getPaths()[%d] = %q, want %q", i, result[i], tt.expected[i])
						}
					}
					return nil
				},
			}
			args := append([]string{"test"}, tt.args...)
			_ = app.Run(args)
		})
	}
}

// TestAnalyzeSingleFileRecord runs the analyze command on one file and
// checks the flat {imports, complexity} record.
func TestAnalyzeSingleFileRecord(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.py")
	if err := os.WriteFile(src, []byte("from .pkg import a, b\nif x:\n    pass\nelif y and z:\n    pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.json")

	err := newApp().Run([]string{"scry", "--format", "json", "--output", out, "analyze", src})
	if err != nil {
		t.Fatalf("app.Run() error = %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	var record struct {
		Imports    map[string]int `json:"imports"`
		Complexity int            `json:"complexity"`
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, raw)
	}

	if record.Imports[".pkg"] != 2 {
		t.Errorf("imports[.pkg] = %d, want 2", record.Imports[".pkg"])
	}
	if record.Complexity != 3 {
		t.Errorf("complexity = %d, want 3", record.Complexity)
	}
}

// TestAnalyzeSingleFileError checks the error record and exit code path for
// malformed Python input.
func TestAnalyzeSingleFileError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.py")
	if err := os.WriteFile(src, []byte("def f(:\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.json")

	app := newApp()
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run([]string{"scry", "--format", "json", "--output", out, "analyze", src})
	if err == nil {
		t.Fatal("expected non-nil error for malformed input")
	}
	exitErr, ok := err.(cli.ExitCoder)
	if !ok || exitErr.ExitCode() == 0 {
		t.Fatalf("expected non-zero exit code, got %v", err)
	}

	raw, readErr := os.ReadFile(out)
	if readErr != nil {
		t.Fatal(readErr)
	}

	var record struct {
		Error string `json:"error"`
		Kind  string `json:"error_kind"`
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, raw)
	}
	if record.Kind != "grammar" {
		t.Errorf("error_kind = %q, want grammar", record.Kind)
	}
	if record.Error == "" {
		t.Error("error message should not be empty")
	}
}

// TestComplexityCommandSingleFile checks the flat complexity record.
func TestComplexityCommandSingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Main.java")
	javaSrc := "public class Main {\n    int f(int a, int b) {\n        if (a > 0 && b > 0) { return 1; }\n        else if (a < 0 || b < 0) { return -1; }\n        return 0;\n    }\n}\n"
	if err := os.WriteFile(src, []byte(javaSrc), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.json")

	err := newApp().Run([]string{"scry", "--format", "json", "--output", out, "complexity", src})
	if err != nil {
		t.Fatalf("app.Run() error = %v", err)
	}

	raw, _ := os.ReadFile(out)
	var record struct {
		Complexity int `json:"complexity"`
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatal(err)
	}
	if record.Complexity != 5 {
		t.Errorf("complexity = %d, want 5", record.Complexity)
	}
}

// TestAnalyzeDirectory runs project analysis over a small tree.
func TestAnalyzeDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.py"), []byte("import os\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "B.java"), []byte("import java.util.List;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.json")

	err := newApp().Run([]string{"scry", "--no-cache", "--format", "json", "--output", out, "analyze", dir})
	if err != nil {
		t.Fatalf("app.Run() error = %v", err)
	}

	raw, _ := os.ReadFile(out)
	var analysis struct {
		Files []struct {
			Path string `json:"path"`
		} `json:"files"`
		Summary struct {
			TotalFiles   int `json:"total_files"`
			TotalImports int `json:"total_imports"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(raw, &analysis); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, raw)
	}
	if analysis.Summary.TotalFiles != 2 {
		t.Errorf("total_files = %d, want 2", analysis.Summary.TotalFiles)
	}
	if analysis.Summary.TotalImports != 2 {
		t.Errorf("total_imports = %d, want 2", analysis.Summary.TotalImports)
	}
}

// TestInitCommand writes and reloads the default config.
func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scry.toml")

	if err := newApp().Run([]string{"scry", "init", "-o", path}); err != nil {
		t.Fatalf("init error = %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Thresholds.CyclomaticComplexity != config.DefaultConfig().Thresholds.CyclomaticComplexity {
		t.Error("generated config does not round-trip defaults")
	}

	// Refuses to overwrite without --force.
	if err := newApp().Run([]string{"scry", "init", "-o", path}); err == nil {
		t.Error("expected error when config already exists")
	}
	if err := newApp().Run([]string{"scry", "init", "-o", path, "--force"}); err != nil {
		t.Errorf("init --force error = %v", err)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	content, err := generateDefaultConfig()
	if err != nil {
		t.Fatal(err)
	}
	if content == "" {
		t.Fatal("empty config content")
	}
}
