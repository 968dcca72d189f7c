package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/scrylabs/scry/internal/output"
	"github.com/scrylabs/scry/internal/progress"
	"github.com/scrylabs/scry/pkg/analyzer"
	"github.com/scrylabs/scry/pkg/models"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		if err.Error() != "" {
			color.Red("Error: %v", err)
		}
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "scry",
		Usage:   "Import and complexity metrics for Python and Java sources",
		Version: version,
		Description: `Scry reports per-module import counts and cyclomatic complexity for
source files. Python files are analyzed over a full syntax tree; Java
files are sanitized and pattern-matched without a parser.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"SCRY_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown, toon, yaml",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			importsCmd(),
			complexityCmd(),
			initCmd(),
			cacheCmd(),
			mcpCmd(),
		},
	}
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze imports and complexity together",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "complexity-threshold",
				Value: 0,
				Usage: "Highlight files at or above this complexity (0 = config value)",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	paths := getPaths(c)

	// A single regular file produces the flat per-file record.
	if len(paths) == 1 {
		if info, err := os.Stat(paths[0]); err == nil && !info.IsDir() {
			return analyzeSingleFile(c, paths[0])
		}
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	files, cleanup, err := collectFiles(c, cfg, paths)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	proj := analyzer.NewProjectAnalyzer(newCache(cfg), cfg.Workers.Multiplier)

	tracker := progress.NewTracker("Analyzing...", len(files))
	analysis := proj.AnalyzeProjectWithProgress(files, tracker.Tick)
	tracker.FinishSuccess()

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	threshold := c.Int("complexity-threshold")
	if threshold <= 0 {
		threshold = cfg.Thresholds.CyclomaticComplexity
	}

	var rows [][]string
	for _, file := range analysis.Files {
		if file.Failed() {
			rows = append(rows, []string{
				file.Path,
				"-",
				"-",
				"-",
				fmt.Sprintf("%s: %s", file.ErrorKind, file.Error),
			})
			continue
		}

		complexityCell := fmt.Sprintf("%d", file.Complexity)
		if formatter.Colored() {
			complexityCell = output.ComplexityColor(file.Complexity, threshold, complexityCell)
		}
		rows = append(rows, []string{
			file.Path,
			file.Language,
			fmt.Sprintf("%d", file.Imports.Total()),
			complexityCell,
			"",
		})
	}

	table := output.NewTable(
		"Analysis",
		[]string{"File", "Language", "Imports", "Complexity", "Error"},
		rows,
		summaryFooter(analysis.Summary),
		analysis,
	)

	return formatter.Output(table)
}

// analyzeSingleFile emits the flat {imports, complexity} record for one
// file, or an {error} record and a non-zero exit on failure.
func analyzeSingleFile(c *cli.Context, path string) error {
	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	report := analyzer.AnalyzeFile(path, content)
	if report.Failed() {
		record := struct {
			Error string           `json:"error" toon:"error"`
			Kind  models.ErrorKind `json:"error_kind" toon:"error_kind"`
		}{report.Error, report.ErrorKind}
		if err := formatter.Output(record); err != nil {
			return err
		}
		return cli.Exit("", 1)
	}

	record := struct {
		Imports    models.ImportCounts `json:"imports" toon:"imports"`
		Complexity int                 `json:"complexity" toon:"complexity"`
	}{report.Imports, report.Complexity}
	return formatter.Output(record)
}

func importsCmd() *cli.Command {
	return &cli.Command{
		Name:      "imports",
		Aliases:   []string{"im"},
		Usage:     "Count imports per module",
		ArgsUsage: "[path...]",
		Action:    runImportsCmd,
	}
}

func runImportsCmd(c *cli.Context) error {
	paths := getPaths(c)

	if len(paths) == 1 {
		if info, err := os.Stat(paths[0]); err == nil && !info.IsDir() {
			return singleFileMetric(c, paths[0], func(report models.FileReport) any {
				return report.Imports
			})
		}
	}

	analysis, formatter, cleanup, err := runProject(c, paths, "Counting imports...")
	if err != nil || analysis == nil {
		return err
	}
	defer cleanup()
	defer formatter.Close()

	var rows [][]string
	for _, file := range analysis.Files {
		if file.Failed() {
			rows = append(rows, []string{file.Path, "-", fmt.Sprintf("%s: %s", file.ErrorKind, file.Error)})
			continue
		}
		modules := make([]string, 0, len(file.Imports))
		for module := range file.Imports {
			modules = append(modules, module)
		}
		sort.Strings(modules)
		for _, module := range modules {
			rows = append(rows, []string{file.Path, module, fmt.Sprintf("%d", file.Imports[module])})
		}
	}

	table := output.NewTable(
		"Import Counts",
		[]string{"File", "Module", "Count"},
		rows,
		[]string{
			fmt.Sprintf("Files: %d", analysis.Summary.TotalFiles),
			fmt.Sprintf("Modules: %d", analysis.Summary.DistinctModules),
			fmt.Sprintf("Imports: %d", analysis.Summary.TotalImports),
		},
		analysis,
	)

	return formatter.Output(table)
}

func complexityCmd() *cli.Command {
	return &cli.Command{
		Name:      "complexity",
		Aliases:   []string{"cx"},
		Usage:     "Compute cyclomatic complexity",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "threshold",
				Value: 0,
				Usage: "Highlight files at or above this complexity (0 = config value)",
			},
		},
		Action: runComplexityCmd,
	}
}

func runComplexityCmd(c *cli.Context) error {
	paths := getPaths(c)

	if len(paths) == 1 {
		if info, err := os.Stat(paths[0]); err == nil && !info.IsDir() {
			return singleFileMetric(c, paths[0], func(report models.FileReport) any {
				return struct {
					Complexity int `json:"complexity" toon:"complexity"`
				}{report.Complexity}
			})
		}
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	threshold := c.Int("threshold")
	if threshold <= 0 {
		threshold = cfg.Thresholds.CyclomaticComplexity
	}

	analysis, formatter, cleanup, err := runProject(c, paths, "Analyzing complexity...")
	if err != nil || analysis == nil {
		return err
	}
	defer cleanup()
	defer formatter.Close()

	var rows [][]string
	for _, file := range analysis.Files {
		if file.Failed() {
			rows = append(rows, []string{file.Path, "-", fmt.Sprintf("%s: %s", file.ErrorKind, file.Error)})
			continue
		}
		cell := fmt.Sprintf("%d", file.Complexity)
		if formatter.Colored() {
			cell = output.ComplexityColor(file.Complexity, threshold, cell)
		}
		rows = append(rows, []string{file.Path, cell, ""})
	}

	table := output.NewTable(
		"Cyclomatic Complexity",
		[]string{"File", "Complexity", "Error"},
		rows,
		[]string{
			fmt.Sprintf("Files: %d", analysis.Summary.TotalFiles),
			fmt.Sprintf("Max: %d", analysis.Summary.MaxComplexity),
			fmt.Sprintf("Avg: %.1f", analysis.Summary.AvgComplexity),
			fmt.Sprintf("P95: %.0f", analysis.Summary.P95Complexity),
		},
		analysis,
	)

	return formatter.Output(table)
}

// singleFileMetric runs one frontend operation for one file and emits the
// flat record, or an error record and non-zero exit.
func singleFileMetric(c *cli.Context, path string, project func(models.FileReport) any) error {
	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	report := analyzer.AnalyzeFile(path, content)
	if report.Failed() {
		record := struct {
			Error string           `json:"error" toon:"error"`
			Kind  models.ErrorKind `json:"error_kind" toon:"error_kind"`
		}{report.Error, report.ErrorKind}
		if err := formatter.Output(record); err != nil {
			return err
		}
		return cli.Exit("", 1)
	}

	return formatter.Output(project(report))
}

func summaryFooter(s models.ProjectSummary) []string {
	return []string{
		fmt.Sprintf("Files: %d", s.TotalFiles),
		fmt.Sprintf("Failed: %d", s.FailedFiles),
		fmt.Sprintf("Imports: %d", s.TotalImports),
		fmt.Sprintf("Max Cx: %d", s.MaxComplexity),
		"",
	}
}

// runProject scans the given paths and analyzes everything found. Returns a
// nil analysis (and no error) when there is nothing to analyze.
func runProject(c *cli.Context, paths []string, label string) (*models.ProjectAnalysis, *output.Formatter, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}

	files, cleanup, err := collectFiles(c, cfg, paths)
	if err != nil {
		return nil, nil, nil, err
	}

	if len(files) == 0 {
		cleanup()
		color.Yellow("No source files found")
		return nil, nil, nil, nil
	}

	proj := analyzer.NewProjectAnalyzer(newCache(cfg), cfg.Workers.Multiplier)

	tracker := progress.NewTracker(label, len(files))
	analysis := proj.AnalyzeProjectWithProgress(files, tracker.Tick)
	tracker.FinishSuccess()

	formatter, err := newFormatter(c)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	return analysis, formatter, cleanup, nil
}
