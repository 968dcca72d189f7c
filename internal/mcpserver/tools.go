package mcpserver

import (
	"context"
	"encoding/json"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/scrylabs/scry/internal/output"
	"github.com/scrylabs/scry/internal/scanner"
	"github.com/scrylabs/scry/pkg/analyzer"
	"github.com/scrylabs/scry/pkg/config"
)

// FileInput is the input for single-file tools. Content, when set, is
// analyzed directly; otherwise the file is read from path.
type FileInput struct {
	Path    string `json:"path" jsonschema:"Path to the source file. The extension selects the language frontend."`
	Content string `json:"content,omitempty" jsonschema:"Source text to analyze instead of reading the file from disk."`
	Format  string `json:"format,omitempty" jsonschema:"Output format: toon (default) or json."`
}

// ProjectInput is the input for the project-level tool.
type ProjectInput struct {
	Paths  []string `json:"paths,omitempty" jsonschema:"Paths to analyze. Defaults to current directory if empty."`
	Format string   `json:"format,omitempty" jsonschema:"Output format: toon (default) or json."`
}

func readSource(input FileInput) ([]byte, error) {
	if input.Content != "" {
		return []byte(input.Content), nil
	}
	return os.ReadFile(input.Path)
}

func formatOutput(data any, format string) (string, error) {
	if output.ParseFormat(format) == output.FormatJSON {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toolResult(data any, format string) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// Tool handlers

func handleAnalyzeFile(ctx context.Context, req *mcp.CallToolRequest, input FileInput) (*mcp.CallToolResult, any, error) {
	content, err := readSource(input)
	if err != nil {
		return toolError(err.Error())
	}

	report := analyzer.AnalyzeFile(input.Path, content)
	if report.Failed() {
		return toolError(string(report.ErrorKind) + ": " + report.Error)
	}
	return toolResult(report, input.Format)
}

func handleCountImports(ctx context.Context, req *mcp.CallToolRequest, input FileInput) (*mcp.CallToolResult, any, error) {
	frontend, err := analyzer.ForFile(input.Path)
	if err != nil {
		return toolError(err.Error())
	}

	content, err := readSource(input)
	if err != nil {
		return toolError(err.Error())
	}

	imports, aerr := frontend.CountImports(content)
	if aerr != nil {
		return toolError(aerr.Error())
	}
	return toolResult(imports, input.Format)
}

func handleAnalyzeComplexity(ctx context.Context, req *mcp.CallToolRequest, input FileInput) (*mcp.CallToolResult, any, error) {
	frontend, err := analyzer.ForFile(input.Path)
	if err != nil {
		return toolError(err.Error())
	}

	content, err := readSource(input)
	if err != nil {
		return toolError(err.Error())
	}

	score, aerr := frontend.Complexity(content)
	if aerr != nil {
		return toolError(aerr.Error())
	}
	return toolResult(map[string]int{"complexity": score}, input.Format)
}

func handleAnalyzeProject(ctx context.Context, req *mcp.CallToolRequest, input ProjectInput) (*mcp.CallToolResult, any, error) {
	paths := input.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg := config.LoadOrDefault()
	s := scanner.NewScanner(cfg)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return toolError(err.Error())
		}
		if info.IsDir() {
			found, err := s.ScanDir(path)
			if err != nil {
				return toolError(err.Error())
			}
			files = append(files, found...)
			continue
		}
		if ok, err := s.ScanFile(path); err == nil && ok {
			files = append(files, path)
		}
	}

	if len(files) == 0 {
		return toolError("no source files found")
	}

	p := analyzer.NewProjectAnalyzer(nil, cfg.Workers.Multiplier)
	analysis := p.AnalyzeProject(files)
	return toolResult(analysis, input.Format)
}
