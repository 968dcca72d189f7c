package analyzer

import (
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/scrylabs/scry/pkg/models"
	"github.com/scrylabs/scry/pkg/parser"
)

// pythonDecisionTypes are the node types that add one decision point each.
//
// An if/elif/else chain is a single if_statement node with elif_clause and
// else_clause children; the chain counts once. boolean_operator nodes are
// binarized in the tree, so counting each node reproduces the one-per-extra-
// operand rule for chained and/or expressions. Conditional expressions
// (x if c else y) are not decision points. Comprehension clauses count one
// per for_in_clause and one per if_clause.
var pythonDecisionTypes = map[string]bool{
	"if_statement":        true,
	"for_statement":       true,
	"while_statement":     true,
	"except_clause":       true,
	"except_group_clause": true,
	"boolean_operator":    true,
	"for_in_clause":       true,
	"if_clause":           true,
	"case_clause":         true,
}

// PythonAnalyzer is the tree-based frontend. It parses the buffer once and
// derives both metrics from a single traversal. Malformed input is a hard
// failure: the grammar is enforced and no partial result is ever produced.
type PythonAnalyzer struct{}

// NewPythonAnalyzer creates the Python frontend.
func NewPythonAnalyzer() *PythonAnalyzer {
	return &PythonAnalyzer{}
}

// Language returns the language this frontend handles.
func (a *PythonAnalyzer) Language() parser.Language {
	return parser.LangPython
}

// Analyze parses the source and computes both metrics in one tree walk.
func (a *PythonAnalyzer) Analyze(source []byte) (*models.FileMetrics, *models.AnalysisError) {
	if !utf8.Valid(source) {
		return nil, models.NewDecodeError("source is not valid UTF-8")
	}

	p := parser.New()
	defer p.Close()

	result, err := p.Parse(source, parser.LangPython)
	if err != nil {
		return nil, models.NewGrammarError(err.Error())
	}

	root := result.Tree.RootNode()
	if root.HasError() {
		return nil, models.NewGrammarError("source does not conform to the python grammar")
	}

	imports := models.ImportCounts{}
	complexity := 1

	parser.Walk(root, func(node *sitter.Node, nodeType string) bool {
		switch nodeType {
		case "import_statement":
			collectPlainImport(node, source, imports)
			return false
		case "import_from_statement":
			collectFromImport(node, source, imports)
			return false
		case "future_import_statement":
			collectNamedImports(node, source, "__future__", imports)
			return false
		}
		if pythonDecisionTypes[nodeType] {
			complexity++
		}
		return true
	})

	return &models.FileMetrics{Imports: imports, Complexity: complexity}, nil
}

// CountImports returns per-module import counts.
func (a *PythonAnalyzer) CountImports(source []byte) (models.ImportCounts, *models.AnalysisError) {
	metrics, err := a.Analyze(source)
	if err != nil {
		return nil, err
	}
	return metrics.Imports, nil
}

// Complexity returns the cyclomatic complexity score.
func (a *PythonAnalyzer) Complexity(source []byte) (int, *models.AnalysisError) {
	metrics, err := a.Analyze(source)
	if err != nil {
		return 0, err
	}
	return metrics.Complexity, nil
}

// collectPlainImport handles "import a.b.c" and "import a.b.c as x": one
// count per bound name, keyed by the full dotted module path. Aliases do
// not change the key.
func collectPlainImport(node *sitter.Node, source []byte, counts models.ImportCounts) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			counts.Add(parser.NodeText(child, source), 1)
		case "aliased_import":
			counts.Add(parser.NodeText(child.ChildByFieldName("name"), source), 1)
		}
	}
}

// collectFromImport handles "from X import a, b": the module key is the
// declared path including any relative dot prefix (possibly dots only, as
// in "from . import x"), incremented by the number of imported names. A
// wildcard import increments by exactly 1.
func collectFromImport(node *sitter.Node, source []byte, counts models.ImportCounts) {
	moduleNode := node.ChildByFieldName("module_name")
	module := parser.NodeText(moduleNode, source)

	names := 0
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if parser.SameSpan(child, moduleNode) {
			continue
		}
		switch child.Type() {
		case "wildcard_import":
			counts.Add(module, 1)
			return
		case "dotted_name", "aliased_import":
			names++
		}
	}
	counts.Add(module, names)
}

// collectNamedImports counts the imported names of a from-import whose
// module key is fixed, as in "from __future__ import annotations".
func collectNamedImports(node *sitter.Node, source []byte, module string, counts models.ImportCounts) {
	names := 0
	for i := 0; i < int(node.NamedChildCount()); i++ {
		switch node.NamedChild(i).Type() {
		case "dotted_name", "aliased_import":
			names++
		}
	}
	counts.Add(module, names)
}
