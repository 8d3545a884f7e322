package symbols

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	ierr "symdex/internal/errors"
)

// Extractor parses source files and emits symbols in declaration order.
// Safe for sequential reuse; not safe for concurrent use — the builder
// creates one Extractor per worker.
type Extractor struct {
	parser *sitter.Parser
}

// NewExtractor creates a new symbol extractor.
func NewExtractor() *Extractor {
	return &Extractor{parser: sitter.NewParser()}
}

// Extract parses source and returns the symbols declared in it, ordered by
// declaration position. The same input always yields the same output.
// A tree the grammar cannot consume cleanly yields a PARSE_ERROR.
func (e *Extractor) Extract(ctx context.Context, path string, source []byte, lang Language) ([]Symbol, error) {
	tsLang, err := grammarFor(lang)
	if err != nil {
		return nil, ierr.Wrap(ierr.ParseError, fmt.Sprintf("no grammar for %s", path), err)
	}

	e.parser.SetLanguage(tsLang)
	tree, err := e.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, ierr.Wrap(ierr.ParseError, fmt.Sprintf("parsing %s", path), err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, ierr.New(ierr.ParseError, fmt.Sprintf("syntax error in %s", path))
	}

	w := &walker{path: path, source: source, lang: lang}
	w.walk(root, ScopeModule, "")
	return w.out, nil
}

// grammarFor returns the tree-sitter grammar for a language.
func grammarFor(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangPython:
		return python.GetLanguage(), nil
	case LangGo:
		return golang.GetLanguage(), nil
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// walker carries extraction state through one tree traversal. Pre-order
// traversal keeps the output in document order without a final sort.
type walker struct {
	path   string
	source []byte
	lang   Language
	out    []Symbol
}

func (w *walker) walk(node *sitter.Node, scope Scope, container string) {
	if node == nil {
		return
	}

	nextScope, nextContainer := scope, container

	switch w.lang {
	case LangPython:
		nextScope, nextContainer = w.visitPython(node, scope, container)
	case LangGo:
		nextScope, nextContainer = w.visitGo(node, scope, container)
	case LangJavaScript, LangTypeScript:
		nextScope, nextContainer = w.visitJS(node, scope, container)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		w.walk(node.NamedChild(i), nextScope, nextContainer)
	}
}

// emit appends one symbol positioned at node.
func (w *walker) emit(node *sitter.Node, name string, kind Kind, scope Scope, container, signature, docstring string) {
	w.out = append(w.out, Symbol{
		Name:      name,
		Kind:      kind,
		File:      w.path,
		Line:      int(node.StartPoint().Row) + 1,
		Column:    int(node.StartPoint().Column) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
		Signature: signature,
		Docstring: docstring,
		Scope:     scope,
		Container: container,
	})
}

// text returns the source text of a node.
func (w *walker) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return node.Content(w.source)
}

// firstLine truncates a declaration to its header line for signatures.
func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '{' || s[i] == ':' {
			return strings.TrimSpace(s[:i])
		}
	}
	return strings.TrimSpace(s)
}
