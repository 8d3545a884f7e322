// Package symbols defines the symbol model and tree-sitter based extraction.
//
// Extraction is a pure function from file content to an ordered symbol list.
// It holds no shared state; the builder owns scheduling and error policy.
package symbols

import "fmt"

// Kind classifies a declaration. The set is closed: every consumer is
// expected to switch over all values.
type Kind string

const (
	KindFunction Kind = "function"
	KindClass    Kind = "class"
	KindVariable Kind = "variable"
	KindImport   Kind = "import"
	KindMethod   Kind = "method"
)

// Kinds lists every valid Kind.
var Kinds = []Kind{KindFunction, KindClass, KindVariable, KindImport, KindMethod}

// ParseKind validates a kind string from external input.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown symbol kind %q", s)
}

// Scope names the lexical container of a declaration.
type Scope string

const (
	ScopeModule   Scope = "module"
	ScopeClass    Scope = "class"
	ScopeFunction Scope = "function"
)

// Symbol represents one declaration found in a source file.
type Symbol struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	File      string `json:"file"`              // Path relative to the indexed root
	Line      int    `json:"line"`              // 1-indexed start line
	Column    int    `json:"column"`            // 1-indexed start column
	EndLine   int    `json:"endLine"`           // Last line of the declaration
	Signature string `json:"signature,omitempty"` // Parameter list text, functions/methods only
	Docstring string `json:"docstring,omitempty"` // Leading documentation text
	Scope     Scope  `json:"scope"`
	Container string `json:"container,omitempty"` // Name of the innermost enclosing declaration
}

// Language identifies a supported grammar.
type Language string

const (
	LangPython     Language = "python"
	LangGo         Language = "go"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
)

// LanguageForExt maps a lowercase file extension (with dot) to its language.
func LanguageForExt(ext string) (Language, bool) {
	switch ext {
	case ".py":
		return LangPython, true
	case ".go":
		return LangGo, true
	case ".js", ".mjs", ".cjs", ".jsx":
		return LangJavaScript, true
	case ".ts", ".tsx":
		return LangTypeScript, true
	default:
		return "", false
	}
}

// SupportedExtensions returns the default extension allow-list.
func SupportedExtensions() []string {
	return []string{".py", ".go", ".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx"}
}
