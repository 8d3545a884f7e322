package symbols

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// visitJS emits symbols for one JavaScript or TypeScript node and returns
// the scope and container its children are walked under. The TypeScript
// grammar is a superset of the JavaScript one, so both share this visitor.
func (w *walker) visitJS(node *sitter.Node, scope Scope, container string) (Scope, string) {
	switch node.Type() {
	case "function_declaration", "generator_function_declaration":
		name := w.text(node.ChildByFieldName("name"))
		if name == "" {
			return scope, container
		}
		sig := "function " + name + w.text(node.ChildByFieldName("parameters"))
		w.emit(node, name, KindFunction, scope, container, sig, "")
		return ScopeFunction, name

	case "class_declaration", "abstract_class_declaration":
		name := w.text(node.ChildByFieldName("name"))
		if name == "" {
			return scope, container
		}
		w.emit(node, name, KindClass, scope, container, firstLine(w.text(node)), "")
		return ScopeClass, name

	case "interface_declaration", "enum_declaration":
		name := w.text(node.ChildByFieldName("name"))
		if name == "" {
			return scope, container
		}
		w.emit(node, name, KindClass, scope, container, firstLine(w.text(node)), "")
		return ScopeClass, name

	case "type_alias_declaration":
		if name := w.text(node.ChildByFieldName("name")); name != "" {
			w.emit(node, name, KindClass, scope, container, firstLine(w.text(node)), "")
		}

	case "method_definition":
		name := w.text(node.ChildByFieldName("name"))
		if name == "" {
			return scope, container
		}
		sig := name + w.text(node.ChildByFieldName("parameters"))
		w.emit(node, name, KindMethod, scope, container, sig, "")
		return ScopeFunction, name

	case "variable_declarator":
		if name := node.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
			w.emit(node, w.text(name), KindVariable, scope, container, "", "")
		}

	case "import_statement":
		w.jsImports(node, scope, container)
	}

	return scope, container
}

// jsImports emits one symbol per imported binding: default imports,
// namespace imports, and named specifiers (alias wins over original name).
func (w *walker) jsImports(node *sitter.Node, scope Scope, container string) {
	stmt := strings.TrimSpace(w.text(node))

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "import_specifier":
			name := w.text(n.ChildByFieldName("name"))
			if alias := w.text(n.ChildByFieldName("alias")); alias != "" {
				name = alias
			}
			if name != "" {
				w.emit(node, name, KindImport, scope, container, stmt, "")
			}
			return
		case "namespace_import":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if c := n.NamedChild(i); c.Type() == "identifier" {
					w.emit(node, w.text(c), KindImport, scope, container, stmt, "")
				}
			}
			return
		case "identifier":
			// Default import: `import foo from "mod"`.
			w.emit(node, w.text(n), KindImport, scope, container, stmt, "")
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}

	if clause := findChild(node, "import_clause"); clause != nil {
		visit(clause)
	}
}

// findChild returns the first named child with the given type.
func findChild(node *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if c := node.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}
