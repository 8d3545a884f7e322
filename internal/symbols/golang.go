package symbols

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// visitGo emits symbols for one Go node and returns the scope and container
// its children are walked under.
func (w *walker) visitGo(node *sitter.Node, scope Scope, container string) (Scope, string) {
	switch node.Type() {
	case "function_declaration":
		name := w.text(node.ChildByFieldName("name"))
		if name == "" {
			return scope, container
		}
		w.emit(node, name, KindFunction, scope, container, firstLine(w.text(node)), "")
		return ScopeFunction, name

	case "method_declaration":
		name := w.text(node.ChildByFieldName("name"))
		if name == "" {
			return scope, container
		}
		recv := goReceiverType(node.ChildByFieldName("receiver"), w.source)
		w.emit(node, name, KindMethod, scope, recv, firstLine(w.text(node)), "")
		return ScopeFunction, name

	case "type_declaration":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			spec := node.NamedChild(i)
			if spec.Type() != "type_spec" && spec.Type() != "type_alias" {
				continue
			}
			if name := w.text(spec.ChildByFieldName("name")); name != "" {
				w.emit(spec, name, KindClass, scope, container, firstLine(w.text(spec)), "")
			}
		}

	case "var_declaration", "const_declaration":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			spec := node.NamedChild(i)
			if spec.Type() != "var_spec" && spec.Type() != "const_spec" {
				continue
			}
			for j := 0; j < int(spec.NamedChildCount()); j++ {
				child := spec.NamedChild(j)
				if child.Type() == "identifier" {
					w.emit(spec, w.text(child), KindVariable, scope, container, "", "")
				}
			}
		}

	case "short_var_declaration":
		if left := node.ChildByFieldName("left"); left != nil {
			for i := 0; i < int(left.NamedChildCount()); i++ {
				child := left.NamedChild(i)
				if child.Type() == "identifier" && w.text(child) != "_" {
					w.emit(node, w.text(child), KindVariable, scope, container, "", "")
				}
			}
		}

	case "import_declaration":
		w.goImports(node, scope, container)
	}

	return scope, container
}

// goImports walks an import_declaration, which holds either a single
// import_spec or an import_spec_list.
func (w *walker) goImports(node *sitter.Node, scope Scope, container string) {
	var specs []*sitter.Node
	var collect func(n *sitter.Node)
	collect = func(n *sitter.Node) {
		if n.Type() == "import_spec" {
			specs = append(specs, n)
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			collect(n.NamedChild(i))
		}
	}
	collect(node)

	for _, spec := range specs {
		path := strings.Trim(w.text(spec.ChildByFieldName("path")), `"`)
		name := w.text(spec.ChildByFieldName("name"))
		if name == "" || name == "_" || name == "." {
			if idx := strings.LastIndex(path, "/"); idx >= 0 {
				name = path[idx+1:]
			} else {
				name = path
			}
		}
		w.emit(spec, name, KindImport, scope, container, `import "`+path+`"`, "")
	}
}

// goReceiverType extracts the receiver type name from a method receiver.
func goReceiverType(recv *sitter.Node, source []byte) string {
	if recv == nil {
		return ""
	}
	text := recv.Content(source)
	text = strings.Trim(text, "()")
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	typ := fields[len(fields)-1]
	typ = strings.TrimPrefix(typ, "*")
	// Drop type parameters on generic receivers.
	if idx := strings.Index(typ, "["); idx >= 0 {
		typ = typ[:idx]
	}
	return typ
}
