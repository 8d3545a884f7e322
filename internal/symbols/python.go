package symbols

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// visitPython emits symbols for one Python node and returns the scope and
// container its children are walked under.
func (w *walker) visitPython(node *sitter.Node, scope Scope, container string) (Scope, string) {
	switch node.Type() {
	case "function_definition":
		name := w.text(node.ChildByFieldName("name"))
		if name == "" {
			return scope, container
		}
		kind := KindFunction
		if scope == ScopeClass {
			kind = KindMethod
		}
		sig := "def " + name + w.text(node.ChildByFieldName("parameters"))
		doc := w.pyDocstring(node.ChildByFieldName("body"))
		w.emit(node, name, kind, scope, container, sig, doc)
		return ScopeFunction, name

	case "class_definition":
		name := w.text(node.ChildByFieldName("name"))
		if name == "" {
			return scope, container
		}
		sig := "class " + name
		if sup := node.ChildByFieldName("superclasses"); sup != nil {
			sig += w.text(sup)
		}
		doc := w.pyDocstring(node.ChildByFieldName("body"))
		w.emit(node, name, KindClass, scope, container, sig, doc)
		return ScopeClass, name

	case "assignment":
		if left := node.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
			w.emit(node, w.text(left), KindVariable, scope, container, "", "")
		}

	case "import_statement":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "dotted_name":
				mod := w.text(child)
				w.emit(node, mod, KindImport, scope, container, "import "+mod, "")
			case "aliased_import":
				mod := w.text(child.ChildByFieldName("name"))
				alias := w.text(child.ChildByFieldName("alias"))
				w.emit(node, alias, KindImport, scope, container, "import "+mod+" as "+alias, "")
			}
		}

	case "import_from_statement":
		modNode := node.ChildByFieldName("module_name")
		mod := w.text(modNode)
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if modNode != nil && child.StartByte() == modNode.StartByte() {
				continue // the module path itself, not an imported name
			}
			switch child.Type() {
			case "dotted_name":
				name := w.text(child)
				w.emit(node, name, KindImport, scope, container, "from "+mod+" import "+name, "")
			case "aliased_import":
				orig := w.text(child.ChildByFieldName("name"))
				alias := w.text(child.ChildByFieldName("alias"))
				w.emit(node, alias, KindImport, scope, container, "from "+mod+" import "+orig+" as "+alias, "")
			case "wildcard_import":
				w.emit(node, "*", KindImport, scope, container, "from "+mod+" import *", "")
			}
		}
	}

	return scope, container
}

// pyDocstring returns the leading string literal of a definition body.
func (w *walker) pyDocstring(body *sitter.Node) string {
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return stripPyQuotes(w.text(str))
}

func stripPyQuotes(s string) string {
	for _, prefix := range []string{"r", "R", "b", "B", "u", "U", "f", "F"} {
		s = strings.TrimPrefix(s, prefix)
	}
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return strings.TrimSpace(s[len(q) : len(s)-len(q)])
		}
	}
	return strings.TrimSpace(s)
}
