package symbols

import (
	"context"
	"reflect"
	"testing"

	ierr "symdex/internal/errors"
)

// expectation is the shape checked per extracted symbol. Signature and
// docstring are asserted separately where they matter.
type expectation struct {
	Name      string
	Kind      Kind
	Line      int
	Scope     Scope
	Container string
}

func extract(t *testing.T, path, source string, lang Language) []Symbol {
	t.Helper()
	syms, err := NewExtractor().Extract(context.Background(), path, []byte(source), lang)
	if err != nil {
		t.Fatalf("Extract(%s) failed: %v", path, err)
	}
	return syms
}

func checkSymbols(t *testing.T, syms []Symbol, want []expectation) {
	t.Helper()
	if len(syms) != len(want) {
		t.Fatalf("got %d symbols, want %d: %+v", len(syms), len(want), syms)
	}
	for i, w := range want {
		got := expectation{syms[i].Name, syms[i].Kind, syms[i].Line, syms[i].Scope, syms[i].Container}
		if got != w {
			t.Errorf("symbol %d: got %+v, want %+v", i, got, w)
		}
	}
}

func TestExtractPython(t *testing.T) {
	source := `import os
from collections import OrderedDict as OD

VERSION = "1.0"

def greet(name):
    """Say hello."""
    msg = "hi"
    return msg

class Greeter(Base):
    """Greets people."""

    def greet(self):
        pass
`
	syms := extract(t, "sample.py", source, LangPython)

	checkSymbols(t, syms, []expectation{
		{"os", KindImport, 1, ScopeModule, ""},
		{"OD", KindImport, 2, ScopeModule, ""},
		{"VERSION", KindVariable, 4, ScopeModule, ""},
		{"greet", KindFunction, 6, ScopeModule, ""},
		{"msg", KindVariable, 8, ScopeFunction, "greet"},
		{"Greeter", KindClass, 11, ScopeModule, ""},
		{"greet", KindMethod, 14, ScopeClass, "Greeter"},
	})

	if syms[3].Signature != "def greet(name)" {
		t.Errorf("function signature: got %q", syms[3].Signature)
	}
	if syms[3].Docstring != "Say hello." {
		t.Errorf("function docstring: got %q", syms[3].Docstring)
	}
	if syms[5].Signature != "class Greeter(Base)" {
		t.Errorf("class signature: got %q", syms[5].Signature)
	}
	if syms[5].Docstring != "Greets people." {
		t.Errorf("class docstring: got %q", syms[5].Docstring)
	}
}

func TestExtractPythonImportFrom(t *testing.T) {
	source := `from os.path import join, basename as base
from typing import *
`
	syms := extract(t, "imports.py", source, LangPython)

	checkSymbols(t, syms, []expectation{
		{"join", KindImport, 1, ScopeModule, ""},
		{"base", KindImport, 1, ScopeModule, ""},
		{"*", KindImport, 2, ScopeModule, ""},
	})
	if syms[1].Signature != "from os.path import basename as base" {
		t.Errorf("aliased import signature: got %q", syms[1].Signature)
	}
}

func TestExtractGo(t *testing.T) {
	source := `package sample

import (
	"fmt"
	myio "io"
)

const answer = 42

var Counter int

type Greeter struct {
	name string
}

func (g *Greeter) Greet() string {
	return fmt.Sprint(g.name)
}

func Add(a, b int) int {
	total := a + b
	return total + answer
}
`
	syms := extract(t, "sample.go", source, LangGo)

	checkSymbols(t, syms, []expectation{
		{"fmt", KindImport, 4, ScopeModule, ""},
		{"myio", KindImport, 5, ScopeModule, ""},
		{"answer", KindVariable, 8, ScopeModule, ""},
		{"Counter", KindVariable, 10, ScopeModule, ""},
		{"Greeter", KindClass, 12, ScopeModule, ""},
		{"Greet", KindMethod, 16, ScopeModule, "Greeter"},
		{"Add", KindFunction, 20, ScopeModule, ""},
		{"total", KindVariable, 21, ScopeFunction, "Add"},
	})

	if syms[5].Signature != "func (g *Greeter) Greet() string" {
		t.Errorf("method signature: got %q", syms[5].Signature)
	}
}

func TestExtractJavaScript(t *testing.T) {
	source := `import React, { useState as useS } from "react";
import * as path from "path";

const limit = 10;

function render(props) {
  const out = props;
  return out;
}

class Widget {
  draw(ctx) {}
}
`
	syms := extract(t, "sample.js", source, LangJavaScript)

	checkSymbols(t, syms, []expectation{
		{"React", KindImport, 1, ScopeModule, ""},
		{"useS", KindImport, 1, ScopeModule, ""},
		{"path", KindImport, 2, ScopeModule, ""},
		{"limit", KindVariable, 4, ScopeModule, ""},
		{"render", KindFunction, 6, ScopeModule, ""},
		{"out", KindVariable, 7, ScopeFunction, "render"},
		{"Widget", KindClass, 11, ScopeModule, ""},
		{"draw", KindMethod, 12, ScopeClass, "Widget"},
	})
}

func TestExtractTypeScript(t *testing.T) {
	source := `interface Shape {
  area(): number;
}

type ID = string;

enum Color {
  Red,
  Green,
}
`
	syms := extract(t, "sample.ts", source, LangTypeScript)

	checkSymbols(t, syms, []expectation{
		{"Shape", KindClass, 1, ScopeModule, ""},
		{"ID", KindClass, 5, ScopeModule, ""},
		{"Color", KindClass, 7, ScopeModule, ""},
	})
}

func TestExtractSyntaxError(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), "broken.py",
		[]byte("def broken(:\n    pass\n"), LangPython)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !ierr.HasCode(err, ierr.ParseError) {
		t.Errorf("error code: got %v, want %s", ierr.CodeOf(err), ierr.ParseError)
	}
}

func TestExtractDeterministic(t *testing.T) {
	source := `def foo(): pass

class Foo: pass
`
	first := extract(t, "a.py", source, LangPython)
	second := extract(t, "a.py", source, LangPython)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestLanguageForExt(t *testing.T) {
	tests := []struct {
		ext  string
		lang Language
		ok   bool
	}{
		{".py", LangPython, true},
		{".go", LangGo, true},
		{".js", LangJavaScript, true},
		{".mjs", LangJavaScript, true},
		{".jsx", LangJavaScript, true},
		{".ts", LangTypeScript, true},
		{".tsx", LangTypeScript, true},
		{".rb", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		lang, ok := LanguageForExt(tt.ext)
		if lang != tt.lang || ok != tt.ok {
			t.Errorf("LanguageForExt(%q) = (%v, %v), want (%v, %v)", tt.ext, lang, ok, tt.lang, tt.ok)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = (%v, %v)", k, got, err)
		}
	}
	if _, err := ParseKind("gadget"); err == nil {
		t.Error("ParseKind accepted an unknown kind")
	}
}
