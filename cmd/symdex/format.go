package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"symdex/internal/symbols"
)

// emit renders v in the selected output format. The text renderer is
// per-command; json and yaml marshal v directly.
func emit(v interface{}, text func() string) error {
	switch outputFlag {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		fmt.Print(string(data))
	case "text":
		fmt.Println(text())
	default:
		return fmt.Errorf("unknown output format %q (want text, json, or yaml)", outputFlag)
	}
	return nil
}

// formatSymbols renders a symbol list as aligned text lines.
func formatSymbols(syms []symbols.Symbol) string {
	if len(syms) == 0 {
		return "no symbols found"
	}
	var sb strings.Builder
	for _, sym := range syms {
		fmt.Fprintf(&sb, "%s:%d:%d\t%-8s\t%s", sym.File, sym.Line, sym.Column, sym.Kind, sym.Name)
		if sym.Signature != "" {
			fmt.Fprintf(&sb, "\t%s", sym.Signature)
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}
