// Package export converts the in-memory index into a SCIP index, the
// interchange format consumed by code-intelligence tooling.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	ierr "symdex/internal/errors"
	"symdex/internal/store"
	"symdex/internal/symbols"
	"symdex/internal/version"
)

// SCIP renders the store's current contents as a SCIP index protobuf:
// one Document per indexed file, one SymbolInformation plus a definition
// Occurrence per symbol. Symbols use document-local IDs; display names
// carry the declared identifier.
func SCIP(st *store.Store, projectRoot string) (*scippb.Index, error) {
	if !st.Built() {
		return nil, ierr.New(ierr.NotBuilt, "nothing to export: index has never been built")
	}

	index := &scippb.Index{
		Metadata: &scippb.Metadata{
			Version: scippb.ProtocolVersion_UnspecifiedProtocolVersion,
			ToolInfo: &scippb.ToolInfo{
				Name:    "symdex",
				Version: version.Version,
			},
			ProjectRoot:          "file://" + filepath.ToSlash(projectRoot),
			TextDocumentEncoding: scippb.TextEncoding_UTF8,
		},
	}

	for _, path := range st.Files() {
		syms := st.ForFile(path)
		doc := &scippb.Document{
			RelativePath: path,
			Language:     languageFor(path),
		}
		for i, sym := range syms {
			id := fmt.Sprintf("local %d", i)
			doc.Symbols = append(doc.Symbols, &scippb.SymbolInformation{
				Symbol:        id,
				DisplayName:   sym.Name,
				Kind:          scipKind(sym.Kind),
				Documentation: documentation(sym),
			})
			doc.Occurrences = append(doc.Occurrences, &scippb.Occurrence{
				Symbol:      id,
				SymbolRoles: int32(scippb.SymbolRole_Definition),
				Range: []int32{
					int32(sym.Line - 1), int32(sym.Column - 1),
					int32(sym.Line - 1), int32(sym.Column - 1 + len(sym.Name)),
				},
			})
		}
		index.Documents = append(index.Documents, doc)
	}

	return index, nil
}

// WriteSCIP serializes the index to path.
func WriteSCIP(st *store.Store, projectRoot, path string) error {
	index, err := SCIP(st, projectRoot)
	if err != nil {
		return err
	}
	data, err := proto.Marshal(index)
	if err != nil {
		return ierr.Wrap(ierr.StorageError, "encoding SCIP index", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ierr.Wrap(ierr.StorageError, "writing SCIP index", err)
	}
	return nil
}

func scipKind(kind symbols.Kind) scippb.SymbolInformation_Kind {
	switch kind {
	case symbols.KindFunction:
		return scippb.SymbolInformation_Function
	case symbols.KindClass:
		return scippb.SymbolInformation_Class
	case symbols.KindMethod:
		return scippb.SymbolInformation_Method
	case symbols.KindVariable:
		return scippb.SymbolInformation_Variable
	case symbols.KindImport:
		return scippb.SymbolInformation_Namespace
	default:
		return scippb.SymbolInformation_UnspecifiedKind
	}
}

func documentation(sym symbols.Symbol) []string {
	var docs []string
	if sym.Signature != "" {
		docs = append(docs, sym.Signature)
	}
	if sym.Docstring != "" {
		docs = append(docs, sym.Docstring)
	}
	return docs
}

func languageFor(path string) string {
	lang, ok := symbols.LanguageForExt(filepath.Ext(path))
	if !ok {
		return ""
	}
	return string(lang)
}
