package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// NewPythonParser handles import and from-import statements.
// Relative imports are skipped.
func NewPythonParser() *Parser {
	return &Parser{
		lang:    domain.LanguagePython,
		grammar: python.GetLanguage(),
		extract: extractPython,
	}
}

func extractPython(n *sitter.Node, src []byte, add func(string)) {
	switch n.Type() {
	case "import_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "dotted_name":
				add(topModule(child.Content(src)))
			case "aliased_import":
				if name := child.ChildByFieldName("name"); name != nil {
					add(topModule(name.Content(src)))
				}
			}
		}
	case "import_from_statement":
		module := n.ChildByFieldName("module_name")
		if module != nil && module.Type() == "dotted_name" {
			add(topModule(module.Content(src)))
		}
	case "future_import_statement":
		add("__future__")
	}
}

// topModule returns "a" for "a.b.c".
func topModule(dotted string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(dotted), ".")
	return name
}
