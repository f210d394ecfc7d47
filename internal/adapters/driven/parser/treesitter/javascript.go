package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// NewJavaScriptParser handles ES imports, re-exports, require() and dynamic import().
func NewJavaScriptParser() *Parser {
	return &Parser{
		lang:    domain.LanguageJS,
		grammar: javascript.GetLanguage(),
		extract: extractJavaScript,
	}
}

func extractJavaScript(n *sitter.Node, src []byte, add func(string)) {
	switch n.Type() {
	case "import_statement", "export_statement":
		if source := n.ChildByFieldName("source"); source != nil {
			add(npmPackage(stringLiteral(source, src)))
		}
	case "call_expression":
		fn := n.ChildByFieldName("function")
		if fn == nil {
			return
		}
		if fn.Type() != "import" && !(fn.Type() == "identifier" && fn.Content(src) == "require") {
			return
		}
		args := n.ChildByFieldName("arguments")
		if args == nil || args.NamedChildCount() == 0 {
			return
		}
		if first := args.NamedChild(0); first.Type() == "string" {
			add(npmPackage(stringLiteral(first, src)))
		}
	}
}

func stringLiteral(n *sitter.Node, src []byte) string {
	return strings.Trim(n.Content(src), "\"'`")
}

// npmPackage maps an import specifier to its package name:
// "@scope/name/sub" to "@scope/name", "name/sub" to "name".
// Relative paths and URLs yield "".
func npmPackage(specifier string) string {
	specifier = strings.TrimSpace(specifier)
	if specifier == "" || strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/") || strings.Contains(specifier, "://") {
		return ""
	}
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") {
		if len(parts) < 2 || parts[1] == "" {
			return ""
		}
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
