package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// NewRustParser handles use declarations and extern crate.
// Paths rooted at crate, self or super are local and skipped.
func NewRustParser() *Parser {
	return &Parser{
		lang:    domain.LanguageRust,
		grammar: rust.GetLanguage(),
		extract: extractRust,
	}
}

func extractRust(n *sitter.Node, src []byte, add func(string)) {
	switch n.Type() {
	case "use_declaration":
		if arg := n.ChildByFieldName("argument"); arg != nil {
			for _, name := range useRoots(arg.Content(src)) {
				add(crateName(name))
			}
		}
	case "extern_crate_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			add(crateName(name.Content(src)))
		}
	}
}

// useRoots returns the first path segment of every tree in a use argument:
// "a::b" gives [a], "{a::b, c}" gives [a c], "a as b" gives [a].
func useRoots(tree string) []string {
	tree = strings.TrimPrefix(strings.TrimSpace(tree), "::")
	if strings.HasPrefix(tree, "{") && strings.HasSuffix(tree, "}") {
		var roots []string
		for _, item := range splitTopLevel(tree[1 : len(tree)-1]) {
			roots = append(roots, useRoots(item)...)
		}
		return roots
	}

	head, _, _ := strings.Cut(tree, "::")
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return nil
	}
	return []string{fields[0]}
}

// splitTopLevel splits on commas outside braces.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

func crateName(name string) string {
	switch name {
	case "crate", "self", "super", "$crate", "*":
		return ""
	}
	return name
}
