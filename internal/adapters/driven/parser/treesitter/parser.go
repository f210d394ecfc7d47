// Package treesitter extracts imported packages from Python, JavaScript and
// Rust sources using tree-sitter grammars.
package treesitter

import (
	"context"
	"fmt"
	"sort"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// extractFunc collects package names from one node. It is called for every
// node in the tree.
type extractFunc func(n *sitter.Node, src []byte, add func(string))

// Parser is a driven.ImportParser for one tree-sitter grammar.
// A fresh sitter.Parser is used per call, so Parser is safe for concurrent use.
type Parser struct {
	lang    domain.Language
	grammar *sitter.Language
	extract extractFunc
}

// Parse extracts the top-level packages code imports.
func (p *Parser) Parse(ctx context.Context, code string) (*driven.ParsedImports, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	src := []byte(code)

	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(p.grammar)

	tree, err := sp.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.lang, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	seen := make(map[string]struct{})
	add := func(name string) {
		if name != "" {
			seen[name] = struct{}{}
		}
	}

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		p.extract(n, src, add)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)

	result := &driven.ParsedImports{
		Packages:    make([]string, 0, len(seen)),
		SyntaxError: syntaxError(root),
	}
	for name := range seen {
		result.Packages = append(result.Packages, name)
	}
	sort.Strings(result.Packages)

	logger.Debug("treesitter: %s parsed %d bytes, %d packages in %v",
		p.lang, len(src), len(result.Packages), time.Since(start))
	return result, nil
}

// Language returns the language this parser understands.
func (p *Parser) Language() domain.Language {
	return p.lang
}

// NewParsers returns parsers for every language with import validation.
func NewParsers() []driven.ImportParser {
	return []driven.ImportParser{
		NewPythonParser(),
		NewJavaScriptParser(),
		NewRustParser(),
	}
}

// syntaxError describes the first ERROR or MISSING node in document order.
func syntaxError(root *sitter.Node) string {
	if !root.HasError() {
		return ""
	}

	var found *sitter.Node
	var find func(*sitter.Node)
	find = func(n *sitter.Node) {
		if found != nil {
			return
		}
		if n.Type() == "ERROR" || n.IsMissing() {
			found = n
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child.HasError() || child.IsMissing() {
				find(child)
			}
		}
	}
	find(root)

	if found == nil {
		return "invalid syntax"
	}
	pos := found.StartPoint()
	if found.IsMissing() {
		return fmt.Sprintf("missing %q at line %d, column %d", found.Type(), pos.Row+1, pos.Column+1)
	}
	return fmt.Sprintf("invalid syntax at line %d, column %d", pos.Row+1, pos.Column+1)
}
