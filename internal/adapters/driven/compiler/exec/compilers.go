package exec

import (
	"context"
	"errors"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// Ensure compilers implement the interface.
var (
	_ driven.Compiler = (*PythonCompiler)(nil)
	_ driven.Compiler = (*CPPCompiler)(nil)
	_ driven.Compiler = (*RustCompiler)(nil)
	_ driven.Compiler = (*JSCompiler)(nil)
)

// PythonCompiler byte-compiles with CPython and, when that passes,
// type-checks with mypy.
type PythonCompiler struct {
	runner
	python string
	mypy   string
}

// NewPythonCompiler creates a Python checker. An empty mypy disables the
// type-check stage.
func NewPythonCompiler(python, mypy string, opts Options) *PythonCompiler {
	return &PythonCompiler{runner: runner{opts: opts.withDefaults()}, python: python, mypy: mypy}
}

// Language returns domain.LanguagePython.
func (c *PythonCompiler) Language() domain.Language { return domain.LanguagePython }

// Check runs py_compile, then mypy --ignore-missing-imports.
// A missing mypy binary is logged and the py_compile result is returned.
func (c *PythonCompiler) Check(ctx context.Context, code string) (*domain.CompileResult, error) {
	return withSource(code, ".py", func(dir, path string) (*domain.CompileResult, error) {
		res, err := c.run(ctx, dir, c.python, "-m", "py_compile", path)
		if err != nil || res.ExitCode != 0 || c.mypy == "" {
			return res, err
		}

		typed, err := c.run(ctx, dir, c.mypy, path, "--ignore-missing-imports")
		if errors.Is(err, domain.ErrCompilerUnavailable) {
			logger.Warn("mypy not available, skipping type check: %v", err)
			return res, nil
		}
		return typed, err
	})
}

// CPPCompiler runs clang in syntax-only mode.
type CPPCompiler struct {
	runner
	clang string
}

// NewCPPCompiler creates a C++ checker.
func NewCPPCompiler(clang string, opts Options) *CPPCompiler {
	return &CPPCompiler{runner: runner{opts: opts.withDefaults()}, clang: clang}
}

// Language returns domain.LanguageCPP.
func (c *CPPCompiler) Language() domain.Language { return domain.LanguageCPP }

// Check runs clang -fsyntax-only.
func (c *CPPCompiler) Check(ctx context.Context, code string) (*domain.CompileResult, error) {
	return withSource(code, ".cpp", func(dir, path string) (*domain.CompileResult, error) {
		return c.run(ctx, dir, c.clang, "-fsyntax-only", path)
	})
}

// RustCompiler runs rustc emitting metadata only. The .rmeta output lands
// in the temp directory.
type RustCompiler struct {
	runner
	rustc string
}

// NewRustCompiler creates a Rust checker.
func NewRustCompiler(rustc string, opts Options) *RustCompiler {
	return &RustCompiler{runner: runner{opts: opts.withDefaults()}, rustc: rustc}
}

// Language returns domain.LanguageRust.
func (c *RustCompiler) Language() domain.Language { return domain.LanguageRust }

// Check runs rustc --emit=metadata.
func (c *RustCompiler) Check(ctx context.Context, code string) (*domain.CompileResult, error) {
	return withSource(code, ".rs", func(dir, path string) (*domain.CompileResult, error) {
		return c.run(ctx, dir, c.rustc, "--emit=metadata", "--out-dir", dir, path)
	})
}

// JSCompiler runs node --check.
type JSCompiler struct {
	runner
	node string
}

// NewJSCompiler creates a JavaScript checker.
func NewJSCompiler(node string, opts Options) *JSCompiler {
	return &JSCompiler{runner: runner{opts: opts.withDefaults()}, node: node}
}

// Language returns domain.LanguageJS.
func (c *JSCompiler) Language() domain.Language { return domain.LanguageJS }

// Check runs node --check.
func (c *JSCompiler) Check(ctx context.Context, code string) (*domain.CompileResult, error) {
	return withSource(code, ".js", func(dir, path string) (*domain.CompileResult, error) {
		return c.run(ctx, dir, c.node, "--check", path)
	})
}

// NewCompilers builds one compiler per supported language from toolchain settings.
func NewCompilers(tc domain.ToolchainSettings, opts Options) []driven.Compiler {
	return []driven.Compiler{
		NewPythonCompiler(tc.Python, tc.Mypy, opts),
		NewCPPCompiler(tc.Clang, opts),
		NewRustCompiler(tc.Rustc, opts),
		NewJSCompiler(tc.Node, opts),
	}
}
