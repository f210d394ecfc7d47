package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads repair agent prompts from user-editable files, falling
// back to the built-in defaults. Files are created on first Load, not in the
// constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts are written to the prompt directory the first time it is used.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptRepairSystem: `You are the Compiler-Guided Repair Agent (CGRA).
You fix broken RACG-generated code strictly using compiler feedback.

Supported languages:
- Python  (CPython + mypy)
- C++     (g++)
- Rust    (rustc)
- JavaScript (node --check)

Process:
1. Analyze compiler errors.
2. Produce a JSON repair plan.
3. Rewrite the entire corrected code.
4. Perform a self-check against imports, dependencies, typos, and syntax errors.

Output ONLY the final code in a <code> block.`,

	driven.PromptRepairUser: `Original code:
<code>
%s
</code>

Compiler output:
<error>
%s
</error>

Follow the CGRA repair pipeline.`,
}

// DefaultPrompt returns the built-in prompt for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// NewPromptStore creates a file-based prompt store.
// If promptDir is empty, defaults to ~/.racg/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk. A user template that lost its
// placeholders is rejected so the default is used instead.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("prompt %q is empty", name)
	}
	if name == driven.PromptRepairUser && strings.Count(prompt, "%s") != 2 {
		return "", fmt.Errorf("prompt %q must contain exactly two %%s placeholders", name)
	}
	return prompt, nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# racg prompts

Prompts used by the Compiler-Guided Repair Agent.

- ` + "`repair_system.txt`" + ` - system prompt sent with every repair request
- ` + "`repair_user.txt`" + ` - user message; the first ` + "`%s`" + ` is the code,
  the second is the compiler or import-validation output

Edits take effect on the next command. A repair_user.txt without exactly
two ` + "`%s`" + ` placeholders is ignored in favour of the built-in template.
`
	return os.WriteFile(path, []byte(content), 0600)
}
