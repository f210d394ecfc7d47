package services

import (
	"regexp"
	"strings"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

var (
	fenceLine    = regexp.MustCompile("^\\s*```")
	numberedLine = regexp.MustCompile(`^\s*\d+\.\s`)
	codeTagBlock = regexp.MustCompile(`(?s)<code>\n?(.*?)(?:</code>|$)`)
	fencedBlock  = regexp.MustCompile("(?s)```[^\\n]*\\n(.*?)```")
)

// CleanCode removes markdown fences and numbered analysis lines that
// LLM answers leave around generated code.
func CleanCode(code string) string {
	lines := strings.Split(code, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if fenceLine.MatchString(line) || numberedLine.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// ExtractCode returns the code carried by an LLM answer: the first
// <code> block, else the first fenced block, else the whole answer.
// An unterminated <code> block runs to the end of the answer. Fences and
// numbered analysis lines inside the block are removed with CleanCode.
func ExtractCode(answer string) (string, error) {
	var code string
	if m := codeTagBlock.FindStringSubmatch(answer); m != nil {
		code = m[1]
	} else if m := fencedBlock.FindStringSubmatch(answer); m != nil {
		code = m[1]
	} else {
		code = strings.TrimSpace(answer)
	}

	code = strings.Trim(CleanCode(code), "\n")
	if strings.TrimSpace(code) == "" {
		return "", domain.ErrNoCodeBlock
	}
	return code, nil
}
