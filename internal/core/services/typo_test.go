package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

var popularPython = []string{
	"pandas", "numpy", "torch", "tensorflow", "requests", "matplotlib",
	"scipy", "sklearn", "flask", "fastapi", "sympy", "cv2", "seaborn",
}

func TestIsTypo(t *testing.T) {
	tests := []struct {
		name      string
		pkg       string
		wantMatch string
		wantTypo  bool
	}{
		{"exact match is not a typo", "numpy", "", false},
		{"insertion", "numpyy", "numpy", true},
		{"deletion", "reqests", "requests", true},
		{"substitution", "torcg", "torch", true},
		{"transposition is two edits", "pnadas", "", false},
		{"unrelated", "beautifulsoup4", "", false},
		{"short name", "cv3", "cv2", true},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, typo := IsTypo(tt.pkg, popularPython, 1)
			assert.Equal(t, tt.wantTypo, typo)
			assert.Equal(t, tt.wantMatch, match)
		})
	}
}

func TestIsTypo_MaxDistance(t *testing.T) {
	_, typo := IsTypo("pnadas", popularPython, 2)
	assert.True(t, typo)

	// Zero falls back to a single edit.
	_, typo = IsTypo("pnadas", popularPython, 0)
	assert.False(t, typo)
}

func TestIsTypo_SingleEditAlwaysDetected(t *testing.T) {
	alphabet := []rune("abcdefghijklmnopqrstuvwxyz0123456789_-")

	rapid.Check(t, func(t *rapid.T) {
		target := []rune(rapid.SampledFrom(popularPython).Draw(t, "target"))
		op := rapid.IntRange(0, 2).Draw(t, "op")
		ch := rapid.SampledFrom(alphabet).Draw(t, "char")

		var edited []rune
		switch op {
		case 0: // insert
			pos := rapid.IntRange(0, len(target)).Draw(t, "pos")
			edited = append(edited, target[:pos]...)
			edited = append(edited, ch)
			edited = append(edited, target[pos:]...)
		case 1: // delete
			pos := rapid.IntRange(0, len(target)-1).Draw(t, "pos")
			edited = append(edited, target[:pos]...)
			edited = append(edited, target[pos+1:]...)
		default: // substitute
			pos := rapid.IntRange(0, len(target)-1).Draw(t, "pos")
			edited = append(edited, target...)
			edited[pos] = ch
		}

		name := string(edited)
		for _, p := range popularPython {
			if name == p {
				return
			}
		}

		if _, typo := IsTypo(name, popularPython, 1); !typo {
			t.Fatalf("%q is one edit from %q but was not flagged", name, string(target))
		}
	})
}

func TestIsTypo_PopularNamesNeverFlagThemselves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.SampledFrom(popularPython).Draw(t, "name")
		if match, typo := IsTypo(name, popularPython, 1); typo {
			t.Fatalf("%q flagged as imitating %q", name, match)
		}
	})
}
