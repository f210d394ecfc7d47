package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	k := DefaultKeyMap()

	tests := []struct {
		key     string
		binding key.Binding
		want    bool
	}{
		{"up", k.Up, true},
		{"k", k.Up, true},
		{"j", k.Up, false},
		{"enter", k.Select, true},
		{" ", k.Toggle, true},
		{"enter", k.Toggle, true},
		{"ctrl+c", k.Quit, true},
		{"y", k.Confirm, true},
		{"n", k.Confirm, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.key, tt.binding))
		})
	}
}

func TestHelpLine(t *testing.T) {
	k := DefaultKeyMap()

	assert.Equal(t, "d delete • esc back", HelpLine(k.Delete, k.Back))
	assert.Empty(t, HelpLine())
}

func TestRunsHelp(t *testing.T) {
	k := DefaultKeyMap()

	help := HelpLine(k.RunsHelp()...)

	for _, want := range []string{"enter open", "d delete", "r reload", "s settings", "q quit"} {
		assert.Contains(t, help, want)
	}
}
