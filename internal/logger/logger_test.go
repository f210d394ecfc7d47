package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects log output to a buffer for the duration of the test.
func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func()
		want    string
	}{
		{"debug verbose", true, func() { Debug("round %d of %d", 1, 3) }, "[DEBUG] round 1 of 3\n"},
		{"debug quiet", false, func() { Debug("round %d", 1) }, ""},
		{"info verbose", true, func() { Info("cache hit for %s", "serde") }, "[INFO] cache hit for serde\n"},
		{"info quiet", false, func() { Info("hidden") }, ""},
		{"warn verbose", true, func() { Warn("registry %s unreachable", "pypi") }, "[WARN] registry pypi unreachable\n"},
		{"warn quiet", false, func() { Warn("registry %s unreachable", "npm") }, "[WARN] registry npm unreachable\n"},
		{"error quiet", false, func() { Error("boom: %v", "disk full") }, "[ERROR] boom: disk full\n"},
		{"zap verbose", true, func() { Zap().Info("from zap") }, "[INFO] from zap\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.verbose)
			tt.log()
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSection(t *testing.T) {
	buf := capture(t, true)
	Section("Repair")
	assert.Equal(t, "\n=== Repair ===\n", buf.String())

	buf = capture(t, false)
	Section("Repair")
	assert.Empty(t, buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(i%2 == 0)
			Debug("worker %d", i)
			Warn("worker %d", i)
			_ = IsVerbose()
		}()
	}
	wg.Wait()
}
