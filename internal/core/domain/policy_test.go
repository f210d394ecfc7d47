package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// hamming is a stand-in distance for equal-length strings; other lengths are far apart.
func hamming(a, b string) int {
	if len(a) != len(b) {
		return 100
	}
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

func TestImportPolicy_TypoTarget(t *testing.T) {
	policy := ImportPolicy{
		Language:        LanguageRust,
		Popular:         []string{"serde", "tokio", "regex"},
		TypoMaxDistance: 1,
	}

	match, ok := policy.TypoTarget("tokyo", hamming)
	assert.True(t, ok)
	assert.Equal(t, "tokio", match)

	_, ok = policy.TypoTarget("tokio", hamming)
	assert.False(t, ok, "exact match is not a typo")

	_, ok = policy.TypoTarget("anyhow", hamming)
	assert.False(t, ok)
}

func TestImportPolicy_TypoTarget_DefaultDistance(t *testing.T) {
	policy := ImportPolicy{Popular: []string{"numpy"}}
	match, ok := policy.TypoTarget("nunpy", hamming)
	assert.True(t, ok)
	assert.Equal(t, "numpy", match)
}

func TestImportPolicy_Membership(t *testing.T) {
	policy := ImportPolicy{
		Builtins: []string{"fs", "path"},
		Popular:  []string{"express"},
	}
	assert.True(t, policy.IsBuiltin("fs"))
	assert.False(t, policy.IsBuiltin("express"))
	assert.True(t, policy.IsPopular("express"))
	assert.False(t, policy.IsPopular("fs"))
}

func TestRegistryLookup_Expired(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	lookup := &RegistryLookup{CheckedAt: now.Add(-25 * time.Hour)}

	assert.True(t, lookup.Expired(24*time.Hour, now))
	assert.False(t, lookup.Expired(48*time.Hour, now))
	assert.False(t, lookup.Expired(0, now), "zero ttl never expires")
}
