package domain

import "time"

// RegistryLookup records whether a package exists in a public registry.
type RegistryLookup struct {
	Ecosystem string
	Name      string
	Exists    bool
	CheckedAt time.Time
}

// Expired reports whether the lookup is older than ttl.
// A zero ttl never expires.
func (l *RegistryLookup) Expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(l.CheckedAt) > ttl
}
