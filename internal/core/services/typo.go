package services

import (
	"github.com/agnivade/levenshtein"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// IsTypo reports whether name is within maxDistance edits of a popular
// package without being one, and returns the package it imitates.
// maxDistance <= 0 means 1.
func IsTypo(name string, popular []string, maxDistance int) (string, bool) {
	policy := domain.ImportPolicy{Popular: popular, TypoMaxDistance: maxDistance}
	return policy.TypoTarget(name, levenshtein.ComputeDistance)
}
