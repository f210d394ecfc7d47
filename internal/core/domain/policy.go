package domain

// ImportPolicy lists the packages a language treats as trusted.
type ImportPolicy struct {
	Language Language

	// Builtins are standard-library modules, Node core modules or std crates.
	// They are always allowed and never looked up.
	Builtins []string

	// Popular packages are the typosquatting reference set.
	Popular []string

	// TypoMaxDistance is the largest edit distance counted as a typo.
	TypoMaxDistance int

	// RequireAllowlist rejects any non-builtin package outside Popular,
	// even when the registry knows it.
	RequireAllowlist bool

	// PopularFallback allows popular packages when the registry lookup fails.
	PopularFallback bool
}

// IsBuiltin reports whether name is a built-in module.
func (p ImportPolicy) IsBuiltin(name string) bool {
	return contains(p.Builtins, name)
}

// IsPopular reports whether name is on the popular list.
func (p ImportPolicy) IsPopular(name string) bool {
	return contains(p.Popular, name)
}

// TypoTarget returns the popular package name imitates, if any.
// Exact matches are never typos. distance computes an edit distance.
func (p ImportPolicy) TypoTarget(name string, distance func(a, b string) int) (string, bool) {
	maxDist := p.TypoMaxDistance
	if maxDist <= 0 {
		maxDist = 1
	}
	for _, popular := range p.Popular {
		if name == popular {
			continue
		}
		if distance(name, popular) <= maxDist {
			return popular, true
		}
	}
	return "", false
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}
