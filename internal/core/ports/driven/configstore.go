package driven

// ConfigStore holds settings under dotted keys such as "llm.provider"
// or "repair.max_rounds". Typed getters return the zero value when a key
// is missing or holds another type; use Get to tell the two apart.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// GetFloat accepts integer values as well.
	GetFloat(key string) float64

	// Set stores one value and persists it.
	Set(key string, value any) error

	// SetAll stores every value and persists them in a single write.
	SetAll(values map[string]any) error

	// Load re-reads the backing storage, dropping unsaved state.
	Load() error

	// Path identifies the backing storage for display.
	Path() string
}
