package renderer

// UniformWarnings remembers which uniform names were already reported missing for one
// program, so a development build warns once per name instead of once per frame.
// Render thread only.
type UniformWarnings struct {
	seen map[string]struct{}
}

func NewUniformWarnings() *UniformWarnings {
	return &UniformWarnings{
		seen: make(map[string]struct{}),
	}
}

// FirstMiss records name and reports whether this is the first time it was seen.
func (uw *UniformWarnings) FirstMiss(name string) bool {
	if _, exists := uw.seen[name]; exists {
		return false
	}
	uw.seen[name] = struct{}{}
	return true
}

// Len is the number of distinct names reported so far.
func (uw *UniformWarnings) Len() int {
	return len(uw.seen)
}

// Clear forgets every name (call when the program is relinked).
func (uw *UniformWarnings) Clear() {
	uw.seen = make(map[string]struct{})
}
