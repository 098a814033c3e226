package roster

import "maps"

// Fallbacks supplies headshot URLs for drivers whose source record has none.
// The zero value has no entries. Values are copied on construction and never mutated.
type Fallbacks struct {
	byName   map[string]string
	byNumber map[int]string
}

// NewFallbacks copies the given lookup tables.
func NewFallbacks(byName map[string]string, byNumber map[int]string) Fallbacks {
	return Fallbacks{
		byName:   maps.Clone(byName),
		byNumber: maps.Clone(byNumber),
	}
}

// Headshot returns the fallback for a driver, by full name first, then by number.
func (f Fallbacks) Headshot(fullName string, number int) (string, bool) {
	if url, ok := f.byName[fullName]; ok && url != "" {
		return url, true
	}
	if url, ok := f.byNumber[number]; ok && url != "" {
		return url, true
	}
	return "", false
}

// Len returns the number of configured entries.
func (f Fallbacks) Len() int {
	return len(f.byName) + len(f.byNumber)
}
