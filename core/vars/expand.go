package vars

import (
	"os"
	"strings"
)

// Single character parameters the shell doesn't set.
const unsupportedSpecials = "*#@!-"

// Expand replaces $name, ${name}, $? and $$ in s. Unknown names expand to the
// empty string. A lone "$" or a "$" followed by a character that can't start a
// name is kept.
func (s *Store) Expand(text string) string {
	if !strings.Contains(text, "$") {
		return text
	}

	return os.Expand(text, func(name string) string {
		if len(name) == 1 && strings.Contains(unsupportedSpecials, name) {
			if _, ok := s.LookupEnv(name); !ok {
				return "$" + name
			}
		}
		return s.Getenv(name)
	})
}

// ExpandAll expands every word, returning a new slice.
func (s *Store) ExpandAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = s.Expand(w)
	}
	return out
}
