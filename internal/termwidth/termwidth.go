// Package termwidth resolves the output terminal's column count for the
// layout engine: the spec names COLUMNS explicitly as a consumed
// environment variable, with a live terminal query as a fallback for a
// shell that never set/exported it.
package termwidth

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

// Default is used when neither COLUMNS nor a live terminal query can tell
// us anything (e.g. output piped to a file with COLUMNS unset).
const Default = 80

// Get returns the terminal width to lay the table out against.
func Get() int {
	if raw := os.Getenv("COLUMNS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return Default
}
