package vcserr

import "strings"

// retriableMarkers are the case-insensitive substrings that mark a gh/glab
// stderr as a transient failure (rate limiting, network hiccup) rather than
// a genuine "no CI found" condition. Matching any marker means the CI
// status subsystem surfaces an Error badge and retries on the next
// invocation instead of caching a negative result.
var retriableMarkers = []string{
	"rate limit",
	"api rate",
	"403",
	"429",
	"timeout",
	"connection",
	"network",
}

// IsRetriableCIError reports whether stderr looks like a transient failure
// from the gh/glab CLI rather than a terminal "no CI configured" result.
func IsRetriableCIError(stderr string) bool {
	lower := strings.ToLower(stderr)
	for _, marker := range retriableMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
