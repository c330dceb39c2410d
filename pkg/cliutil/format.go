package cliutil

import (
	"fmt"
	"strings"
)

// ListFormats contains the formats accepted by "gzh-wt list".
var ListFormats = []string{"text", "json", "tsv"}

// ValidateFormat checks if the given format is in the allowed list
func ValidateFormat(format string, allowed []string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format: %s (allowed: %s)", format, strings.Join(allowed, ", "))
}

// IsMachineFormat returns true for formats intended for machine consumption
func IsMachineFormat(format string) bool {
	f := strings.ToLower(format)
	return f == "json" || f == "tsv"
}
