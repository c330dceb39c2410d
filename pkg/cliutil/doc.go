// Package cliutil provides CLI utility functions and formatters.
//
// This package contains helpers for command-line output: output-format
// validation, help-text decoration, and machine-readable writers.
//
// # Features
//
//   - ANSI color constants and a colored "Quick Start" help header
//   - Output-format validation for "gzh-wt list"
//   - JSON and TSV output writers
package cliutil
