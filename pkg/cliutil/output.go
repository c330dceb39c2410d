package cliutil

import (
	"encoding/csv"
	"encoding/json"
	"io"
)

// WriteJSON writes the given value as JSON to the writer.
// If verbose is true, it pretty-prints with indentation.
func WriteJSON(w io.Writer, v any, verbose bool) error {
	encoder := json.NewEncoder(w)
	if verbose {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// WriteTSV writes rows as tab-separated values, header first.
func WriteTSV(w io.Writer, header []string, rows [][]string) error {
	tw := csv.NewWriter(w)
	tw.Comma = '\t'
	if len(header) > 0 {
		if err := tw.Write(header); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := tw.Write(row); err != nil {
			return err
		}
	}
	tw.Flush()
	return tw.Error()
}
