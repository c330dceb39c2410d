// Package layout implements the priority-based column-dropping engine that
// fits a "list" row (or the statusline) into the terminal width: columns
// are declared once with a static display order and a base priority, and at
// render time the lowest-priority columns are dropped first until the row
// fits or only one column remains.
package layout
