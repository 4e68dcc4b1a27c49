package postgres

import "strings"

// dashIfEmpty returns "-" when the input is empty/whitespace
func dashIfEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// emptyIfDash undoes dashIfEmpty for optional columns.
func emptyIfDash(s string) string {
	if s == "-" {
		return ""
	}
	return s
}
