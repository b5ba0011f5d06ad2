// ABOUTME: SQL helper functions for query construction.
// ABOUTME: Escapes user input placed inside LIKE patterns.

package store

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeSQLLike escapes LIKE wildcards so the input matches literally.
// Queries using it must declare ESCAPE '\'.
func escapeSQLLike(pattern string) string {
	return likeEscaper.Replace(pattern)
}
