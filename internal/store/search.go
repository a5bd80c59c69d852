package store

import "strings"

// likeEscaper escapes LIKE metacharacters with a backslash so that a user's
// query matches literally. Queries using it must declare ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns a LIKE pattern matching any value that contains
// query as a literal substring. The query is lower-cased; callers compare
// against LOWER(column).
func ContainsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}
