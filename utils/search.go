package utils

import "strings"

// LikeEscape escapes wildcards in ContainsPattern patterns. It must not be a
// backslash, which MySQL string literals consume.
const LikeEscape = "!"

var likeReplacer = strings.NewReplacer(LikeEscape, LikeEscape+LikeEscape, "%", LikeEscape+"%", "_", LikeEscape+"_")

// ContainsPattern turns a search term into a lower-cased LIKE pattern that
// matches it as a literal substring. Pair it with LikeClause.
func ContainsPattern(search string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(search)) + "%"
}

// LikeClause returns a case-insensitive LIKE condition on column
func LikeClause(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '" + LikeEscape + "'"
}
