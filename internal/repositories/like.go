package repositories

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds an ILIKE ... ESCAPE '\' pattern matching s literally anywhere
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
