package cwlexpr

import (
	"regexp"
	"strings"
)

// segment matches one step of an attribute path: ".identifier", an
// integer index "[0]", or a quoted index "['a']" / "[\"a\"]" (with
// backslash-escaped quotes permitted inside).
const (
	segSymbol = `\w+`
	segSingle = `\['([^']|\\')+'\]`
	segDouble = `\["([^"]|\\")+"\]`
	segIndex  = `\[[0-9]+\]`
)

var (
	segmentPattern = `(\.` + segSymbol + `|` + segSingle + `|` + segDouble + `|` + segIndex + `)`
	paramRefRe     = regexp.MustCompile(`^(` + segSymbol + `)` + segmentPattern + `*$`)
)

// IsParameterReference reports whether body (the text between the outer
// "$(" and ")" of an expression) is a pure attribute path: an identifier
// followed by any number of ".identifier", "['...']", "[\"...\"]" or
// "[N]" segments. Such references need no script engine and are left in
// place by the rewriter. The literals "true" and "false" and any path
// ending in ".length" are never treated as parameter references, even
// though they match the path grammar, since a conformant executor
// evaluates them as script instead.
func IsParameterReference(body string) bool {
	if !paramRefRe.MatchString(body) {
		return false
	}
	if body == "true" || body == "false" {
		return false
	}
	if strings.HasSuffix(body, ".length") {
		return false
	}
	return true
}
