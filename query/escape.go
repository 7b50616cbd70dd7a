package query

import "strings"

// escapeTable maps every reserved character to its two-character escape
// sequence.
var escapeTable = [...][2]string{
	{"\\", `\\`},
	{"/", `\/`},
	{" ", `\s`},
	{"|", `\p`},
	{";", `\;`},
	{"\a", `\a`},
	{"\b", `\b`},
	{"\f", `\f`},
	{"\n", `\n`},
	{"\r", `\r`},
	{"\t", `\t`},
	{"\v", `\v`},
}

var (
	escaper   = newReplacer(false)
	unescaper = newReplacer(true)
)

func newReplacer(inverse bool) *strings.Replacer {
	pairs := make([]string, 0, len(escapeTable)*2)
	for _, e := range escapeTable {
		if inverse {
			pairs = append(pairs, e[1], e[0])
		} else {
			pairs = append(pairs, e[0], e[1])
		}
	}
	return strings.NewReplacer(pairs...)
}

// Escape replaces every reserved character in s with its escape sequence.
// The substitution is a single left-to-right pass, so backslashes introduced
// by the escape sequences are never escaped again.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape is the inverse of Escape. Unrecognized backslash sequences are left
// untouched.
func Unescape(s string) string {
	return unescaper.Replace(s)
}
