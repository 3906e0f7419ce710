// Package args tokenizes free-text command tails into key=value mappings.
package args

import "regexp"

// Tokens look like key=value where value is double-quoted, single-quoted,
// or a bare run of non-whitespace characters.
var tokenRe = regexp.MustCompile(`(\w+)=("[^"]*"|'[^']*'|\S+)`)

// Parse extracts key=value pairs from text. Quoted values keep their
// contents verbatim with the quotes stripped. Non-matching text is skipped,
// and a later duplicate key overwrites an earlier one. Parse never fails;
// input with no tokens yields an empty map.
func Parse(text string) map[string]string {
	out := make(map[string]string)
	for _, m := range tokenRe.FindAllStringSubmatch(text, -1) {
		key, val := m[1], m[2]
		if len(val) >= 2 {
			if (val[0] == '"' && val[len(val)-1] == '"') ||
				(val[0] == '\'' && val[len(val)-1] == '\'') {
				val = val[1 : len(val)-1]
			}
		}
		out[key] = val
	}
	return out
}
