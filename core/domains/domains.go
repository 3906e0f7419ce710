// Package domains validates DNS domain syntax.
package domains

import "regexp"

// At least two dot-separated labels of letters, digits, and hyphens.
var domainRe = regexp.MustCompile(`(?i)^[a-z0-9-]+(\.[a-z0-9-]+)+$`)

// Valid reports whether s is a syntactically plausible DNS domain.
func Valid(s string) bool {
	return domainRe.MatchString(s)
}
