// Package urlutil joins configured base URLs with application paths.
package urlutil

import "strings"

// Resolve returns ref relative to base. Absolute http(s) refs are returned
// unchanged; an empty ref yields base without its trailing slash.
func Resolve(base, ref string) string {
	base = normalizeBase(base)
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return base
	case isAbsolute(ref):
		return ref
	case strings.HasPrefix(ref, "/"):
		return base + ref
	default:
		return base + "/" + ref
	}
}

func isAbsolute(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func normalizeBase(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}
