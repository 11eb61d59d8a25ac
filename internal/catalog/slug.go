package catalog

import "strings"

// Slug derives the human-readable URL segment from a posting title:
// lowercase, runs of non-alphanumerics collapsed to single hyphens, leading
// and trailing hyphens trimmed. Used for URL readability only; lookups go
// by ID.
func Slug(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
