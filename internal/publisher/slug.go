package publisher

import "strings"

// accentFold maps the accented characters seen in French titles to their
// ASCII equivalents. Anything else outside [a-z0-9] becomes a separator.
var accentFold = map[rune]rune{
	'à': 'a', 'â': 'a', 'ä': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'î': 'i', 'ï': 'i',
	'ô': 'o', 'ö': 'o',
	'ù': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c',
	'ñ': 'n',
}

// Slugify derives a URL slug from a title: lowercase, accents folded,
// non-alphanumeric runs collapsed to single hyphens, then truncated to
// maxLen at a hyphen boundary so no word is ever cut in half.
func Slugify(title string, maxLen int) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(title) {
		if folded, ok := accentFold[r]; ok {
			r = folded
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if maxLen <= 0 || len(slug) <= maxLen {
		return slug
	}

	cut := slug[:maxLen]
	if slug[maxLen] != '-' {
		// The cut landed inside a word: back up to the previous hyphen.
		if i := strings.LastIndexByte(cut, '-'); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, "-")
}
