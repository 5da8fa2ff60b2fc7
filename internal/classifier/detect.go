package classifier

import (
	"regexp"
	"strings"
)

// Detection predicates are pure and cheap; they run in order before any
// network call is made. The matching handler owns all I/O.

var (
	hexColorRe = regexp.MustCompile(`(?i)^#([0-9A-F]{3}){1,2}$`)
	bareURLRe  = regexp.MustCompile(`^(https?://)?([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}(/[^\s]*)?$`)
	escapeRe   = regexp.MustCompile(`\\([^\w\s])`)
)

// stripEscapes removes backslash escapes a rich-text editor may have added
// to punctuation, so the syntactic detectors see the raw paste.
func stripEscapes(s string) string {
	return escapeRe.ReplaceAllString(s, "$1")
}

func isHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// quotePairs are the recognised wrapping mark pairs, typographic first.
var quotePairs = [][2]string{
	{"“", "”"}, // curly double quotes
	{`"`, `"`},
}

// detectQuote reports whether s is wrapped whole in a quotation-mark pair
// (multi-line allowed) and returns the text with the marks stripped.
func detectQuote(s string) (string, bool) {
	for _, pair := range quotePairs {
		open, closing := pair[0], pair[1]
		if len(s) > len(open)+len(closing) && strings.HasPrefix(s, open) && strings.HasSuffix(s, closing) {
			inner := strings.TrimSuffix(strings.TrimPrefix(s, open), closing)
			return strings.TrimSpace(inner), true
		}
	}
	return "", false
}

// isBareURL accepts a single token shaped like host(+path), with or
// without a scheme. Multi-word input is never a URL.
func isBareURL(s string) bool {
	if len(strings.Fields(s)) != 1 {
		return false
	}
	return bareURLRe.MatchString(s)
}

// canonicalURL prepends https:// when the token has no scheme.
func canonicalURL(s string) string {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return "https://" + s
}
