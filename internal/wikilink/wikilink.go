// Package wikilink converts between the editing shorthand [[id]] and the
// canonical stored link form [#id](munin://open/id).
package wikilink

import "regexp"

var (
	editableRe = regexp.MustCompile(`\[\[\s*([a-zA-Z0-9-._~]+)\s*\]\]`)
	storedRe   = regexp.MustCompile(`\[#([a-zA-Z0-9-._~]+)\]\(munin://open/([a-zA-Z0-9-._~]+)\)`)
	escapedRe  = regexp.MustCompile(`\\([\[\]])`)
)

// ToStored rewrites [[id]] references to the canonical link form. Escaped
// brackets (which rich-text editors like to add) are unescaped first, so
// the transform is idempotent across repeated edit/save cycles.
func ToStored(content string) string {
	if content == "" {
		return ""
	}
	unescaped := escapedRe.ReplaceAllString(content, "$1")
	return editableRe.ReplaceAllString(unescaped, "[#$1](munin://open/$1)")
}

// ToEditable rewrites canonical links back to the [[id]] shorthand for an
// editing surface. Only links whose label id matches the target id are
// rewritten; anything else is user-authored and left alone.
func ToEditable(content string) string {
	if content == "" {
		return ""
	}
	return storedRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := storedRe.FindStringSubmatch(m)
		if sub[1] != sub[2] {
			return m
		}
		return "[[" + sub[1] + "]]"
	})
}
