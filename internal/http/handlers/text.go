package handlers

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// displayName normalizes a user-supplied name for display.
func displayName(name string) string {
	return titleCaser.String(strings.TrimSpace(name))
}

// slugOrDerive keeps an explicit slug if given, otherwise derives one from the
// fallback text: lowercased, runs of non-alphanumerics collapsed to hyphens.
func slugOrDerive(slug, fallback string) string {
	if slug = strings.TrimSpace(slug); slug != "" {
		return slugify(slug)
	}
	return slugify(fallback)
}

func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
