package schema

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts name to a lowercase ASCII slug the way Django's slugify
// does: decompose, drop non-ASCII, drop anything but word characters, spaces
// and hyphens, collapse runs of spaces and hyphens, trim "-" and "_".
func Slugify(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(t, name)
	if err != nil {
		ascii = name
	}
	s := slugStrip.ReplaceAllString(strings.ToLower(ascii), "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-_")
}

// FileName returns the schema file name for a project or app name, or
// ErrEmptySlug when the name has no usable characters.
func FileName(name string) (string, error) {
	slug := Slugify(name)
	if slug == "" {
		return "", fmt.Errorf("%w: %q", ErrEmptySlug, name)
	}
	return slug + FileSuffix, nil
}
