package manifest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Line is one manifest entry: a directive plus an optional trailing comment
type Line struct {
	Directive string
	Comment   string
}

// ParseLine splits s at the first '#' that is not inside double quotes
func ParseLine(s string) Line {
	inQuote := false
	for i, r := range s {
		switch r {
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return Line{
					Directive: strings.TrimSpace(s[:i]),
					Comment:   strings.TrimSpace(s[i+1:]),
				}
			}
		}
	}
	return Line{Directive: strings.TrimSpace(s)}
}

// String renders the line as "DIRECTIVE # comment"
func (l Line) String() string {
	if l.Comment == "" {
		return l.Directive
	}
	if l.Directive == "" {
		return "# " + l.Comment
	}
	return l.Directive + " # " + l.Comment
}

// Name returns the resource symbol declared by the line, empty for comments
// and blank lines
func (l Line) Name() string {
	fields := strings.Fields(l.Directive)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// FoldASCII strips diacritics from the comment, e.g. "Pequeño" becomes
// "Pequeno". Directives are left alone.
func (l Line) FoldASCII() Line {
	if l.Comment == "" {
		return l
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, l.Comment)
	if err != nil {
		return l
	}
	l.Comment = folded
	return l
}
