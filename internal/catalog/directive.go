package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Directive is the tokenised form of a manifest directive such as
//
//	SPRITE sprite_regalo "sprites/Regalo.png" 4 4 BEST 1
type Directive struct {
	Type   string   // PALETTE, SPRITE, TILESET, MAP, IMAGE, WAV, ...
	Name   string   // Resource symbol
	Source string   // Quoted file path, empty if the directive has none
	Args   []string // Tokens after the source
}

// ParseDirective splits a directive into tokens, honouring double quotes.
// Anything from an unquoted '#' onwards is ignored.
func ParseDirective(s string) (Directive, error) {
	tokens, quoted, err := tokenize(s)
	if err != nil {
		return Directive{}, err
	}
	if len(tokens) < 2 {
		return Directive{}, fmt.Errorf("directive %q: need at least a type and a name", strings.TrimSpace(s))
	}

	d := Directive{
		Type: strings.ToUpper(tokens[0]),
		Name: tokens[1],
	}
	rest := tokens[2:]
	if len(rest) > 0 && quoted[2] {
		d.Source = rest[0]
		rest = rest[1:]
	}
	d.Args = append([]string(nil), rest...)
	return d, nil
}

// SpriteTiles returns the frame size in tiles for SPRITE directives
func (d Directive) SpriteTiles() (w, h int, ok bool) {
	if d.Type != "SPRITE" || len(d.Args) < 2 {
		return 0, 0, false
	}
	w, err := strconv.Atoi(d.Args[0])
	if err != nil || w <= 0 {
		return 0, 0, false
	}
	h, err = strconv.Atoi(d.Args[1])
	if err != nil || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func tokenize(s string) ([]string, []bool, error) {
	var (
		tokens  []string
		quoted  []bool
		current strings.Builder
		inQuote bool
		inToken bool
		wasQuot bool
	)

	flush := func() {
		if inToken {
			tokens = append(tokens, current.String())
			quoted = append(quoted, wasQuot)
		}
		current.Reset()
		inToken = false
		wasQuot = false
	}

	for _, r := range s {
		switch {
		case inQuote:
			if r == '"' {
				inQuote = false
				continue
			}
			current.WriteRune(r)
		case r == '"':
			inQuote = true
			inToken = true
			wasQuot = true
		case r == '#':
			flush()
			return tokens, quoted, nil
		case r == ' ' || r == '\t':
			flush()
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if inQuote {
		return nil, nil, fmt.Errorf("directive %q: unterminated quote", strings.TrimSpace(s))
	}
	flush()
	return tokens, quoted, nil
}
