// Package pattern builds and evaluates SQL LIKE patterns for title lookups.
//
// User text is always escaped before it becomes part of a pattern, so a "%" or "_"
// typed by the user matches literally instead of acting as a wildcard.
package pattern

import (
	"strings"
	"unicode"
)

// EscapeChar is the escape character used in patterns (Postgres default for LIKE).
const EscapeChar = '\\'

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// Escape neutralizes LIKE metacharacters in user text.
func Escape(text string) string {
	return escaper.Replace(text)
}

// Contains returns a pattern matching any string that contains text literally.
func Contains(text string) string {
	return "%" + Escape(text) + "%"
}

type tokenKind uint8

const (
	tokLiteral tokenKind = iota
	tokAnyOne
	tokAnySeq
)

type token struct {
	kind tokenKind
	r    rune
}

func compile(p string) []token {
	runes := []rune(p)
	toks := make([]token, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == EscapeChar && i+1 < len(runes):
			i++
			toks = append(toks, token{kind: tokLiteral, r: unicode.ToLower(runes[i])})
		case r == '%':
			toks = append(toks, token{kind: tokAnySeq})
		case r == '_':
			toks = append(toks, token{kind: tokAnyOne})
		default:
			// A dangling escape at the end is kept as a literal backslash.
			toks = append(toks, token{kind: tokLiteral, r: unicode.ToLower(r)})
		}
	}
	return toks
}

// Match reports whether s matches pattern with case-insensitive LIKE (ILIKE) semantics.
func Match(pattern, s string) bool {
	toks := compile(pattern)
	in := []rune(s)
	for i, r := range in {
		in[i] = unicode.ToLower(r)
	}

	ti, si := 0, 0
	starTok, starIn := -1, 0
	for si < len(in) {
		if ti < len(toks) {
			switch t := toks[ti]; t.kind {
			case tokAnySeq:
				starTok, starIn = ti, si
				ti++
				continue
			case tokAnyOne:
				ti++
				si++
				continue
			case tokLiteral:
				if t.r == in[si] {
					ti++
					si++
					continue
				}
			}
		}
		if starTok < 0 {
			return false
		}
		// Backtrack: let the last % absorb one more rune.
		starIn++
		si = starIn
		ti = starTok + 1
	}
	for ti < len(toks) && toks[ti].kind == tokAnySeq {
		ti++
	}
	return ti == len(toks)
}
