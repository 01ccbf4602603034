package buildlog

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// textChain repairs and normalizes message text
// tabs survive, every other control rune is dropped
var textChain = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.Predicate(func(r rune) bool {
				return r != '\t' && unicode.IsControl(r)
			})),
		)
	},
}

// dropContent lists elements whose body is discarded along with the tag
var dropContent = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Textarea: true,
	atom.Title:    true,
	atom.Object:   true,
}

// SafeUnescape neutralizes markup in compiler output and decodes entities
// lowercase HTML elements are removed, everything else such as generic type
// parameters (List<String>, Set<Time>) is kept verbatim
func SafeUnescape(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToValidUTF8(s, "")
	tr := textChain.Get().(transform.Transformer)
	s, _, _ = transform.String(tr, s)
	tr.Reset()
	textChain.Put(tr)

	if strings.ContainsAny(s, "<>") {
		s = stripMarkup(s)
	}
	return html.UnescapeString(s)
}

// stripMarkup walks s as an HTML fragment and keeps text plus anything that is
// not lowercase HTML, so capitalised generics like Set<Time> survive
// output stays escaped so the caller can unescape once
func stripMarkup(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for s != "" {
		s = stripFragment(&b, s)
	}
	return b.String()
}

// stripFragment writes the sanitized form of s to b
// a dropped element left open at the end of input only loses its start tag,
// the text after it is returned for another pass
func stripFragment(b *strings.Builder, s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	pos := 0  // bytes consumed
	skip := 0 // depth inside a dropContent element
	open := 0 // offset just past the outermost dropped start tag
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if skip > 0 {
				return s[open:]
			}
			// an unfinished tag at the end stays literal
			b.WriteString(s[pos:])
			return ""
		}
		raw := string(z.Raw())
		pos += len(raw)

		switch tt {
		case html.TextToken:
			if skip == 0 {
				b.WriteString(raw)
			}
		case html.CommentToken, html.DoctypeToken:
			// dropped
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			if !lowerTag(raw) {
				if tt == html.StartTagToken {
					z.NextIsNotRawText()
				}
				if skip == 0 {
					b.WriteString(raw)
				}
				continue
			}
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == 0 {
				if skip == 0 {
					b.WriteString(raw)
				}
				continue
			}
			if !dropContent[a] {
				continue
			}
			switch tt {
			case html.StartTagToken:
				if skip == 0 {
					open = pos
				}
				skip++
			case html.EndTagToken:
				if skip > 0 {
					skip--
				}
			}
		}
	}
}

// lowerTag reports whether the raw tag token names a lowercase element
func lowerTag(raw string) bool {
	name := strings.TrimLeft(raw, "</")
	if end := strings.IndexAny(name, " \t\n\f\r/>"); end >= 0 {
		name = name[:end]
	}
	if name == "" {
		return false
	}
	for _, r := range name {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
