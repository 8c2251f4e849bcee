// Package htmltext converts HTML message bodies into plain text suitable for
// Chatwoot messages. Markup is dropped, entities are decoded and block-level
// elements become line breaks.
package htmltext

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Li:         true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Tr:         true,
	atom.Table:      true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
}

type Normalizer struct {
	trailingSpace *regexp2.Regexp
	blankLines    *regexp.Regexp
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		trailingSpace: regexp2.MustCompile(`[ \t\u00A0]+(?=\n|$)`, 0),
		blankLines:    regexp.MustCompile(`\n{3,}`),
	}
}

// ToText returns the plain-text content of body, or "" when nothing but markup
// and whitespace is left.
func (n *Normalizer) ToText(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	var b strings.Builder
	skipDepth := 0 // inside <script> or <style>

	z := html.NewTokenizer(strings.NewReader(body))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// An unterminated tag at the end of the body is plain text.
			if raw := z.Raw(); len(raw) > 0 && skipDepth == 0 {
				b.Write(raw)
			}
			return n.cleanup(b.String())

		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Script || a == atom.Style:
				if tt == html.StartTagToken {
					skipDepth++
				}
			case a == atom.Br:
				b.WriteByte('\n')
			case blockElements[a]:
				breakLine(&b)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Script || a == atom.Style:
				if skipDepth > 0 {
					skipDepth--
				}
			case blockElements[a]:
				breakLine(&b)
			}
		}
	}
}

func (n *Normalizer) cleanup(text string) string {
	result, err := n.trailingSpace.Replace(text, "", -1, -1)
	if err != nil {
		// regexp2 only fails on match timeouts, which are not configured here
		result = text
	}
	result = n.blankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func breakLine(b *strings.Builder) {
	s := b.String()
	if len(s) > 0 && s[len(s)-1] != '\n' {
		b.WriteByte('\n')
	}
}
