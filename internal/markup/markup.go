// Package markup turns question markup into plain text for terminals and
// answer comparison.
package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ToText renders markup as readable plain text. Block elements and <br>
// become line breaks, images become an "[image: src]" placeholder, and runs
// of blank lines are collapsed.
func ToText(markup string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way render what was read.
			return tidy(b.String())

		case html.TextToken:
			b.WriteString(string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Br, atom.P, atom.Div, atom.Li, atom.Tr, atom.H1, atom.H2, atom.H3, atom.Pre:
				b.WriteByte('\n')
			case atom.Img:
				if src := attr(tok, "src"); src != "" {
					b.WriteString("[image: " + src + "]")
				} else {
					b.WriteString("[image]")
				}
			case atom.Td, atom.Th:
				b.WriteString(" | ")
			}

		case html.EndTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.P, atom.Div, atom.Li, atom.Tr, atom.H1, atom.H2, atom.H3, atom.Pre:
				b.WriteByte('\n')
			}
		}
	}
}

// StripTags drops every tag and returns the text content with surrounding
// whitespace trimmed. Entities are decoded.
func StripTags(markup string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.TrimRight(strings.Join(strings.Fields(l), " "), " ")
		if l == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
