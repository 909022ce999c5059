package dsl

import (
	"strings"
)

// Pages returns the page sections in document order.
func (d *Document) Pages() []*PageSection {
	var out []*PageSection
	for _, s := range d.Sections {
		if s.Page != nil {
			out = append(out, s.Page)
		}
	}
	return out
}

// Commands returns the command statements of the block, skipping assignments and text.
func (b *Block) Commands() []*Command {
	if b == nil {
		return nil
	}
	var out []*Command
	for _, st := range b.Statements {
		if st.Command != nil {
			out = append(out, st.Command)
		}
	}
	return out
}

// Assignments returns key: value statements of the block keyed by lower-cased key.
func (b *Block) Assignments() map[string]*Value {
	out := map[string]*Value{}
	if b == nil {
		return out
	}
	for _, st := range b.Statements {
		if st.Assignment != nil {
			out[strings.ToLower(st.Assignment.Key)] = st.Assignment.Value
		}
	}
	return out
}

// Text concatenates the string literals of the block.
func (b *Block) Text() string {
	if b == nil {
		return ""
	}
	var sb strings.Builder
	for _, st := range b.Statements {
		if st.Text != nil {
			sb.WriteString(string(st.Text.Value))
		}
	}
	return sb.String()
}

// Text renders a scalar value as written; expressions are joined without spaces.
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	switch {
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Expr != nil:
		var sb strings.Builder
		for _, part := range v.Expr.Parts {
			sb.WriteString(part.Raw)
		}
		return sb.String()
	}
	return ""
}

// Strings flattens an array value; a scalar becomes a one-element slice.
func (v *Value) Strings() []string {
	if v == nil {
		return nil
	}
	if v.Array != nil {
		out := make([]string, 0, len(v.Array.Values))
		for _, item := range v.Array.Values {
			if s := item.Text(); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := v.Text(); s != "" {
		return []string{s}
	}
	return nil
}

// Word is a command argument after joining adjacent tokens, so that `-5mm`,
// `data.items` and `rows[0]` each become one word. A bracketed list such as
// `[40mm, 60mm]` separated from the previous token becomes a single word
// with List set.
type Word struct {
	Text string
	List []string
	// Quoted is true when the word came from a string literal.
	Quoted bool
}

// Words groups the command arguments into words.
func (c *Command) Words() []Word {
	return joinWords(c.Args)
}

// Words groups the page header params into words.
func (p PageSpec) Words() []Word {
	return joinWords(p.Params)
}

func joinWords(args []*Lexeme) []Word {
	var words []Word
	var prev *Lexeme
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok.Raw == "[" && (prev == nil || !adjacent(prev, tok)) {
			list, next := collectList(args, i+1)
			words = append(words, Word{Text: strings.Join(list, " "), List: list})
			i = next
			prev = nil
			continue
		}
		quoted := tok.Type == "String"
		if prev != nil && !quoted && prev.Type != "String" && adjacent(prev, tok) && len(words) > 0 {
			words[len(words)-1].Text += tok.Raw
		} else {
			words = append(words, Word{Text: tok.Value, Quoted: quoted})
		}
		prev = tok
	}
	return words
}

// collectList reads list items up to the closing bracket and returns the index of it.
func collectList(args []*Lexeme, start int) ([]string, int) {
	var items []string
	var cur strings.Builder
	var prev *Lexeme
	flush := func() {
		if cur.Len() > 0 {
			items = append(items, cur.String())
			cur.Reset()
		}
	}
	i := start
	for ; i < len(args); i++ {
		tok := args[i]
		if tok.Raw == "]" {
			break
		}
		if tok.Raw == "," {
			flush()
			prev = nil
			continue
		}
		if prev != nil && !adjacent(prev, tok) {
			flush()
		}
		cur.WriteString(tok.Value)
		prev = tok
	}
	flush()
	return items, i
}

func adjacent(a, b *Lexeme) bool {
	return a.Pos.Offset+len(a.Raw) == b.Pos.Offset
}
