package dsl

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var quireLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Newline", Pattern: `\n+`},
	{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	// 长的颜色写法在前，否则 #0F62FE 会被截成 #0F6。
	{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
	{Name: "HashComment", Pattern: `#[^\n]*`},
	{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|%|x)?`},
	{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
	{Name: "LBrace", Pattern: `{`},
	{Name: "RBrace", Pattern: `}`},
})

// tokenSet 缓存语法中需要按类型判断的 token。
type tokenSet struct {
	names                                 map[lexer.TokenType]string
	newline, lbrace, rbrace, symbol, text lexer.TokenType
}

var tokens = func() (t tokenSet) {
	symbols := quireLexer.Symbols()
	t.names = make(map[lexer.TokenType]string, len(symbols))
	for name, tt := range symbols {
		t.names[tt] = name
	}
	lookup := func(name string) lexer.TokenType {
		tt, ok := symbols[name]
		if !ok {
			panic(fmt.Sprintf("token %s not defined", name))
		}
		return tt
	}
	t.newline = lookup("Newline")
	t.lbrace = lookup("LBrace")
	t.rbrace = lookup("RBrace")
	t.symbol = lookup("Symbol")
	t.text = lookup("String")
	return t
}()

// Lexeme is one raw token of a command argument list or an expression.
// Value holds the unquoted text for strings and the token text otherwise.
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable: an argument is any token up to the
// end of the line, a ';' or a brace.
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	if endOfArgs(lex.Peek()) {
		return participle.NextMatch
	}
	next, err := nextLexeme(lex)
	if err != nil {
		return err
	}
	*l = next
	return nil
}

// Expression is a value written as bare tokens, e.g. `item.name` or
// `rows[0].total`. It is kept as tokens and evaluated by the caller.
type Expression struct {
	Parts []*Lexeme
}

// Parse implements participle.Parseable. Unlike command arguments an
// expression also ends at ',' and ']' outside of its own brackets, so it can
// be an array element.
func (e *Expression) Parse(lex *lexer.PeekingLexer) error {
	depth := 0
	for {
		tok := lex.Peek()
		if endOfExpression(tok, depth) {
			break
		}
		next, err := nextLexeme(lex)
		if err != nil {
			return err
		}
		switch next.Raw {
		case "(", "[":
			depth++
		case ")", "]":
			depth = max(depth-1, 0)
		}
		e.Parts = append(e.Parts, &next)
	}
	if len(e.Parts) == 0 {
		return participle.NextMatch
	}
	return nil
}

func endOfArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case tokens.newline, tokens.lbrace, tokens.rbrace:
		return true
	case tokens.symbol:
		return tok.Value == ";"
	}
	return false
}

func endOfExpression(tok *lexer.Token, depth int) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	if depth > 0 {
		return false
	}
	if endOfArgs(tok) {
		return true
	}
	return tok.Type == tokens.symbol && (tok.Value == "," || tok.Value == "]")
}

func nextLexeme(lex *lexer.PeekingLexer) (Lexeme, error) {
	tok := lex.Next()
	if tok.EOF() {
		return Lexeme{}, participle.NextMatch
	}
	value := tok.Value
	if tok.Type == tokens.text {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return Lexeme{}, fmt.Errorf("%s: %w", tok.Pos, err)
		}
		value = unquoted
	}
	name, ok := tokens.names[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	return Lexeme{Type: name, Value: value, Raw: tok.Value, Pos: tok.Pos}, nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}
