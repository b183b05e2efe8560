package compiler

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Lexer: tokenizer for xuan source, including significant indentation
// ---------------------------------------------------------------------------

// Lexer tokenizes xuan source code.
type Lexer struct {
	input   string
	pos     int  // offset of current char
	readPos int  // offset after current char
	ch      rune // current character, 0 at EOF
	line    int  // current line (1-based)
	col     int  // current column (1-based)

	indents     []int   // indentation stack, always starts at [0]
	pending     []Token // queued INDENT/DEDENT tokens
	atLineStart bool
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:       input,
		line:        1,
		indents:     []int{0},
		atLineStart: true,
	}
	l.readChar()
	return l
}

// Tokenize converts the whole input into a token sequence ending in EOF.
// The first lexical error aborts tokenization.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input)
		l.col++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
	l.col++
}

// peekChar returns the next character without consuming it.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

// position returns the position of the current character.
func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) errorf(code, format string, args ...interface{}) error {
	return &LexError{
		Code:    code,
		Msg:     fmt.Sprintf(format, args...),
		Pos:     l.position(),
		Context: errorContext(l.input, l.pos),
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() (Token, error) {
	for {
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok, nil
		}

		if l.atLineStart {
			if err := l.scanLineStart(); err != nil {
				return Token{}, err
			}
			continue
		}

		l.skipSpaces()
		if l.ch == '#' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		}

		pos := l.position()

		switch {
		case l.ch == 0:
			// Close any open indentation levels before the terminator.
			if len(l.indents) > 1 {
				for len(l.indents) > 1 {
					l.indents = l.indents[:len(l.indents)-1]
					l.pending = append(l.pending, Token{Type: TokenDedent, Pos: pos})
				}
				continue
			}
			return Token{Type: TokenEOF, Pos: pos}, nil

		case l.ch == '\n':
			l.readChar()
			l.atLineStart = true
			return Token{Type: TokenNewline, Literal: "\n", Pos: pos}, nil

		case (l.ch == 'f' || l.ch == 'F') && (l.peekChar() == '"' || l.peekChar() == '\''):
			l.readChar() // consume the f prefix
			return l.readFString(pos)

		case isIdentStart(l.ch):
			return l.readIdentifier(pos)

		case isDigit(l.ch):
			return l.readNumber(pos)

		case l.ch == '"' || l.ch == '\'':
			return l.readString(pos)

		default:
			return l.readOperator(pos)
		}
	}
}

// skipSpaces skips horizontal whitespace.
func (l *Lexer) skipSpaces() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// scanLineStart measures the indentation of the next logical line and queues
// INDENT/DEDENT tokens against the indentation stack. Blank and comment-only
// lines are skipped without affecting indentation.
func (l *Lexer) scanLineStart() error {
	level := 0
	for l.ch == ' ' || l.ch == '\t' {
		level++
		l.readChar()
	}

	// Blank line: no tokens, stay at line start.
	if l.ch == '\n' {
		l.readChar()
		return nil
	}
	// Comment-only line.
	if l.ch == '#' {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		if l.ch == '\n' {
			l.readChar()
		}
		return nil
	}
	if l.ch == 0 {
		l.atLineStart = false
		return nil
	}

	pos := Position{Offset: l.pos, Line: l.line, Column: 1}
	top := l.indents[len(l.indents)-1]
	switch {
	case level > top:
		l.indents = append(l.indents, level)
		l.pending = append(l.pending, Token{Type: TokenIndent, Pos: pos})
	case level < top:
		for level < l.indents[len(l.indents)-1] {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, Token{Type: TokenDedent, Pos: pos})
		}
		if level != l.indents[len(l.indents)-1] {
			return l.errorf(CodeBadIndent, "indent level %d does not match any outer level", level)
		}
	}
	l.atLineStart = false
	return nil
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(pos Position) (Token, error) {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	literal := l.input[start:l.pos]
	if utf8.RuneCountInString(literal) > 255 {
		return Token{}, l.errorf(CodeInvalidIdent, "identifier longer than 255 characters")
	}
	if typ, ok := keywords[literal]; ok {
		return Token{Type: typ, Literal: literal, Pos: pos}, nil
	}
	return Token{Type: TokenIdentifier, Literal: literal, Pos: pos}, nil
}

// readNumber reads an integer or float literal.
func (l *Lexer) readNumber(pos Position) (Token, error) {
	start := l.pos
	dots := 0
	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			dots++
			if dots > 1 {
				return Token{}, l.errorf(CodeInvalidNumber, "invalid number: more than one decimal point")
			}
		}
		l.readChar()
	}
	literal := l.input[start:l.pos]
	if strings.HasSuffix(literal, ".") {
		return Token{}, l.errorf(CodeInvalidNumber, "invalid number: missing digits after decimal point")
	}
	if dots > 0 {
		return Token{Type: TokenFloat, Literal: literal, Pos: pos}, nil
	}
	return Token{Type: TokenInteger, Literal: literal, Pos: pos}, nil
}

// readString reads a quoted string literal, decoding escapes.
func (l *Lexer) readString(pos Position) (Token, error) {
	quote := l.ch
	l.readChar() // consume opening quote

	var sb strings.Builder
	for l.ch != 0 && l.ch != quote {
		if l.ch == '\\' {
			l.readChar()
			if err := l.readEscape(quote, &sb); err != nil {
				return Token{}, err
			}
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch == 0 {
		return Token{}, l.errorf(CodeUnterminated, "unterminated string")
	}
	l.readChar() // consume closing quote
	return Token{Type: TokenString, Literal: sb.String(), Pos: pos}, nil
}

// readEscape decodes one backslash escape; the backslash is already consumed.
// Unrecognized escapes pass through literally.
func (l *Lexer) readEscape(quote rune, sb *strings.Builder) error {
	switch l.ch {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case '\\':
		sb.WriteByte('\\')
	case quote:
		sb.WriteRune(quote)
	case 'u':
		l.readChar()
		var code rune
		for i := 0; i < 4; i++ {
			d := hexDigit(l.ch)
			if d < 0 {
				return l.errorf(CodeBadEscape, "invalid unicode escape sequence")
			}
			code = code<<4 | rune(d)
			l.readChar()
		}
		sb.WriteRune(code)
		return nil
	case 0:
		return l.errorf(CodeUnterminated, "unterminated string")
	default:
		sb.WriteByte('\\')
		sb.WriteRune(l.ch)
	}
	l.readChar()
	return nil
}

// readFString reads an interpolated string; the f prefix is already consumed
// and l.ch is the opening quote. The body is split into ordered text and
// expression-source parts, tracking nested braces. {{ and }} escape literal
// braces.
func (l *Lexer) readFString(pos Position) (Token, error) {
	quote := l.ch
	l.readChar() // consume opening quote
	bodyStart := l.pos

	var parts []FStringPart
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, FStringPart{Value: text.String()})
			text.Reset()
		}
	}

	for l.ch != 0 && l.ch != quote {
		switch l.ch {
		case '{':
			if l.peekChar() == '{' {
				text.WriteByte('{')
				l.readChar()
				l.readChar()
				continue
			}
			flush()
			l.readChar() // consume {
			depth := 1
			start := l.pos
			for l.ch != 0 {
				if l.ch == '{' {
					depth++
				} else if l.ch == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				l.readChar()
			}
			if depth != 0 {
				return Token{}, l.errorf(CodeUnbalancedExpr, "unterminated expression in interpolated string")
			}
			expr := strings.TrimSpace(l.input[start:l.pos])
			l.readChar() // consume }
			if expr != "" {
				parts = append(parts, FStringPart{IsExpr: true, Value: expr})
			}
		case '}':
			if l.peekChar() == '}' {
				text.WriteByte('}')
				l.readChar()
				l.readChar()
				continue
			}
			return Token{}, l.errorf(CodeUnbalancedExpr, "unmatched '}' in interpolated string")
		case '\\':
			l.readChar()
			if err := l.readEscape(quote, &text); err != nil {
				return Token{}, err
			}
		default:
			text.WriteRune(l.ch)
			l.readChar()
		}
	}
	if l.ch == 0 {
		return Token{}, l.errorf(CodeUnterminated, "unterminated string")
	}
	raw := l.input[bodyStart:l.pos]
	l.readChar() // consume closing quote
	flush()
	return Token{Type: TokenFString, Literal: raw, Parts: parts, Pos: pos}, nil
}

// readOperator reads an operator or delimiter token.
func (l *Lexer) readOperator(pos Position) (Token, error) {
	emit := func(typ TokenType, lit string) (Token, error) {
		return Token{Type: typ, Literal: lit, Pos: pos}, nil
	}

	ch := l.ch
	l.readChar()
	switch ch {
	case '+':
		if l.ch == '=' {
			l.readChar()
			return emit(TokenPlusAssign, "+=")
		}
		return emit(TokenPlus, "+")
	case '-':
		if l.ch == '=' {
			l.readChar()
			return emit(TokenMinusAssign, "-=")
		}
		if l.ch == '>' {
			l.readChar()
			return emit(TokenArrow, "->")
		}
		return emit(TokenMinus, "-")
	case '*':
		if l.ch == '*' {
			l.readChar()
			return emit(TokenPower, "**")
		}
		if l.ch == '=' {
			l.readChar()
			return emit(TokenStarAssign, "*=")
		}
		return emit(TokenStar, "*")
	case '/':
		if l.ch == '/' {
			l.readChar()
			return emit(TokenFloorDiv, "//")
		}
		if l.ch == '=' {
			l.readChar()
			return emit(TokenSlashAssign, "/=")
		}
		return emit(TokenSlash, "/")
	case '%':
		if l.ch == '=' {
			l.readChar()
			return emit(TokenPercentAssign, "%=")
		}
		return emit(TokenPercent, "%")
	case '=':
		if l.ch == '=' {
			l.readChar()
			return emit(TokenEq, "==")
		}
		return emit(TokenAssign, "=")
	case '!':
		if l.ch == '=' {
			l.readChar()
			return emit(TokenNotEq, "!=")
		}
		return Token{}, l.errorf(CodeInvalidOp, "invalid operator: '!'")
	case '<':
		if l.ch == '=' {
			l.readChar()
			return emit(TokenLessEq, "<=")
		}
		return emit(TokenLess, "<")
	case '>':
		if l.ch == '=' {
			l.readChar()
			return emit(TokenGreaterEq, ">=")
		}
		return emit(TokenGreater, ">")
	case '(':
		return emit(TokenLParen, "(")
	case ')':
		return emit(TokenRParen, ")")
	case '[':
		return emit(TokenLBracket, "[")
	case ']':
		return emit(TokenRBracket, "]")
	case '{':
		return emit(TokenLBrace, "{")
	case '}':
		return emit(TokenRBrace, "}")
	case ',':
		return emit(TokenComma, ",")
	case '.':
		if l.ch == '.' && l.peekChar() == '.' {
			l.readChar()
			l.readChar()
			return emit(TokenEllipsis, "...")
		}
		return emit(TokenDot, ".")
	case ':':
		return emit(TokenColon, ":")
	case ';':
		return emit(TokenSemicolon, ";")
	case '@':
		return emit(TokenAt, "@")
	}
	return Token{}, l.errorf(CodeInvalidChar, "unrecognized character: %q", ch)
}

// Helper functions

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isIdentStart reports whether r may begin an identifier: CJK ideograph,
// ASCII letter, or underscore.
func isIdentStart(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= 0x4e00 && r <= 0x9fff)
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func hexDigit(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	}
	return -1
}
