package compiler

import (
	"errors"
	"testing"
)

func mustTokenize(t *testing.T, input string) []Token {
	t.Helper()
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", input, err)
	}
	return tokens
}

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexerBasicExpression(t *testing.T) {
	tokens := mustTokenize(t, "1+2")
	want := []TokenType{TokenInteger, TokenPlus, TokenInteger, TokenEOF}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i, typ := range want {
		if tokens[i].Type != typ {
			t.Errorf("token[%d] type = %v, want %v", i, tokens[i].Type, typ)
		}
	}
}

func TestLexerOperators(t *testing.T) {
	tokens := mustTokenize(t, "+ - * / % ** // == != < <= > >= = += -= *= /= %= -> ...")
	want := []TokenType{
		TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent,
		TokenPower, TokenFloorDiv,
		TokenEq, TokenNotEq, TokenLess, TokenLessEq, TokenGreater, TokenGreaterEq,
		TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign,
		TokenSlashAssign, TokenPercentAssign,
		TokenArrow, TokenEllipsis,
		TokenEOF,
	}
	got := tokenTypes(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), tokens)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"定义", TokenDefine},
		{"类", TokenClass},
		{"如果", TokenIf},
		{"否则", TokenElse},
		{"否则如果", TokenElif},
		{"当", TokenWhile},
		{"对于", TokenFor},
		{"在", TokenIn},
		{"返回", TokenReturn},
		{"真", TokenTrue},
		{"假", TokenFalse},
		{"空", TokenNone},
		{"自身", TokenSelf},
		{"父类", TokenSuper},
		{"且", TokenAnd},
		{"或", TokenOr},
		{"非", TokenNot},
		{"加", TokenPlusCN},
		{"整除", TokenFloorDivCN},
		{"大于等于", TokenGreaterEqCN},
		{"不等于", TokenNotEqCN},
	}
	for _, tc := range tests {
		tokens := mustTokenize(t, tc.input)
		if tokens[0].Type != tc.typ {
			t.Errorf("Tokenize(%q): type = %v, want %v", tc.input, tokens[0].Type, tc.typ)
		}
		if tokens[0].Literal != tc.input {
			t.Errorf("Tokenize(%q): literal = %q", tc.input, tokens[0].Literal)
		}
	}
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []string{"计数", "total", "_tmp", "值2", "混合mix"}
	for _, input := range tests {
		tokens := mustTokenize(t, input)
		if tokens[0].Type != TokenIdentifier {
			t.Errorf("Tokenize(%q): type = %v, want IDENTIFIER", input, tokens[0].Type)
		}
		if tokens[0].Literal != input {
			t.Errorf("Tokenize(%q): literal = %q", input, tokens[0].Literal)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"42", TokenInteger},
		{"0", TokenInteger},
		{"3.14", TokenFloat},
		{"0.5", TokenFloat},
	}
	for _, tc := range tests {
		tokens := mustTokenize(t, tc.input)
		if tokens[0].Type != tc.typ {
			t.Errorf("Tokenize(%q): type = %v, want %v", tc.input, tokens[0].Type, tc.typ)
		}
		if tokens[0].Literal != tc.input {
			t.Errorf("Tokenize(%q): literal = %q, want %q", tc.input, tokens[0].Literal, tc.input)
		}
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"你好"`, "你好"},
		{`'单引号'`, "单引号"},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"你"`, "你"},
		{`"引号\"里面\""`, `引号"里面"`},
	}
	for _, tc := range tests {
		tokens := mustTokenize(t, tc.input)
		if tokens[0].Type != TokenString {
			t.Errorf("Tokenize(%q): type = %v, want STRING", tc.input, tokens[0].Type)
		}
		if tokens[0].Literal != tc.want {
			t.Errorf("Tokenize(%q): literal = %q, want %q", tc.input, tokens[0].Literal, tc.want)
		}
	}
}

func TestLexerFString(t *testing.T) {
	tokens := mustTokenize(t, `f"值是{x + 1}，共{{n}}个"`)
	tok := tokens[0]
	if tok.Type != TokenFString {
		t.Fatalf("type = %v, want FSTRING", tok.Type)
	}
	want := []FStringPart{
		{IsExpr: false, Value: "值是"},
		{IsExpr: true, Value: "x + 1"},
		{IsExpr: false, Value: "，共{n}个"},
	}
	if len(tok.Parts) != len(want) {
		t.Fatalf("got %d parts, want %d: %v", len(tok.Parts), len(want), tok.Parts)
	}
	for i, p := range want {
		if tok.Parts[i] != p {
			t.Errorf("part[%d] = %+v, want %+v", i, tok.Parts[i], p)
		}
	}
}

func TestLexerFStringNestedBraces(t *testing.T) {
	tokens := mustTokenize(t, `f"{d[{1: 2}[1]]}"`)
	tok := tokens[0]
	if tok.Type != TokenFString {
		t.Fatalf("type = %v, want FSTRING", tok.Type)
	}
	if len(tok.Parts) != 1 || !tok.Parts[0].IsExpr || tok.Parts[0].Value != "d[{1: 2}[1]]" {
		t.Errorf("parts = %+v", tok.Parts)
	}
}

func TestLexerIndentation(t *testing.T) {
	input := "如果 真:\n    x = 1\n    y = 2\nz = 3\n"
	tokens := mustTokenize(t, input)

	indents, dedents := 0, 0
	for _, tok := range tokens {
		switch tok.Type {
		case TokenIndent:
			indents++
		case TokenDedent:
			dedents++
		}
	}
	if indents != 1 || dedents != 1 {
		t.Errorf("indents = %d, dedents = %d, want 1 and 1", indents, dedents)
	}
}

func TestLexerIndentationBalancedAtEOF(t *testing.T) {
	// No trailing newline; the dedents drain before EOF.
	input := "定义 f():\n    如果 真:\n        返回 1"
	tokens := mustTokenize(t, input)

	depth := 0
	for _, tok := range tokens {
		switch tok.Type {
		case TokenIndent:
			depth++
		case TokenDedent:
			depth--
			if depth < 0 {
				t.Fatalf("dedent below zero depth")
			}
		}
	}
	if depth != 0 {
		t.Errorf("unbalanced indentation: depth = %d", depth)
	}
	if tokens[len(tokens)-1].Type != TokenEOF {
		t.Errorf("last token = %v, want EOF", tokens[len(tokens)-1].Type)
	}
}

func TestLexerBlankLinesIgnored(t *testing.T) {
	input := "x = 1\n\n    \n# 注释\ny = 2\n"
	tokens := mustTokenize(t, input)
	for _, tok := range tokens {
		if tok.Type == TokenIndent || tok.Type == TokenDedent {
			t.Errorf("blank or comment line changed indentation: %v", tok)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	tokens := mustTokenize(t, "x = 1\ny = 2\n")

	prev := Position{}
	for _, tok := range tokens {
		if tok.Pos.Offset < prev.Offset {
			t.Errorf("offset went backwards at %v: %d < %d", tok, tok.Pos.Offset, prev.Offset)
		}
		prev = tok.Pos
	}
	if tokens[0].Pos.Line != 1 || tokens[0].Pos.Column != 1 {
		t.Errorf("first token at line %d col %d, want 1:1", tokens[0].Pos.Line, tokens[0].Pos.Column)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{"x = $", CodeInvalidChar},
		{`"没结束`, CodeUnterminated},
		{"1.2.3", CodeInvalidNumber},
		{"1.", CodeInvalidNumber},
		{"x = 1 ! 2", CodeInvalidOp},
		{`f"{x"`, CodeUnbalancedExpr},
		{`f"a}b"`, CodeUnbalancedExpr},
		{`"\u12zz"`, CodeBadEscape},
		{"如果 真:\n        x = 1\n    y = 2\n", CodeBadIndent},
	}
	for _, tc := range tests {
		_, err := Tokenize(tc.input)
		if err == nil {
			t.Errorf("Tokenize(%q): expected error", tc.input)
			continue
		}
		var lexErr *LexError
		if !errors.As(err, &lexErr) {
			t.Errorf("Tokenize(%q): error type %T, want *LexError", tc.input, err)
			continue
		}
		if lexErr.Code != tc.code {
			t.Errorf("Tokenize(%q): code = %s, want %s", tc.input, lexErr.Code, tc.code)
		}
	}
}

func TestLexerErrorContext(t *testing.T) {
	_, err := Tokenize("x = $")
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("error type %T, want *LexError", err)
	}
	if lexErr.Context == "" {
		t.Errorf("expected a source context excerpt")
	}
	if lexErr.Pos.Line != 1 {
		t.Errorf("line = %d, want 1", lexErr.Pos.Line)
	}
}
