package compiler

import (
	"fmt"
	"strconv"
)

// ---------------------------------------------------------------------------
// Parser: recursive descent parser producing the xuan AST
// ---------------------------------------------------------------------------

// Parser consumes a token sequence and builds a Program.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a parser over a token sequence.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseSource tokenizes and parses a complete source text.
func ParseSource(source string) (*Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Parse builds a Program from the token sequence. Parsing aborts on the
// first syntax error.
func Parse(tokens []Token) (prog *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			prog, err = nil, se
		}
	}()

	p := NewParser(tokens)
	var stmts []Stmt
	for !p.check(TokenEOF) {
		if p.match(TokenNewline) {
			continue
		}
		stmts = append(stmts, p.parseStatement())
	}
	return &Program{Stmts: stmts}, nil
}

// ---------------------------------------------------------------------------
// Token cursor helpers
// ---------------------------------------------------------------------------

func (p *Parser) cur() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return Token{Type: TokenEOF}
}

func (p *Parser) prev() Token {
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(typ TokenType) bool {
	return p.cur().Type == typ
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(typ TokenType, msg string) Token {
	if !p.check(typ) {
		p.errorf("%s, got %s", msg, p.cur().Type)
	}
	return p.advance()
}

// errorf aborts parsing with a syntax error at the current token.
func (p *Parser) errorf(format string, args ...interface{}) {
	panic(&SyntaxError{Msg: fmt.Sprintf(format, args...), Pos: p.cur().Pos})
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (p *Parser) parseStatement() Stmt {
	tok := p.cur()
	switch tok.Type {
	case TokenDefine:
		p.advance()
		return p.parseFuncDef(tok.Pos, nil)
	case TokenClass:
		p.advance()
		return p.parseClassDef(tok.Pos, nil)
	case TokenAt:
		return p.parseDecorated()
	case TokenIf:
		p.advance()
		return p.parseIf(tok.Pos)
	case TokenWhile:
		p.advance()
		return p.parseWhile(tok.Pos)
	case TokenFor:
		p.advance()
		return p.parseFor(tok.Pos)
	case TokenTry:
		p.advance()
		return p.parseTry(tok.Pos)
	case TokenReturn:
		p.advance()
		return p.parseReturn(tok.Pos)
	case TokenBreak:
		p.advance()
		p.match(TokenNewline)
		return &Break{PosVal: tok.Pos}
	case TokenContinue:
		p.advance()
		p.match(TokenNewline)
		return &Continue{PosVal: tok.Pos}
	case TokenPass:
		p.advance()
		p.match(TokenNewline)
		return &Pass{PosVal: tok.Pos}
	case TokenImport:
		p.advance()
		return p.parseImport(tok.Pos)
	case TokenFrom:
		p.advance()
		return p.parseFromImport(tok.Pos)
	case TokenRaise:
		p.advance()
		return p.parseRaise(tok.Pos)
	case TokenAssert:
		p.advance()
		return p.parseAssert(tok.Pos)
	case TokenWith:
		p.advance()
		return p.parseWith(tok.Pos)
	case TokenAsync:
		p.advance()
		return p.parseAsync(tok.Pos)
	case TokenGlobal:
		p.advance()
		return p.parseGlobal(tok.Pos)
	case TokenNonlocal:
		p.advance()
		return p.parseNonlocal(tok.Pos)
	case TokenDel:
		p.advance()
		return p.parseDelete(tok.Pos)
	}
	return p.parseSimpleStatement()
}

// parseBlock parses a colon-introduced body. A statement may follow the
// colon on the same line; otherwise the body is the indented block. An
// empty body is permitted.
func (p *Parser) parseBlock() []Stmt {
	p.expect(TokenColon, "expected ':' to begin a block")

	if !p.check(TokenNewline) && !p.check(TokenEOF) {
		return []Stmt{p.parseStatement()}
	}

	for p.match(TokenNewline) {
	}
	if !p.match(TokenIndent) {
		return nil
	}

	var stmts []Stmt
	for !p.check(TokenDedent) && !p.check(TokenEOF) {
		if p.match(TokenNewline) {
			continue
		}
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(TokenDedent, "expected dedent to end the block")
	return stmts
}

func (p *Parser) parseFuncDef(pos Position, decorators []Expr) Stmt {
	name := p.expect(TokenIdentifier, "expected function name").Literal
	p.expect(TokenLParen, "expected '(' after function name")

	var params []Param
	if !p.check(TokenRParen) {
		for {
			pname := p.expect(TokenIdentifier, "expected parameter name").Literal
			var def Expr
			if p.match(TokenAssign) {
				def = p.parseExpression()
			}
			params = append(params, Param{Name: pname, Default: def})
			if !p.match(TokenComma) {
				break
			}
		}
	}
	p.expect(TokenRParen, "expected ')' after parameters")

	body := p.parseBlock()
	return &FuncDef{PosVal: pos, Name: name, Params: params, Body: body, Decorators: decorators}
}

func (p *Parser) parseClassDef(pos Position, decorators []Expr) Stmt {
	name := p.expect(TokenIdentifier, "expected class name").Literal

	var bases []Expr
	if p.match(TokenLParen) {
		if !p.check(TokenRParen) {
			for {
				base := p.expect(TokenIdentifier, "expected base class name")
				bases = append(bases, &Identifier{PosVal: base.Pos, Name: base.Literal})
				if !p.match(TokenComma) {
					break
				}
			}
		}
		p.expect(TokenRParen, "expected ')' after base classes")
	}

	body := p.parseBlock()
	return &ClassDef{PosVal: pos, Name: name, Bases: bases, Body: body, Decorators: decorators}
}

// parseDecorated parses one or more @decorator lines followed by a function
// or class definition.
func (p *Parser) parseDecorated() Stmt {
	var decorators []Expr
	for p.check(TokenAt) {
		p.advance()
		decorators = append(decorators, p.parseExpression())
		p.match(TokenNewline)
	}
	tok := p.cur()
	switch tok.Type {
	case TokenDefine:
		p.advance()
		return p.parseFuncDef(tok.Pos, decorators)
	case TokenClass:
		p.advance()
		return p.parseClassDef(tok.Pos, decorators)
	}
	p.errorf("decorators must precede a function or class definition")
	return nil
}

func (p *Parser) parseIf(pos Position) Stmt {
	cond := p.parseExpression()
	then := p.parseBlock()

	var els []Stmt
	elseTok := p.cur()
	switch {
	case p.match(TokenElif):
		els = []Stmt{p.parseIf(elseTok.Pos)}
	case p.match(TokenElse):
		els = p.parseBlock()
	}
	return &If{PosVal: pos, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhile(pos Position) Stmt {
	cond := p.parseExpression()
	body := p.parseBlock()
	return &While{PosVal: pos, Cond: cond, Body: body}
}

func (p *Parser) parseFor(pos Position) Stmt {
	name := p.expect(TokenIdentifier, "expected loop variable").Literal
	p.expect(TokenIn, "expected '在' in for loop")
	iter := p.parseExpression()
	body := p.parseBlock()
	return &For{PosVal: pos, Var: name, Iter: iter, Body: body}
}

func (p *Parser) parseTry(pos Position) Stmt {
	body := p.parseBlock()

	var handlers []ExceptClause
	for p.check(TokenExcept) {
		hTok := p.advance()
		var typ Expr
		var name string
		if p.check(TokenIdentifier) {
			id := p.advance()
			typ = &Identifier{PosVal: id.Pos, Name: id.Literal}
		}
		if p.match(TokenAs) {
			name = p.expect(TokenIdentifier, "expected name after '作为'").Literal
		}
		hBody := p.parseBlock()
		handlers = append(handlers, ExceptClause{PosVal: hTok.Pos, Type: typ, Name: name, Body: hBody})
	}

	var finally []Stmt
	if p.match(TokenFinally) {
		finally = p.parseBlock()
	}

	if len(handlers) == 0 && finally == nil {
		p.errorf("try statement needs at least one '捕获' or '最后' clause")
	}
	return &Try{PosVal: pos, Body: body, Handlers: handlers, Finally: finally}
}

func (p *Parser) parseReturn(pos Position) Stmt {
	var value Expr
	if !p.check(TokenNewline) && !p.check(TokenEOF) && !p.check(TokenDedent) {
		value = p.parseExpression()
	}
	p.match(TokenNewline)
	return &Return{PosVal: pos, Value: value}
}

func (p *Parser) parseImport(pos Position) Stmt {
	module := p.expect(TokenIdentifier, "expected module name").Literal
	var alias string
	if p.match(TokenAs) {
		alias = p.expect(TokenIdentifier, "expected name after '作为'").Literal
	}
	p.match(TokenNewline)
	return &Import{PosVal: pos, Module: module, Alias: alias}
}

// parseFromImport parses 从 module 导入 names. Imported names are not
// resolved, so only the module is retained.
func (p *Parser) parseFromImport(pos Position) Stmt {
	module := p.expect(TokenIdentifier, "expected module name").Literal
	p.expect(TokenImport, "expected '导入' after module name")

	if !p.match(TokenStar) {
		for {
			p.expect(TokenIdentifier, "expected imported name")
			if p.match(TokenAs) {
				p.expect(TokenIdentifier, "expected name after '作为'")
			}
			if !p.match(TokenComma) {
				break
			}
		}
	}
	p.match(TokenNewline)
	return &Import{PosVal: pos, Module: module}
}

func (p *Parser) parseRaise(pos Position) Stmt {
	var value Expr
	if !p.check(TokenNewline) && !p.check(TokenEOF) && !p.check(TokenDedent) {
		value = p.parseExpression()
		if p.match(TokenFrom) {
			// Exception chaining is accepted but the cause is discarded.
			p.parseExpression()
		}
	}
	p.match(TokenNewline)
	return &Raise{PosVal: pos, Value: value}
}

func (p *Parser) parseAssert(pos Position) Stmt {
	cond := p.parseExpression()
	var msg Expr
	if p.match(TokenComma) {
		msg = p.parseExpression()
	}
	p.match(TokenNewline)
	return &Assert{PosVal: pos, Cond: cond, Msg: msg}
}

// parseWith parses 使用 expr [作为 name], ... : body. Multiple context
// expressions nest from left to right.
func (p *Parser) parseWith(pos Position) Stmt {
	type item struct {
		pos  Position
		expr Expr
		name string
	}
	one := func() item {
		it := item{pos: p.cur().Pos}
		it.expr = p.parseExpression()
		if p.match(TokenAs) {
			it.name = p.expect(TokenIdentifier, "expected name after '作为'").Literal
		}
		return it
	}

	items := []item{one()}
	items[0].pos = pos
	for p.match(TokenComma) {
		items = append(items, one())
	}
	body := p.parseBlock()

	stmt := &With{PosVal: items[len(items)-1].pos, Expr: items[len(items)-1].expr, Name: items[len(items)-1].name, Body: body}
	for i := len(items) - 2; i >= 0; i-- {
		stmt = &With{PosVal: items[i].pos, Expr: items[i].expr, Name: items[i].name, Body: []Stmt{stmt}}
	}
	return stmt
}

// parseAsync accepts 异步 定义 and 异步 使用; execution is synchronous.
func (p *Parser) parseAsync(pos Position) Stmt {
	switch {
	case p.match(TokenDefine):
		return p.parseFuncDef(pos, nil)
	case p.match(TokenWith):
		return p.parseWith(pos)
	}
	p.errorf("'异步' must be followed by '定义' or '使用'")
	return nil
}

func (p *Parser) parseGlobal(pos Position) Stmt {
	names := p.parseNameList()
	return &Global{PosVal: pos, Names: names}
}

func (p *Parser) parseNonlocal(pos Position) Stmt {
	names := p.parseNameList()
	return &Nonlocal{PosVal: pos, Names: names}
}

func (p *Parser) parseNameList() []string {
	var names []string
	for {
		names = append(names, p.expect(TokenIdentifier, "expected identifier").Literal)
		if !p.match(TokenComma) {
			break
		}
	}
	p.match(TokenNewline)
	return names
}

func (p *Parser) parseDelete(pos Position) Stmt {
	var targets []Expr
	for {
		target := p.parseExpression()
		switch target.(type) {
		case *Identifier, *GetAttr, *GetIndex:
		default:
			p.errorf("invalid delete target")
		}
		targets = append(targets, target)
		if !p.match(TokenComma) {
			break
		}
	}
	p.match(TokenNewline)
	return &Delete{PosVal: pos, Targets: targets}
}

// parseSimpleStatement parses an expression statement or an assignment.
// Bare assignment to a name declares it in the current scope; attribute and
// subscript targets produce SetAttr and SetIndex. Augmented assignments
// desugar into a binary operation on the target.
func (p *Parser) parseSimpleStatement() Stmt {
	pos := p.cur().Pos
	expr := p.parseExpression()

	if p.check(TokenAssign) {
		p.advance()
		value := p.parseExpression()
		p.match(TokenNewline)
		return p.assignTo(pos, expr, value)
	}

	if op, ok := augmentedOps[p.cur().Type]; ok {
		p.advance()
		rhs := p.parseExpression()
		p.match(TokenNewline)
		value := &BinaryOp{PosVal: pos, Op: op, Left: expr, Right: rhs}
		return p.assignTo(pos, expr, value)
	}

	p.match(TokenNewline)
	return &ExprStmt{PosVal: pos, Expr: expr}
}

var augmentedOps = map[TokenType]string{
	TokenPlusAssign:    "+",
	TokenMinusAssign:   "-",
	TokenStarAssign:    "*",
	TokenSlashAssign:   "/",
	TokenPercentAssign: "%",
}

func (p *Parser) assignTo(pos Position, target Expr, value Expr) Stmt {
	switch t := target.(type) {
	case *Identifier:
		return &VarDecl{PosVal: pos, Name: t.Name, Value: value}
	case *GetAttr:
		return &SetAttr{PosVal: pos, Object: t.Object, Name: t.Name, Value: value}
	case *GetIndex:
		return &SetIndex{PosVal: pos, Object: t.Object, Index: t.Index, Value: value}
	}
	p.errorf("invalid assignment target")
	return nil
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func (p *Parser) parseExpression() Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() Expr {
	expr := p.parseAnd()
	for p.check(TokenOr) {
		tok := p.advance()
		right := p.parseAnd()
		expr = &BinaryOp{PosVal: tok.Pos, Op: "或", Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) parseAnd() Expr {
	expr := p.parseComparison()
	for p.check(TokenAnd) {
		tok := p.advance()
		right := p.parseComparison()
		expr = &BinaryOp{PosVal: tok.Pos, Op: "且", Left: expr, Right: right}
	}
	return expr
}

// Word comparison operators normalize to their symbolic spelling, so the
// evaluator sees a single form.
var comparisonOps = map[TokenType]string{
	TokenEq:          "==",
	TokenNotEq:       "!=",
	TokenLess:        "<",
	TokenLessEq:      "<=",
	TokenGreater:     ">",
	TokenGreaterEq:   ">=",
	TokenEqCN:        "==",
	TokenNotEqCN:     "!=",
	TokenLessCN:      "<",
	TokenLessEqCN:    "<=",
	TokenGreaterCN:   ">",
	TokenGreaterEqCN: ">=",
	TokenIn:          "in",
}

func (p *Parser) parseComparison() Expr {
	expr := p.parseTerm()
	for {
		op, ok := comparisonOps[p.cur().Type]
		if !ok {
			break
		}
		tok := p.advance()
		right := p.parseTerm()
		expr = &BinaryOp{PosVal: tok.Pos, Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) parseTerm() Expr {
	expr := p.parseFactor()
	for p.check(TokenPlus) || p.check(TokenMinus) || p.check(TokenPlusCN) || p.check(TokenMinusCN) {
		tok := p.advance()
		right := p.parseFactor()
		expr = &BinaryOp{PosVal: tok.Pos, Op: tok.Literal, Left: expr, Right: right}
	}
	return expr
}

func isFactorOp(typ TokenType) bool {
	switch typ {
	case TokenStar, TokenSlash, TokenPercent, TokenPower, TokenFloorDiv,
		TokenStarCN, TokenSlashCN, TokenPercentCN, TokenPowerCN, TokenFloorDivCN:
		return true
	}
	return false
}

func (p *Parser) parseFactor() Expr {
	expr := p.parseUnary()
	for isFactorOp(p.cur().Type) {
		tok := p.advance()
		right := p.parseUnary()
		expr = &BinaryOp{PosVal: tok.Pos, Op: tok.Literal, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) parseUnary() Expr {
	if p.check(TokenNot) {
		tok := p.advance()
		// 非 binds a whole comparison, so 非 x 大于 5 negates the comparison.
		operand := p.parseComparison()
		return &UnaryOp{PosVal: tok.Pos, Op: "非", Operand: operand}
	}
	if p.check(TokenMinus) {
		tok := p.advance()
		operand := p.parseUnary()
		return &UnaryOp{PosVal: tok.Pos, Op: "-", Operand: operand}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() Expr {
	tok := p.cur()
	switch tok.Type {
	case TokenTrue:
		p.advance()
		return &BoolLiteral{PosVal: tok.Pos, Value: true}
	case TokenFalse:
		p.advance()
		return &BoolLiteral{PosVal: tok.Pos, Value: false}
	case TokenNone:
		p.advance()
		return &NoneLiteral{PosVal: tok.Pos}
	case TokenInteger:
		p.advance()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorf("integer literal out of range: %s", tok.Literal)
		}
		return &IntLiteral{PosVal: tok.Pos, Value: v}
	case TokenFloat:
		p.advance()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorf("malformed float literal: %s", tok.Literal)
		}
		return &FloatLiteral{PosVal: tok.Pos, Value: v}
	case TokenString:
		p.advance()
		return &StringLiteral{PosVal: tok.Pos, Value: tok.Literal}
	case TokenFString:
		p.advance()
		return p.parseFStringToken(tok)
	case TokenIdentifier, TokenSelf, TokenSuper:
		p.advance()
		return p.parsePostfix(&Identifier{PosVal: tok.Pos, Name: tok.Literal})
	case TokenLParen:
		p.advance()
		expr := p.parseExpression()
		p.expect(TokenRParen, "expected ')'")
		return p.parsePostfix(expr)
	case TokenLBracket:
		p.advance()
		var elements []Expr
		if !p.check(TokenRBracket) {
			for {
				elements = append(elements, p.parseExpression())
				if !p.match(TokenComma) {
					break
				}
			}
		}
		p.expect(TokenRBracket, "expected ']'")
		return p.parsePostfix(&ListLiteral{PosVal: tok.Pos, Elements: elements})
	case TokenLBrace:
		p.advance()
		var keys, values []Expr
		if !p.check(TokenRBrace) {
			for {
				keys = append(keys, p.parseExpression())
				p.expect(TokenColon, "expected ':' between dictionary key and value")
				values = append(values, p.parseExpression())
				if !p.match(TokenComma) {
					break
				}
			}
		}
		p.expect(TokenRBrace, "expected '}'")
		return p.parsePostfix(&DictLiteral{PosVal: tok.Pos, Keys: keys, Values: values})
	}
	p.errorf("expected expression, got %s", tok.Type)
	return nil
}

// parsePostfix applies call, attribute access and subscript suffixes.
func (p *Parser) parsePostfix(expr Expr) Expr {
	for {
		switch {
		case p.check(TokenLParen):
			tok := p.advance()
			var args []Expr
			if !p.check(TokenRParen) {
				for {
					args = append(args, p.parseExpression())
					if !p.match(TokenComma) {
						break
					}
				}
			}
			p.expect(TokenRParen, "expected ')' after arguments")
			expr = &Call{PosVal: tok.Pos, Func: expr, Args: args}
		case p.check(TokenDot):
			p.advance()
			name := p.expect(TokenIdentifier, "expected attribute name")
			expr = &GetAttr{PosVal: name.Pos, Object: expr, Name: name.Literal}
		case p.check(TokenLBracket):
			tok := p.advance()
			index := p.parseExpression()
			p.expect(TokenRBracket, "expected ']' after index")
			expr = &GetIndex{PosVal: tok.Pos, Object: expr, Index: index}
		default:
			return expr
		}
	}
}

// parseFStringToken turns the lexer's text and expression parts into an
// FString node, sub-parsing each expression part.
func (p *Parser) parseFStringToken(tok Token) Expr {
	segs := make([]FStringSeg, 0, len(tok.Parts))
	for _, part := range tok.Parts {
		if !part.IsExpr {
			segs = append(segs, FStringSeg{Text: part.Value})
			continue
		}
		expr, err := parseEmbeddedExpr(part.Value)
		if err != nil {
			panic(&SyntaxError{
				Msg: fmt.Sprintf("invalid expression %q in interpolated string: %v", part.Value, err),
				Pos: tok.Pos,
			})
		}
		segs = append(segs, FStringSeg{Expr: expr})
	}
	return &FString{PosVal: tok.Pos, Segs: segs}
}

// parseEmbeddedExpr parses a single expression from interpolated string
// source.
func parseEmbeddedExpr(source string) (expr Expr, err error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			expr, err = nil, se
		}
	}()

	sub := NewParser(tokens)
	expr = sub.parseExpression()
	sub.match(TokenNewline)
	if !sub.check(TokenEOF) {
		sub.errorf("unexpected token after expression")
	}
	return expr, nil
}
