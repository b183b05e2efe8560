package compiler

import "fmt"

// ---------------------------------------------------------------------------
// Token types for the xuan lexer
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenNewline
	TokenIndent
	TokenDedent

	// Literals
	TokenInteger    // 42
	TokenFloat      // 3.14
	TokenString     // "你好"
	TokenFString    // f"值是{x}"
	TokenIdentifier // 计数, total, _tmp

	// Keywords
	TokenDefine   // 定义
	TokenClass    // 类
	TokenIf       // 如果
	TokenElse     // 否则
	TokenElif     // 否则如果
	TokenWhile    // 当
	TokenFor      // 对于
	TokenIn       // 在
	TokenReturn   // 返回
	TokenTry      // 尝试
	TokenExcept   // 捕获
	TokenFinally  // 最后
	TokenImport   // 导入
	TokenFrom     // 从
	TokenTrue     // 真
	TokenFalse    // 假
	TokenNone     // 空
	TokenSelf     // 自身
	TokenSuper    // 父类
	TokenNonlocal // 非局部
	TokenGlobal   // 全局
	TokenAssert   // 断言
	TokenBreak    // 中断
	TokenContinue // 继续
	TokenPass     // 传递
	TokenDel      // 删除
	TokenRaise    // 提升
	TokenWith     // 使用
	TokenAs       // 作为
	TokenAsync    // 异步
	TokenAwait    // 等待
	TokenAnd      // 且
	TokenOr       // 或
	TokenNot      // 非

	// Arithmetic operators
	TokenPlus       // +
	TokenMinus      // -
	TokenStar       // *
	TokenSlash      // /
	TokenPercent    // %
	TokenPower      // **
	TokenFloorDiv   // //
	TokenPlusCN     // 加
	TokenMinusCN    // 减
	TokenStarCN     // 乘
	TokenSlashCN    // 除
	TokenPercentCN  // 余
	TokenPowerCN    // 幂
	TokenFloorDivCN // 整除

	// Comparison operators
	TokenEq          // ==
	TokenNotEq       // !=
	TokenLess        // <
	TokenLessEq      // <=
	TokenGreater     // >
	TokenGreaterEq   // >=
	TokenEqCN        // 等于
	TokenNotEqCN     // 不等于
	TokenLessCN      // 小于
	TokenLessEqCN    // 小于等于
	TokenGreaterCN   // 大于
	TokenGreaterEqCN // 大于等于

	// Assignment operators
	TokenAssign        // =
	TokenPlusAssign    // +=
	TokenMinusAssign   // -=
	TokenStarAssign    // *=
	TokenSlashAssign   // /=
	TokenPercentAssign // %=

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenLBrace    // {
	TokenRBrace    // }
	TokenComma     // ,
	TokenDot       // .
	TokenColon     // :
	TokenSemicolon // ;
	TokenAt        // @
	TokenArrow     // ->
	TokenEllipsis  // ...
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenNewline:    "NEWLINE",
	TokenIndent:     "INDENT",
	TokenDedent:     "DEDENT",
	TokenInteger:    "INTEGER",
	TokenFloat:      "FLOAT",
	TokenString:     "STRING",
	TokenFString:    "FSTRING",
	TokenIdentifier: "IDENTIFIER",

	TokenDefine:   "定义",
	TokenClass:    "类",
	TokenIf:       "如果",
	TokenElse:     "否则",
	TokenElif:     "否则如果",
	TokenWhile:    "当",
	TokenFor:      "对于",
	TokenIn:       "在",
	TokenReturn:   "返回",
	TokenTry:      "尝试",
	TokenExcept:   "捕获",
	TokenFinally:  "最后",
	TokenImport:   "导入",
	TokenFrom:     "从",
	TokenTrue:     "真",
	TokenFalse:    "假",
	TokenNone:     "空",
	TokenSelf:     "自身",
	TokenSuper:    "父类",
	TokenNonlocal: "非局部",
	TokenGlobal:   "全局",
	TokenAssert:   "断言",
	TokenBreak:    "中断",
	TokenContinue: "继续",
	TokenPass:     "传递",
	TokenDel:      "删除",
	TokenRaise:    "提升",
	TokenWith:     "使用",
	TokenAs:       "作为",
	TokenAsync:    "异步",
	TokenAwait:    "等待",
	TokenAnd:      "且",
	TokenOr:       "或",
	TokenNot:      "非",

	TokenPlus:       "+",
	TokenMinus:      "-",
	TokenStar:       "*",
	TokenSlash:      "/",
	TokenPercent:    "%",
	TokenPower:      "**",
	TokenFloorDiv:   "//",
	TokenPlusCN:     "加",
	TokenMinusCN:    "减",
	TokenStarCN:     "乘",
	TokenSlashCN:    "除",
	TokenPercentCN:  "余",
	TokenPowerCN:    "幂",
	TokenFloorDivCN: "整除",

	TokenEq:          "==",
	TokenNotEq:       "!=",
	TokenLess:        "<",
	TokenLessEq:      "<=",
	TokenGreater:     ">",
	TokenGreaterEq:   ">=",
	TokenEqCN:        "等于",
	TokenNotEqCN:     "不等于",
	TokenLessCN:      "小于",
	TokenLessEqCN:    "小于等于",
	TokenGreaterCN:   "大于",
	TokenGreaterEqCN: "大于等于",

	TokenAssign:        "=",
	TokenPlusAssign:    "+=",
	TokenMinusAssign:   "-=",
	TokenStarAssign:    "*=",
	TokenSlashAssign:   "/=",
	TokenPercentAssign: "%=",

	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenComma:     ",",
	TokenDot:       ".",
	TokenColon:     ":",
	TokenSemicolon: ";",
	TokenAt:        "@",
	TokenArrow:     "->",
	TokenEllipsis:  "...",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", int(t))
}

// FStringPart is one piece of an interpolated string literal: literal text or
// the raw source of an embedded expression.
type FStringPart struct {
	IsExpr bool
	Value  string
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string        // the raw text
	Parts   []FStringPart // set only for TokenFString
	Pos     Position      // start position
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	if len(t.Literal) > 20 {
		return fmt.Sprintf("%s(%q...)", t.Type, t.Literal[:20])
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}

// Keyword spellings mapped to their token types. Identifiers are read
// maximally before lookup, so the multi-character spellings (否则如果,
// 大于等于) win over their prefixes without extra lookahead.
var keywords = map[string]TokenType{
	"定义":   TokenDefine,
	"类":    TokenClass,
	"如果":   TokenIf,
	"否则":   TokenElse,
	"否则如果": TokenElif,
	"当":    TokenWhile,
	"对于":   TokenFor,
	"在":    TokenIn,
	"返回":   TokenReturn,
	"尝试":   TokenTry,
	"捕获":   TokenExcept,
	"最后":   TokenFinally,
	"导入":   TokenImport,
	"从":    TokenFrom,
	"真":    TokenTrue,
	"假":    TokenFalse,
	"空":    TokenNone,
	"自身":   TokenSelf,
	"父类":   TokenSuper,
	"非局部":  TokenNonlocal,
	"全局":   TokenGlobal,
	"断言":   TokenAssert,
	"中断":   TokenBreak,
	"继续":   TokenContinue,
	"传递":   TokenPass,
	"删除":   TokenDel,
	"提升":   TokenRaise,
	"使用":   TokenWith,
	"作为":   TokenAs,
	"异步":   TokenAsync,
	"等待":   TokenAwait,
	"且":    TokenAnd,
	"或":    TokenOr,
	"非":    TokenNot,

	"加":  TokenPlusCN,
	"减":  TokenMinusCN,
	"乘":  TokenStarCN,
	"除":  TokenSlashCN,
	"余":  TokenPercentCN,
	"幂":  TokenPowerCN,
	"整除": TokenFloorDivCN,

	"等于":   TokenEqCN,
	"不等于":  TokenNotEqCN,
	"小于":   TokenLessCN,
	"小于等于": TokenLessEqCN,
	"大于":   TokenGreaterCN,
	"大于等于": TokenGreaterEqCN,
}
