package internal

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xiaobogaga/jackc/util"
)

// A simple Tokenizer for jack.

// Jack language has those elements:
// * KeyWord: class, constructor, function, method, field, static, var, int, char, boolean, void, true,
// 			false, null, this, let, do, if, else, while, return.
// * Symbol: {, }, (, ), [, ], ., ,, ;, +, -, *, /, &, |, <, >, =, ~.
// * Constant: integer (0..32767), string ("xxx", no escapes, no newline).
// * Identifier: letters, digits, underscore, not starting with a digit.
// * Comment: /**/, //. Comments and white space are dropped.
//
// Tokens are scanned on demand, the parser never sees more than two tokens ahead.

type TokenType int

const (
	ClassTP              TokenType = iota // class
	ConstructorTP                         // constructor
	FunctionTP                            // function
	MethodTP                              // method
	FieldTP                               // field
	StaticTP                              // static
	VarTP                                 // var
	IntTP                                 // int
	CharTP                                // char
	BooleanTP                             // boolean
	VoidTP                                // void
	TrueTP                                // true
	FalseTP                               // false
	NullTP                                // null
	ThisTP                                // this
	LetTP                                 // let
	DoTp                                  // do
	IfTP                                  // if
	ElseTP                                // else
	WhileTP                               // while
	ReturnTP                              // return
	LeftBraceTP                           // {
	RightBraceTP                          // }
	LeftParentThesesTP                    // (
	RightParentThesesTP                   // )
	LeftSquareBracketTP                   // [
	RightSquareBracketTP                  // ]
	DotTP                                 // .
	CommaTP                               // ,
	SemiColonTP                           // ;
	AddTP                                 // +
	MinusTP                               // -
	MultiplyTP                            // *
	DivideTP                              // /
	AndTP                                 // &
	OrTP                                  // |
	GreaterTP                             // >
	LessTP                                // <
	EqualTP                               // =
	BooleanNegativeTP                     // ~
	IntegerTP                             // 1010
	StringTP                              // "xxx"
	IdentifierTP                          // varA
)

// TokenKind is the lexical class of a token.
type TokenKind int

const (
	KeywordTokenKind TokenKind = iota
	SymbolTokenKind
	IdentifierTokenKind
	IntegerConstantTokenKind
	StringConstantTokenKind
)

func (k TokenKind) String() string {
	switch k {
	case KeywordTokenKind:
		return "keyword"
	case SymbolTokenKind:
		return "symbol"
	case IdentifierTokenKind:
		return "identifier"
	case IntegerConstantTokenKind:
		return "integerConstant"
	case StringConstantTokenKind:
		return "stringConstant"
	}
	return "unknown"
}

// maxIntegerConstant is the largest literal the 16-bit VM can push.
const maxIntegerConstant = 32767

// keyWordTokenTPMap is the mapping from keyWord to the corresponding TokenTP.
var keyWordTokenTPMap = map[string]TokenType{
	"class":       ClassTP,
	"constructor": ConstructorTP,
	"function":    FunctionTP,
	"method":      MethodTP,
	"field":       FieldTP,
	"static":      StaticTP,
	"var":         VarTP,
	"int":         IntTP,
	"char":        CharTP,
	"boolean":     BooleanTP,
	"void":        VoidTP,
	"true":        TrueTP,
	"false":       FalseTP,
	"null":        NullTP,
	"this":        ThisTP,
	"let":         LetTP,
	"do":          DoTp,
	"if":          IfTP,
	"else":        ElseTP,
	"while":       WhileTP,
	"return":      ReturnTP,
}

// simpleSymbolTokenTPMap is the mapping from symbol to the corresponding TokenTP.
var simpleSymbolTokenTPMap = map[byte]TokenType{
	'{': LeftBraceTP,
	'}': RightBraceTP,
	'(': LeftParentThesesTP,
	')': RightParentThesesTP,
	'[': LeftSquareBracketTP,
	']': RightSquareBracketTP,
	'.': DotTP,
	',': CommaTP,
	';': SemiColonTP,
	'+': AddTP,
	'-': MinusTP,
	'*': MultiplyTP,
	'/': DivideTP,
	'&': AndTP,
	'|': OrTP,
	'>': GreaterTP,
	'<': LessTP,
	'=': EqualTP,
	'~': BooleanNegativeTP,
}

type Token struct {
	content string
	line    int
	column  int
	tp      TokenType
}

func (t *Token) Type() TokenType {
	return t.tp
}

func (t *Token) Content() string {
	return t.content
}

func (t *Token) Line() int {
	return t.line
}

func (t *Token) Column() int {
	return t.column
}

func (t *Token) Kind() TokenKind {
	switch {
	case t.tp <= ReturnTP:
		return KeywordTokenKind
	case t.tp <= BooleanNegativeTP:
		return SymbolTokenKind
	case t.tp == IntegerTP:
		return IntegerConstantTokenKind
	case t.tp == StringTP:
		return StringConstantTokenKind
	}
	return IdentifierTokenKind
}

// IntValue is only meaningful for IntegerTP tokens, the tokenizer already
// checked the range.
func (t *Token) IntValue() int {
	v, _ := strconv.Atoi(t.content)
	return v
}

func (t *Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind(), t.content)
}

type Tokenizer struct {
	source      []byte
	currentPos  int
	currentLine int
	lineStart   int
	lookahead   []*Token
	err         error
}

// NewTokenizer reads all of rd and returns a tokenizer positioned before the
// first token.
func NewTokenizer(rd io.Reader) (*Tokenizer, error) {
	source, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	return NewTokenizerFromBytes(source), nil
}

func NewTokenizerFromBytes(source []byte) *Tokenizer {
	return &Tokenizer{source: source, currentLine: 1}
}

// HasMore reports whether Next would return a token or an error.
func (tokenizer *Tokenizer) HasMore() bool {
	tokenizer.fill(1)
	return len(tokenizer.lookahead) > 0 || tokenizer.err != nil
}

// Next consumes the current token. It returns a nil token at end of input.
func (tokenizer *Tokenizer) Next() (*Token, error) {
	tokenizer.fill(1)
	if len(tokenizer.lookahead) == 0 {
		return nil, tokenizer.err
	}
	token := tokenizer.lookahead[0]
	tokenizer.lookahead = tokenizer.lookahead[1:]
	return token, nil
}

// Peek returns the current token without consuming it.
func (tokenizer *Tokenizer) Peek() (*Token, error) {
	return tokenizer.PeekN(1)
}

// PeekN returns the n-th token ahead (1 is the current token) without
// consuming anything. A nil token means the input ends before it.
func (tokenizer *Tokenizer) PeekN(n int) (*Token, error) {
	tokenizer.fill(n)
	if len(tokenizer.lookahead) < n {
		return nil, tokenizer.err
	}
	return tokenizer.lookahead[n-1], nil
}

// Tokenize drains the remaining input.
func (tokenizer *Tokenizer) Tokenize() (tokens []*Token, err error) {
	for {
		token, err := tokenizer.Next()
		if err != nil {
			return nil, err
		}
		if token == nil {
			return tokens, nil
		}
		tokens = append(tokens, token)
	}
}

func (tokenizer *Tokenizer) fill(n int) {
	for len(tokenizer.lookahead) < n && tokenizer.err == nil {
		token, err := tokenizer.getNextToken()
		if err != nil {
			tokenizer.err = err
			return
		}
		if token == nil {
			return
		}
		tokenizer.lookahead = append(tokenizer.lookahead, token)
	}
}

// getNextToken scans one token from the source, nil at end of input.
func (tokenizer *Tokenizer) getNextToken() (*Token, error) {
	err := tokenizer.skipSpaceAndComments()
	if err != nil {
		return nil, err
	}
	if !tokenizer.hasRemainCharacters() {
		return nil, nil
	}
	b := tokenizer.source[tokenizer.currentPos]
	switch {
	case util.IsQuote(b):
		return tokenizer.tokenString()
	case util.IsSymbol(b):
		return tokenizer.tokenSimpleSymbol(), nil
	case util.IsNumber(b):
		return tokenizer.tokenNumber()
	case util.IsLetterOrUnderscore(b):
		return tokenizer.toKeywordOrIdentifier(), nil
	}
	return nil, tokenizer.makeError(string(b), tokenizer.column(), "invalid character")
}

func (tokenizer *Tokenizer) hasRemainCharacters() bool {
	return tokenizer.currentPos < len(tokenizer.source)
}

func (tokenizer *Tokenizer) column() int {
	return tokenizer.currentPos - tokenizer.lineStart + 1
}

func (tokenizer *Tokenizer) lookingAt(s string) bool {
	end := tokenizer.currentPos + len(s)
	return end <= len(tokenizer.source) && string(tokenizer.source[tokenizer.currentPos:end]) == s
}

func (tokenizer *Tokenizer) stepForward() {
	if tokenizer.source[tokenizer.currentPos] == '\n' {
		tokenizer.currentLine++
		tokenizer.lineStart = tokenizer.currentPos + 1
	}
	tokenizer.currentPos++
}

// skipSpaceAndComments steps over white space, // line comments and /* */
// block comments until a token character or the end of input.
func (tokenizer *Tokenizer) skipSpaceAndComments() error {
	for tokenizer.hasRemainCharacters() {
		switch {
		case util.IsSpace(tokenizer.source[tokenizer.currentPos]):
			tokenizer.stepForward()
		case tokenizer.lookingAt("//"):
			for tokenizer.hasRemainCharacters() && tokenizer.source[tokenizer.currentPos] != '\n' {
				tokenizer.stepForward()
			}
		case tokenizer.lookingAt("/*"):
			err := tokenizer.skipBlockComment()
			if err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (tokenizer *Tokenizer) skipBlockComment() error {
	startLine, startColumn := tokenizer.currentLine, tokenizer.column()
	tokenizer.currentPos += 2
	for tokenizer.hasRemainCharacters() {
		if tokenizer.lookingAt("*/") {
			tokenizer.currentPos += 2
			return nil
		}
		tokenizer.stepForward()
	}
	return &CompileError{
		Kind: LexicalError, Line: startLine, Column: startColumn, Near: "/*",
		Msg: "unterminated comment",
	}
}

func (tokenizer *Tokenizer) tokenSimpleSymbol() *Token {
	b := tokenizer.source[tokenizer.currentPos]
	token := &Token{
		content: string(b),
		line:    tokenizer.currentLine,
		column:  tokenizer.column(),
		tp:      simpleSymbolTokenTPMap[b],
	}
	tokenizer.currentPos++
	return token
}

func (tokenizer *Tokenizer) tokenString() (*Token, error) {
	// Looking forward through the current line to find a closing quote.
	startPos, column := tokenizer.currentPos, tokenizer.column()
	tokenizer.currentPos++
	for tokenizer.hasRemainCharacters() {
		switch tokenizer.source[tokenizer.currentPos] {
		case '"':
			tokenizer.currentPos++
			return &Token{
				content: string(tokenizer.source[startPos+1 : tokenizer.currentPos-1]),
				line:    tokenizer.currentLine,
				column:  column,
				tp:      StringTP,
			}, nil
		case '\n', '\r':
			return nil, tokenizer.makeError(string(tokenizer.source[startPos:tokenizer.currentPos]), column,
				"unterminated string")
		}
		tokenizer.currentPos++
	}
	return nil, tokenizer.makeError(string(tokenizer.source[startPos:]), column, "unterminated string")
}

func (tokenizer *Tokenizer) tokenNumber() (*Token, error) {
	// Look forward to find a continuous number.
	startPos, column := tokenizer.currentPos, tokenizer.column()
	for tokenizer.hasRemainCharacters() && util.IsNumber(tokenizer.source[tokenizer.currentPos]) {
		tokenizer.currentPos++
	}
	content := string(tokenizer.source[startPos:tokenizer.currentPos])
	v, err := strconv.Atoi(content)
	if err != nil || v > maxIntegerConstant {
		return nil, tokenizer.makeError(content, column,
			fmt.Sprintf("integer constant out of range [0, %d]", maxIntegerConstant))
	}
	return &Token{
		content: content,
		line:    tokenizer.currentLine,
		column:  column,
		tp:      IntegerTP,
	}, nil
}

func (tokenizer *Tokenizer) toKeywordOrIdentifier() *Token {
	// Look forward to find continuous characters.
	startPos, column := tokenizer.currentPos, tokenizer.column()
	for tokenizer.hasRemainCharacters() && util.IsLetterOrUnderscoreOrNumber(tokenizer.source[tokenizer.currentPos]) {
		tokenizer.currentPos++
	}
	content := string(tokenizer.source[startPos:tokenizer.currentPos])
	tp, isKeyWord := keyWordTokenTPMap[content]
	if !isKeyWord {
		tp = IdentifierTP
	}
	return &Token{
		content: content,
		line:    tokenizer.currentLine,
		column:  column,
		tp:      tp,
	}
}

func (tokenizer *Tokenizer) makeError(near string, column int, msg string) error {
	return &CompileError{
		Kind:   LexicalError,
		Line:   tokenizer.currentLine,
		Column: column,
		Near:   near,
		Msg:    msg,
	}
}
