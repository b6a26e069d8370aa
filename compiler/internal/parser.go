package internal

import (
	"errors"
	"fmt"
)

// Parser is a recursive descent compiler for one jack class. Every parseXxx
// method starts at the first token of Xxx, consumes exactly the tokens of Xxx
// and writes the vm code for it. Expression-valued productions leave one value
// on the vm stack. There is no error recovery, the first error is returned.
type Parser struct {
	tokenizer *Tokenizer
	writer    *VMWriter
	types     *TypeRegistry
	ctx       *compilationContext
}

// compilationContext is the state of the class being compiled. It lives as
// long as one ParseClassDeclaration call.
type compilationContext struct {
	className    string
	subroutine   *SubroutineAst
	labelCounter int
	symbols      *SymbolTable
}

func (ctx *compilationContext) nextLabelID() int {
	id := ctx.labelCounter
	ctx.labelCounter++
	return id
}

func NewParser(tokenizer *Tokenizer, writer *VMWriter, types *TypeRegistry) *Parser {
	if types == nil {
		types = NewTypeRegistry()
	}
	return &Parser{tokenizer: tokenizer, writer: writer, types: types}
}

// class className {
//    classVarDec*
//    subroutineDec*
// }
func (parser *Parser) ParseClassDeclaration() (*ClassAst, error) {
	_, err := parser.expectToken(ClassTP)
	if err != nil {
		return nil, err
	}
	classNameToken, err := parser.expectToken(IdentifierTP)
	if err != nil {
		return nil, err
	}
	parser.ctx = &compilationContext{className: classNameToken.content, symbols: NewSymbolTable()}
	defer func() { parser.ctx = nil }()
	parser.types.Register(classNameToken.content)

	_, err = parser.expectToken(LeftBraceTP)
	if err != nil {
		return nil, err
	}
	for parser.matchToken(StaticTP, FieldTP) {
		err = parser.parseClassVarDec()
		if err != nil {
			return nil, err
		}
	}
	classAst := &ClassAst{ClassName: classNameToken.content}
	for parser.matchToken(ConstructorTP, FunctionTP, MethodTP) {
		subroutine, err := parser.parseSubroutine()
		if err != nil {
			return nil, err
		}
		classAst.Subroutines = append(classAst.Subroutines, subroutine)
	}
	_, err = parser.expectToken(RightBraceTP)
	if err != nil {
		return nil, err
	}
	// A file holds exactly one class.
	token, err := parser.tokenizer.Peek()
	if err != nil {
		return nil, err
	}
	if token != nil {
		return nil, parser.makeError(token, "end of input after class "+classAst.ClassName)
	}
	classAst.NStatics = parser.ctx.symbols.VarCount(StaticSymbolKind)
	classAst.NFields = parser.ctx.symbols.VarCount(FieldSymbolKind)
	return classAst, nil
}

// Var declaration like: [static|field] [boolean|char|int|className] varName [,varName]* ;
func (parser *Parser) parseClassVarDec() error {
	token, err := parser.nextToken()
	if err != nil {
		return err
	}
	kind := FieldSymbolKind
	if token.tp == StaticTP {
		kind = StaticSymbolKind
	}
	return parser.parseVarNames(kind)
}

// var [boolean|char|int|className] varName [,varName]* ;
func (parser *Parser) parseVarDec() error {
	_, err := parser.expectToken(VarTP)
	if err != nil {
		return err
	}
	return parser.parseVarNames(LocalSymbolKind)
}

// parseVarNames defines every name of a declaration. A name after a comma may
// carry its own type, otherwise it takes the type of the first name.
func (parser *Parser) parseVarNames(kind SymbolKind) error {
	firstType, err := parser.parseType()
	if err != nil {
		return err
	}
	varType := firstType
	for {
		nameToken, err := parser.expectToken(IdentifierTP)
		if err != nil {
			return err
		}
		parser.registerType(varType)
		err = parser.define(nameToken, varType, kind)
		if err != nil {
			return err
		}
		if !parser.matchToken(CommaTP) {
			break
		}
		parser.tokenizer.Next()
		varType = firstType
		if parser.startsTypedName() {
			varType, err = parser.parseType()
			if err != nil {
				return err
			}
		}
	}
	_, err = parser.expectToken(SemiColonTP)
	return err
}

// startsTypedName uses two tokens of lookahead to tell "int b" or "Foo b"
// from a bare "b".
func (parser *Parser) startsTypedName() bool {
	if parser.matchToken(IntTP, CharTP, BooleanTP) {
		return true
	}
	second, err := parser.tokenizer.PeekN(2)
	return err == nil && second != nil && parser.matchToken(IdentifierTP) && second.tp == IdentifierTP
}

// type: int | char | boolean | className
//
// The type is registered by the caller once the declared name follows it.
func (parser *Parser) parseType() (string, error) {
	token, err := parser.currentToken()
	if err != nil {
		return "", err
	}
	switch token.tp {
	case IntTP, CharTP, BooleanTP, IdentifierTP:
	default:
		return "", parser.makeError(token, "a type")
	}
	parser.tokenizer.Next()
	return token.content, nil
}

// Subroutine Declaration:
// [constructor|function|method] [void|type] name ( parameterList ) subroutineBody
func (parser *Parser) parseSubroutine() (*SubroutineAst, error) {
	token, err := parser.nextToken()
	if err != nil {
		return nil, err
	}
	subroutine := &SubroutineAst{}
	switch token.tp {
	case ConstructorTP:
		subroutine.FuncTP = ConstructorSubroutineType
	case FunctionTP:
		subroutine.FuncTP = FunctionSubroutineType
	case MethodTP:
		subroutine.FuncTP = MethodSubroutineType
	default:
		return nil, parser.makeError(token, "constructor, function or method")
	}
	if parser.matchToken(VoidTP) {
		parser.tokenizer.Next()
		subroutine.ReturnTP = "void"
	} else {
		subroutine.ReturnTP, err = parser.parseType()
		if err != nil {
			return nil, err
		}
	}
	nameToken, err := parser.expectToken(IdentifierTP)
	if err != nil {
		return nil, err
	}
	subroutine.FuncName = nameToken.content
	if subroutine.ReturnTP != "void" {
		parser.registerType(subroutine.ReturnTP)
	}

	ctx := parser.ctx
	ctx.subroutine = subroutine
	ctx.symbols.StartSubroutine()
	if subroutine.FuncTP == MethodSubroutineType {
		// The receiver is argument 0, declared parameters start at 1.
		_, err = ctx.symbols.Define("this", ctx.className, ArgumentSymbolKind)
		if err != nil {
			return nil, err
		}
	}

	_, err = parser.expectToken(LeftParentThesesTP)
	if err != nil {
		return nil, err
	}
	subroutine.NParams, err = parser.parseParameterList()
	if err != nil {
		return nil, err
	}
	_, err = parser.expectToken(RightParentThesesTP)
	if err != nil {
		return nil, err
	}
	err = parser.parseSubroutineBody(subroutine)
	if err != nil {
		return nil, err
	}
	return subroutine, nil
}

// ((type varName) (, type varName)*)?
func (parser *Parser) parseParameterList() (count int, err error) {
	if parser.matchToken(RightParentThesesTP) {
		return 0, nil
	}
	for {
		paramType, err := parser.parseType()
		if err != nil {
			return 0, err
		}
		nameToken, err := parser.expectToken(IdentifierTP)
		if err != nil {
			return 0, err
		}
		parser.registerType(paramType)
		err = parser.define(nameToken, paramType, ArgumentSymbolKind)
		if err != nil {
			return 0, err
		}
		count++
		if !parser.matchToken(CommaTP) {
			return count, nil
		}
		parser.tokenizer.Next()
	}
}

// {
//    varDec*
//    statements
// }
//
// The function header needs the number of locals, so it is written once all
// var declarations are read.
func (parser *Parser) parseSubroutineBody(subroutine *SubroutineAst) error {
	_, err := parser.expectToken(LeftBraceTP)
	if err != nil {
		return err
	}
	for parser.matchToken(VarTP) {
		err = parser.parseVarDec()
		if err != nil {
			return err
		}
	}
	ctx := parser.ctx
	subroutine.NLocals = ctx.symbols.VarCount(LocalSymbolKind)
	parser.writer.WriteFunction(ctx.className+"."+subroutine.FuncName, subroutine.NLocals)
	switch subroutine.FuncTP {
	case MethodSubroutineType:
		parser.writer.WritePush(ArgumentSegment, 0)
		parser.writer.WritePop(PointerSegment, 0)
	case ConstructorSubroutineType:
		parser.writer.WritePush(ConstantSegment, ctx.symbols.VarCount(FieldSymbolKind))
		parser.writer.WriteCall("Memory.alloc", 1)
		parser.writer.WritePop(PointerSegment, 0)
	}
	err = parser.parseStatements()
	if err != nil {
		return err
	}
	_, err = parser.expectToken(RightBraceTP)
	return err
}

// registerType records a class name used as a type. Primitives and names
// already seen skip the write lock.
func (parser *Parser) registerType(tp string) {
	if parser.types.IsPrimitive(tp) || parser.types.IsKnown(tp) {
		return
	}
	parser.types.Register(tp)
}

func (parser *Parser) define(nameToken *Token, varType string, kind SymbolKind) error {
	_, err := parser.ctx.symbols.Define(nameToken.content, varType, kind)
	return parser.locate(err, nameToken)
}

// resolveVariable looks up a variable the code is about to use.
func (parser *Parser) resolveVariable(nameToken *Token) (*VariableAst, error) {
	desc, ok := parser.ctx.symbols.LookUp(nameToken.content)
	if !ok {
		return nil, makeSemanticError(nameToken, "undeclared identifier %s in %s.%s", nameToken.content,
			parser.ctx.className, parser.ctx.subroutine.FuncName)
	}
	return newVariableAst(desc), nil
}

// currentToken returns the current token without consuming it. End of input
// is an error since every caller needs a token.
func (parser *Parser) currentToken() (*Token, error) {
	token, err := parser.tokenizer.Peek()
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, parser.makeError(nil, "more input")
	}
	return token, nil
}

func (parser *Parser) nextToken() (*Token, error) {
	token, err := parser.currentToken()
	if err != nil {
		return nil, err
	}
	parser.tokenizer.Next()
	return token, nil
}

// expectToken consumes the current token if it has type tp.
func (parser *Parser) expectToken(tp TokenType) (*Token, error) {
	token, err := parser.currentToken()
	if err != nil {
		return nil, err
	}
	if token.tp != tp {
		return nil, parser.makeError(token, tokenTypeName(tp))
	}
	parser.tokenizer.Next()
	return token, nil
}

// matchToken reports whether the current token has one of the types. It never
// consumes and never fails: a scanning error shows up at the next
// expectToken.
func (parser *Parser) matchToken(tps ...TokenType) bool {
	token, err := parser.tokenizer.Peek()
	if err != nil || token == nil {
		return false
	}
	for _, tp := range tps {
		if token.tp == tp {
			return true
		}
	}
	return false
}

func (parser *Parser) makeError(token *Token, expected string) error {
	if token == nil {
		return &CompileError{
			Kind:   SyntacticError,
			Line:   parser.tokenizer.currentLine,
			Column: parser.tokenizer.column(),
			Msg:    fmt.Sprintf("expected %s, got end of input", expected),
		}
	}
	return &CompileError{
		Kind:   SyntacticError,
		Line:   token.line,
		Column: token.column,
		Near:   token.content,
		Msg:    fmt.Sprintf("expected %s, got %s", expected, token),
	}
}

// locate fills in the position of a CompileError raised away from the token
// stream.
func (parser *Parser) locate(err error, token *Token) error {
	var compileErr *CompileError
	if errors.As(err, &compileErr) && compileErr.Line == 0 && token != nil {
		compileErr.Line, compileErr.Column, compileErr.Near = token.line, token.column, token.content
	}
	return err
}

var tokenTypeNames = map[TokenType]string{
	IntegerTP:    "integer constant",
	StringTP:     "string constant",
	IdentifierTP: "identifier",
}

func init() {
	for name, tp := range keyWordTokenTPMap {
		tokenTypeNames[tp] = fmt.Sprintf("%q", name)
	}
	for symbol, tp := range simpleSymbolTokenTPMap {
		tokenTypeNames[tp] = fmt.Sprintf("%q", string(symbol))
	}
}

func tokenTypeName(tp TokenType) string {
	if name, ok := tokenTypeNames[tp]; ok {
		return name
	}
	return "token"
}
