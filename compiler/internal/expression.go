package internal

// term (op term)*
//
// Operators are applied strictly left to right, jack has no precedence.
func (parser *Parser) parseExpression() (*ExpressionAst, error) {
	term, err := parser.parseExpressionTerm()
	if err != nil {
		return nil, err
	}
	expr := &ExpressionAst{Terms: []*ExpressionTerm{term}}
	for {
		token, err := parser.tokenizer.Peek()
		if err != nil {
			return nil, err
		}
		if token == nil {
			return expr, nil
		}
		op, ok := binaryOpAsts[token.tp]
		if !ok {
			return expr, nil
		}
		parser.tokenizer.Next()
		term, err = parser.parseExpressionTerm()
		if err != nil {
			return nil, err
		}
		parser.writeOp(op)
		expr.Terms, expr.Ops = append(expr.Terms, term), append(expr.Ops, op)
	}
}

func (parser *Parser) writeOp(op *OpAst) {
	if op.Call != "" {
		parser.writer.WriteCall(op.Call, 2)
		return
	}
	parser.writer.WriteArithmetic(op.Command)
}

// (expression (, expression)*)?
//
// Returns the number of expressions, the caller needs it for the call.
func (parser *Parser) parseExpressions() (count int, err error) {
	if parser.matchToken(RightParentThesesTP) {
		return 0, nil
	}
	for {
		_, err = parser.parseExpression()
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

func (parser *Parser) parseExpressionTerm() (*ExpressionTerm, error) {
	token, err := parser.currentToken()
	if err != nil {
		return nil, err
	}
	switch token.tp {
	case IntegerTP, StringTP, TrueTP, FalseTP, NullTP, ThisTP:
		return parser.parseConstantExpressionTerm()
	// When it's identifier, it can be a variable, an array element or a
	// subroutine call. The token after it decides.
	case IdentifierTP:
		return parser.parseSubRoutineCallExpressionOrVarExpressionTerm()
	case LeftParentThesesTP:
		return parser.parseSubExpressionTerm()
	case MinusTP, BooleanNegativeTP:
		return parser.parseNegationExpressionTerm()
	}
	return nil, parser.makeError(token, "a term")
}

func (parser *Parser) parseConstantExpressionTerm() (*ExpressionTerm, error) {
	token, err := parser.nextToken()
	if err != nil {
		return nil, err
	}
	term := new(ExpressionTerm)
	switch token.tp {
	case IntegerTP:
		term.Type = IntegerConstantTermType
		parser.writer.WritePush(ConstantSegment, token.IntValue())
	case StringTP:
		term.Type = StringConstantTermType
		parser.writeStringConstant(token.content)
	case TrueTP:
		// true is -1, all bits set.
		term.Type = KeyWordConstantTrueTermType
		parser.writer.WritePush(ConstantSegment, 0)
		parser.writer.WriteArithmetic(NotCommand)
	case FalseTP:
		term.Type = KeyWordConstantFalseTermType
		parser.writer.WritePush(ConstantSegment, 0)
	case NullTP:
		term.Type = KeyWordConstantNullTermType
		parser.writer.WritePush(ConstantSegment, 0)
	case ThisTP:
		term.Type = KeyWordConstantThisTermType
		parser.writer.WritePush(PointerSegment, 0)
	default:
		return nil, parser.makeError(token, "a constant")
	}
	return term, nil
}

// writeStringConstant builds the string at run time with String.new and
// one String.appendChar per character. appendChar returns the string, so it
// stays on the stack for the next call.
func (parser *Parser) writeStringConstant(str string) {
	parser.writer.WritePush(ConstantSegment, len(str))
	parser.writer.WriteCall("String.new", 1)
	for i := 0; i < len(str); i++ {
		parser.writer.WritePush(ConstantSegment, int(str[i]))
		parser.writer.WriteCall("String.appendChar", 2)
	}
}

// Could be varName | varName[expression] | subroutineName(...) | name.subroutineName(...).
func (parser *Parser) parseSubRoutineCallExpressionOrVarExpressionTerm() (*ExpressionTerm, error) {
	nameToken, err := parser.expectToken(IdentifierTP)
	if err != nil {
		return nil, err
	}
	switch {
	case parser.matchToken(LeftParentThesesTP, DotTP):
		call, err := parser.parseSubroutineCall(nameToken)
		if err != nil {
			return nil, err
		}
		return &ExpressionTerm{Type: SubRoutineCallTermType, Call: call}, nil
	case parser.matchToken(LeftSquareBracketTP):
		return parser.parseArrayIndexExpressionTerm(nameToken)
	}
	variable, err := parser.resolveVariable(nameToken)
	if err != nil {
		return nil, err
	}
	parser.writer.WritePush(variable.Segment(), variable.Index)
	return &ExpressionTerm{Type: VarNameExpressionTermType, Variable: variable}, nil
}

// varName [ expression ]
//
// push base, index, add, pop pointer 1, push that 0
func (parser *Parser) parseArrayIndexExpressionTerm(nameToken *Token) (*ExpressionTerm, error) {
	variable, err := parser.resolveVariable(nameToken)
	if err != nil {
		return nil, err
	}
	_, err = parser.expectToken(LeftSquareBracketTP)
	if err != nil {
		return nil, err
	}
	parser.writer.WritePush(variable.Segment(), variable.Index)
	_, err = parser.parseExpression()
	if err != nil {
		return nil, err
	}
	_, err = parser.expectToken(RightSquareBracketTP)
	if err != nil {
		return nil, err
	}
	parser.writer.WriteArithmetic(AddCommand)
	parser.writer.WritePop(PointerSegment, 1)
	parser.writer.WritePush(ThatSegment, 0)
	return &ExpressionTerm{Type: ArrayIndexExpressionTermType, Variable: variable}, nil
}

// parseSubroutineCall compiles a call whose first identifier is already
// consumed:
// * name(args): method of this class on this, argument count + 1.
// * var.name(args): method on the object in var, argument count + 1.
// * Class.name(args): function or constructor, no receiver.
func (parser *Parser) parseSubroutineCall(nameToken *Token) (*CallAst, error) {
	ctx := parser.ctx
	call := &CallAst{}
	if parser.matchToken(DotTP) {
		parser.tokenizer.Next()
		funcNameToken, err := parser.expectToken(IdentifierTP)
		if err != nil {
			return nil, err
		}
		call.FuncProvider, call.FuncName = nameToken.content, funcNameToken.content
		if desc, ok := ctx.symbols.LookUp(nameToken.content); ok {
			call.Receiver, call.ClassName, call.IsMethod = newVariableAst(desc), desc.variableType, true
			parser.writer.WritePush(call.Receiver.Segment(), call.Receiver.Index)
		} else {
			// Not a variable in scope, so it names a class.
			call.ClassName = nameToken.content
			parser.registerType(nameToken.content)
		}
	} else {
		call.FuncName, call.ClassName, call.IsMethod = nameToken.content, ctx.className, true
		parser.writer.WritePush(PointerSegment, 0)
	}

	_, err := parser.expectToken(LeftParentThesesTP)
	if err != nil {
		return nil, err
	}
	call.ArgCount, err = parser.parseExpressions()
	if err != nil {
		return nil, err
	}
	_, err = parser.expectToken(RightParentThesesTP)
	if err != nil {
		return nil, err
	}
	parser.writer.WriteCall(call.QualifiedName(), call.NArgs())
	return call, nil
}

// unaryOp term
func (parser *Parser) parseNegationExpressionTerm() (*ExpressionTerm, error) {
	token, err := parser.nextToken()
	if err != nil {
		return nil, err
	}
	command, ok := unaryOpCommands[token.tp]
	if !ok {
		return nil, parser.makeError(token, "- or ~")
	}
	_, err = parser.parseExpressionTerm()
	if err != nil {
		return nil, err
	}
	parser.writer.WriteArithmetic(command)
	return &ExpressionTerm{Type: UnaryTermExpressionTermType, UnaryOp: command}, nil
}

// ( expression )
func (parser *Parser) parseSubExpressionTerm() (*ExpressionTerm, error) {
	_, err := parser.expectToken(LeftParentThesesTP)
	if err != nil {
		return nil, err
	}
	_, err = parser.parseExpression()
	if err != nil {
		return nil, err
	}
	_, err = parser.expectToken(RightParentThesesTP)
	if err != nil {
		return nil, err
	}
	return &ExpressionTerm{Type: SubExpressionTermType}, nil
}
