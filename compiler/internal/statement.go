package internal

import (
	"fmt"
)

// parseStatements compiles statements until a token that starts none of
// them, normally the closing brace of the block.
func (parser *Parser) parseStatements() error {
	for {
		token, err := parser.tokenizer.Peek()
		if err != nil {
			return err
		}
		if token == nil {
			return nil
		}
		switch token.tp {
		case LetTP:
			err = parser.parseLetStatement()
		case IfTP:
			err = parser.parseIfStatement()
		case WhileTP:
			err = parser.parseWhileStatement()
		case DoTp:
			err = parser.parseDoStatement()
		case ReturnTP:
			err = parser.parseReturnStatement()
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// { statements }
func (parser *Parser) parseBlock() error {
	_, err := parser.expectToken(LeftBraceTP)
	if err != nil {
		return err
	}
	err = parser.parseStatements()
	if err != nil {
		return err
	}
	_, err = parser.expectToken(RightBraceTP)
	return err
}

// let varName ([ expression ])? = expression ;
//
// For array elements the value is computed before the target address goes to
// pointer 1, so array reads on the right side can't clobber it:
//
// push base, index, add, value, pop temp 0, pop pointer 1, push temp 0, pop that 0
func (parser *Parser) parseLetStatement() error {
	_, err := parser.expectToken(LetTP)
	if err != nil {
		return err
	}
	nameToken, err := parser.expectToken(IdentifierTP)
	if err != nil {
		return err
	}
	variable, err := parser.resolveVariable(nameToken)
	if err != nil {
		return err
	}
	isArray := parser.matchToken(LeftSquareBracketTP)
	if isArray {
		parser.tokenizer.Next()
		parser.writer.WritePush(variable.Segment(), variable.Index)
		_, err = parser.parseExpression()
		if err != nil {
			return err
		}
		_, err = parser.expectToken(RightSquareBracketTP)
		if err != nil {
			return err
		}
		parser.writer.WriteArithmetic(AddCommand)
	}
	_, err = parser.expectToken(EqualTP)
	if err != nil {
		return err
	}
	_, err = parser.parseExpression()
	if err != nil {
		return err
	}
	_, err = parser.expectToken(SemiColonTP)
	if err != nil {
		return err
	}
	if isArray {
		parser.writer.WritePop(TempSegment, 0)
		parser.writer.WritePop(PointerSegment, 1)
		parser.writer.WritePush(TempSegment, 0)
		parser.writer.WritePop(ThatSegment, 0)
		return nil
	}
	parser.writer.WritePop(variable.Segment(), variable.Index)
	return nil
}

// if ( expression ) { statements } (else { statements })?
//
// condition, not, if-goto if_N_false, then-statements,
// [goto if_N_end], label if_N_false, [else-statements, label if_N_end]
func (parser *Parser) parseIfStatement() error {
	_, err := parser.expectToken(IfTP)
	if err != nil {
		return err
	}
	err = parser.parseCondition()
	if err != nil {
		return err
	}
	id := parser.ctx.nextLabelID()
	falseLabel, endLabel := fmt.Sprintf("if_%d_false", id), fmt.Sprintf("if_%d_end", id)
	parser.writer.WriteArithmetic(NotCommand)
	parser.writer.WriteIf(falseLabel)
	err = parser.parseBlock()
	if err != nil {
		return err
	}
	if !parser.matchToken(ElseTP) {
		parser.writer.WriteLabel(falseLabel)
		return nil
	}
	parser.tokenizer.Next()
	parser.writer.WriteGoto(endLabel)
	parser.writer.WriteLabel(falseLabel)
	err = parser.parseBlock()
	if err != nil {
		return err
	}
	parser.writer.WriteLabel(endLabel)
	return nil
}

// while ( expression ) { statements }
//
// label while_N_start, condition, not, if-goto while_N_end, statements,
// goto while_N_start, label while_N_end
func (parser *Parser) parseWhileStatement() error {
	_, err := parser.expectToken(WhileTP)
	if err != nil {
		return err
	}
	id := parser.ctx.nextLabelID()
	startLabel, endLabel := fmt.Sprintf("while_%d_start", id), fmt.Sprintf("while_%d_end", id)
	parser.writer.WriteLabel(startLabel)
	err = parser.parseCondition()
	if err != nil {
		return err
	}
	parser.writer.WriteArithmetic(NotCommand)
	parser.writer.WriteIf(endLabel)
	err = parser.parseBlock()
	if err != nil {
		return err
	}
	parser.writer.WriteGoto(startLabel)
	parser.writer.WriteLabel(endLabel)
	return nil
}

// ( expression )
func (parser *Parser) parseCondition() error {
	_, err := parser.expectToken(LeftParentThesesTP)
	if err != nil {
		return err
	}
	_, err = parser.parseExpression()
	if err != nil {
		return err
	}
	_, err = parser.expectToken(RightParentThesesTP)
	return err
}

// do subroutineCall ;
//
// Every call returns a value, a do statement throws it away.
func (parser *Parser) parseDoStatement() error {
	_, err := parser.expectToken(DoTp)
	if err != nil {
		return err
	}
	nameToken, err := parser.expectToken(IdentifierTP)
	if err != nil {
		return err
	}
	_, err = parser.parseSubroutineCall(nameToken)
	if err != nil {
		return err
	}
	_, err = parser.expectToken(SemiColonTP)
	if err != nil {
		return err
	}
	parser.writer.WritePop(TempSegment, 0)
	return nil
}

// return expression? ;
//
// A bare return still leaves a value, 0, for the caller to pop.
func (parser *Parser) parseReturnStatement() error {
	_, err := parser.expectToken(ReturnTP)
	if err != nil {
		return err
	}
	if parser.matchToken(SemiColonTP) {
		parser.writer.WritePush(ConstantSegment, 0)
	} else {
		_, err = parser.parseExpression()
		if err != nil {
			return err
		}
	}
	_, err = parser.expectToken(SemiColonTP)
	if err != nil {
		return err
	}
	parser.writer.WriteReturn()
	return nil
}
