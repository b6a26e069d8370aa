package internal

import (
	"fmt"
)

type ErrorKind int

const (
	LexicalError ErrorKind = iota
	SyntacticError
	SemanticError
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "lexical"
	case SyntacticError:
		return "syntax"
	case SemanticError:
		return "semantic"
	}
	return "unknown"
}

// CompileError is the single error reported for a file. Compilation stops at
// the first one.
type CompileError struct {
	Kind   ErrorKind
	File   string
	Line   int
	Column int
	Near   string
	Msg    string
}

func (e *CompileError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	if e.Near == "" {
		return fmt.Sprintf("%s:%d:%d: %s error: %s", file, e.Line, e.Column, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s error near %q: %s", file, e.Line, e.Column, e.Kind, e.Near, e.Msg)
}

func makeSemanticError(token *Token, format string, msg ...interface{}) error {
	err := &CompileError{Kind: SemanticError, Msg: fmt.Sprintf(format, msg...)}
	if token != nil {
		err.Line, err.Column, err.Near = token.line, token.column, token.content
	}
	return err
}
