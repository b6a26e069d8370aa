package internal

// The parser emits vm code while it recognizes the source, there is no syntax
// tree. Each production still returns a small value describing what it
// compiled, so the productions can be tested one by one. These values are
// dropped as soon as the caller has used them.

type ClassAst struct {
	ClassName   string
	NStatics    int
	NFields     int
	Subroutines []*SubroutineAst
}

type SubroutineType int

const (
	ConstructorSubroutineType SubroutineType = iota
	FunctionSubroutineType
	MethodSubroutineType
)

func (t SubroutineType) String() string {
	switch t {
	case ConstructorSubroutineType:
		return "constructor"
	case FunctionSubroutineType:
		return "function"
	case MethodSubroutineType:
		return "method"
	}
	return "unknown"
}

type SubroutineAst struct {
	FuncTP   SubroutineType
	FuncName string
	ReturnTP string // void, int, char, boolean or a class name.
	NParams  int    // declared parameters, without the implicit this.
	NLocals  int
}

// VariableAst is a variable reference resolved through the symbol table.
type VariableAst struct {
	VarName string
	VarType string
	Kind    SymbolKind
	Index   int
}

func newVariableAst(desc *SymbolDesc) *VariableAst {
	return &VariableAst{VarName: desc.name, VarType: desc.variableType, Kind: desc.kind, Index: desc.index}
}

func (v *VariableAst) Segment() Segment {
	return v.Kind.Segment()
}

// CallAst describes a compiled subroutine call. There are three shapes:
// * m(...): a method of the current class called on this.
// * v.m(...): a method called on the object held by variable v.
// * C.f(...): a function or constructor of class C, no receiver.
type CallAst struct {
	// FuncProvider is the text before the dot, empty for unqualified calls.
	FuncProvider string
	FuncName     string
	ClassName    string
	// Receiver is the variable the method is called on, nil for this and for
	// functions.
	Receiver *VariableAst
	IsMethod bool
	ArgCount int // explicit arguments.
}

func (call *CallAst) QualifiedName() string {
	return call.ClassName + "." + call.FuncName
}

// NArgs is the argument count passed to the vm, including the receiver.
func (call *CallAst) NArgs() int {
	if call.IsMethod {
		return call.ArgCount + 1
	}
	return call.ArgCount
}

type ExpressionTermType int

const (
	IntegerConstantTermType ExpressionTermType = iota
	StringConstantTermType
	KeyWordConstantTrueTermType
	KeyWordConstantFalseTermType
	KeyWordConstantNullTermType
	KeyWordConstantThisTermType
	VarNameExpressionTermType
	ArrayIndexExpressionTermType
	SubRoutineCallTermType
	SubExpressionTermType
	UnaryTermExpressionTermType
)

type ExpressionTerm struct {
	Type     ExpressionTermType
	Variable *VariableAst // for var and array terms.
	Call     *CallAst     // for subroutine call terms.
	UnaryOp  Command      // for unary terms.
}

// ExpressionAst lists the terms and operators of an expression in source
// order. Jack has no operator precedence: a + b * c is (a + b) * c.
type ExpressionAst struct {
	Terms []*ExpressionTerm
	Ops   []*OpAst
}

type OpAst struct {
	Name    string
	Command Command
	// Call is the OS function implementing the op when the vm has no command
	// for it.
	Call string
}

var (
	AddOpAst      = OpAst{Name: "+", Command: AddCommand}
	MinusOpAst    = OpAst{Name: "-", Command: SubCommand}
	MultipleOpAst = OpAst{Name: "*", Call: "Math.multiply"}
	DivideOpAst   = OpAst{Name: "/", Call: "Math.divide"}
	AndOpAst      = OpAst{Name: "&", Command: AndCommand}
	OrOpAst       = OpAst{Name: "|", Command: OrCommand}
	LessOpAst     = OpAst{Name: "<", Command: LtCommand}
	GreatOpAst    = OpAst{Name: ">", Command: GtCommand}
	EqualOpAst    = OpAst{Name: "=", Command: EqCommand}
)

var binaryOpAsts = map[TokenType]*OpAst{
	AddTP:      &AddOpAst,
	MinusTP:    &MinusOpAst,
	MultiplyTP: &MultipleOpAst,
	DivideTP:   &DivideOpAst,
	AndTP:      &AndOpAst,
	OrTP:       &OrOpAst,
	LessTP:     &LessOpAst,
	GreaterTP:  &GreatOpAst,
	EqualTP:    &EqualOpAst,
}

var unaryOpCommands = map[TokenType]Command{
	MinusTP:           NegCommand,
	BooleanNegativeTP: NotCommand,
}

func (op OpAst) String() string {
	return op.Name
}
