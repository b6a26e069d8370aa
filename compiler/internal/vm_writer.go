package internal

import (
	"bufio"
	"fmt"
	"io"
)

// There are four kinds of vm commands, they are:
// * Arithmetic commands: add, sub, neg, eq, gt, lt, and, or, not.
// * Memory access commands: push segment index, pop segment index.
// * Program flow commands: label name, goto name, if-goto name.
// * Function calling commands: function name nLocals, call name nArgs, return.

type Command string

const (
	PushCommand     Command = "push"
	PopCommand      Command = "pop"
	AddCommand      Command = "add"
	SubCommand      Command = "sub"
	NegCommand      Command = "neg"
	EqCommand       Command = "eq"
	GtCommand       Command = "gt"
	LtCommand       Command = "lt"
	AndCommand      Command = "and"
	OrCommand       Command = "or"
	NotCommand      Command = "not"
	LabelCommand    Command = "label"
	GotoCommand     Command = "goto"
	IfGotoCommand   Command = "if-goto"
	FunctionCommand Command = "function"
	CallCommand     Command = "call"
	ReturnCommand   Command = "return"
)

func (c Command) isArithmetic() bool {
	switch c {
	case AddCommand, SubCommand, NegCommand, EqCommand, GtCommand, LtCommand, AndCommand, OrCommand, NotCommand:
		return true
	}
	return false
}

type Segment string

const (
	ConstantSegment Segment = "constant"
	ArgumentSegment Segment = "argument"
	LocalSegment    Segment = "local"
	StaticSegment   Segment = "static"
	ThisSegment     Segment = "this"
	ThatSegment     Segment = "that"
	PointerSegment  Segment = "pointer"
	TempSegment     Segment = "temp"
)

var segments = map[string]Segment{
	"constant": ConstantSegment,
	"argument": ArgumentSegment,
	"local":    LocalSegment,
	"static":   StaticSegment,
	"this":     ThisSegment,
	"that":     ThatSegment,
	"pointer":  PointerSegment,
	"temp":     TempSegment,
}

// Instruction is one emitted vm command. Segment is set for push and pop,
// Name for labels, calls and functions, Arg for indexes and counts.
type Instruction struct {
	Command Command
	Segment Segment
	Name    string
	Arg     int
}

func (ins Instruction) String() string {
	switch ins.Command {
	case PushCommand, PopCommand:
		return fmt.Sprintf("%s %s %d", ins.Command, ins.Segment, ins.Arg)
	case LabelCommand, GotoCommand, IfGotoCommand:
		return fmt.Sprintf("%s %s", ins.Command, ins.Name)
	case FunctionCommand, CallCommand:
		return fmt.Sprintf("%s %s %d", ins.Command, ins.Name, ins.Arg)
	}
	return string(ins.Command)
}

// VMWriter renders instructions, one per line, in call order. It doesn't
// validate operands. The first write error sticks and is returned by Flush.
type VMWriter struct {
	output   *bufio.Writer
	err      error
	recorder func(Instruction)
}

func NewVMWriter(w io.Writer) *VMWriter {
	return &VMWriter{output: bufio.NewWriter(w)}
}

// Record registers fn to receive every instruction after it is rendered.
func (w *VMWriter) Record(fn func(Instruction)) {
	w.recorder = fn
}

func (w *VMWriter) WriteInstruction(ins Instruction) {
	if w.recorder != nil {
		w.recorder(ins)
	}
	if w.err != nil {
		return
	}
	_, w.err = w.output.WriteString(ins.String() + "\n")
}

func (w *VMWriter) WritePush(segment Segment, index int) {
	w.WriteInstruction(Instruction{Command: PushCommand, Segment: segment, Arg: index})
}

func (w *VMWriter) WritePop(segment Segment, index int) {
	w.WriteInstruction(Instruction{Command: PopCommand, Segment: segment, Arg: index})
}

func (w *VMWriter) WriteArithmetic(command Command) {
	w.WriteInstruction(Instruction{Command: command})
}

func (w *VMWriter) WriteLabel(label string) {
	w.WriteInstruction(Instruction{Command: LabelCommand, Name: label})
}

func (w *VMWriter) WriteGoto(label string) {
	w.WriteInstruction(Instruction{Command: GotoCommand, Name: label})
}

func (w *VMWriter) WriteIf(label string) {
	w.WriteInstruction(Instruction{Command: IfGotoCommand, Name: label})
}

func (w *VMWriter) WriteCall(name string, nArgs int) {
	w.WriteInstruction(Instruction{Command: CallCommand, Name: name, Arg: nArgs})
}

func (w *VMWriter) WriteFunction(name string, nLocals int) {
	w.WriteInstruction(Instruction{Command: FunctionCommand, Name: name, Arg: nLocals})
}

func (w *VMWriter) WriteReturn() {
	w.WriteInstruction(Instruction{Command: ReturnCommand})
}

func (w *VMWriter) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.output.Flush()
}
