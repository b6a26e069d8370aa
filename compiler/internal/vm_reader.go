package internal

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// ReadInstructions parses a vm listing back into instructions. Blank lines
// and // comments are skipped. It is the inverse of VMWriter and is used to
// check that emitted code is well formed.
//
// Syntax:
// Memory access commands: push|pop segment index, where segment is one of
// [argument, local, static, constant, this, that, pointer, temp].
// Program flow commands: label name, if-goto name, goto name.
// Function calling commands: function name n, call name n, return.
func ReadInstructions(rd io.Reader) ([]Instruction, error) {
	reader := &vmReader{}
	bfReader := bufio.NewReader(rd)
	for {
		line, err := bfReader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		reader.lineCounter++
		if parseErr := reader.parseLine(line); parseErr != nil {
			return nil, parseErr
		}
		if err == io.EOF {
			return reader.instructions, nil
		}
	}
}

var vmNameRegexp = regexp.MustCompile(`^[a-zA-Z_.:$][a-zA-Z0-9_.:$]*$`)

type vmReader struct {
	lineCounter  int
	instructions []Instruction
}

// getNextToken returns the next white-space separated word of line and the
// remaining line.
func (reader *vmReader) getNextToken(line []byte) (string, []byte) {
	line = bytes.TrimSpace(line)
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t', '\r', '\f', '\v':
			return string(line[:i]), line[i:]
		}
	}
	return string(line), nil
}

func (reader *vmReader) parseLine(line []byte) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || bytes.HasPrefix(line, []byte("//")) {
		return nil
	}
	word, line := reader.getNextToken(line)
	command := Command(word)
	ins := Instruction{Command: command}
	var err error
	switch {
	case command == PushCommand || command == PopCommand:
		ins.Segment, line, err = reader.parseSegment(line)
		if err != nil {
			return err
		}
		ins.Arg, line, err = reader.parseNumber(line)
		if err == nil && command == PopCommand && ins.Segment == ConstantSegment {
			err = reader.makeError("cannot pop to constant segment")
		}
	case command == LabelCommand || command == GotoCommand || command == IfGotoCommand:
		ins.Name, line, err = reader.parseName(line)
	case command == FunctionCommand || command == CallCommand:
		ins.Name, line, err = reader.parseName(line)
		if err != nil {
			return err
		}
		ins.Arg, line, err = reader.parseNumber(line)
	case command == ReturnCommand || command.isArithmetic():
	default:
		err = reader.makeError(fmt.Sprintf("unknown command %q", word))
	}
	if err != nil {
		return err
	}
	if rest, _ := reader.getNextToken(line); rest != "" && !bytes.HasPrefix(bytes.TrimSpace(line), []byte("//")) {
		return reader.makeError(fmt.Sprintf("unexpected %q after %s", rest, command))
	}
	reader.instructions = append(reader.instructions, ins)
	return nil
}

func (reader *vmReader) parseSegment(line []byte) (Segment, []byte, error) {
	word, line := reader.getNextToken(line)
	segment, ok := segments[word]
	if !ok {
		return "", nil, reader.makeError(fmt.Sprintf("unknown segment %q", word))
	}
	return segment, line, nil
}

func (reader *vmReader) parseNumber(line []byte) (int, []byte, error) {
	word, line := reader.getNextToken(line)
	n, err := strconv.Atoi(word)
	if err != nil || n < 0 {
		return 0, nil, reader.makeError(fmt.Sprintf("expected a non-negative number, got %q", word))
	}
	return n, line, nil
}

func (reader *vmReader) parseName(line []byte) (string, []byte, error) {
	word, line := reader.getNextToken(line)
	if !vmNameRegexp.MatchString(word) {
		return "", nil, reader.makeError(fmt.Sprintf("invalid name %q", word))
	}
	return word, line, nil
}

func (reader *vmReader) makeError(msg string) error {
	return fmt.Errorf("vm reader: line %d: %s", reader.lineCounter, msg)
}
