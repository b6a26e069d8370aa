package internal

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mainSource = `class Main {
	function void main() {
		var Counter c;
		let c = Counter.new();
		do c.inc();
		return;
	}
}`

const counterSource = `class Counter {
	field int n;
	constructor Counter new() { let n = 0; return this; }
	method void inc() { let n = n + 1; return; }
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCompiler_isJackFile(t *testing.T) {
	assert.True(t, isJackFile("xxx.jack", ".jack"))
	assert.True(t, isJackFile("dir/Main.jack", ".jack"))
	assert.False(t, isJackFile("xxx.j1ack1", ".jack"))
	assert.False(t, isJackFile("Main.vm", ".jack"))
	assert.False(t, isJackFile("jack", ".jack"))
}

func TestCompiler_getOutputPath(t *testing.T) {
	assert.Equal(t, "dir/Main.vm", getOutputPath("dir/Main.jack", ".vm"))
	assert.Equal(t, "a.b/Square.vm", getOutputPath("a.b/Square.jack", ".vm"))
}

func TestCompiler_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Main.jack"), mainSource)
	writeFile(t, filepath.Join(dir, "Counter.jack"), counterSource)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	writeFile(t, filepath.Join(dir, "sub", "Nested.jack"), "not compiled")

	logs := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.Logger = log.New(logs, "", 0)
	results, err := Compile(dir, cfg)
	require.NoError(t, err)
	require.Len(t, results, 2)
	// Sorted by file name.
	assert.Equal(t, filepath.Join(dir, "Counter.jack"), results[0].Source)
	assert.Equal(t, "Counter", results[0].Class.ClassName)
	assert.Equal(t, filepath.Join(dir, "Main.vm"), results[1].Output)

	out, err := os.ReadFile(filepath.Join(dir, "Main.vm"))
	require.NoError(t, err)
	assert.Equal(t, "function Main.main 1\n"+
		"call Counter.new 0\n"+
		"pop local 0\n"+
		"push local 0\n"+
		"call Counter.inc 1\n"+
		"pop temp 0\n"+
		"push constant 0\n"+
		"return\n", string(out))
	_, err = os.Stat(filepath.Join(dir, "Counter.vm"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "sub", "Nested.vm"))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, logs.String(), "saved "+filepath.Join(dir, "Main.vm"))
}

func TestCompiler_FailingFileDoesNotStopOthers(t *testing.T) {
	testData := []struct {
		broken   string
		expected ErrorKind
	}{
		{broken: "class Broken { function void f() { let = 1; } }", expected: SyntacticError},
		{broken: "class Broken { function void f() { var int x; let x = 40000; return; } }", expected: LexicalError},
		{broken: "class Broken { function void f() { do $; return; } }", expected: LexicalError},
		{broken: "class Broken { function void f() { let y = 1; return; } }", expected: SemanticError},
	}
	for _, data := range testData {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Main.jack"), mainSource)
		writeFile(t, filepath.Join(dir, "Broken.jack"), data.broken)
		// Left over from an earlier successful build.
		writeFile(t, filepath.Join(dir, "Broken.vm"), "function Broken.f 0\n")

		logs := &bytes.Buffer{}
		cfg := DefaultConfig()
		cfg.Parallelism = 1
		cfg.Logger = log.New(logs, "", 0)
		results, err := Compile(dir, cfg)
		require.Error(t, err, data.broken)
		assert.Contains(t, err.Error(), "Broken.jack")
		var compileErr *CompileError
		require.True(t, errors.As(err, &compileErr))
		assert.Equal(t, data.expected, compileErr.Kind, data.broken)

		require.Len(t, results, 2)
		assert.Error(t, results[0].Err)
		assert.Nil(t, results[0].Class)
		assert.NoError(t, results[1].Err)

		_, err = os.Stat(filepath.Join(dir, "Broken.vm"))
		assert.True(t, os.IsNotExist(err), "stale output must be removed")
		_, err = os.Stat(filepath.Join(dir, "Main.vm"))
		assert.NoError(t, err)

		// The failure is logged by name only, the error text is left to the caller.
		assert.Contains(t, logs.String(), "failed "+filepath.Join(dir, "Broken.jack")+"\n")
		assert.NotContains(t, logs.String(), compileErr.Msg)
		assert.Contains(t, logs.String(), "compiled 1 of 2 files")
	}
}

func TestCompiler_SingleFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "Counter.jack")
	writeFile(t, source, counterSource)
	writeFile(t, filepath.Join(dir, "Main.jack"), mainSource)

	results, err := Compile(source, Config{SourceExt: ".jack", OutputExt: ".vm"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	_, err = os.Stat(filepath.Join(dir, "Counter.vm"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "Main.vm"))
	assert.True(t, os.IsNotExist(err))
}

func TestCompiler_BadPaths(t *testing.T) {
	_, err := Compile(filepath.Join(t.TempDir(), "missing"), DefaultConfig())
	assert.Error(t, err)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "readme.md"), "nothing to compile")
	_, err = Compile(dir, DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .jack files")
}

func TestCompiler_SharedTypeRegistry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Main.jack"), mainSource)
	writeFile(t, filepath.Join(dir, "Counter.jack"), counterSource)
	types := NewTypeRegistry()
	for _, name := range []string{"Main.jack", "Counter.jack"} {
		source, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		_, err = CompileSource(name, string(source), types)
		require.NoError(t, err)
	}
	assert.True(t, types.IsKnown("Main"))
	assert.True(t, types.IsKnown("Counter"))
}

func TestCompiler_FailedDeclarationRegistersNoType(t *testing.T) {
	types := NewTypeRegistry()
	_, err := CompileSource("Main.jack", "class Main { function main() { return; } }", types)
	require.Error(t, err)
	assert.False(t, types.IsKnown("main"))
	assert.True(t, types.IsKnown("Main"))

	_, err = CompileSource("Game.jack", "class Game { field Ball ball; method Score score(Paddle p) { return 0; } }", types)
	require.NoError(t, err)
	assert.Subset(t, types.Names(), []string{"Ball", "Score", "Paddle"})
	assert.NotContains(t, types.Names(), "p")
}
