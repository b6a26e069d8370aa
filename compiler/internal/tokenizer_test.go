package internal

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, content string) []*Token {
	t.Helper()
	tokens, err := NewTokenizerFromBytes([]byte(content)).Tokenize()
	require.NoError(t, err, content)
	return tokens
}

func tokenContents(tokens []*Token) []string {
	var contents []string
	for _, token := range tokens {
		contents = append(contents, token.content)
	}
	return contents
}

func TestTokenizer_Kinds(t *testing.T) {
	testData := []struct {
		content      string
		expectedKind TokenKind
		expectedTP   TokenType
	}{
		{content: "class", expectedKind: KeywordTokenKind, expectedTP: ClassTP},
		{content: "return", expectedKind: KeywordTokenKind, expectedTP: ReturnTP},
		{content: "do", expectedKind: KeywordTokenKind, expectedTP: DoTp},
		{content: "{", expectedKind: SymbolTokenKind, expectedTP: LeftBraceTP},
		{content: "~", expectedKind: SymbolTokenKind, expectedTP: BooleanNegativeTP},
		{content: "/", expectedKind: SymbolTokenKind, expectedTP: DivideTP},
		{content: "classes", expectedKind: IdentifierTokenKind, expectedTP: IdentifierTP},
		{content: "_tmp1", expectedKind: IdentifierTokenKind, expectedTP: IdentifierTP},
		{content: "32767", expectedKind: IntegerConstantTokenKind, expectedTP: IntegerTP},
		{content: `"hi there"`, expectedKind: StringConstantTokenKind, expectedTP: StringTP},
	}
	for _, data := range testData {
		tokens := tokenize(t, data.content)
		require.Len(t, tokens, 1, data.content)
		assert.Equal(t, data.expectedKind, tokens[0].Kind(), data.content)
		assert.Equal(t, data.expectedTP, tokens[0].Type(), data.content)
	}
}

func TestTokenizer_Statement(t *testing.T) {
	tokens := tokenize(t, `let a[i] = Foo.bar(x, "s t") + -1;`)
	assert.Equal(t, []string{
		"let", "a", "[", "i", "]", "=", "Foo", ".", "bar", "(", "x", ",", "s t", ")", "+", "-", "1", ";",
	}, tokenContents(tokens))
}

func TestTokenizer_NoSpaceBetweenTokens(t *testing.T) {
	tokens := tokenize(t, "if(x<10){let y=x*2;}")
	assert.Equal(t, []string{"if", "(", "x", "<", "10", ")", "{", "let", "y", "=", "x", "*", "2", ";", "}"},
		tokenContents(tokens))
	// A digit run ends where the letters start.
	tokens = tokenize(t, "12abc")
	assert.Equal(t, []string{"12", "abc"}, tokenContents(tokens))
	assert.Equal(t, IntegerTP, tokens[0].tp)
	assert.Equal(t, IdentifierTP, tokens[1].tp)
}

func TestTokenizer_Comments(t *testing.T) {
	testData := []struct {
		content  string
		expected []string
	}{
		{content: "// only a comment", expected: nil},
		{content: "a // tail\nb", expected: []string{"a", "b"}},
		{content: "a /* inline */ b", expected: []string{"a", "b"}},
		{content: "/** doc\n * more\n */ class", expected: []string{"class"}},
		{content: "a/b", expected: []string{"a", "/", "b"}},
		{content: "a /* x */ / /* y */ b", expected: []string{"a", "/", "b"}},
		{content: "/*/ still comment */ x", expected: []string{"x"}},
		{content: `"// not a comment"`, expected: []string{"// not a comment"}},
	}
	for _, data := range testData {
		assert.Equal(t, data.expected, tokenContents(tokenize(t, data.content)), data.content)
	}
}

func TestTokenizer_StringLiteralVerbatim(t *testing.T) {
	testData := []string{"", "hello", `back\slash \n`, "  spaces  ", "a/*b*/c", "1 + 2"}
	for _, literal := range testData {
		tokens := tokenize(t, `"`+literal+`"`)
		require.Len(t, tokens, 1)
		assert.Equal(t, StringTP, tokens[0].tp)
		assert.Equal(t, literal, tokens[0].content)
	}
}

func TestTokenizer_Positions(t *testing.T) {
	tokens := tokenize(t, "class Main {\n  /* c\n */ field int x;\n}")
	require.Len(t, tokens, 8)
	assert.Equal(t, 1, tokens[0].Line())
	assert.Equal(t, 1, tokens[0].Column())
	assert.Equal(t, 7, tokens[1].Column())
	field := tokens[3]
	assert.Equal(t, "field", field.Content())
	assert.Equal(t, 3, field.Line())
	assert.Equal(t, 5, field.Column())
	assert.Equal(t, 4, tokens[7].Line())
}

func TestTokenizer_Errors(t *testing.T) {
	testData := []struct {
		content string
		msg     string
	}{
		{content: "let x = 32768;", msg: "out of range"},
		{content: "let x = 99999999999999999999;", msg: "out of range"},
		{content: `let s = "abc`, msg: "unterminated string"},
		{content: "let s = \"abc\ndef\";", msg: "unterminated string"},
		{content: "a /* never closed", msg: "unterminated comment"},
		{content: "let x = #;", msg: "invalid character"},
		{content: "let c = 'a';", msg: "invalid character"},
	}
	for _, data := range testData {
		_, err := NewTokenizerFromBytes([]byte(data.content)).Tokenize()
		require.Error(t, err, data.content)
		var compileErr *CompileError
		require.True(t, errors.As(err, &compileErr), data.content)
		assert.Equal(t, LexicalError, compileErr.Kind, data.content)
		assert.Contains(t, compileErr.Msg, data.msg, data.content)
	}
}

func TestTokenizer_TokensBeforeErrorAreDelivered(t *testing.T) {
	tokenizer := NewTokenizerFromBytes([]byte("let x $"))
	for _, expected := range []string{"let", "x"} {
		token, err := tokenizer.Next()
		require.NoError(t, err)
		assert.Equal(t, expected, token.content)
	}
	assert.True(t, tokenizer.HasMore())
	_, err := tokenizer.Next()
	assert.Error(t, err)
	// The error sticks.
	_, err = tokenizer.Peek()
	assert.Error(t, err)
}

func TestTokenizer_Lookahead(t *testing.T) {
	tokenizer, err := NewTokenizer(strings.NewReader("a . b ("))
	require.NoError(t, err)
	second, err := tokenizer.PeekN(2)
	require.NoError(t, err)
	assert.Equal(t, DotTP, second.tp)
	first, err := tokenizer.Peek()
	require.NoError(t, err)
	assert.Equal(t, "a", first.content)
	next, err := tokenizer.Next()
	require.NoError(t, err)
	assert.Same(t, first, next)

	beyond, err := tokenizer.PeekN(4)
	require.NoError(t, err)
	assert.Nil(t, beyond)
	rest, err := tokenizer.Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []string{".", "b", "("}, tokenContents(rest))
	assert.False(t, tokenizer.HasMore())
	last, err := tokenizer.Next()
	assert.NoError(t, err)
	assert.Nil(t, last)
}

func TestTokenizer_Deterministic(t *testing.T) {
	source := `
	/** Square */
	class Square {
		field int x, y; // position
		method void draw() {
			do Screen.drawRectangle(x, y, x + size, y + size);
			return;
		}
	}`
	first := tokenize(t, source)
	second := tokenize(t, source)
	assert.Equal(t, first, second)
}

func TestTokenizer_IntValue(t *testing.T) {
	tokens := tokenize(t, "0 7 32767")
	assert.Equal(t, 0, tokens[0].IntValue())
	assert.Equal(t, 7, tokens[1].IntValue())
	assert.Equal(t, 32767, tokens[2].IntValue())
	assert.Equal(t, `integerConstant "7"`, tokens[1].String())
}
