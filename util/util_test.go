package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSymbol(t *testing.T) {
	for _, b := range []byte("{}()[].,;+-*/&|<>=~") {
		assert.True(t, IsSymbol(b), string(b))
	}
	for _, b := range []byte("a_0\"'#$!?:") {
		assert.False(t, IsSymbol(b), string(b))
	}
}

func TestIdentifierClasses(t *testing.T) {
	testData := []struct {
		b     byte
		start bool
		part  bool
	}{
		{b: 'a', start: true, part: true},
		{b: 'Z', start: true, part: true},
		{b: '_', start: true, part: true},
		{b: '7', start: false, part: true},
		{b: '$', start: false, part: false},
		{b: ' ', start: false, part: false},
	}
	for _, data := range testData {
		assert.Equal(t, data.start, IsLetterOrUnderscore(data.b), string(data.b))
		assert.Equal(t, data.part, IsLetterOrUnderscoreOrNumber(data.b), string(data.b))
	}
}

func TestIsSpace(t *testing.T) {
	for _, b := range []byte(" \t\n\r\f\v") {
		assert.True(t, IsSpace(b))
	}
	assert.False(t, IsSpace('x'))
	assert.True(t, IsQuote('"'))
	assert.False(t, IsQuote('\''))
}
