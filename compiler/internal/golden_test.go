package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// goldenSuite is one yaml file of testdata.
type goldenSuite struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Tests       []goldenCase `yaml:"tests"`
}

type goldenCase struct {
	Name   string         `yaml:"name"`
	Source string         `yaml:"source"`
	Expect goldenExpected `yaml:"expect"`
}

// goldenExpected holds either the exact vm output or the kind of the error
// and a piece of its message.
type goldenExpected struct {
	VM       string `yaml:"vm,omitempty"`
	Error    string `yaml:"error,omitempty"`
	Contains string `yaml:"contains,omitempty"`
}

func loadGoldenSuites(t *testing.T) []goldenSuite {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	var suites []goldenSuite
	for _, path := range paths {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var suite goldenSuite
		require.NoError(t, yaml.Unmarshal(data, &suite), path)
		suites = append(suites, suite)
	}
	return suites
}

func TestGolden(t *testing.T) {
	for _, suite := range loadGoldenSuites(t) {
		t.Run(suite.Name, func(t *testing.T) {
			for _, test := range suite.Tests {
				t.Run(test.Name, func(t *testing.T) {
					out, err := CompileSource(test.Name+".jack", test.Source, nil)
					if test.Expect.Error == "" {
						require.NoError(t, err)
						assert.Equal(t, test.Expect.VM, out)
						_, err = ReadInstructions(strings.NewReader(out))
						assert.NoError(t, err)
						return
					}
					require.Error(t, err)
					var compileErr *CompileError
					require.True(t, errors.As(err, &compileErr))
					assert.Equal(t, test.Expect.Error, compileErr.Kind.String())
					assert.Contains(t, compileErr.Error(), test.Expect.Contains)
					assert.Empty(t, out)
				})
			}
		})
	}
}
