package service

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCodeGenerator_Range(t *testing.T) {
	gen := NewRandomCodeGenerator()
	seen := make(map[string]struct{})

	for i := 0; i < 10000; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)

		for _, c := range code {
			require.True(t, c >= '0' && c <= '9', "non-digit in %q", code)
		}

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, codeMin)
		require.LessOrEqual(t, n, codeMax)

		seen[code] = struct{}{}
	}

	// 10k draws from 900k values collide rarely; a broken source collapses.
	assert.Greater(t, len(seen), 9000)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy unavailable")
}

func TestRandomCodeGenerator_ReaderError(t *testing.T) {
	gen := &RandomCodeGenerator{reader: failingReader{}}
	_, err := gen.Generate()
	assert.Error(t, err)
}
