package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAnswer(t *testing.T) {
	tests := []struct {
		name      string
		expected  string
		submitted string
		want      bool
	}{
		{name: "exact match", expected: "482913", submitted: "482913", want: true},
		{name: "submitted padded", expected: "482913", submitted: "  482913\n", want: true},
		{name: "expected padded", expected: "\t482913 ", submitted: "482913", want: true},
		{name: "wrong code", expected: "482913", submitted: "000000", want: false},
		{name: "prefix only", expected: "482913", submitted: "4829", want: false},
		{name: "longer submission", expected: "482913", submitted: "4829130", want: false},
		{name: "empty expected", expected: "", submitted: "482913", want: false},
		{name: "empty submitted", expected: "482913", submitted: "", want: false},
		{name: "both empty", expected: "", submitted: "", want: false},
		{name: "whitespace only", expected: "   ", submitted: "   ", want: false},
		{name: "case sensitive", expected: "abc123", submitted: "ABC123", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyAnswer(tt.expected, tt.submitted))
		})
	}
}

func TestVerifyAnswer_RoundTripWithGeneratedCode(t *testing.T) {
	gen := NewRandomCodeGenerator()
	pads := []string{"", " ", "\t", "\n", "  \r\n"}

	for i := 0; i < 100; i++ {
		code, err := gen.Generate()
		assert.NoError(t, err)
		pad := pads[i%len(pads)]
		assert.True(t, VerifyAnswer(code, pad+code+pad))
	}
}

func TestVerifyAnswerHash(t *testing.T) {
	hash, err := HashAnswer(" 482913 ")
	require.NoError(t, err)
	assert.NotContains(t, hash, "482913")

	assert.True(t, VerifyAnswerHash(hash, "482913"))
	assert.True(t, VerifyAnswerHash(hash, "\t482913\n"))
	assert.False(t, VerifyAnswerHash(hash, "000000"))
	assert.False(t, VerifyAnswerHash(hash, ""))
	assert.False(t, VerifyAnswerHash("", "482913"))

	_, err = HashAnswer("   ")
	assert.Error(t, err)
}
