package service

import (
	"crypto/rand"
	"io"
	"math/big"
	"strconv"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// CodeGenerator produces one-time codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// RandomCodeGenerator draws six digit codes uniformly from [100000, 999999].
type RandomCodeGenerator struct {
	reader io.Reader
}

func NewRandomCodeGenerator() *RandomCodeGenerator {
	return &RandomCodeGenerator{reader: rand.Reader}
}

func (g *RandomCodeGenerator) Generate() (string, error) {
	n, err := rand.Int(g.reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
