// Package keygen produces the short random alphanumeric pins used as
// exchange handles. Each symbol is drawn uniformly and independently from
// the configured alphabet using the platform CSPRNG.
package keygen

import (
	"crypto/rand"
	"fmt"
)

// DefaultAlphabet is the symbol set pins are drawn from: digits and
// uppercase letters, 36 symbols. With the default length of 4 that gives
// a collision space of 36^4 ≈ 1.68M keys per namespace.
const DefaultAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultLength is the number of symbols in a generated pin.
const DefaultLength = 4

// Generator produces fixed-length random pins.
type Generator struct {
	alphabet string
	length   int
}

// New creates a Generator. Empty alphabet or non-positive length fall back
// to the defaults.
func New(alphabet string, length int) *Generator {
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{alphabet: alphabet, length: length}
}

// Length returns the pin length this generator produces.
func (g *Generator) Length() int { return g.length }

// Generate returns one random pin. Rejection sampling keeps the draw
// uniform when 256 is not a multiple of the alphabet size.
func (g *Generator) Generate() string {
	n := len(g.alphabet)
	limit := 256 - 256%n
	out := make([]byte, 0, g.length)
	buf := make([]byte, 2*g.length)

	for len(out) < g.length {
		if _, err := rand.Read(buf); err != nil {
			// No usable entropy source — nothing sensible to return.
			panic(fmt.Sprintf("keygen: read random bytes: %v", err))
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, g.alphabet[int(b)%n])
			if len(out) == g.length {
				break
			}
		}
	}
	return string(out)
}
