package keygen

import (
	"strings"
	"testing"
)

func TestGenerate_Length(t *testing.T) {
	g := New("", 0)
	for i := 0; i < 50; i++ {
		if pin := g.Generate(); len(pin) != DefaultLength {
			t.Fatalf("Generate: got %q (len %d), want len %d", pin, len(pin), DefaultLength)
		}
	}
}

func TestGenerate_Alphabet(t *testing.T) {
	g := New("", 0)
	for i := 0; i < 200; i++ {
		pin := g.Generate()
		for _, c := range pin {
			if !strings.ContainsRune(DefaultAlphabet, c) {
				t.Fatalf("Generate: %q contains %q, not in alphabet", pin, c)
			}
		}
	}
}

func TestGenerate_CustomAlphabet(t *testing.T) {
	g := New("AB", 8)
	seen := map[rune]bool{}
	for i := 0; i < 200; i++ {
		pin := g.Generate()
		if len(pin) != 8 {
			t.Fatalf("Generate: got len %d, want 8", len(pin))
		}
		for _, c := range pin {
			if c != 'A' && c != 'B' {
				t.Fatalf("Generate: %q contains %q, want only A/B", pin, c)
			}
			seen[c] = true
		}
	}
	// 1600 two-way draws hitting only one symbol would mean a broken RNG.
	if !seen['A'] || !seen['B'] {
		t.Errorf("Generate: symbols seen = %v, want both A and B", seen)
	}
}

func TestGenerate_SingleSymbolAlphabet(t *testing.T) {
	g := New("X", 4)
	if pin := g.Generate(); pin != "XXXX" {
		t.Errorf("Generate: got %q, want XXXX", pin)
	}
}

func TestNew_Defaults(t *testing.T) {
	g := New("", -1)
	if g.Length() != DefaultLength {
		t.Errorf("Length: got %d, want %d", g.Length(), DefaultLength)
	}
}
