package joincode

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if len(code) != Length {
			t.Fatalf("Generate() = %q, want length %d", code, Length)
		}
		for _, c := range code {
			if !strings.ContainsRune(Alphabet, c) {
				t.Fatalf("Generate() = %q contains %q outside alphabet", code, c)
			}
		}
		seen[code] = true
	}
	// 100 draws from a 32^6 space should essentially never collide.
	if len(seen) < 95 {
		t.Errorf("generated %d distinct codes out of 100, suspiciously low", len(seen))
	}
}

func TestAlphabetExcludesAmbiguousCharacters(t *testing.T) {
	for _, c := range "0O1I" {
		if strings.ContainsRune(Alphabet, c) {
			t.Errorf("alphabet contains ambiguous character %q", c)
		}
	}
}
