// Package joincode generates the short codes players type to join a league.
package joincode

import (
	"crypto/rand"
	"math/big"
)

// Alphabet omits 0, O, 1, and I so codes survive being read aloud or
// copied by hand.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length is the number of characters in a join code.
const Length = 6

// MaxAttempts bounds the uniqueness retry loop when minting a code.
const MaxAttempts = 10

// Generate returns a random join code drawn from Alphabet.
func Generate() (string, error) {
	buf := make([]byte, Length)
	max := big.NewInt(int64(len(Alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}
