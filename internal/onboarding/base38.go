package onboarding

import (
	"fmt"
	"math/big"
	"strings"
)

// alphabet is the 38-symbol set used to render the packed payload integer.
// Symbol order defines digit value: '0' is 0, '.' is 37.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-."

var base38 = big.NewInt(38)

// encodeBase38 renders v in base 38, most significant symbol first.
// Zero renders as "0".
func encodeBase38(v *big.Int) string {
	if v.Sign() == 0 {
		return string(alphabet[0])
	}

	var sb strings.Builder
	n := new(big.Int).Set(v)
	rem := new(big.Int)
	for n.Sign() > 0 {
		n.QuoRem(n, base38, rem)
		sb.WriteByte(alphabet[rem.Int64()])
	}

	// Remainders come out least significant first; reverse.
	s := []byte(sb.String())
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return string(s)
}

// decodeBase38 folds s back into an integer. Any character outside the
// alphabet is fatal.
func decodeBase38(s string) (*big.Int, error) {
	acc := new(big.Int)
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(alphabet, s[i])
		if idx < 0 {
			return nil, &ParseError{Pos: i, Reason: fmt.Sprintf("character %q outside base-38 alphabet", s[i])}
		}
		acc.Mul(acc, base38)
		acc.Add(acc, big.NewInt(int64(idx)))
	}
	return acc, nil
}
