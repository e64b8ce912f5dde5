package payment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// LightningInvoice wraps a pre-built BOLT-11 invoice string. Encoding is
// identity modulo uppercasing (the alphanumeric QR mode alphabet).
type LightningInvoice struct {
	Invoice string
}

// lnPattern matches ln + network + optional amount + optional multiplier +
// the bech32 separator and data part. Case-insensitive; this is a format
// check, not a bech32 decode.
var lnPattern = regexp.MustCompile(`(?i)^ln(bc|tb|tbs|bcrt)([0-9]*)([munp]?)1([a-z0-9]+)$`)

// Multiplier table for the human-readable amount part, in BTC.
var lnMultipliers = map[string]decimal.Decimal{
	"m": decimal.New(1, -3),
	"u": decimal.New(1, -6),
	"n": decimal.New(1, -9),
	"p": decimal.New(1, -12),
}

var satsPerBTC = decimal.New(1, 8)

// ValidLightningInvoice reports whether the invoice matches the structural
// pattern.
func ValidLightningInvoice(inv string) bool {
	return lnPattern.MatchString(inv)
}

// URI uppercases the invoice for efficient QR alphanumeric encoding.
func (l *LightningInvoice) URI() (string, error) {
	if !ValidLightningInvoice(l.Invoice) {
		return "", fmt.Errorf("%w: lightning invoice", ErrInvalidRecord)
	}
	return strings.ToUpper(l.Invoice), nil
}

// AmountSats derives a satoshi estimate from the invoice's human-readable
// amount and multiplier. The estimate is advisory only: it comes from the
// textual prefix, not from decoding the bech32 payload. ok is false when the
// invoice is malformed or carries no amount.
func AmountSats(inv string) (decimal.Decimal, bool) {
	m := lnPattern.FindStringSubmatch(inv)
	if m == nil || m[2] == "" {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(m[2])
	if err != nil {
		return decimal.Zero, false
	}
	if mult := strings.ToLower(m[3]); mult != "" {
		amount = amount.Mul(lnMultipliers[mult])
	}
	return amount.Mul(satsPerBTC), true
}
