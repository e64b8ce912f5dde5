package payment

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// BitcoinRequest is a BIP-21 payment request. Amount is in BTC; Label and
// Message are free text, percent-encoded in the URI.
type BitcoinRequest struct {
	Address string
	Amount  *decimal.Decimal
	Label   string
	Message string
}

var (
	// Structural address patterns: legacy P2PKH, P2SH, bech32 mainnet, and
	// the testnet variants. Base58 excludes 0, O, I and l.
	btcP2PKH    = regexp.MustCompile(`^1[a-km-zA-HJ-NP-Z1-9]{25,34}$`)
	btcP2SH     = regexp.MustCompile(`^3[a-km-zA-HJ-NP-Z1-9]{25,34}$`)
	btcBech32   = regexp.MustCompile(`^bc1[ac-hj-np-z02-9]{11,71}$`)
	btcTestnet  = regexp.MustCompile(`^[mn2][a-km-zA-HJ-NP-Z1-9]{25,34}$`)
	btcTestBech = regexp.MustCompile(`^tb1[ac-hj-np-z02-9]{11,71}$`)

	btcURIPattern = regexp.MustCompile(`^bitcoin:([a-zA-Z0-9]+)(?:\?(.*))?$`)
)

// ValidBitcoinAddress reports whether the address matches one of the four
// structural forms. No checksum is verified.
func ValidBitcoinAddress(addr string) bool {
	return btcP2PKH.MatchString(addr) ||
		btcP2SH.MatchString(addr) ||
		btcBech32.MatchString(addr) ||
		btcTestnet.MatchString(addr) ||
		btcTestBech.MatchString(addr)
}

// URI renders the request as a BIP-21 URI. Optional parameters are omitted
// when absent, in the order amount, label, message.
func (r *BitcoinRequest) URI() (string, error) {
	if !ValidBitcoinAddress(r.Address) {
		return "", fmt.Errorf("%w: bitcoin address %q", ErrInvalidRecord, r.Address)
	}

	var sb strings.Builder
	sb.WriteString("bitcoin:")
	sb.WriteString(r.Address)

	var params []string
	if r.Amount != nil {
		params = append(params, "amount="+r.Amount.String())
	}
	if r.Label != "" {
		params = append(params, "label="+url.QueryEscape(r.Label))
	}
	if r.Message != "" {
		params = append(params, "message="+url.QueryEscape(r.Message))
	}
	if len(params) > 0 {
		sb.WriteString("?")
		sb.WriteString(strings.Join(params, "&"))
	}
	return sb.String(), nil
}

// ParseBitcoinURI decomposes a BIP-21 URI. It returns ok=false on any
// structural mismatch and never a partial request.
func ParseBitcoinURI(s string) (*BitcoinRequest, bool) {
	m := btcURIPattern.FindStringSubmatch(s)
	if m == nil || !ValidBitcoinAddress(m[1]) {
		return nil, false
	}

	r := &BitcoinRequest{Address: m[1]}
	if m[2] != "" {
		values, err := url.ParseQuery(m[2])
		if err != nil {
			return nil, false
		}
		if a := values.Get("amount"); a != "" {
			d, err := decimal.NewFromString(a)
			if err != nil {
				return nil, false
			}
			r.Amount = &d
		}
		r.Label = values.Get("label")
		r.Message = values.Get("message")
	}
	return r, true
}
