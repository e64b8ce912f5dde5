package payment

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// EthereumRequest is an EIP-681 style payment request. Value is in wei;
// zero GasLimit/GasPrice/ChainID mean "absent". Data is a hex blob passed
// through opaquely.
type EthereumRequest struct {
	Address  string
	Value    *decimal.Decimal
	GasLimit uint64
	GasPrice uint64
	Data     string
	ChainID  uint64
}

var (
	ethAddrPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{40}$`)
	ethURIPattern  = regexp.MustCompile(`^ethereum:(?:pay-([0-9]+)/)?((?:0x)?[0-9a-fA-F]{40})(?:\?(.*))?$`)
)

// ValidEthereumAddress reports whether addr is 40 hex characters with an
// optional 0x prefix. Mixed-case addresses are accepted as-is; see
// ChecksumValid for the EIP-55 stance.
func ValidEthereumAddress(addr string) bool {
	return ethAddrPattern.MatchString(addr)
}

// ChecksumValid is a documented stub: EIP-55 checksum verification is
// intentionally not implemented, and every structurally valid address passes.
// Treat the result as advisory only.
func ChecksumValid(addr string) bool {
	return ValidEthereumAddress(addr)
}

// URI renders the request. A non-zero ChainID switches to the
// "ethereum:pay-<chainId>/<address>" prefix form; optional parameters follow
// in the order value, gasLimit, gasPrice, data.
func (r *EthereumRequest) URI() (string, error) {
	if !ValidEthereumAddress(r.Address) {
		return "", fmt.Errorf("%w: ethereum address %q", ErrInvalidRecord, r.Address)
	}

	var sb strings.Builder
	sb.WriteString("ethereum:")
	if r.ChainID != 0 {
		fmt.Fprintf(&sb, "pay-%d/", r.ChainID)
	}
	sb.WriteString(r.Address)

	var params []string
	if r.Value != nil {
		params = append(params, "value="+r.Value.String())
	}
	if r.GasLimit != 0 {
		params = append(params, "gasLimit="+strconv.FormatUint(r.GasLimit, 10))
	}
	if r.GasPrice != 0 {
		params = append(params, "gasPrice="+strconv.FormatUint(r.GasPrice, 10))
	}
	if r.Data != "" {
		params = append(params, "data="+url.QueryEscape(r.Data))
	}
	if len(params) > 0 {
		sb.WriteString("?")
		sb.WriteString(strings.Join(params, "&"))
	}
	return sb.String(), nil
}

// ParseEthereumURI decomposes a payment URI. It returns ok=false on any
// structural mismatch and never a partial request.
func ParseEthereumURI(s string) (*EthereumRequest, bool) {
	m := ethURIPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}

	r := &EthereumRequest{Address: m[2]}
	if m[1] != "" {
		id, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return nil, false
		}
		r.ChainID = id
	}
	if m[3] != "" {
		values, err := url.ParseQuery(m[3])
		if err != nil {
			return nil, false
		}
		if v := values.Get("value"); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, false
			}
			r.Value = &d
		}
		for _, p := range []struct {
			key string
			dst *uint64
		}{{"gasLimit", &r.GasLimit}, {"gasPrice", &r.GasPrice}} {
			if v := values.Get(p.key); v != "" {
				n, err := strconv.ParseUint(v, 10, 64)
				if err != nil {
					return nil, false
				}
				*p.dst = n
			}
		}
		r.Data = values.Get("data")
	}
	return r, true
}
