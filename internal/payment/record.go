// Package payment maps structured payment records to scheme URIs and back.
//
// Three schemes are supported: Bitcoin (BIP-21), Ethereum (EIP-681 style)
// and Lightning invoices. Validation is structural only: address and invoice
// formats are checked against their documented patterns, but no checksum or
// bech32 payload is verified (see the per-scheme notes).
package payment

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord is returned when a Record does not hold exactly one
// populated variant or its variant fails validation.
var ErrInvalidRecord = errors.New("invalid payment record")

// Record is a tagged union over the supported schemes. Exactly one variant
// must be populated; records are built once per request and never mutated.
type Record struct {
	Bitcoin   *BitcoinRequest
	Ethereum  *EthereumRequest
	Lightning *LightningInvoice
}

// URI renders the populated variant as its scheme URI.
func (r Record) URI() (string, error) {
	switch {
	case r.Bitcoin != nil && r.Ethereum == nil && r.Lightning == nil:
		return r.Bitcoin.URI()
	case r.Ethereum != nil && r.Bitcoin == nil && r.Lightning == nil:
		return r.Ethereum.URI()
	case r.Lightning != nil && r.Bitcoin == nil && r.Ethereum == nil:
		return r.Lightning.URI()
	default:
		return "", fmt.Errorf("%w: exactly one variant must be set", ErrInvalidRecord)
	}
}

// Scheme names accepted by ValidateAddress.
const (
	SchemeBitcoin   = "bitcoin"
	SchemeEthereum  = "ethereum"
	SchemeLightning = "lightning"
)

// ValidateAddress checks an address (or invoice, for lightning) against the
// structural rules of the named scheme.
func ValidateAddress(scheme, address string) bool {
	switch scheme {
	case SchemeBitcoin:
		return ValidBitcoinAddress(address)
	case SchemeEthereum:
		return ValidEthereumAddress(address)
	case SchemeLightning:
		return ValidLightningInvoice(address)
	default:
		return false
	}
}
