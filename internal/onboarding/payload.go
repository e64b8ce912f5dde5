// Package onboarding packs and unpacks device commissioning payloads.
//
// A payload is seven fixed-width fields packed into an 84-bit unsigned
// integer and rendered in base 38 behind a fixed "MT:" marker, the compact
// form embedded in an onboarding QR code. The same fields can also travel as
// self-describing TLV fields, see tlv.go.
package onboarding

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Flow is the commissioning-flow hint carried in the payload.
type Flow uint8

const (
	FlowStandard   Flow = 0
	FlowUserAction Flow = 1
	FlowCustom     Flow = 2
)

func (f Flow) String() string {
	switch f {
	case FlowStandard:
		return "standard"
	case FlowUserAction:
		return "user-action"
	case FlowCustom:
		return "custom"
	default:
		return fmt.Sprintf("flow(%d)", uint8(f))
	}
}

// Payload holds the commissioning fields before packing. VendorID and
// ProductID are deliberately wider than their 16-bit wire slots so that
// Validate can report out-of-range input instead of silently truncating.
type Payload struct {
	Version               uint8  // 3-bit
	VendorID              uint32 // 16-bit on the wire
	ProductID             uint32 // 16-bit on the wire
	Flow                  Flow   // 2-bit
	DiscoveryCapabilities uint8  // 8-bit mask
	Discriminator         uint16 // 12-bit
	SetupPasscode         string // 8 decimal digits, 27-bit value
}

// Marker prefixes every packed payload string.
const Marker = "MT:"

// Field layout, little-field-first: each field is shifted left by the
// cumulative width of all fields placed before it.
const (
	versionBits       = 3
	vendorBits        = 16
	productBits       = 16
	flowBits          = 2
	capabilitiesBits  = 8
	discriminatorBits = 12
	passcodeBits      = 27

	vendorShift        = versionBits
	productShift       = vendorShift + vendorBits
	flowShift          = productShift + productBits
	capabilitiesShift  = flowShift + flowBits
	discriminatorShift = capabilitiesShift + capabilitiesBits
	passcodeShift      = discriminatorShift + discriminatorBits

	totalBits = passcodeShift + passcodeBits // 84
)

// ErrMalformedPayload is matched by errors.Is against every Unpack failure.
var ErrMalformedPayload = errors.New("malformed commissioning payload")

// ParseError reports why Unpack rejected its input. Unpack never returns
// partial fields.
type ParseError struct {
	Pos    int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("commissioning payload at position %d: %s", e.Pos, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrMalformedPayload }

func placeField(acc *big.Int, value uint64, shift, width uint) {
	f := new(big.Int).SetUint64(value)
	mask := new(big.Int).Lsh(big.NewInt(1), width)
	mask.Sub(mask, big.NewInt(1))
	f.And(f, mask)
	f.Lsh(f, shift)
	acc.Or(acc, f)
}

func extractField(acc *big.Int, shift, width uint) uint64 {
	f := new(big.Int).Rsh(acc, shift)
	mask := new(big.Int).Lsh(big.NewInt(1), width)
	mask.Sub(mask, big.NewInt(1))
	f.And(f, mask)
	return f.Uint64()
}

// Pack renders p as the marker-prefixed base-38 string. It assumes p already
// passed Validate: out-of-range fields are masked to their wire width, which
// produces a payload that decodes to different values. Callers must validate
// first.
func Pack(p Payload) string {
	passcode, _ := passcodeValue(p.SetupPasscode)

	acc := new(big.Int)
	placeField(acc, uint64(p.Version), 0, versionBits)
	placeField(acc, uint64(p.VendorID), vendorShift, vendorBits)
	placeField(acc, uint64(p.ProductID), productShift, productBits)
	placeField(acc, uint64(p.Flow), flowShift, flowBits)
	placeField(acc, uint64(p.DiscoveryCapabilities), capabilitiesShift, capabilitiesBits)
	placeField(acc, uint64(p.Discriminator), discriminatorShift, discriminatorBits)
	placeField(acc, passcode, passcodeShift, passcodeBits)

	return Marker + encodeBase38(acc)
}

// Unpack reverses Pack. It fails on a missing marker or any character
// outside the base-38 alphabet; it does not re-validate field ranges, that
// is the caller's job via Validate.
func Unpack(s string) (Payload, error) {
	body, ok := strings.CutPrefix(s, Marker)
	if !ok {
		return Payload{}, &ParseError{Pos: 0, Reason: fmt.Sprintf("missing %q marker", Marker)}
	}
	if body == "" {
		return Payload{}, &ParseError{Pos: len(Marker), Reason: "empty payload body"}
	}

	acc, err := decodeBase38(body)
	if err != nil {
		return Payload{}, err
	}
	if acc.BitLen() > totalBits {
		return Payload{}, &ParseError{Pos: len(Marker), Reason: fmt.Sprintf("payload wider than %d bits", totalBits)}
	}

	return Payload{
		Version:               uint8(extractField(acc, 0, versionBits)),
		VendorID:              uint32(extractField(acc, vendorShift, vendorBits)),
		ProductID:             uint32(extractField(acc, productShift, productBits)),
		Flow:                  Flow(extractField(acc, flowShift, flowBits)),
		DiscoveryCapabilities: uint8(extractField(acc, capabilitiesShift, capabilitiesBits)),
		Discriminator:         uint16(extractField(acc, discriminatorShift, discriminatorBits)),
		SetupPasscode:         fmt.Sprintf("%08d", extractField(acc, passcodeShift, passcodeBits)),
	}, nil
}
