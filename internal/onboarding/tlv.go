package onboarding

import (
	"fmt"

	"github.com/avolkov/qrforge/internal/tlv"
)

// Context tags for the TLV form of the payload.
const (
	TagSetupPasscode = 0
	TagDiscriminator = 1
	TagVendorID      = 2
	TagProductID     = 3
	TagVersion       = 4
)

// ToTLV emits the payload as self-describing unsigned-integer fields for
// transports that cannot carry the dense bitfield form. The version field is
// included only when requested.
func ToTLV(p Payload, includeVersion bool) []tlv.Field {
	passcode, _ := passcodeValue(p.SetupPasscode)

	fields := []tlv.Field{
		tlv.UintField(TagSetupPasscode, passcode),
		tlv.UintField(TagDiscriminator, uint64(p.Discriminator)),
		tlv.UintField(TagVendorID, uint64(p.VendorID)),
		tlv.UintField(TagProductID, uint64(p.ProductID)),
	}
	if includeVersion {
		fields = append(fields, tlv.UintField(TagVersion, uint64(p.Version)))
	}
	return fields
}

// FromTLV rebuilds a payload from its TLV form. The passcode, discriminator,
// vendor and product fields are required; version defaults to zero. Flow and
// discovery capabilities do not travel in the TLV form.
func FromTLV(fields []tlv.Field) (Payload, error) {
	var p Payload

	required := []struct {
		tag  uint32
		name string
		set  func(uint64)
	}{
		{TagSetupPasscode, "setup passcode", func(v uint64) { p.SetupPasscode = fmt.Sprintf("%08d", v) }},
		{TagDiscriminator, "discriminator", func(v uint64) { p.Discriminator = uint16(v) }},
		{TagVendorID, "vendor ID", func(v uint64) { p.VendorID = uint32(v) }},
		{TagProductID, "product ID", func(v uint64) { p.ProductID = uint32(v) }},
	}

	for _, rq := range required {
		f, ok := tlv.Find(fields, rq.tag)
		if !ok {
			return Payload{}, fmt.Errorf("missing %s field (tag %d): %w", rq.name, rq.tag, ErrMalformedPayload)
		}
		if f.Kind != tlv.UnsignedInt {
			return Payload{}, fmt.Errorf("%s field (tag %d) is not an unsigned integer: %w", rq.name, rq.tag, ErrMalformedPayload)
		}
		rq.set(f.Uint)
	}

	if f, ok := tlv.Find(fields, TagVersion); ok && f.Kind == tlv.UnsignedInt {
		p.Version = uint8(f.Uint)
	}
	return p, nil
}
