package onboarding

import (
	"fmt"
	"strconv"
)

// Result collects everything Validate found. Errors block packing; warnings
// are surfaced but do not.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

const (
	maxVendorID  = 0xFFFF
	maxProductID = 0xFFFF
	maxVersion   = 1<<versionBits - 1
	maxFlow      = uint8(FlowCustom)
	maxDiscrimin = 1<<discriminatorBits - 1
	passcodeLen  = 8
	minPasscode  = 1
	maxPasscode  = 99_999_998
)

// knownVendorIDs is the small registry of recognized vendor identifiers:
// the unassigned placeholder and the certification test range.
var knownVendorIDs = map[uint32]struct{}{
	0x0000: {},
	0xFFF1: {},
	0xFFF2: {},
	0xFFF3: {},
	0xFFF4: {},
}

// Validate runs every check and collects all failures; nothing
// short-circuits. With checkVendorRegistry set, a structurally valid but
// unrecognized vendor ID is reported as a warning, never an error.
func Validate(p Payload, checkVendorRegistry bool) Result {
	var r Result

	if p.Version > maxVersion {
		r.Errors = append(r.Errors, fmt.Sprintf("version %d out of range [0, %d]", p.Version, maxVersion))
	}
	if p.VendorID > maxVendorID {
		r.Errors = append(r.Errors, fmt.Sprintf("vendor ID 0x%X out of range [0, 0x%X]", p.VendorID, maxVendorID))
	} else if checkVendorRegistry {
		if _, ok := knownVendorIDs[p.VendorID]; !ok {
			r.Warnings = append(r.Warnings, fmt.Sprintf("vendor ID 0x%04X is not a known or test-range vendor", p.VendorID))
		}
	}
	if p.ProductID > maxProductID {
		r.Errors = append(r.Errors, fmt.Sprintf("product ID 0x%X out of range [0, 0x%X]", p.ProductID, maxProductID))
	}
	if uint8(p.Flow) > maxFlow {
		r.Errors = append(r.Errors, fmt.Sprintf("commissioning flow %d is not one of standard(0), user-action(1), custom(2)", p.Flow))
	}
	if p.Discriminator > maxDiscrimin {
		r.Errors = append(r.Errors, fmt.Sprintf("discriminator %d out of range [0, %d]", p.Discriminator, maxDiscrimin))
	}

	validatePasscode(p.SetupPasscode, &r)

	r.Valid = len(r.Errors) == 0
	return r
}

func validatePasscode(s string, r *Result) {
	if len(s) != passcodeLen || !allDigits(s) {
		r.Errors = append(r.Errors, "setup passcode must be exactly 8 decimal digits")
		return
	}

	v, _ := strconv.ParseUint(s, 10, 64)
	if v < minPasscode || v > maxPasscode {
		r.Errors = append(r.Errors, fmt.Sprintf("setup passcode %s outside [%08d, %d]", s, minPasscode, maxPasscode))
	}

	// Trivially guessable patterns are flagged, not rejected.
	switch {
	case allEqualDigits(s):
		r.Warnings = append(r.Warnings, "setup passcode uses a single repeated digit")
	case sequentialDigits(s, 1):
		r.Warnings = append(r.Warnings, "setup passcode is a strictly ascending digit sequence")
	case sequentialDigits(s, -1):
		r.Warnings = append(r.Warnings, "setup passcode is a strictly descending digit sequence")
	}
}

// passcodeValue parses the 8-digit passcode string; ok is false when the
// string is not exactly 8 decimal digits.
func passcodeValue(s string) (uint64, bool) {
	if len(s) != passcodeLen || !allDigits(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func allEqualDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func sequentialDigits(s string, step int) bool {
	for i := 1; i < len(s); i++ {
		if int(s[i])-int(s[i-1]) != step {
			return false
		}
	}
	return true
}
