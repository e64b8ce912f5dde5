package batch

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avolkov/qrforge/internal/onboarding"
	"github.com/avolkov/qrforge/internal/payment"
	"github.com/avolkov/qrforge/internal/render"
)

// Format selects what a Completed item's artifact holds.
type Format int

const (
	FormatText Format = iota // the encoded URI/payload string, verbatim
	FormatPNG                // a rendered QR image, base64
)

// RenderFunc is the external renderer collaborator. The pipeline forwards
// the already-encoded text and options opaquely and never inspects pixels.
type RenderFunc func(text string, o render.Options) ([]byte, error)

// Encoder turns one item's raw input into its artifact. It is stateless and
// safe for concurrent use by the pipeline workers.
type Encoder struct {
	Format  Format
	Render  RenderFunc     // required for FormatPNG
	Options render.Options // passed through to Render
}

// Encode produces the artifact for one item: the scheme-specific encode
// first, then an optional render pass. All failures come back as error
// values; nothing escapes to abort sibling items.
func (e *Encoder) Encode(it *Item) (artifact string, binary bool, err error) {
	text, err := e.encodeText(it)
	if err != nil {
		return "", false, err
	}

	if e.Format == FormatText {
		return text, false, nil
	}

	if e.Render == nil {
		return "", false, fmt.Errorf("no renderer configured for image output")
	}
	img, err := e.Render(text, e.Options)
	if err != nil {
		return "", false, fmt.Errorf("rendering: %w", err)
	}
	return base64.StdEncoding.EncodeToString(img), true, nil
}

func (e *Encoder) encodeText(it *Item) (string, error) {
	data := strings.TrimSpace(it.RawInput)
	if data == "" {
		return "", fmt.Errorf("row has no data")
	}

	switch it.Kind {
	case KindBitcoin:
		return e.bitcoinText(data, it.Label)
	case KindEthereum:
		return e.ethereumText(data)
	case KindLightning:
		return (&payment.LightningInvoice{Invoice: data}).URI()
	case KindCommissioning:
		return commissioningText(data)
	case KindText, KindURL:
		return it.RawInput, nil
	default:
		return "", fmt.Errorf("unknown record type")
	}
}

// bitcoinText accepts either a bare address (the row label doubles as the
// BIP-21 label) or a complete bitcoin: URI, which is parsed and re-encoded
// so malformed input fails here rather than producing a broken code.
func (e *Encoder) bitcoinText(data, label string) (string, error) {
	if strings.HasPrefix(data, "bitcoin:") {
		req, ok := payment.ParseBitcoinURI(data)
		if !ok {
			return "", fmt.Errorf("malformed bitcoin URI")
		}
		return req.URI()
	}
	return (&payment.BitcoinRequest{Address: data, Label: label}).URI()
}

func (e *Encoder) ethereumText(data string) (string, error) {
	if strings.HasPrefix(data, "ethereum:") {
		req, ok := payment.ParseEthereumURI(data)
		if !ok {
			return "", fmt.Errorf("malformed ethereum URI")
		}
		return req.URI()
	}
	return (&payment.EthereumRequest{Address: data}).URI()
}

// commissioningPayloadJSON is the row-data form of an onboarding payload.
type commissioningPayloadJSON struct {
	Version               uint8  `json:"version"`
	VendorID              uint32 `json:"vendorId"`
	ProductID             uint32 `json:"productId"`
	CommissioningFlow     uint8  `json:"commissioningFlow"`
	DiscoveryCapabilities uint8  `json:"discoveryCapabilities"`
	Discriminator         uint16 `json:"discriminator"`
	SetupPasscode         string `json:"setupPasscode"`
}

func commissioningText(data string) (string, error) {
	// Already-packed payloads pass through after a syntax check.
	if strings.HasPrefix(data, onboarding.Marker) {
		if _, err := onboarding.Unpack(data); err != nil {
			return "", err
		}
		return data, nil
	}

	var in commissioningPayloadJSON
	if err := json.Unmarshal([]byte(data), &in); err != nil {
		return "", fmt.Errorf("commissioning payload is neither %q form nor JSON: %w", onboarding.Marker, err)
	}

	p := onboarding.Payload{
		Version:               in.Version,
		VendorID:              in.VendorID,
		ProductID:             in.ProductID,
		Flow:                  onboarding.Flow(in.CommissioningFlow),
		DiscoveryCapabilities: in.DiscoveryCapabilities,
		Discriminator:         in.Discriminator,
		SetupPasscode:         in.SetupPasscode,
	}
	if r := onboarding.Validate(p, false); !r.Valid {
		return "", fmt.Errorf("invalid commissioning payload: %s", strings.Join(r.Errors, "; "))
	}
	return onboarding.Pack(p), nil
}
