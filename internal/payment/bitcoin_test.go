package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitcoinURIWithAmountAndLabel(t *testing.T) {
	amount := decimal.RequireFromString("0.001")
	r := &BitcoinRequest{
		Address: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		Amount:  &amount,
		Label:   "Donation",
	}

	uri, err := r.URI()
	require.NoError(t, err)
	assert.Equal(t, "bitcoin:1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa?amount=0.001&label=Donation", uri)
}

func TestBitcoinURIAddressOnly(t *testing.T) {
	r := &BitcoinRequest{Address: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"}

	uri, err := r.URI()
	require.NoError(t, err)
	assert.Equal(t, "bitcoin:1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", uri)
}

func TestBitcoinURIEscapesFreeText(t *testing.T) {
	r := &BitcoinRequest{
		Address: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		Label:   "Coffee & cake",
		Message: "thanks!",
	}

	uri, err := r.URI()
	require.NoError(t, err)
	assert.Equal(t, "bitcoin:1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa?label=Coffee+%26+cake&message=thanks%21", uri)
}

func TestBitcoinURIRejectsBadAddress(t *testing.T) {
	_, err := (&BitcoinRequest{Address: "not-an-address"}).URI()
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestValidBitcoinAddress(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want bool
	}{
		{"p2pkh", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", true},
		{"p2sh", "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", true},
		{"bech32 mainnet", "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", true},
		{"testnet legacy", "mipcBbFg9gMiCh81Kj8tqqdgoZub1ZJRfn", true},
		{"testnet p2sh", "2MzQwSSnBHWHqSAqtTVQ6v47XtaisrJa1Vc", true},
		{"testnet bech32", "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx", true},
		{"excluded base58 char", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfN0", false},
		{"too short", "1A1zP1eP", false},
		{"wrong prefix", "4A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", false},
		{"empty", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidBitcoinAddress(tc.addr))
		})
	}
}

func TestParseBitcoinURI(t *testing.T) {
	r, ok := ParseBitcoinURI("bitcoin:1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa?amount=0.001&label=Donation")
	require.True(t, ok)
	assert.Equal(t, "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", r.Address)
	require.NotNil(t, r.Amount)
	assert.Equal(t, "0.001", r.Amount.String())
	assert.Equal(t, "Donation", r.Label)
	assert.Empty(t, r.Message)
}

func TestParseBitcoinURIRejectsStructuralMismatch(t *testing.T) {
	bad := []string{
		"",
		"bitcoin:",
		"bitcoin:tooshort",
		"litecoin:1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		"bitcoin:1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa?amount=abc",
	}

	for _, s := range bad {
		r, ok := ParseBitcoinURI(s)
		assert.False(t, ok, "input %q", s)
		assert.Nil(t, r)
	}
}

func TestBitcoinURIRoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("1.5")
	want := &BitcoinRequest{
		Address: "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq",
		Amount:  &amount,
		Label:   "Store #1",
		Message: "Order 42",
	}

	uri, err := want.URI()
	require.NoError(t, err)

	got, ok := ParseBitcoinURI(uri)
	require.True(t, ok)
	assert.Equal(t, want.Address, got.Address)
	assert.True(t, want.Amount.Equal(*got.Amount))
	assert.Equal(t, want.Label, got.Label)
	assert.Equal(t, want.Message, got.Message)
}
