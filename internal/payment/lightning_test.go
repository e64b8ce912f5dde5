package payment

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lnInvoice = "lnbc2500u1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqypqdq5xysxxatsyp3k7enxv4js"

func TestValidLightningInvoice(t *testing.T) {
	tests := []struct {
		name string
		inv  string
		want bool
	}{
		{"mainnet with amount", lnInvoice, true},
		{"uppercase", strings.ToUpper(lnInvoice), true},
		{"no amount", "lnbc1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqf", true},
		{"testnet", "lntb20m1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqf", true},
		{"signet", "lntbs10n1pvjluezpp5qqqsyqcyq5rqwzqf", true},
		{"regtest", "lnbcrt500p1pvjluezpp5qqqsyqcyq5rqwzqf", true},
		{"wrong prefix", "xxbc2500u1pvjluez", false},
		{"unknown network", "lnxy2500u1pvjluez", false},
		{"missing separator", "lnbc2500u", false},
		{"empty", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidLightningInvoice(tc.inv))
		})
	}
}

func TestLightningURIUppercases(t *testing.T) {
	uri, err := (&LightningInvoice{Invoice: lnInvoice}).URI()
	require.NoError(t, err)
	assert.Equal(t, strings.ToUpper(lnInvoice), uri)
}

func TestLightningURIRejectsMalformed(t *testing.T) {
	_, err := (&LightningInvoice{Invoice: "not-an-invoice"}).URI()
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestAmountSats(t *testing.T) {
	tests := []struct {
		name string
		inv  string
		sats string
		ok   bool
	}{
		// 2500u = 2500e-6 BTC = 250000 sats
		{"micro", lnInvoice, "250000", true},
		// 20m = 0.02 BTC = 2000000 sats
		{"milli", "lntb20m1pvjluezpp5qqqsyqcyq5rqwzqf", "2000000", true},
		// 10n = 1e-8 * 10/10 BTC = 1 sat
		{"nano", "lnbc10n1pvjluezpp5qqqsyqcyq5rqwzqf", "1", true},
		// whole-BTC amount without multiplier
		{"no multiplier", "lnbc21pvjluezpp5qqqsyqcyq5rqwzqf", "200000000", true},
		{"no amount", "lnbc1pvjluezpp5qqqsyqcyq5rqwzqf", "", false},
		{"malformed", "garbage", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sats, ok := AmountSats(tc.inv)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				want := decimal.RequireFromString(tc.sats)
				assert.True(t, want.Equal(sats), "want %s sats, got %s", tc.sats, sats)
			}
		})
	}
}

func TestRecordDispatch(t *testing.T) {
	btc := Record{Bitcoin: &BitcoinRequest{Address: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"}}
	uri, err := btc.URI()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "bitcoin:"))

	ln := Record{Lightning: &LightningInvoice{Invoice: lnInvoice}}
	uri, err = ln.URI()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "LNBC"))

	var empty Record
	_, err = empty.URI()
	assert.ErrorIs(t, err, ErrInvalidRecord)

	both := Record{
		Bitcoin:  &BitcoinRequest{Address: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"},
		Ethereum: &EthereumRequest{Address: ethAddr},
	}
	_, err = both.URI()
	assert.ErrorIs(t, err, ErrInvalidRecord)
}
