package vat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	c, err := Classify(HandlingDomestic, 25.5)
	require.NoError(t, err)
	assert.Equal(t, Taxable, c.Treatment)
	assert.Equal(t, 25.5, c.Rate)

	c, err = Classify(HandlingExempt, 24)
	require.NoError(t, err)
	assert.Equal(t, Exempt, c.Treatment)
	assert.Equal(t, float64(0), c.Rate)

	c, err = Classify(HandlingZeroRated, 0)
	require.NoError(t, err)
	assert.Equal(t, ZeroRated, c.Treatment)

	_, err = Classify("Jotain muuta", 24)
	assert.ErrorIs(t, err, ErrUnknownHandling)
}

func TestFromGross_Taxable(t *testing.T) {
	cases := []struct {
		name  string
		rate  float64
		gross int64
		net   int64
	}{
		{"21% of 121.00", 21, 12100, 10000},
		{"25.5% of 125.50", 25.5, 12550, 10000},
		{"14% of 100.00", 14, 10000, 8772},
		{"10% of 0.01", 10, 1, 1},
		{"24% of 0", 24, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := FromGross(Class{Treatment: Taxable, Rate: tc.rate}, tc.gross)
			assert.Equal(t, tc.net, b.Net)
			assert.Equal(t, tc.gross-tc.net, b.VAT)
			assert.Equal(t, tc.gross, b.Net+b.VAT, "net+vat must reconstruct gross")
		})
	}
}

func TestFromGross_ExemptAndZeroRated(t *testing.T) {
	for _, treatment := range []Treatment{Exempt, ZeroRated} {
		b := FromGross(Class{Treatment: treatment}, 12100)
		assert.Equal(t, int64(12100), b.Net)
		assert.Zero(t, b.VAT)
	}
}

func TestFromGross_TaxableZeroRate(t *testing.T) {
	// Rate 0 under taxable handling is valid: no VAT, still classified taxable.
	c := Class{Treatment: Taxable, Rate: 0}
	b := FromGross(c, 5000)
	assert.Equal(t, int64(5000), b.Net)
	assert.Zero(t, b.VAT)
	assert.Equal(t, Taxable, c.Treatment)
	assert.Equal(t, float64(0), c.BucketRate())
}

func TestFromNet_RoundTrip(t *testing.T) {
	c := Class{Treatment: Taxable, Rate: 25.5}
	b := FromNet(c, 10000)
	assert.Equal(t, int64(12550), b.Gross)
	assert.Equal(t, int64(2550), b.VAT)

	back := FromGross(c, b.Gross)
	assert.Equal(t, b.Net, back.Net)
	assert.Equal(t, b.VAT, back.VAT)
}

func TestFromGross_Reconstruction(t *testing.T) {
	// net + vat == gross for every amount, regardless of rounding direction.
	for _, rate := range []float64{10, 14, 21, 24, 25.5} {
		c := Class{Treatment: Taxable, Rate: rate}
		for gross := int64(1); gross < 3000; gross += 7 {
			b := FromGross(c, gross)
			assert.Equal(t, gross, b.Net+b.VAT)
			assert.GreaterOrEqual(t, b.VAT, int64(0))
		}
	}
}

func TestBreakdownAdd(t *testing.T) {
	sum := Breakdown{Net: 100, VAT: 24, Gross: 124}.Add(Breakdown{Net: 50, VAT: 5, Gross: 55})
	assert.Equal(t, Breakdown{Net: 150, VAT: 29, Gross: 179}, sum)
}

func TestHandlingRoundTrip(t *testing.T) {
	for _, handling := range []string{HandlingDomestic, HandlingExempt, HandlingZeroRated} {
		c, err := Classify(handling, 14)
		require.NoError(t, err)
		assert.Equal(t, handling, c.Handling())
	}
}
