// Package vat is the single source of truth for net/VAT/gross derivation.
// Invoice line totals, stock valuation and every report go through it.
//
// Amounts are integer cents. Rounding happens exactly once, here, so the
// identity net + vat == gross holds for every stored row.
package vat

import (
	"errors"
	"math"
)

// Handling-mode strings as they appear on stored rows.
const (
	HandlingDomestic  = "Kotimaan verollinen myynti"
	HandlingExempt    = "Veroton"
	HandlingZeroRated = "Nollaverokannan myynti"
)

// Treatment classifies a row for VAT purposes.
type Treatment string

const (
	Taxable   Treatment = "taxable"
	Exempt    Treatment = "exempt"
	ZeroRated Treatment = "zero_rated"
)

var ErrUnknownHandling = errors.New("unknown_vat_handling")

// Class is the tagged VAT classification of a row: a treatment plus the
// numeric rate, which is meaningful only when taxable. A taxable class
// with rate 0 is valid and distinct from Exempt: report bucketing keys
// on the numeric rate, never on the treatment.
type Class struct {
	Treatment Treatment
	Rate      float64 // percent, e.g. 25.5
}

// Classify normalizes a stored handling-mode string and rate into a Class.
func Classify(handling string, rate float64) (Class, error) {
	switch handling {
	case HandlingDomestic:
		return Class{Treatment: Taxable, Rate: rate}, nil
	case HandlingExempt:
		return Class{Treatment: Exempt}, nil
	case HandlingZeroRated:
		return Class{Treatment: ZeroRated}, nil
	default:
		return Class{}, ErrUnknownHandling
	}
}

// Handling returns the stored string form of the classification.
func (c Class) Handling() string {
	switch c.Treatment {
	case Exempt:
		return HandlingExempt
	case ZeroRated:
		return HandlingZeroRated
	default:
		return HandlingDomestic
	}
}

// BucketRate is the rate a row aggregates under in VAT reports.
// Exempt and zero-rated rows fall in the 0% bucket.
func (c Class) BucketRate() float64 {
	if c.Treatment != Taxable {
		return 0
	}
	return c.Rate
}

// Breakdown is a derived net/VAT/gross triple in cents.
type Breakdown struct {
	Net   int64 `json:"net"`
	VAT   int64 `json:"vat"`
	Gross int64 `json:"gross"`
}

// FromGross derives net and VAT from a gross amount.
//
//	taxable:           net = round(gross / (1 + R/100)), vat = gross - net
//	exempt/zero-rated: net = gross, vat = 0
func FromGross(c Class, gross int64) Breakdown {
	if c.Treatment != Taxable || c.Rate == 0 {
		return Breakdown{Net: gross, VAT: 0, Gross: gross}
	}

	net := int64(math.Round(float64(gross) / (1 + c.Rate/100)))
	return Breakdown{Net: net, VAT: gross - net, Gross: gross}
}

// FromNet derives gross and VAT from a net amount.
func FromNet(c Class, net int64) Breakdown {
	if c.Treatment != Taxable || c.Rate == 0 {
		return Breakdown{Net: net, VAT: 0, Gross: net}
	}

	gross := int64(math.Round(float64(net) * (1 + c.Rate/100)))
	return Breakdown{Net: net, VAT: gross - net, Gross: gross}
}

// Add sums two breakdowns componentwise.
func (b Breakdown) Add(other Breakdown) Breakdown {
	return Breakdown{
		Net:   b.Net + other.Net,
		VAT:   b.VAT + other.VAT,
		Gross: b.Gross + other.Gross,
	}
}
