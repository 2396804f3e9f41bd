package models

import "github.com/paylume/checkout/internal/money"

// PlaceholderAmount is the fixed amount used to validate a card when
// the real charge is deferred (free trial with no signup fee, or a
// never-charge synchronized subscription on a physical product).
var PlaceholderAmount = money.FromCents(1)

// ChargeComputation is the output of a total computation. When
// IsPlaceholder is set the amount only validates the card: shipping
// and tax are always zero and FinalTotal is authoritative as-is.
type ChargeComputation struct {
	BaseAmount     money.Money `json:"baseAmount"`
	SignupFeeTotal money.Money `json:"signupFeeTotal"`
	ProratedAmount money.Money `json:"proratedAmount"`
	ShippingTotal  money.Money `json:"shippingTotal"`
	TaxTotal       money.Money `json:"taxTotal"`
	FinalTotal     money.Money `json:"finalTotal"`
	IsPlaceholder  bool        `json:"isPlaceholder"`
}
