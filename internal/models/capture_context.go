package models

import "github.com/paylume/checkout/internal/money"

// Channel is the checkout surface a capture context is built for.
type Channel string

const (
	ChannelRegularCheckout Channel = "regular"
	ChannelExpressPay      Channel = "express"
	ChannelZeroDollarAuth  Channel = "zero_dollar"
)

type PaymentType string

const (
	PaymentTypeCardEntry  PaymentType = "PANENTRY"
	PaymentTypeClickToPay PaymentType = "CLICKTOPAY"
	PaymentTypeGooglePay  PaymentType = "GOOGLEPAY"
	PaymentTypeApplePay   PaymentType = "APPLEPAY"
	PaymentTypePaze       PaymentType = "PAZE"
)

type BillingType string

const (
	BillingTypeFull    BillingType = "FULL"
	BillingTypePartial BillingType = "PARTIAL"
)

// CaptureMandate describes the billing and contact data the
// tokenization widget must collect from the buyer.
type CaptureMandate struct {
	BillingType     BillingType `json:"billingType"`
	RequestEmail    bool        `json:"requestEmail"`
	RequestPhone    bool        `json:"requestPhone"`
	RequestShipping bool        `json:"requestShipping"`
	RequestSaveCard bool        `json:"requestSaveCard"`
}

// CaptureContext is the payload handed to the client-side tokenization
// widget. It is built fresh per checkout render and never mutated: a
// changed total invalidates and replaces it.
type CaptureContext struct {
	TargetOrigins       []string       `json:"targetOrigins"`
	AllowedCardNetworks []string       `json:"allowedCardNetworks"`
	AllowedPaymentTypes []PaymentType  `json:"allowedPaymentTypes"`
	CaptureMandate      CaptureMandate `json:"captureMandate"`
	OrderAmount         money.Money    `json:"orderAmount"`
	Currency            string         `json:"currency"`

	// Raw is the signed context returned by the processor, opaque to
	// this subsystem beyond the amount and currency embedded in it.
	Raw string `json:"raw"`
}
