package models

import (
	"time"

	"github.com/paylume/checkout/internal/money"
)

// Period is the billing period of a subscription.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// SyncMode controls how a synchronized subscription charges the first
// partial period.
type SyncMode string

const (
	SyncNever              SyncMode = "never"
	SyncProrateAll         SyncMode = "prorate_all"
	SyncProrateVirtualOnly SyncMode = "prorate_virtual"
)

// SubscriptionPolicy carries the recurring-billing attributes of a
// line item. A trial always short-circuits amount computation to the
// signup fee (or a placeholder when there is none).
type SubscriptionPolicy struct {
	SignupFee    money.Money `json:"signupFee"`
	TrialLength  int         `json:"trialLength"`
	Period       Period      `json:"period"`
	Interval     int         `json:"interval"`
	SyncEnabled  bool        `json:"syncEnabled"`
	SyncMode     SyncMode    `json:"syncMode"`
	NextSyncDate *time.Time  `json:"nextSyncDate,omitempty"`
}

type LineItem struct {
	ProductID     string              `json:"productId"`
	UnitPrice     money.Money         `json:"unitPrice"`
	Quantity      int                 `json:"quantity"`
	IsVirtual     bool                `json:"isVirtual"`
	IsTaxable     bool                `json:"isTaxable"`
	NeedsShipping bool                `json:"needsShipping"`
	TaxClass      string              `json:"taxClass,omitempty"`
	Subscription  *SubscriptionPolicy `json:"subscription,omitempty"`
}

// Address is used for tax and shipping lookups only; it is never
// persisted by this subsystem.
type Address struct {
	Country  string `json:"country"`
	State    string `json:"state"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
	Street1  string `json:"street1"`
	Street2  string `json:"street2,omitempty"`
}

func (a Address) IsEmpty() bool {
	return a.Country == "" && a.Postcode == ""
}

// ShippingPackage is the input to a shipping rate lookup.
type ShippingPackage struct {
	Items       []LineItem `json:"items"`
	Destination Address    `json:"destination"`
}

type ShippingRate struct {
	ID    string      `json:"id"`
	Cost  money.Money `json:"cost"`
	Label string      `json:"label"`
}

type TaxRate struct {
	ID    string `json:"id"`
	Rate  string `json:"rate"` // fractional rate, e.g. "0.08"
	Label string `json:"label"`
}
