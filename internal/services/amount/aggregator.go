package amount

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/paylume/checkout/internal/models"
	"github.com/paylume/checkout/internal/money"
	"github.com/paylume/checkout/internal/services/proration"
)

// ShippingRateProvider is the storefront's shipping engine.
type ShippingRateProvider interface {
	CalculateRates(ctx context.Context, pkg models.ShippingPackage) ([]models.ShippingRate, error)
	LastUsedMethod(ctx context.Context, customerID string) (string, error)
}

// TaxRateProvider is the storefront's tax engine. CalcTax applies the
// found rates to a taxable base and returns a rounded amount.
type TaxRateProvider interface {
	FindRates(ctx context.Context, addr models.Address, taxClass string) ([]models.TaxRate, error)
	CalcTax(amount money.Money, rates []models.TaxRate) money.Money
}

// CustomerDirectory resolves the stored default address used when the
// checkout address is incomplete.
type CustomerDirectory interface {
	DefaultAddress(ctx context.Context, customerID string) (models.Address, error)
}

type Aggregator struct {
	shipping  ShippingRateProvider
	tax       TaxRateProvider
	customers CustomerDirectory
	log       zerolog.Logger

	now func() time.Time
}

func NewAggregator(shipping ShippingRateProvider, tax TaxRateProvider, customers CustomerDirectory, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		shipping:  shipping,
		tax:       tax,
		customers: customers,
		log:       log,
		now:       time.Now,
	}
}

type itemCharge struct {
	amount      money.Money
	signupFee   money.Money
	prorated    money.Money
	placeholder bool
	// skipShipTax excludes the item from the shipping package and the
	// taxable base (trial and deferred-charge branches).
	skipShipTax bool
}

// ComputeTotal computes the payable amount for a list of line items
// (length 1 for a single product page). Tax is computed against the
// post-shipping base on every path. Unresolvable products contribute
// zero; an incomplete address falls back to the customer's stored
// default.
func (a *Aggregator) ComputeTotal(ctx context.Context, items []models.LineItem, addr models.Address, customerID string) (models.ChargeComputation, error) {
	comp := models.ChargeComputation{
		BaseAmount:     money.Zero,
		SignupFeeTotal: money.Zero,
		ProratedAmount: money.Zero,
		ShippingTotal:  money.Zero,
		TaxTotal:       money.Zero,
		FinalTotal:     money.Zero,
	}

	charges := make([]itemCharge, 0, len(items))
	kept := make([]models.LineItem, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 {
			a.log.Warn().Str("product_id", it.ProductID).Int("quantity", it.Quantity).
				Msg("unresolvable line item, treated as zero amount")
			continue
		}
		c := a.evaluate(it)
		charges = append(charges, c)
		kept = append(kept, it)

		comp.BaseAmount = comp.BaseAmount.Add(c.amount)
		comp.SignupFeeTotal = comp.SignupFeeTotal.Add(c.signupFee)
		comp.ProratedAmount = comp.ProratedAmount.Add(c.prorated)
		if c.placeholder {
			comp.IsPlaceholder = true
		}
	}

	// A placeholder anywhere makes the aggregate amount authoritative
	// as-is: no shipping, no tax, no further rounding pass.
	if comp.IsPlaceholder {
		comp.FinalTotal = comp.BaseAmount
		return comp, nil
	}

	if addr.IsEmpty() && customerID != "" {
		fallback, err := a.customers.DefaultAddress(ctx, customerID)
		if err != nil {
			a.log.Warn().Err(err).Str("customer_id", customerID).
				Msg("default address lookup failed, continuing without address")
		} else {
			addr = fallback
		}
	}

	comp.ShippingTotal = a.shippingTotal(ctx, kept, charges, addr, customerID)
	comp.TaxTotal = a.taxTotal(ctx, kept, charges, addr, comp.ShippingTotal)
	comp.FinalTotal = comp.BaseAmount.Add(comp.ShippingTotal).Add(comp.TaxTotal)
	return comp, nil
}

// evaluate applies the per-item decision table, first match wins.
func (a *Aggregator) evaluate(it models.LineItem) itemCharge {
	pol := it.Subscription
	if pol == nil {
		return itemCharge{amount: it.UnitPrice.MulInt(it.Quantity), signupFee: money.Zero, prorated: money.Zero}
	}

	switch {
	case pol.TrialLength > 0:
		if pol.SignupFee.IsPositive() {
			return itemCharge{amount: pol.SignupFee, signupFee: pol.SignupFee, prorated: money.Zero, skipShipTax: true}
		}
		return itemCharge{amount: models.PlaceholderAmount, signupFee: money.Zero, prorated: money.Zero, placeholder: true, skipShipTax: true}

	case !pol.SyncEnabled:
		full := it.UnitPrice.MulInt(it.Quantity)
		return itemCharge{amount: full.Add(pol.SignupFee), signupFee: pol.SignupFee, prorated: money.Zero}

	case pol.SyncMode == models.SyncNever:
		if pol.SignupFee.IsPositive() {
			return itemCharge{amount: pol.SignupFee, signupFee: pol.SignupFee, prorated: money.Zero}
		}
		if it.IsVirtual {
			return itemCharge{amount: it.UnitPrice.MulInt(it.Quantity), signupFee: money.Zero, prorated: money.Zero}
		}
		return itemCharge{amount: models.PlaceholderAmount, signupFee: money.Zero, prorated: money.Zero, placeholder: true, skipShipTax: true}

	default: // prorate_all or prorate_virtual
		if a.prorationApplies(it, pol) {
			prorated := proration.Prorate(it.UnitPrice, it.Quantity, pol.Period, pol.Interval, a.now(), *pol.NextSyncDate)
			return itemCharge{amount: prorated.Add(pol.SignupFee), signupFee: pol.SignupFee, prorated: prorated}
		}
		full := it.UnitPrice.MulInt(it.Quantity)
		return itemCharge{amount: full.Add(pol.SignupFee), signupFee: pol.SignupFee, prorated: money.Zero}
	}
}

func (a *Aggregator) prorationApplies(it models.LineItem, pol *models.SubscriptionPolicy) bool {
	if pol.NextSyncDate == nil {
		return false
	}
	switch pol.SyncMode {
	case models.SyncProrateAll:
		return true
	case models.SyncProrateVirtualOnly:
		return it.IsVirtual
	default:
		return false
	}
}

// shippingTotal picks the non-zero rate matching the customer's last
// used shipping method when present in the current rate set, otherwise
// the cheapest non-zero rate. Only free rates means free shipping.
func (a *Aggregator) shippingTotal(ctx context.Context, items []models.LineItem, charges []itemCharge, addr models.Address, customerID string) money.Money {
	shippable := make([]models.LineItem, 0, len(items))
	for i, it := range items {
		if charges[i].skipShipTax {
			continue
		}
		if it.NeedsShipping && !it.IsVirtual {
			shippable = append(shippable, it)
		}
	}
	if len(shippable) == 0 {
		return money.Zero
	}

	rates, err := a.shipping.CalculateRates(ctx, models.ShippingPackage{Items: shippable, Destination: addr})
	if err != nil {
		a.log.Warn().Err(err).Msg("shipping rate lookup failed, shipping contributes zero")
		return money.Zero
	}
	if len(rates) == 0 {
		return money.Zero
	}

	lastUsed := ""
	if customerID != "" {
		lastUsed, err = a.shipping.LastUsedMethod(ctx, customerID)
		if err != nil {
			a.log.Debug().Err(err).Msg("last used shipping method lookup failed")
			lastUsed = ""
		}
	}

	var cheapest *models.ShippingRate
	for i := range rates {
		rate := rates[i]
		if !rate.Cost.IsPositive() {
			continue
		}
		if rate.ID == lastUsed {
			return rate.Cost
		}
		if cheapest == nil || rate.Cost.LessThan(cheapest.Cost) {
			cheapest = &rates[i]
		}
	}
	if cheapest == nil {
		return money.Zero
	}
	return cheapest.Cost
}

// taxTotal groups taxable item amounts by tax class, adds shipping to
// the standard class, and sums the per-class tax rounded to cents.
func (a *Aggregator) taxTotal(ctx context.Context, items []models.LineItem, charges []itemCharge, addr models.Address, shipping money.Money) money.Money {
	buckets := make(map[string]money.Money)
	order := make([]string, 0, 2)
	for i, it := range items {
		if charges[i].skipShipTax || !it.IsTaxable {
			continue
		}
		if _, ok := buckets[it.TaxClass]; !ok {
			order = append(order, it.TaxClass)
		}
		buckets[it.TaxClass] = buckets[it.TaxClass].Add(charges[i].amount)
	}
	if len(buckets) == 0 {
		return money.Zero
	}

	// Shipping is taxed with the standard class alongside the goods.
	if shipping.IsPositive() {
		if _, ok := buckets[""]; !ok {
			order = append(order, "")
		}
		buckets[""] = buckets[""].Add(shipping)
	}

	total := money.Zero
	for _, class := range order {
		rates, err := a.tax.FindRates(ctx, addr, class)
		if err != nil {
			a.log.Warn().Err(err).Str("tax_class", class).
				Msg("tax rate lookup failed, class contributes zero tax")
			continue
		}
		if len(rates) == 0 {
			continue
		}
		total = total.Add(a.tax.CalcTax(buckets[class], rates))
	}
	return total
}
