package amount

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/paylume/checkout/internal/models"
	"github.com/paylume/checkout/internal/money"
)

// MockShipping implements ShippingRateProvider for testing.
type MockShipping struct {
	Rates      []models.ShippingRate
	RatesErr   error
	LastMethod string
	LastErr    error

	CalculateCalls int
}

func (m *MockShipping) CalculateRates(_ context.Context, _ models.ShippingPackage) ([]models.ShippingRate, error) {
	m.CalculateCalls++
	return m.Rates, m.RatesErr
}

func (m *MockShipping) LastUsedMethod(_ context.Context, _ string) (string, error) {
	return m.LastMethod, m.LastErr
}

// MockTax implements TaxRateProvider with real rate arithmetic so the
// rounding behaviour under test is the production one.
type MockTax struct {
	Rates     map[string][]models.TaxRate
	FindErr   error
	FindCalls int
}

func (m *MockTax) FindRates(_ context.Context, _ models.Address, taxClass string) ([]models.TaxRate, error) {
	m.FindCalls++
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	return m.Rates[taxClass], nil
}

func (m *MockTax) CalcTax(amount money.Money, rates []models.TaxRate) money.Money {
	total := money.Zero
	for _, r := range rates {
		rate, err := decimal.NewFromString(r.Rate)
		if err != nil {
			continue
		}
		total = total.Add(amount.MulRate(rate))
	}
	return total
}

// MockCustomers implements CustomerDirectory.
type MockCustomers struct {
	Address models.Address
	Err     error
	Calls   int
}

func (m *MockCustomers) DefaultAddress(_ context.Context, _ string) (models.Address, error) {
	m.Calls++
	return m.Address, m.Err
}
