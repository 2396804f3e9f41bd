package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paylume/checkout/internal/models"
	"github.com/paylume/checkout/internal/money"
	"github.com/paylume/checkout/internal/services/processor"
)

// MockGenerator implements ContextGenerator for testing.
type MockGenerator struct {
	Calls   int
	LastReq *processor.CaptureContextRequest
	Context string
	Err     error
}

func (m *MockGenerator) GenerateCaptureContext(_ context.Context, req *processor.CaptureContextRequest) (*processor.CaptureContextResponse, error) {
	m.Calls++
	m.LastReq = req
	if m.Err != nil {
		return nil, m.Err
	}
	return &processor.CaptureContextResponse{HTTPStatus: 200, Context: m.Context}, nil
}

// MemoryStore implements ContextStore in memory.
type MemoryStore struct {
	entries map[string]StoredContext
	GetErr  error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]StoredContext)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*StoredContext, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	sc, ok := s.entries[sessionID]
	if !ok {
		return nil, nil
	}
	return &sc, nil
}

func (s *MemoryStore) Put(_ context.Context, sessionID string, sc StoredContext) error {
	s.entries[sessionID] = sc
	return nil
}

func testSettings() Settings {
	return Settings{
		TargetOrigins:       []string{"https://shop.example.com"},
		AllowedCardNetworks: []string{"VISA", "MASTERCARD"},
		Currency:            "USD",
		EnableClickToPay:    true,
		EnableGooglePay:     true,
		EnableApplePay:      false,
		EnablePaze:          true,
	}
}

func regularInput(total float64) BuildInput {
	return BuildInput{
		SessionID: "sess-1",
		Channel:   models.ChannelRegularCheckout,
		Computed:  models.ChargeComputation{FinalTotal: money.FromFloat(total)},
	}
}

func TestBuild_UnchangedTotalReusesContextWithoutRemoteCall(t *testing.T) {
	gen := &MockGenerator{Context: "signed-1"}
	builder := NewBuilder(gen, NewMemoryStore(), testSettings(), zerolog.Nop())

	first, err := builder.Build(context.Background(), regularInput(19.99))
	require.NoError(t, err)
	second, err := builder.Build(context.Background(), regularInput(19.99))
	require.NoError(t, err)

	assert.Equal(t, 1, gen.Calls)
	assert.Equal(t, first.Raw, second.Raw)
}

func TestBuild_ChangedTotalForcesExactlyOneNewRemoteCall(t *testing.T) {
	gen := &MockGenerator{Context: "signed"}
	builder := NewBuilder(gen, NewMemoryStore(), testSettings(), zerolog.Nop())

	_, err := builder.Build(context.Background(), regularInput(19.99))
	require.NoError(t, err)
	_, err = builder.Build(context.Background(), regularInput(24.99))
	require.NoError(t, err)

	assert.Equal(t, 2, gen.Calls)
}

func TestBuild_ChangedShippingMethodForcesNewContext(t *testing.T) {
	gen := &MockGenerator{Context: "signed"}
	builder := NewBuilder(gen, NewMemoryStore(), testSettings(), zerolog.Nop())

	in := regularInput(19.99)
	in.ShippingMethod = "flat"
	_, err := builder.Build(context.Background(), in)
	require.NoError(t, err)

	in.ShippingMethod = "express"
	_, err = builder.Build(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 2, gen.Calls)
}

func TestBuild_ForceRefreshBypassesCache(t *testing.T) {
	gen := &MockGenerator{Context: "signed"}
	builder := NewBuilder(gen, NewMemoryStore(), testSettings(), zerolog.Nop())

	_, err := builder.Build(context.Background(), regularInput(19.99))
	require.NoError(t, err)

	in := regularInput(19.99)
	in.ForceRefresh = true
	_, err = builder.Build(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 2, gen.Calls)
}

func TestBuild_StoreReadFailureStillIssuesContext(t *testing.T) {
	gen := &MockGenerator{Context: "signed"}
	store := NewMemoryStore()
	store.GetErr = errors.New("redis down")
	builder := NewBuilder(gen, store, testSettings(), zerolog.Nop())

	cc, err := builder.Build(context.Background(), regularInput(19.99))

	require.NoError(t, err)
	assert.Equal(t, "signed", cc.Raw)
}

func TestBuild_RegularCheckoutAllowsCardEntryAndClickToPay(t *testing.T) {
	gen := &MockGenerator{Context: "signed"}
	builder := NewBuilder(gen, NewMemoryStore(), testSettings(), zerolog.Nop())

	cc, err := builder.Build(context.Background(), regularInput(10))

	require.NoError(t, err)
	assert.Equal(t, []models.PaymentType{models.PaymentTypeCardEntry, models.PaymentTypeClickToPay}, cc.AllowedPaymentTypes)
}

func TestBuild_ExpressPayOffersEnabledWalletsOnly(t *testing.T) {
	gen := &MockGenerator{Context: "signed"}
	builder := NewBuilder(gen, NewMemoryStore(), testSettings(), zerolog.Nop())

	in := regularInput(10)
	in.Channel = models.ChannelExpressPay
	cc, err := builder.Build(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, []models.PaymentType{models.PaymentTypeGooglePay, models.PaymentTypePaze}, cc.AllowedPaymentTypes)
	assert.NotContains(t, cc.AllowedPaymentTypes, models.PaymentTypeCardEntry)
}

func TestBuild_ZeroDollarAuthSubstitutesPlaceholderAmount(t *testing.T) {
	gen := &MockGenerator{Context: "signed"}
	builder := NewBuilder(gen, NewMemoryStore(), testSettings(), zerolog.Nop())

	in := regularInput(42.50)
	in.Channel = models.ChannelZeroDollarAuth
	cc, err := builder.Build(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "0.01", cc.OrderAmount.Format())
	assert.Equal(t, "0.01", gen.LastReq.OrderInformation.AmountDetails.TotalAmount.Format())
	// Click-to-Pay only joins a zero-dollar context for sync cases.
	assert.Equal(t, []models.PaymentType{models.PaymentTypeCardEntry}, cc.AllowedPaymentTypes)
}

func TestBuild_ZeroDollarSyncCaseIncludesClickToPay(t *testing.T) {
	gen := &MockGenerator{Context: "signed"}
	builder := NewBuilder(gen, NewMemoryStore(), testSettings(), zerolog.Nop())

	in := regularInput(0)
	in.Channel = models.ChannelZeroDollarAuth
	in.SyncedCartZeroAuth = true
	cc, err := builder.Build(context.Background(), in)

	require.NoError(t, err)
	assert.Contains(t, cc.AllowedPaymentTypes, models.PaymentTypeClickToPay)
}

func TestBuild_AdminPayPageUsesOrderTotal(t *testing.T) {
	gen := &MockGenerator{Context: "signed"}
	builder := NewBuilder(gen, NewMemoryStore(), testSettings(), zerolog.Nop())

	in := BuildInput{
		SessionID:      "sess-admin",
		Channel:        models.ChannelRegularCheckout,
		Computed:       models.ChargeComputation{FinalTotal: money.FromFloat(10)},
		OrderTotal:     money.FromFloat(55.25),
		IsAdminPayPage: true,
	}
	cc, err := builder.Build(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "55.25", cc.OrderAmount.Format())
}

func TestBuild_MandateRules(t *testing.T) {
	gen := &MockGenerator{Context: "signed"}
	builder := NewBuilder(gen, NewMemoryStore(), testSettings(), zerolog.Nop())

	// Anonymous express pay requesting shipping gets full billing and
	// a forced email request.
	in := regularInput(10)
	in.Channel = models.ChannelExpressPay
	in.RequestShipping = true
	cc, err := builder.Build(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.BillingTypeFull, cc.CaptureMandate.BillingType)
	assert.True(t, cc.CaptureMandate.RequestEmail)

	// Authenticated buyers keep the reduced billing type.
	in.Authenticated = true
	in.SessionID = "sess-2"
	cc, err = builder.Build(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.BillingTypePartial, cc.CaptureMandate.BillingType)
	assert.False(t, cc.CaptureMandate.RequestEmail)
}

func TestBuild_AddPaymentMethodPageSuppressesPhone(t *testing.T) {
	gen := &MockGenerator{Context: "signed"}
	builder := NewBuilder(gen, NewMemoryStore(), testSettings(), zerolog.Nop())

	in := regularInput(10)
	in.AddPaymentMethodPage = true
	cc, err := builder.Build(context.Background(), in)

	require.NoError(t, err)
	assert.False(t, cc.CaptureMandate.RequestPhone)
}

func TestBuild_ForcedTokenizationSuppressesSaveCardChoice(t *testing.T) {
	gen := &MockGenerator{Context: "signed"}
	builder := NewBuilder(gen, NewMemoryStore(), testSettings(), zerolog.Nop())

	in := regularInput(10)
	in.ForcedTokenization = true
	cc, err := builder.Build(context.Background(), in)

	require.NoError(t, err)
	assert.False(t, cc.CaptureMandate.RequestSaveCard)
}

func TestBuild_GeneratorFailureSurfacesError(t *testing.T) {
	gen := &MockGenerator{Err: processor.ErrServiceUnavailable}
	builder := NewBuilder(gen, NewMemoryStore(), testSettings(), zerolog.Nop())

	_, err := builder.Build(context.Background(), regularInput(10))

	assert.ErrorIs(t, err, processor.ErrServiceUnavailable)
}
