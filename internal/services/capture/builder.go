package capture

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/paylume/checkout/internal/models"
	"github.com/paylume/checkout/internal/money"
	"github.com/paylume/checkout/internal/services/processor"
)

// ContextStore is the session-scoped cache of the last issued capture
// context. Entries expire with the session.
type ContextStore interface {
	Get(ctx context.Context, sessionID string) (*StoredContext, error)
	Put(ctx context.Context, sessionID string, sc StoredContext) error
}

// StoredContext pairs an issued context with the total and shipping
// method it was issued for, so an unchanged checkout reuses it.
type StoredContext struct {
	Total          string                `json:"total"`
	ShippingMethod string                `json:"shippingMethod"`
	Context        models.CaptureContext `json:"context"`
}

// ContextGenerator is the slice of the processor client the builder
// needs.
type ContextGenerator interface {
	GenerateCaptureContext(ctx context.Context, request *processor.CaptureContextRequest) (*processor.CaptureContextResponse, error)
}

type Settings struct {
	TargetOrigins       []string
	AllowedCardNetworks []string
	Currency            string
	EnableClickToPay    bool
	EnableGooglePay     bool
	EnableApplePay      bool
	EnablePaze          bool
}

type Builder struct {
	gateway  ContextGenerator
	store    ContextStore
	settings Settings
	log      zerolog.Logger
}

func NewBuilder(gateway ContextGenerator, store ContextStore, settings Settings, log zerolog.Logger) *Builder {
	return &Builder{
		gateway:  gateway,
		store:    store,
		settings: settings,
		log:      log,
	}
}

type BuildInput struct {
	SessionID string
	Channel   models.Channel

	// Computed is the current cart/product-page total. OrderTotal is
	// used instead on the admin pay page.
	Computed       models.ChargeComputation
	OrderTotal     money.Money
	IsAdminPayPage bool

	ShippingMethod string
	ForceRefresh   bool

	Authenticated        bool
	RequestShipping      bool
	AddPaymentMethodPage bool
	// ForcedTokenization means the buyer has no save-card choice
	// because a subscription is in the cart.
	ForcedTokenization bool
	// SyncedCartZeroAuth marks a zero-dollar context whose zero amount
	// comes from a subscription-cart synchronization case.
	SyncedCartZeroAuth bool
}

// Build returns the capture context for the current checkout state,
// reusing the session's last issued context unless the total, the
// shipping method, or the force-refresh flag changed.
func (b *Builder) Build(ctx context.Context, in BuildInput) (models.CaptureContext, error) {
	amount := b.amountFor(in)
	total := amount.Format()

	if !in.ForceRefresh {
		cached, err := b.store.Get(ctx, in.SessionID)
		if err != nil {
			b.log.Warn().Err(err).Str("session_id", in.SessionID).Msg("context store read failed")
		} else if cached != nil && cached.Total == total && cached.ShippingMethod == in.ShippingMethod {
			b.log.Debug().Str("session_id", in.SessionID).Str("total", total).Msg("reusing capture context")
			return cached.Context, nil
		}
	}

	cc := models.CaptureContext{
		TargetOrigins:       b.settings.TargetOrigins,
		AllowedCardNetworks: b.settings.AllowedCardNetworks,
		AllowedPaymentTypes: b.paymentTypesFor(in),
		CaptureMandate:      b.mandateFor(in),
		OrderAmount:         amount,
		Currency:            b.settings.Currency,
	}

	request := &processor.CaptureContextRequest{
		TargetOrigins:       cc.TargetOrigins,
		AllowedCardNetworks: cc.AllowedCardNetworks,
		AllowedPaymentTypes: cc.AllowedPaymentTypes,
		CaptureMandate:      cc.CaptureMandate,
		OrderInformation: processor.OrderInformation{
			AmountDetails: processor.AmountDetails{TotalAmount: amount, Currency: cc.Currency},
		},
	}
	response, err := b.gateway.GenerateCaptureContext(ctx, request)
	if err != nil {
		return models.CaptureContext{}, fmt.Errorf("capture context generation failed: %w", err)
	}
	cc.Raw = response.Context

	stored := StoredContext{Total: total, ShippingMethod: in.ShippingMethod, Context: cc}
	if err := b.store.Put(ctx, in.SessionID, stored); err != nil {
		b.log.Warn().Err(err).Str("session_id", in.SessionID).Msg("context store write failed")
	}

	b.log.Info().Str("session_id", in.SessionID).Str("total", total).
		Str("channel", string(in.Channel)).Msg("issued capture context")
	return cc, nil
}

func (b *Builder) amountFor(in BuildInput) money.Money {
	if in.Channel == models.ChannelZeroDollarAuth {
		return models.PlaceholderAmount
	}
	if in.IsAdminPayPage {
		return in.OrderTotal
	}
	return in.Computed.FinalTotal
}

func (b *Builder) paymentTypesFor(in BuildInput) []models.PaymentType {
	switch in.Channel {
	case models.ChannelExpressPay:
		types := make([]models.PaymentType, 0, 3)
		if b.settings.EnableGooglePay {
			types = append(types, models.PaymentTypeGooglePay)
		}
		if b.settings.EnableApplePay {
			types = append(types, models.PaymentTypeApplePay)
		}
		if b.settings.EnablePaze {
			types = append(types, models.PaymentTypePaze)
		}
		return types

	case models.ChannelZeroDollarAuth:
		types := []models.PaymentType{models.PaymentTypeCardEntry}
		if b.settings.EnableClickToPay && in.SyncedCartZeroAuth {
			types = append(types, models.PaymentTypeClickToPay)
		}
		return types

	default:
		types := []models.PaymentType{models.PaymentTypeCardEntry}
		if b.settings.EnableClickToPay {
			types = append(types, models.PaymentTypeClickToPay)
		}
		return types
	}
}

func (b *Builder) mandateFor(in BuildInput) models.CaptureMandate {
	express := in.Channel == models.ChannelExpressPay
	full := express && in.RequestShipping && !in.Authenticated

	billingType := models.BillingTypePartial
	if full {
		billingType = models.BillingTypeFull
	}
	return models.CaptureMandate{
		BillingType:     billingType,
		RequestEmail:    full,
		RequestPhone:    !in.AddPaymentMethodPage,
		RequestShipping: in.RequestShipping,
		RequestSaveCard: !in.ForcedTokenization,
	}
}
