package authorizer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/paylume/checkout/internal/models"
	"github.com/paylume/checkout/internal/money"
	"github.com/paylume/checkout/internal/services/processor"
)

// OrderRepository is the storefront's order persistence layer. Writes
// are single-row updates owned by the authorizer for the duration of
// the request.
type OrderRepository interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	SetMeta(ctx context.Context, id, key, value string) error
	GetMeta(ctx context.Context, id, key string) (string, error)
	Save(ctx context.Context, order *models.Order) error
}

// ProcessorGateway is the slice of the processor client the authorizer
// needs.
type ProcessorGateway interface {
	CreatePayment(ctx context.Context, request *processor.PaymentRequest) (*processor.PaymentResponse, error)
	ReverseAuthorization(ctx context.Context, transactionID string, amount money.Money, currency string) (*processor.ReversalResponse, error)
	GetTransactionByToken(ctx context.Context, token string) (*processor.TransactionResponse, error)
}

type Settings struct {
	TransactionType models.TransactionType
	// MinAuthNetworks are card networks that cannot be tokenized at
	// zero amount and require a minimum authorization instead.
	MinAuthNetworks []string
	Currency        string
}

// minAuthAmount is the minimum authorization placed for networks that
// reject zero-amount requests. It never reaches the persisted order.
var minAuthAmount = money.FromCents(100)

const (
	metaTransactionID  = "payment_transaction_id"
	metaCaptured       = "payment_captured"
	metaReviewStatus   = "payment_review_status"
	metaInstrumentID   = "payment_instrument_id"
	metaReversalPrefix = "payment_reversal_"
)

type Authorizer struct {
	repo     OrderRepository
	gateway  ProcessorGateway
	settings Settings
	log      zerolog.Logger
}

func NewAuthorizer(repo OrderRepository, gateway ProcessorGateway, settings Settings, log zerolog.Logger) *Authorizer {
	return &Authorizer{
		repo:     repo,
		gateway:  gateway,
		settings: settings,
		log:      log,
	}
}

type AuthorizeInput struct {
	Token       string
	CardNetwork string
	SaveCard    bool
}

// Authorize submits the tokenized payment and maps the processor's
// verdict to an order outcome. Every remote failure is converted to a
// Failed outcome here; nothing propagates to the storefront layer.
// The returned outcome is immutable; post-authorization side effects
// run after it is fixed and cannot change it.
func (a *Authorizer) Authorize(ctx context.Context, order *models.Order, in AuthorizeInput) models.AuthorizationOutcome {
	amount := order.Total
	capture := a.settings.TransactionType == models.TransactionTypeCharge ||
		order.Total.Equal(models.PlaceholderAmount)

	// Zero-amount free-trial order on a network that cannot tokenize
	// at $0: override the request amount to the minimum, force
	// authorize-only, and reverse immediately after approval. The
	// persisted order total stays untouched.
	minAuth := order.Total.IsZero() && a.requiresMinimumAuth(in.CardNetwork)
	if minAuth {
		amount = minAuthAmount
		capture = false
	}

	request := &processor.PaymentRequest{
		Reference: uuid.NewString(),
		Token:     in.Token,
		Capture:   capture,
		SaveCard:  in.SaveCard,
		OrderInformation: processor.OrderInformation{
			AmountDetails: processor.AmountDetails{
				TotalAmount: amount,
				Currency:    a.currencyFor(order),
			},
		},
	}

	response, err := a.gateway.CreatePayment(ctx, request)
	if err != nil {
		a.log.Error().Err(err).Str("order_id", order.ID).Msg("payment submission failed")
		a.markFailed(ctx, order)
		return models.AuthorizationOutcome{Kind: models.Failed, OrderID: order.ID}
	}

	outcome := a.resolve(ctx, order, response, capture, minAuth, amount)

	// Best-effort side effects run after the outcome is decided.
	for _, e := range a.effectsFor(order, in, outcome) {
		if err := e.run(ctx); err != nil {
			a.log.Warn().Err(err).Str("order_id", order.ID).Str("effect", e.name).
				Msg("post-authorization effect failed")
		}
	}
	return outcome
}

func (a *Authorizer) resolve(ctx context.Context, order *models.Order, response *processor.PaymentResponse, capture, minAuth bool, amount money.Money) models.AuthorizationOutcome {
	outcome := models.AuthorizationOutcome{
		OrderID:       order.ID,
		TransactionID: response.ID,
		StatusCode:    response.HTTPStatus,
		StatusText:    response.Status,
		Raw:           response.Raw,
	}

	switch response.Status {
	case processor.StatusAuthorized:
		a.setMeta(ctx, order.ID, metaTransactionID, response.ID)
		if capture {
			outcome.Kind = models.ChargeApproved
			a.setMeta(ctx, order.ID, metaCaptured, "yes")
			a.updateStatus(ctx, order, models.OrderStatusProcessing)
			a.log.Info().Str("order_id", order.ID).Str("transaction_id", response.ID).Msg("payment charged")
			return outcome
		}

		outcome.Kind = models.AuthorizeApproved
		a.updateStatus(ctx, order, models.OrderStatusOnHold)
		a.log.Info().Str("order_id", order.ID).Str("transaction_id", response.ID).Msg("payment authorized")
		if minAuth {
			outcome.Reversal = a.reverseOnce(ctx, order, response.ID, amount)
		}
		return outcome

	case processor.StatusPendingReview:
		outcome.Kind = models.PendingReview
		a.setMeta(ctx, order.ID, metaTransactionID, response.ID)
		a.setMeta(ctx, order.ID, metaReviewStatus, response.Status)
		a.updateStatus(ctx, order, models.OrderStatusReview)
		a.log.Info().Str("order_id", order.ID).Str("transaction_id", response.ID).Msg("payment held for review")
		return outcome

	case processor.StatusDeclined:
		outcome.Kind = models.Declined
		outcome.Reason = declineReason(response)
		a.updateStatus(ctx, order, models.OrderStatusCancelled)
		outcome.Reversal = a.reverseOnce(ctx, order, response.ID, amount)
		a.log.Info().Str("order_id", order.ID).Str("reason", string(outcome.Reason)).Msg("payment declined")
		return outcome

	default:
		outcome.Kind = models.Failed
		a.markFailed(ctx, order)
		a.log.Error().Str("order_id", order.ID).Str("status", response.Status).Msg("unrecognized processor status")
		return outcome
	}
}

// reverseOnce issues a compensating reversal at most once per
// (order, response) pair. A failed reversal is logged and recorded as
// unexecuted; it is not retried.
func (a *Authorizer) reverseOnce(ctx context.Context, order *models.Order, transactionID string, amount money.Money) *models.ReversalRecord {
	if transactionID == "" {
		return nil
	}
	key := metaReversalPrefix + transactionID
	existing, err := a.repo.GetMeta(ctx, order.ID, key)
	if err != nil {
		a.log.Warn().Err(err).Str("order_id", order.ID).Msg("reversal lookup failed, skipping reversal")
		return nil
	}
	if existing != "" {
		a.log.Debug().Str("order_id", order.ID).Str("transaction_id", transactionID).Msg("reversal already issued")
		return nil
	}

	record := &models.ReversalRecord{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		TransactionID: transactionID,
		Amount:        amount,
		Currency:      a.currencyFor(order),
		CreatedAt:     time.Now().UTC(),
	}
	a.setMeta(ctx, order.ID, key, record.ID)

	if _, err := a.gateway.ReverseAuthorization(ctx, transactionID, amount, record.Currency); err != nil {
		a.log.Error().Err(err).Str("order_id", order.ID).Str("transaction_id", transactionID).
			Msg("authorization reversal failed")
		return record
	}
	record.Executed = true
	a.log.Info().Str("order_id", order.ID).Str("transaction_id", transactionID).
		Str("amount", amount.Format()).Msg("authorization reversed")
	return record
}

type effect struct {
	name string
	run  func(ctx context.Context) error
}

func (a *Authorizer) effectsFor(order *models.Order, in AuthorizeInput, outcome models.AuthorizationOutcome) []effect {
	approved := outcome.Kind == models.ChargeApproved || outcome.Kind == models.AuthorizeApproved
	if !approved || !in.SaveCard {
		return nil
	}
	return []effect{{
		name: "save_token",
		run: func(ctx context.Context) error {
			tx, err := a.gateway.GetTransactionByToken(ctx, in.Token)
			if err != nil {
				return err
			}
			return a.repo.SetMeta(ctx, order.ID, metaInstrumentID, tx.InstrumentID)
		},
	}}
}

func (a *Authorizer) requiresMinimumAuth(network string) bool {
	for _, n := range a.settings.MinAuthNetworks {
		if n == network {
			return true
		}
	}
	return false
}

func (a *Authorizer) currencyFor(order *models.Order) string {
	if order.Currency != "" {
		return order.Currency
	}
	return a.settings.Currency
}

func (a *Authorizer) markFailed(ctx context.Context, order *models.Order) {
	a.updateStatus(ctx, order, models.OrderStatusFailed)
}

func (a *Authorizer) updateStatus(ctx context.Context, order *models.Order, status models.OrderStatus) {
	if err := a.repo.UpdateStatus(ctx, order.ID, status); err != nil {
		a.log.Error().Err(err).Str("order_id", order.ID).Str("status", status.String()).
			Msg("order status update failed")
		return
	}
	order.Status = status
}

func (a *Authorizer) setMeta(ctx context.Context, orderID, key, value string) {
	if err := a.repo.SetMeta(ctx, orderID, key, value); err != nil {
		a.log.Error().Err(err).Str("order_id", orderID).Str("key", key).Msg("order meta write failed")
	}
}

func declineReason(response *processor.PaymentResponse) models.DeclineReason {
	if response.ErrorInformation == nil {
		return models.ReasonHard
	}
	switch response.ErrorInformation.Reason {
	case processor.ReasonDuplicateRequest:
		return models.ReasonDuplicate
	case processor.ReasonProfileReject:
		return models.ReasonCompliance
	default:
		return models.ReasonHard
	}
}
