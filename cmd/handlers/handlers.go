package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/paylume/checkout/internal/dto"
	"github.com/paylume/checkout/internal/models"
	"github.com/paylume/checkout/internal/services/amount"
	"github.com/paylume/checkout/internal/services/authorizer"
	"github.com/paylume/checkout/internal/services/capture"
	"github.com/paylume/checkout/internal/services/health"
)

var (
	Aggregator *amount.Aggregator
	Builder    *capture.Builder
	Authorizer *authorizer.Authorizer
	Orders     authorizer.OrderRepository
	Monitor    *health.Monitor
	Log        zerolog.Logger
)

// reqLog attaches the request ID set by the requestid middleware.
func reqLog(c *fiber.Ctx) zerolog.Logger {
	rid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return Log.With().Str("request_id", rid).Logger()
}

func HandleCaptureContext(c *fiber.Ctx) error {
	var req dto.CaptureContextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "sessionId is required"})
	}
	if !Monitor.Healthy() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "payment processor unavailable"})
	}
	ctx := c.UserContext()
	log := reqLog(c)

	in := capture.BuildInput{
		SessionID:            req.SessionID,
		Channel:              channelFor(req.Channel),
		ShippingMethod:       req.ShippingMethod,
		ForceRefresh:         req.ForceRefresh,
		Authenticated:        req.Authenticated,
		RequestShipping:      req.RequestShipping,
		AddPaymentMethodPage: req.AddPaymentMethodPage,
		ForcedTokenization:   hasSubscription(req.Items),
		SyncedCartZeroAuth:   hasSyncedSubscription(req.Items),
		IsAdminPayPage:       req.IsAdminPayPage,
	}

	var computed models.ChargeComputation
	if req.IsAdminPayPage {
		order, err := Orders.GetOrder(ctx, req.OrderID)
		if err != nil {
			log.Warn().Err(err).Str("order_id", req.OrderID).Msg("admin pay order lookup failed")
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		}
		in.OrderTotal = order.Total
	} else {
		var err error
		computed, err = Aggregator.ComputeTotal(ctx, req.Items, req.Address, req.CustomerID)
		if err != nil {
			log.Error().Err(err).Str("session_id", req.SessionID).Msg("total computation failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not compute order total"})
		}
		in.Computed = computed
	}

	cc, err := Builder.Build(ctx, in)
	if err != nil {
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("capture context build failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "could not prepare payment form"})
	}

	return c.JSON(dto.CaptureContextResponse{Context: cc, Total: computed})
}

func HandleAuthorize(c *fiber.Ctx) error {
	var req dto.AuthorizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.OrderID == "" || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "orderId and token are required"})
	}
	ctx := c.UserContext()
	log := reqLog(c)

	order, err := Orders.GetOrder(ctx, req.OrderID)
	if err != nil {
		log.Warn().Err(err).Str("order_id", req.OrderID).Msg("order lookup failed")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}

	outcome := Authorizer.Authorize(ctx, order, authorizer.AuthorizeInput{
		Token:       req.Token,
		CardNetwork: req.CardNetwork,
		SaveCard:    req.SaveCard,
	})

	return c.JSON(dto.AuthorizeResponse{
		Outcome:       outcome.Kind,
		TransactionID: outcome.TransactionID,
		OrderStatus:   order.Status,
		Message:       userMessage(outcome),
	})
}

func HandleHealth(c *fiber.Ctx) error {
	res := dto.HealthResponse{Status: "ok", Processor: "up"}
	if !Monitor.Healthy() {
		res.Status = "degraded"
		res.Processor = "down"
		return c.Status(fiber.StatusServiceUnavailable).JSON(res)
	}
	return c.JSON(res)
}

func channelFor(channel string) models.Channel {
	switch models.Channel(channel) {
	case models.ChannelExpressPay:
		return models.ChannelExpressPay
	case models.ChannelZeroDollarAuth:
		return models.ChannelZeroDollarAuth
	default:
		return models.ChannelRegularCheckout
	}
}

func hasSubscription(items []models.LineItem) bool {
	for _, it := range items {
		if it.Subscription != nil {
			return true
		}
	}
	return false
}

func hasSyncedSubscription(items []models.LineItem) bool {
	for _, it := range items {
		if it.Subscription != nil && it.Subscription.SyncEnabled {
			return true
		}
	}
	return false
}

// userMessage keeps processor diagnostics out of user-facing text.
func userMessage(outcome models.AuthorizationOutcome) string {
	switch outcome.Kind {
	case models.ChargeApproved, models.AuthorizeApproved:
		return "Payment approved."
	case models.PendingReview:
		return "Your payment was received and is pending review."
	case models.Declined:
		switch outcome.Reason {
		case models.ReasonDuplicate:
			return "This payment appears to be a duplicate. No additional charge was made."
		case models.ReasonCompliance:
			return "Your payment could not be processed at this time."
		default:
			return "Your payment was declined. Please try a different payment method."
		}
	default:
		return "Payment processing failed. Please try again."
	}
}
