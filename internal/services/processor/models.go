package processor

import (
	"github.com/paylume/checkout/internal/models"
	"github.com/paylume/checkout/internal/money"
)

// Authorization statuses the vendor reports. Anything else is treated
// as a failure by the caller.
const (
	StatusAuthorized    = "AUTHORIZED"
	StatusPendingReview = "AUTHORIZED_PENDING_REVIEW"
	StatusDeclined      = "DECLINED"
)

// Decline reason codes with a softer user-facing meaning.
const (
	ReasonDuplicateRequest = "DUPLICATE_REQUEST"
	ReasonProfileReject    = "DECISION_PROFILE_REJECT"
)

type AmountDetails struct {
	TotalAmount money.Money `json:"totalAmount"`
	Currency    string      `json:"currency"`
}

type OrderInformation struct {
	AmountDetails AmountDetails   `json:"amountDetails"`
	BillTo        *models.Address `json:"billTo,omitempty"`
}

// CaptureContextRequest is the payload for the signed capture context
// the client-side tokenization widget consumes.
type CaptureContextRequest struct {
	TargetOrigins       []string              `json:"targetOrigins"`
	AllowedCardNetworks []string              `json:"allowedCardNetworks"`
	AllowedPaymentTypes []models.PaymentType  `json:"allowedPaymentTypes"`
	CaptureMandate      models.CaptureMandate `json:"captureMandate"`
	OrderInformation    OrderInformation      `json:"orderInformation"`
}

type CaptureContextResponse struct {
	HTTPStatus int
	// Context is the signed JWT-like string, opaque to this subsystem.
	Context string
}

// PaymentRequest is a tokenized authorization submission. Capture
// false places a hold without capturing funds.
type PaymentRequest struct {
	Reference        string           `json:"clientReferenceInformation"`
	Token            string           `json:"transientTokenJwt"`
	Capture          bool             `json:"capture"`
	SaveCard         bool             `json:"saveCard"`
	OrderInformation OrderInformation `json:"orderInformation"`
}

type ErrorInformation struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type PaymentResponse struct {
	HTTPStatus       int               `json:"-"`
	ID               string            `json:"id"`
	Status           string            `json:"status"`
	ErrorInformation *ErrorInformation `json:"errorInformation,omitempty"`
	Raw              []byte            `json:"-"`
}

type ReversalResponse struct {
	HTTPStatus int    `json:"-"`
	ID         string `json:"id"`
	Status     string `json:"status"`
}

// TransactionResponse is the lookup by transient token, used to fetch
// the permanent payment instrument after an approved authorization.
type TransactionResponse struct {
	HTTPStatus    int    `json:"-"`
	ID            string `json:"id"`
	InstrumentID  string `json:"instrumentId"`
	CustomerToken string `json:"customerToken"`
}
