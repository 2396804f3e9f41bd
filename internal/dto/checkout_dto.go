package dto

import "github.com/paylume/checkout/internal/models"

// CaptureContextRequest is the storefront's request for a capture
// context covering the current checkout state.
type CaptureContextRequest struct {
	SessionID  string            `json:"sessionId"`
	Channel    string            `json:"channel"`
	CustomerID string            `json:"customerId,omitempty"`
	Items      []models.LineItem `json:"items"`
	Address    models.Address    `json:"address"`

	OrderID        string `json:"orderId,omitempty"`
	IsAdminPayPage bool   `json:"isAdminPayPage,omitempty"`

	ShippingMethod string `json:"shippingMethod,omitempty"`
	ForceRefresh   bool   `json:"forceRefresh,omitempty"`

	Authenticated        bool `json:"authenticated,omitempty"`
	RequestShipping      bool `json:"requestShipping,omitempty"`
	AddPaymentMethodPage bool `json:"addPaymentMethodPage,omitempty"`
}

type CaptureContextResponse struct {
	Context models.CaptureContext    `json:"context"`
	Total   models.ChargeComputation `json:"total"`
}

type AuthorizeRequest struct {
	OrderID     string `json:"orderId"`
	Token       string `json:"token"`
	CardNetwork string `json:"cardNetwork,omitempty"`
	SaveCard    bool   `json:"saveCard,omitempty"`
}

type AuthorizeResponse struct {
	Outcome       models.OutcomeKind `json:"outcome"`
	TransactionID string             `json:"transactionId,omitempty"`
	OrderStatus   models.OrderStatus `json:"orderStatus"`
	Message       string             `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Processor string `json:"processor"`
}
