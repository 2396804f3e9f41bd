package models

import "github.com/paylume/checkout/internal/money"

// OrderStatus mirrors the storefront's order lifecycle. Only the
// transitions the authorizer performs are listed here; the storefront
// owns everything else.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusOnHold     OrderStatus = "on-hold"
	OrderStatusReview     OrderStatus = "review"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusFailed     OrderStatus = "failed"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusFailed
}

func (s OrderStatus) String() string {
	return string(s)
}

// TransactionType is the merchant's capture policy.
type TransactionType string

const (
	TransactionTypeCharge        TransactionType = "charge"
	TransactionTypeAuthorizeOnly TransactionType = "authorize"
)

// Order is the slice of the storefront order the authorizer needs.
type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customerId"`
	Total      money.Money `json:"total"`
	Currency   string      `json:"currency"`
	Status     OrderStatus `json:"status"`
}
