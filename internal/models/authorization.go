package models

import (
	"time"

	"github.com/paylume/checkout/internal/money"
)

// OutcomeKind is the small set of order outcomes an authorization
// attempt can resolve to.
type OutcomeKind string

const (
	ChargeApproved    OutcomeKind = "charge_approved"
	AuthorizeApproved OutcomeKind = "authorize_approved"
	PendingReview     OutcomeKind = "pending_review"
	Declined          OutcomeKind = "declined"
	Failed            OutcomeKind = "failed"
)

// DeclineReason distinguishes soft declines (duplicate submission,
// compliance screening) from hard processor rejections so the
// storefront can show a softer message.
type DeclineReason string

const (
	ReasonNone       DeclineReason = ""
	ReasonHard       DeclineReason = "rejected"
	ReasonDuplicate  DeclineReason = "duplicate"
	ReasonCompliance DeclineReason = "compliance"
)

// AuthorizationOutcome is created once per authorization attempt and
// immutable thereafter. Raw keeps the processor's response body for
// audit.
type AuthorizationOutcome struct {
	Kind          OutcomeKind     `json:"kind"`
	OrderID       string          `json:"orderId"`
	TransactionID string          `json:"transactionId,omitempty"`
	StatusCode    int             `json:"statusCode"`
	StatusText    string          `json:"statusText,omitempty"`
	Reason        DeclineReason   `json:"reason,omitempty"`
	Raw           []byte          `json:"-"`
	Reversal      *ReversalRecord `json:"reversal,omitempty"`
}

// ReversalRecord links a forced minimum-amount authorization (or a
// declined hold) to its compensating reversal. Consumed exactly once.
type ReversalRecord struct {
	ID            string      `json:"id"`
	OrderID       string      `json:"orderId"`
	TransactionID string      `json:"transactionId"`
	Amount        money.Money `json:"amount"`
	Currency      string      `json:"currency"`
	Executed      bool        `json:"executed"`
	CreatedAt     time.Time   `json:"createdAt"`
}
