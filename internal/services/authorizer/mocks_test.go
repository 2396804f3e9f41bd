package authorizer

import (
	"context"
	"errors"

	"github.com/paylume/checkout/internal/models"
	"github.com/paylume/checkout/internal/money"
	"github.com/paylume/checkout/internal/services/processor"
)

// MockRepo implements OrderRepository for testing.
type MockRepo struct {
	Orders   map[string]*models.Order
	Meta     map[string]string
	Statuses []models.OrderStatus

	MetaErr   error
	StatusErr error
}

func NewMockRepo() *MockRepo {
	return &MockRepo{
		Orders: make(map[string]*models.Order),
		Meta:   make(map[string]string),
	}
}

func (m *MockRepo) GetOrder(_ context.Context, id string) (*models.Order, error) {
	order, ok := m.Orders[id]
	if !ok {
		return nil, errors.New("order not found")
	}
	return order, nil
}

func (m *MockRepo) UpdateStatus(_ context.Context, _ string, status models.OrderStatus) error {
	if m.StatusErr != nil {
		return m.StatusErr
	}
	m.Statuses = append(m.Statuses, status)
	return nil
}

func (m *MockRepo) SetMeta(_ context.Context, id, key, value string) error {
	if m.MetaErr != nil {
		return m.MetaErr
	}
	m.Meta[id+"/"+key] = value
	return nil
}

func (m *MockRepo) GetMeta(_ context.Context, id, key string) (string, error) {
	return m.Meta[id+"/"+key], nil
}

func (m *MockRepo) Save(_ context.Context, order *models.Order) error {
	m.Orders[order.ID] = order
	return nil
}

func (m *MockRepo) LastStatus() models.OrderStatus {
	if len(m.Statuses) == 0 {
		return ""
	}
	return m.Statuses[len(m.Statuses)-1]
}

// MockGateway implements ProcessorGateway for testing.
type MockGateway struct {
	PaymentResponse *processor.PaymentResponse
	PaymentErr      error
	LastPayment     *processor.PaymentRequest

	ReversalCalls  int
	ReversalAmount money.Money
	ReversalErr    error

	Transaction    *processor.TransactionResponse
	TransactionErr error
	LookupCalls    int
}

func (m *MockGateway) CreatePayment(_ context.Context, request *processor.PaymentRequest) (*processor.PaymentResponse, error) {
	m.LastPayment = request
	if m.PaymentErr != nil {
		return nil, m.PaymentErr
	}
	return m.PaymentResponse, nil
}

func (m *MockGateway) ReverseAuthorization(_ context.Context, _ string, amount money.Money, _ string) (*processor.ReversalResponse, error) {
	m.ReversalCalls++
	m.ReversalAmount = amount
	if m.ReversalErr != nil {
		return nil, m.ReversalErr
	}
	return &processor.ReversalResponse{ID: "rev-1", Status: "REVERSED"}, nil
}

func (m *MockGateway) GetTransactionByToken(_ context.Context, _ string) (*processor.TransactionResponse, error) {
	m.LookupCalls++
	if m.TransactionErr != nil {
		return nil, m.TransactionErr
	}
	return m.Transaction, nil
}
