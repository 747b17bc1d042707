package scheduler_test

import (
	"context"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/stretchr/testify/mock"
)

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, filter ports.InvoiceFilter) ([]models.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ExistsInvoiceNumberInYear(ctx context.Context, invoiceNumber string, year int) (bool, error) {
	args := m.Called(ctx, invoiceNumber, year)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) FindOverdueCandidates(ctx context.Context, before time.Time) ([]models.Invoice, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindUnpaidWithReminders(ctx context.Context) ([]models.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invoice), args.Error(1)
}

// --- Mock DocumentGenerator ---
type MockDocumentGenerator struct {
	mock.Mock
}

func (m *MockDocumentGenerator) Render(ctx context.Context, invoice models.Invoice) ([]byte, error) {
	args := m.Called(ctx, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// --- Mock NotificationSender ---
type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) Deliver(ctx context.Context, to, subject, body string, attachment []byte, filename string) error {
	args := m.Called(ctx, to, subject, body, attachment, filename)
	return args.Error(0)
}
