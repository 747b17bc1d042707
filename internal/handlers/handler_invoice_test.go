package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/apperrors"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/dto"
	"github.com/Ezzerof/smart-invoice-backend/internal/handlers"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/Ezzerof/smart-invoice-backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*models.Invoice, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceService) MarkPaid(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetInvoicePDF(ctx context.Context, invoiceID string) ([]byte, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockInvoiceService) EmailInvoice(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceService) WriteInvoicesCSV(ctx context.Context, w io.Writer, filter dto.InvoiceExportFilter) error {
	args := m.Called(ctx, w, filter)
	return args.Error(0)
}

var _ ports.InvoiceService = (*MockInvoiceService)(nil)

// --- Mock ClientService (route registration only) ---
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*models.Client, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientService) GetClientByID(ctx context.Context, clientID string) (*models.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientService) ListClients(ctx context.Context) ([]models.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Client), args.Error(1)
}

func (m *MockClientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest) (*models.Client, error) {
	args := m.Called(ctx, clientID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientService) DeleteClient(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

func (m *MockClientService) WriteClientsCSV(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

// --- Mock ProductService (route registration only) ---
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) GetProductByID(ctx context.Context, productID string) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) ListProducts(ctx context.Context, keyword, sortBy string) ([]models.Product, error) {
	args := m.Called(ctx, keyword, sortBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// --- Mock AuditService (route registration only) ---
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, action, entity, entityID string) {
	m.Called(ctx, action, entity, entityID)
}

func (m *MockAuditService) ListAuditLogs(ctx context.Context, action, entity string) ([]models.AuditLog, error) {
	args := m.Called(ctx, action, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditLog), args.Error(1)
}

// --- Mock UserService (route registration only) ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req dto.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// --- Test Suite ---
type InvoiceHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockInvoiceService *MockInvoiceService
	jwtSecret          string
}

func (suite *InvoiceHandlerTestSuite) generateTestToken(username string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "smart-invoice-test",
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *InvoiceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(dto.RegisterCustomValidators())
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockInvoiceService = new(MockInvoiceService)
	services := &ports.ServiceContainer{
		Client:  new(MockClientService),
		Product: new(MockProductService),
		Invoice: suite.mockInvoiceService,
		Audit:   new(MockAuditService),
		User:    new(MockUserService),
	}

	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *InvoiceHandlerTestSuite) doRequest(method, url string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("operator"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *InvoiceHandlerTestSuite) TestGetInvoice_Success() {
	dueDate := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	invoice := &models.Invoice{
		InvoiceID:         "inv-1",
		InvoiceNumber:     "2025-001",
		IssueDate:         time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		DueDate:           dueDate,
		TotalAmount:       decimal.NewFromInt(150),
		Status:            models.StatusPending,
		ClientID:          "client-1",
		Client:            &models.Client{ClientID: "client-1", Name: "Acme Ltd", Email: "acme@example.com"},
		ReminderSentDates: models.NewDateSet(),
	}

	suite.mockInvoiceService.On("GetInvoiceByID", mock.Anything, "inv-1").Return(invoice, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/invoices/inv-1", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("inv-1", resp.ID)
	suite.Equal("2025-001", resp.InvoiceNumber)
	suite.Equal("Acme Ltd", resp.ClientName)
	suite.Equal("PENDING", resp.Status)
	suite.False(resp.IsPaid)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestGetInvoice_NotFound() {
	suite.mockInvoiceService.On("GetInvoiceByID", mock.Anything, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/invoices/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestGetInvoice_RequiresToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/invoices/inv-1", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockInvoiceService.AssertNotCalled(suite.T(), "GetInvoiceByID", mock.Anything, mock.Anything)
}

func (suite *InvoiceHandlerTestSuite) TestMarkPaid_Success() {
	paidDate := time.Date(2025, time.June, 21, 0, 0, 0, 0, time.UTC)
	invoice := &models.Invoice{
		InvoiceID:         "inv-1",
		InvoiceNumber:     "2025-001",
		IssueDate:         time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		DueDate:           time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC),
		Status:            models.StatusPaid,
		PaidDate:          &paidDate,
		ReminderSentDates: models.NewDateSet(),
	}

	suite.mockInvoiceService.On("MarkPaid", mock.Anything, "inv-1").Return(invoice, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/invoices/inv-1/pay", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.IsPaid)
	suite.Require().NotNil(resp.PaidDate)
	suite.Equal("2025-06-21", *resp.PaidDate)
}

func (suite *InvoiceHandlerTestSuite) TestCreateInvoice_DuplicateNumberConflict() {
	body, _ := json.Marshal(dto.CreateInvoiceRequest{
		ClientID:      "client-1",
		InvoiceNumber: "2025-001",
		IssueDate:     "2025-06-01",
		DueDate:       "2025-06-20",
		ProductIDs:    []string{"prod-1"},
	})

	suite.mockInvoiceService.On("CreateInvoice", mock.Anything, mock.AnythingOfType("dto.CreateInvoiceRequest")).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/invoices", body)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestGetInvoicePDF_SetsHeaders() {
	pdf := []byte("%PDF-1.7 test")

	suite.mockInvoiceService.On("GetInvoicePDF", mock.Anything, "inv-1").Return(pdf, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/invoices/inv-1/pdf", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("application/pdf", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "Invoice-inv-1.pdf")
	suite.Equal(pdf, w.Body.Bytes())
}

func TestInvoiceHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceHandlerTestSuite))
}
