package services_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/Ezzerof/smart-invoice-backend/internal/apperrors"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/services"
	"github.com/Ezzerof/smart-invoice-backend/internal/dto"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ClientServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockClientRepository
	mockAudit *MockAuditService
	service   ports.ClientService
}

func (suite *ClientServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockClientRepository)
	suite.mockAudit = new(MockAuditService)
	suite.service = services.NewClientService(suite.mockRepo, suite.mockAudit)
}

func (suite *ClientServiceTestSuite) TestCreateClient_Success() {
	ctx := context.Background()
	req := dto.CreateClientRequest{
		Name:        "Acme Ltd",
		Email:       "acme@example.com",
		CompanyName: "Acme Holdings",
	}

	suite.mockRepo.On("SaveClient", ctx, mock.MatchedBy(func(c models.Client) bool {
		return c.Name == req.Name && c.Email == req.Email && c.ClientID != ""
	})).Return(nil).Once()
	suite.mockAudit.On("Record", ctx, "CREATE", "Client", mock.AnythingOfType("string")).Once()

	client, err := suite.service.CreateClient(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(client)
	suite.Equal(req.Name, client.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestDeleteClient_RefusedWhileInvoicesExist() {
	ctx := context.Background()
	client := &models.Client{ClientID: "client-1"}

	suite.mockRepo.On("FindClientByID", ctx, "client-1").Return(client, nil).Once()
	suite.mockRepo.On("CountInvoicesForClient", ctx, "client-1").Return(3, nil).Once()

	err := suite.service.DeleteClient(ctx, "client-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteClient", mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestDeleteClient_Success() {
	ctx := context.Background()
	client := &models.Client{ClientID: "client-1"}

	suite.mockRepo.On("FindClientByID", ctx, "client-1").Return(client, nil).Once()
	suite.mockRepo.On("CountInvoicesForClient", ctx, "client-1").Return(0, nil).Once()
	suite.mockRepo.On("DeleteClient", ctx, "client-1").Return(nil).Once()
	suite.mockAudit.On("Record", ctx, "DELETE", "Client", "client-1").Once()

	err := suite.service.DeleteClient(ctx, "client-1")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestUpdateClient_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindClientByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	client, err := suite.service.UpdateClient(ctx, "missing", dto.UpdateClientRequest{Name: "X", Email: "x@example.com"})

	suite.Require().Error(err)
	suite.Nil(client)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ClientServiceTestSuite) TestWriteClientsCSV() {
	ctx := context.Background()
	clients := []models.Client{{
		ClientID:    "client-1",
		Name:        "Acme Ltd",
		Email:       "acme@example.com",
		CompanyName: "Acme Holdings",
		City:        "London",
	}}

	suite.mockRepo.On("ListClients", ctx).Return(clients, nil).Once()

	var buf bytes.Buffer
	err := suite.service.WriteClientsCSV(ctx, &buf)

	suite.Require().NoError(err)
	out := buf.String()
	suite.Contains(out, "id,name,email,companyName,address,city,country,postcode")
	suite.Contains(out, "client-1,Acme Ltd,acme@example.com,Acme Holdings,,London,,")
}

func TestClientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}
