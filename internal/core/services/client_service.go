package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/apperrors"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/dto"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/google/uuid"
)

// ClientService handles client CRUD and CSV export.
type ClientService struct {
	BaseService
	clientRepo ports.ClientRepository
	audit      ports.AuditService
}

// NewClientService creates a new client service.
func NewClientService(clientRepo ports.ClientRepository, audit ports.AuditService) *ClientService {
	return &ClientService{clientRepo: clientRepo, audit: audit}
}

// CreateClient registers a new client.
func (s *ClientService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*models.Client, error) {
	now := time.Now().UTC()
	client := models.Client{
		ClientID:    uuid.NewString(),
		Name:        req.Name,
		Email:       req.Email,
		CompanyName: req.CompanyName,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		Postcode:    req.Postcode,
		AuditFields: models.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.audit.Record(ctx, "CREATE", "Client", client.ClientID)
	return &client, nil
}

// GetClientByID retrieves a single client.
func (s *ClientService) GetClientByID(ctx context.Context, clientID string) (*models.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client %s: %w", clientID, err)
	}
	return client, nil
}

// ListClients retrieves all clients.
func (s *ClientService) ListClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.clientRepo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	if clients == nil {
		return []models.Client{}, nil
	}
	return clients, nil
}

// UpdateClient replaces the client's editable fields.
func (s *ClientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest) (*models.Client, error) {
	existing, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to find client %s: %w", clientID, err)
	}

	existing.Name = req.Name
	existing.Email = req.Email
	existing.CompanyName = req.CompanyName
	existing.Address = req.Address
	existing.City = req.City
	existing.Country = req.Country
	existing.Postcode = req.Postcode
	existing.LastUpdatedAt = time.Now().UTC()

	if err := s.clientRepo.UpdateClient(ctx, *existing); err != nil {
		return nil, fmt.Errorf("failed to update client %s: %w", clientID, err)
	}

	s.audit.Record(ctx, "UPDATE", "Client", clientID)
	return existing, nil
}

// DeleteClient removes a client. Refused while the client still has invoices.
func (s *ClientService) DeleteClient(ctx context.Context, clientID string) error {
	if _, err := s.clientRepo.FindClientByID(ctx, clientID); err != nil {
		return fmt.Errorf("failed to find client %s: %w", clientID, err)
	}

	count, err := s.clientRepo.CountInvoicesForClient(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to count invoices for client %s: %w", clientID, err)
	}
	if count > 0 {
		s.LogWarn(ctx, "Refusing to delete client with invoices",
			slog.String("client_id", clientID), slog.Int("invoice_count", count))
		return fmt.Errorf("client has %d invoice(s) and cannot be deleted: %w", count, apperrors.ErrConflict)
	}

	if err := s.clientRepo.DeleteClient(ctx, clientID); err != nil {
		return fmt.Errorf("failed to delete client %s: %w", clientID, err)
	}

	s.audit.Record(ctx, "DELETE", "Client", clientID)
	return nil
}

// WriteClientsCSV streams all clients as CSV to w.
func (s *ClientService) WriteClientsCSV(ctx context.Context, w io.Writer) error {
	clients, err := s.ListClients(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "email", "companyName", "address", "city", "country", "postcode"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, c := range clients {
		record := []string{c.ClientID, c.Name, c.Email, c.CompanyName, c.Address, c.City, c.Country, c.Postcode}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
