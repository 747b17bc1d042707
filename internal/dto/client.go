package dto

import "github.com/Ezzerof/smart-invoice-backend/internal/models"

// CreateClientRequest defines the data needed to create a new client.
type CreateClientRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Postcode    string `json:"postcode"`
}

// UpdateClientRequest defines the updatable client fields.
type UpdateClientRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Postcode    string `json:"postcode"`
}

// ClientResponse defines the data returned for a client.
type ClientResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Postcode    string `json:"postcode"`
}

// ToClientResponse converts a models.Client to its response DTO.
func ToClientResponse(c *models.Client) ClientResponse {
	return ClientResponse{
		ID:          c.ClientID,
		Name:        c.Name,
		Email:       c.Email,
		CompanyName: c.CompanyName,
		Address:     c.Address,
		City:        c.City,
		Country:     c.Country,
		Postcode:    c.Postcode,
	}
}

// ToListClientResponse converts a slice of clients to response DTOs.
func ToListClientResponse(clients []models.Client) []ClientResponse {
	res := make([]ClientResponse, len(clients))
	for i := range clients {
		res[i] = ToClientResponse(&clients[i])
	}
	return res
}
