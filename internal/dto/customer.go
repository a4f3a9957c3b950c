package dto

import "github.com/SscSPs/bank_ledger/internal/core/domain"

// CreateCustomerRequest defines the data needed to register a customer.
type CreateCustomerRequest struct {
	CustomerID string `json:"customerID" binding:"required,max=32"`
	Name       string `json:"name" binding:"required,max=100"`
	PIN        string `json:"pin" binding:"required,numeric,min=4,max=8"`
}

// CustomerResponse is the public view of a customer. The PIN is never returned.
type CustomerResponse struct {
	CustomerID     string             `json:"customerID"`
	Name           string             `json:"name"`
	Accounts       []string           `json:"accounts"`
	LoginStatus    domain.LoginStatus `json:"loginStatus"`
	FailedAttempts int                `json:"failedAttempts"`
}

// ToCustomerResponse converts a domain.Customer to CustomerResponse DTO
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:     c.CustomerID,
		Name:           c.Name,
		Accounts:       c.Accounts,
		LoginStatus:    c.LoginStatus,
		FailedAttempts: c.FailedAttempts,
	}
}

// ToListCustomerResponse converts a slice of domain.Customer to CustomerResponse DTOs
func ToListCustomerResponse(customers []domain.Customer) []CustomerResponse {
	res := make([]CustomerResponse, len(customers))
	for i := range customers {
		res[i] = ToCustomerResponse(&customers[i])
	}
	return res
}
