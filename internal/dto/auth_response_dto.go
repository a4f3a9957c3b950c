package dto

// LoginRequest carries a customer's credentials.
type LoginRequest struct {
	CustomerID string `json:"customerID" binding:"required"`
	PIN        string `json:"pin" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token      string `json:"token"`
	CustomerID string `json:"customerID"`
	Name       string `json:"name"`
}
