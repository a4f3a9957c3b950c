package middleware

import "github.com/gin-gonic/gin"

// customerIDKey is the key used to store the authenticated customer's ID in the request context.
const customerIDKey = contextKey("customerID")

// GetCustomerIDFromContext retrieves the authenticated customer ID from the Gin context.
// It returns the customer ID and a boolean indicating if it was found.
func GetCustomerIDFromContext(c *gin.Context) (string, bool) {
	customerID, ok := c.Request.Context().Value(customerIDKey).(string)
	if !ok || customerID == "" {
		return "", false
	}
	return customerID, true
}
