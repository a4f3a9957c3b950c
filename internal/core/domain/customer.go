package domain

import "fmt"

// LoginStatus is the customer's lockout state.
type LoginStatus string

const (
	LoginActive  LoginStatus = "ACTIVE"
	LoginBlocked LoginStatus = "BLOCKED"
)

// MaxFailedAttempts is the number of consecutive PIN mismatches that blocks a customer.
const MaxFailedAttempts = 3

// Customer owns references to accounts held in the ledger registry.
// PINs are illustrative and compared as plain strings.
type Customer struct {
	CustomerID     string      `json:"customerID"`
	Name           string      `json:"name"`
	PIN            string      `json:"-"`
	Accounts       []string    `json:"accounts"`
	LoginStatus    LoginStatus `json:"loginStatus"`
	FailedAttempts int         `json:"failedAttempts"`
}

// NewCustomer returns an active customer with no accounts.
func NewCustomer(id, name, pin string) *Customer {
	return &Customer{
		CustomerID:  id,
		Name:        name,
		PIN:         pin,
		Accounts:    []string{},
		LoginStatus: LoginActive,
	}
}

// ValidatePin checks input against the stored PIN. A blocked customer always fails
// without consuming an attempt; the third consecutive mismatch blocks the customer.
// A match resets the counter.
func (c *Customer) ValidatePin(input string) bool {
	if c.LoginStatus == LoginBlocked {
		return false
	}
	if c.PIN == input {
		c.FailedAttempts = 0
		return true
	}
	c.FailedAttempts++
	if c.FailedAttempts >= MaxFailedAttempts {
		c.LoginStatus = LoginBlocked
	}
	return false
}

// ResetFailedAttempts clears the counter and reactivates login regardless of prior state.
func (c *Customer) ResetFailedAttempts() {
	c.FailedAttempts = 0
	c.LoginStatus = LoginActive
}

// IsBlocked reports whether login is locked out.
func (c *Customer) IsBlocked() bool {
	return c.LoginStatus == LoginBlocked
}

// AddAccount appends an account reference.
func (c *Customer) AddAccount(number string) {
	c.Accounts = append(c.Accounts, number)
}

// OwnsAccount reports whether number is one of the customer's accounts.
func (c *Customer) OwnsAccount(number string) bool {
	for _, n := range c.Accounts {
		if n == number {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no mutable state with c.
func (c *Customer) Clone() *Customer {
	cp := *c
	cp.Accounts = make([]string, len(c.Accounts))
	copy(cp.Accounts, c.Accounts)
	return &cp
}

func (c *Customer) String() string {
	return fmt.Sprintf("Customer ID: %s, Name: %s, Accounts: %d, Status: %s",
		c.CustomerID, c.Name, len(c.Accounts), c.LoginStatus)
}
