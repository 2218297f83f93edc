package domain

// Driver represents a delivery driver record.
//
// ID is the driver identifier referenced by Transaction.DriverID; UserID is
// the authenticated account behind it. The two live in different namespaces
// and must never be compared to each other.
type Driver struct {
	ID     DriverID
	UserID UserID
	Name   string
	Phone  string
	Email  string
}

// RoleCustomer is the profile role value that marks a chat-eligible customer.
const RoleCustomer = 0

// Customer represents a customer profile addressable in chat.
type Customer struct {
	ID    UserID
	Name  string
	Email string
	Role  int
}

// ChatEligible reports whether this profile can be messaged by a driver.
func (c Customer) ChatEligible() bool {
	return c.Role == RoleCustomer
}
