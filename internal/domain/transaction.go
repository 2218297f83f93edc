package domain

// StoreInfo - details of the store a delivery originates from.
type StoreInfo struct {
	Name             string
	Email            string
	PhoneNumber      string
	Districts        string
	Cities           string
	Provinces        string
	OperationalHours string
}

// Product is a single purchasable product.
type Product struct {
	Name string
}

// Bundle is a named set of products sold together.
type Bundle struct {
	Name string
}

// Item is one line of a transaction, referencing either a Product or a Bundle.
type Item struct {
	ItemType string
	Quantity int
	Product  *Product
	Bundle   *Bundle
}

// DisplayName returns the product or bundle name, whichever the item references.
func (i Item) DisplayName() string {
	if i.ItemType == "Product" && i.Product != nil {
		return i.Product.Name
	}
	if i.Bundle != nil {
		return i.Bundle.Name
	}
	return ""
}

// Transaction - a delivery job tracked through the status workflow.
// The client holds a read-mostly copy refreshed per screen visit; the
// backend owns the record.
type Transaction struct {
	ID                 TransactionID
	InvoiceNumber      string
	DriverID           DriverID // empty until a driver is assigned
	Status             TransactionStatus
	RecipientName      string
	RecipientPhone     string
	ShippingAddress    string
	ShippingCity       string
	ShippingPostalCode string
	TotalAmount        float64
	Store              *StoreInfo
	Items              []Item
}
