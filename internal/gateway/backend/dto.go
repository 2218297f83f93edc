package backend

import (
	"time"

	"github.com/dinosandi/Mobile-Driver/internal/domain"
	"github.com/dinosandi/Mobile-Driver/internal/transport"
)

type storeDTO struct {
	Name             string `json:"Name"`
	Email            string `json:"Email"`
	PhoneNumber      string `json:"PhoneNumber"`
	Districts        string `json:"Districts"`
	Cities           string `json:"Cities"`
	Provinces        string `json:"Provinces"`
	OperationalHours string `json:"OperationalHours"`
}

type productDTO struct {
	Name string `json:"Name"`
}

type bundleDTO struct {
	Name string `json:"Name"`
}

type itemDTO struct {
	ItemType string      `json:"ItemType"`
	Quantity int         `json:"Quantity"`
	Product  *productDTO `json:"Product"`
	Bundle   *bundleDTO  `json:"Bundle"`
}

type transactionDTO struct {
	Id                 transport.FlexString `json:"Id"`
	InvoiceNumber      string               `json:"InvoiceNumber"`
	DriverId           transport.FlexString `json:"DriverId"`
	Status             string               `json:"Status"`
	RecipientName      string               `json:"RecipientName"`
	RecipientPhone     string               `json:"RecipientPhone"`
	ShippingAddress    string               `json:"ShippingAddress"`
	ShippingCity       string               `json:"ShippingCity"`
	ShippingPostalCode string               `json:"ShippingPostalCode"`
	TotalAmount        float64              `json:"TotalAmount"`
	Store              *storeDTO            `json:"Store"`
	Items              []itemDTO            `json:"Items"`
}

func (d transactionDTO) toDomain() domain.Transaction {
	tx := domain.Transaction{
		ID:                 domain.TransactionID(d.Id),
		InvoiceNumber:      d.InvoiceNumber,
		DriverID:           domain.DriverID(d.DriverId),
		Status:             domain.NormalizeStatus(d.Status),
		RecipientName:      d.RecipientName,
		RecipientPhone:     d.RecipientPhone,
		ShippingAddress:    d.ShippingAddress,
		ShippingCity:       d.ShippingCity,
		ShippingPostalCode: d.ShippingPostalCode,
		TotalAmount:        d.TotalAmount,
	}
	if d.Store != nil {
		tx.Store = &domain.StoreInfo{
			Name:             d.Store.Name,
			Email:            d.Store.Email,
			PhoneNumber:      d.Store.PhoneNumber,
			Districts:        d.Store.Districts,
			Cities:           d.Store.Cities,
			Provinces:        d.Store.Provinces,
			OperationalHours: d.Store.OperationalHours,
		}
	}
	for _, it := range d.Items {
		item := domain.Item{ItemType: it.ItemType, Quantity: it.Quantity}
		if it.Product != nil {
			item.Product = &domain.Product{Name: it.Product.Name}
		}
		if it.Bundle != nil {
			item.Bundle = &domain.Bundle{Name: it.Bundle.Name}
		}
		tx.Items = append(tx.Items, item)
	}
	return tx
}

type driverDTO struct {
	Id     transport.FlexString `json:"Id"`
	UserId transport.FlexString `json:"UserId"`
	Name   string               `json:"Name"`
	Phone  string               `json:"Phone"`
	Email  string               `json:"Email"`
}

func (d driverDTO) toDomain() domain.Driver {
	return domain.Driver{
		ID:     domain.DriverID(d.Id),
		UserID: domain.UserID(d.UserId),
		Name:   d.Name,
		Phone:  d.Phone,
		Email:  d.Email,
	}
}

type customerDTO struct {
	Id    transport.FlexString `json:"Id"`
	Name  string               `json:"Name"`
	Email string               `json:"Email"`
	Role  int                  `json:"Role"`
}

func (d customerDTO) toDomain() domain.Customer {
	return domain.Customer{
		ID:    domain.UserID(d.Id),
		Name:  d.Name,
		Email: d.Email,
		Role:  d.Role,
	}
}

type messageDTO struct {
	Id         transport.FlexString `json:"Id"`
	SenderId   transport.FlexString `json:"SenderId"`
	ReceiverId transport.FlexString `json:"ReceiverId"`
	Message    string               `json:"Message"`
	Timestamp  string               `json:"Timestamp"`
}

func (d messageDTO) toDomain() domain.Message {
	return domain.Message{
		ID:         domain.MessageID(d.Id),
		SenderID:   domain.UserID(d.SenderId),
		ReceiverID: domain.UserID(d.ReceiverId),
		Text:       d.Message,
		Timestamp:  parseTimestamp(d.Timestamp),
	}
}

// Timestamp layouts observed from the backend: RFC3339 with and without
// fractional seconds, plus the zoneless .NET default.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// parseTimestamp resolves an absent or unreadable timestamp to the zero
// time, not an error, so ordering stays total.
func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

type loginRequest struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

type loginResponse struct {
	Token   string               `json:"Token"`
	UserId  transport.FlexString `json:"UserId"`
	Email   string               `json:"Email"`
	Message string               `json:"Message"`
}

type assignRequest struct {
	DriverId string `json:"DriverId"`
	Status   string `json:"Status"`
}

type sendChatRequest struct {
	SenderId   string `json:"SenderId"`
	ReceiverId string `json:"ReceiverId"`
	Message    string `json:"Message"`
}
