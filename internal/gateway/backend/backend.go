package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dinosandi/Mobile-Driver/internal/domain"
	"github.com/dinosandi/Mobile-Driver/internal/transport"
)

// Gateway is the typed REST gateway to the logistics backend. Paths are the
// backend's contract; this package consumes them, it does not define them.
type Gateway struct {
	client *transport.Client
}

// New creates a backend gateway over the shared transport client.
func New(client *transport.Client) *Gateway {
	if client == nil {
		return nil
	}
	return &Gateway{client: client}
}

// LoginResult carries the session material and the human-readable message
// the backend attaches to a successful login.
type LoginResult struct {
	Session domain.Session
	Message string
}

// Login authenticates with email and password.
func (g *Gateway) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var resp loginResponse
	err := g.client.Post(ctx, "/Auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return LoginResult{}, fmt.Errorf("backend: login: %w", err)
	}
	// The response Email doubles as the display name; the login form never
	// collects another one.
	return LoginResult{
		Session: domain.Session{
			Token:       resp.Token,
			UserID:      domain.UserID(resp.UserId),
			DisplayName: resp.Email,
		},
		Message: resp.Message,
	}, nil
}

// Transactions fetches the full transaction collection. The backend offers
// no server-side filtering; callers filter locally.
func (g *Gateway) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	var raw json.RawMessage
	if err := g.client.Get(ctx, "/Transactions", &raw); err != nil {
		return nil, fmt.Errorf("backend: list transactions: %w", err)
	}
	var dtos []transactionDTO
	if err := transport.Collection(raw, &dtos); err != nil {
		return nil, fmt.Errorf("backend: list transactions: %w", err)
	}
	txs := make([]domain.Transaction, 0, len(dtos))
	for _, d := range dtos {
		txs = append(txs, d.toDomain())
	}
	return txs, nil
}

// UpdateStatus persists a new workflow status. The wire contract takes the
// raw JSON-encoded status string as the whole body, not an object.
func (g *Gateway) UpdateStatus(ctx context.Context, id domain.TransactionID, status domain.TransactionStatus) error {
	path := "/Transactions/" + url.PathEscape(string(id)) + "/status"
	if err := g.client.Put(ctx, path, string(status)); err != nil {
		return fmt.Errorf("backend: update status: %w", err)
	}
	return nil
}

// AssignDriver attaches a driver to an unassigned transaction and moves it
// to "Driver Assigned" in one PATCH.
func (g *Gateway) AssignDriver(ctx context.Context, id domain.TransactionID, driverID domain.DriverID) error {
	path := "/Transactions/" + url.PathEscape(string(id))
	body := assignRequest{DriverId: string(driverID), Status: string(domain.StatusDriverAssigned)}
	if err := g.client.Patch(ctx, path, body); err != nil {
		return fmt.Errorf("backend: assign driver: %w", err)
	}
	return nil
}

// Drivers fetches the driver collection, accepting both observed response
// shapes (bare array and Data-wrapped).
func (g *Gateway) Drivers(ctx context.Context) ([]domain.Driver, error) {
	var raw json.RawMessage
	if err := g.client.Get(ctx, "/Drivers", &raw); err != nil {
		return nil, fmt.Errorf("backend: list drivers: %w", err)
	}
	var dtos []driverDTO
	if err := transport.Collection(raw, &dtos); err != nil {
		return nil, fmt.Errorf("backend: list drivers: %w", err)
	}
	drivers := make([]domain.Driver, 0, len(dtos))
	for _, d := range dtos {
		drivers = append(drivers, d.toDomain())
	}
	return drivers, nil
}

// CustomerProfiles fetches the customer profile collection.
func (g *Gateway) CustomerProfiles(ctx context.Context) ([]domain.Customer, error) {
	var raw json.RawMessage
	if err := g.client.Get(ctx, "/Customer/profile", &raw); err != nil {
		return nil, fmt.Errorf("backend: customer profiles: %w", err)
	}
	var dtos []customerDTO
	if err := transport.Collection(raw, &dtos); err != nil {
		return nil, fmt.Errorf("backend: customer profiles: %w", err)
	}
	customers := make([]domain.Customer, 0, len(dtos))
	for _, d := range dtos {
		customers = append(customers, d.toDomain())
	}
	return customers, nil
}

// ChatFeed fetches the full message feed scoped to one participant. The
// upstream interface cannot pre-filter by conversation.
func (g *Gateway) ChatFeed(ctx context.Context, userID domain.UserID) ([]domain.Message, error) {
	path := "/Chat/messages?userId=" + url.QueryEscape(string(userID))
	var raw json.RawMessage
	if err := g.client.Get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("backend: chat feed: %w", err)
	}
	var dtos []messageDTO
	if err := transport.Collection(raw, &dtos); err != nil {
		return nil, fmt.Errorf("backend: chat feed: %w", err)
	}
	msgs := make([]domain.Message, 0, len(dtos))
	for _, d := range dtos {
		msgs = append(msgs, d.toDomain())
	}
	return msgs, nil
}

// SendChat submits a message. The returned Message carries whatever identity
// the backend confirmed; the id may be empty when the backend omits it.
func (g *Gateway) SendChat(ctx context.Context, sender, receiver domain.UserID, text string) (domain.Message, error) {
	req := sendChatRequest{
		SenderId:   string(sender),
		ReceiverId: string(receiver),
		Message:    text,
	}
	var resp messageDTO
	if err := g.client.Post(ctx, "/Chat", req, &resp); err != nil {
		return domain.Message{}, fmt.Errorf("backend: send chat: %w", err)
	}
	return resp.toDomain(), nil
}
