package tasks

import (
	"context"

	"github.com/dinosandi/Mobile-Driver/internal/domain"
)

// taskGateway is the slice of the backend gateway the task service reads from.
type taskGateway interface {
	Transactions(ctx context.Context) ([]domain.Transaction, error)
	Drivers(ctx context.Context) ([]domain.Driver, error)
	CustomerProfiles(ctx context.Context) ([]domain.Customer, error)
}
