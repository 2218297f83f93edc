package workflow

import (
	"context"

	"github.com/dinosandi/Mobile-Driver/internal/domain"
)

// statusGateway is the slice of the backend gateway the engine mutates through.
type statusGateway interface {
	UpdateStatus(ctx context.Context, id domain.TransactionID, status domain.TransactionStatus) error
	AssignDriver(ctx context.Context, id domain.TransactionID, driverID domain.DriverID) error
}

// Confirmer is the explicit synchronous decision point consulted before any
// mutating call. Returning false aborts the operation with no network call.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

// Confirm calls the wrapped function.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }
