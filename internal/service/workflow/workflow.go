package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dinosandi/Mobile-Driver/internal/apperr"
	"github.com/dinosandi/Mobile-Driver/internal/domain"
	"github.com/dinosandi/Mobile-Driver/internal/logx"
)

// ErrDeclined is returned when the confirmation point answers no. It is not
// a failure: nothing was sent and nothing changed.
var ErrDeclined = errors.New("declined by user")

// Engine validates and requests delivery-status transitions. It never trusts
// the caller to have checked the edge whitelist: every request re-validates
// against the domain transition map before anything touches the network, and
// no local state changes until the server confirms with a 2xx.
type Engine struct {
	gw      statusGateway
	confirm Confirmer
	logger  logx.Logger
}

// NewEngine creates a workflow engine. confirm may be nil, in which case
// every legal transition proceeds without asking.
func NewEngine(gw statusGateway, confirm Confirmer, logger logx.Logger) *Engine {
	if gw == nil {
		return nil
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Engine{gw: gw, confirm: confirm, logger: logger}
}

// NextAction returns the single status a caller may legally offer for the
// transaction, if any. Rendering only this action is how the UI keeps users
// on the whitelist; the engine still re-checks.
func NextAction(tx domain.Transaction) (domain.TransactionStatus, bool) {
	return tx.Status.Next()
}

// RequestTransition asks the backend to move the transaction to target.
// Illegal (current, target) pairs fail with InvalidTransition before any
// network call. The Unassigned edge carries a driver id and must go through
// Assign instead.
func (e *Engine) RequestTransition(ctx context.Context, tx domain.Transaction, target domain.TransactionStatus) error {
	if tx.ID == "" {
		return fmt.Errorf("%w: missing transaction id", apperr.Validation)
	}
	if !tx.Status.CanTransition(target) {
		return fmt.Errorf("%w: %q cannot move to %q", apperr.InvalidTransition, tx.Status, target)
	}
	if target == domain.StatusDriverAssigned {
		return fmt.Errorf("%w: driver assignment must carry a driver id", apperr.Validation)
	}

	prompt := fmt.Sprintf("Change transaction %s to %s?", labelFor(tx), target)
	if !e.confirmed(prompt) {
		return ErrDeclined
	}

	if err := e.gw.UpdateStatus(ctx, tx.ID, target); err != nil {
		return err
	}

	e.logger.Info("status transition committed",
		logx.String("transaction_id", string(tx.ID)),
		logx.String("from", string(tx.Status)),
		logx.String("to", string(target)),
	)
	return nil
}

// Assign attaches a driver to an unassigned transaction, the only way onto
// the Driver Assigned edge.
func (e *Engine) Assign(ctx context.Context, tx domain.Transaction, driverID domain.DriverID) error {
	if tx.ID == "" {
		return fmt.Errorf("%w: missing transaction id", apperr.Validation)
	}
	if strings.TrimSpace(string(driverID)) == "" {
		return fmt.Errorf("%w: missing driver id", apperr.Validation)
	}
	if !tx.Status.CanTransition(domain.StatusDriverAssigned) {
		return fmt.Errorf("%w: %q cannot move to %q", apperr.InvalidTransition, tx.Status, domain.StatusDriverAssigned)
	}

	prompt := fmt.Sprintf("Assign driver %s to transaction %s?", driverID, labelFor(tx))
	if !e.confirmed(prompt) {
		return ErrDeclined
	}

	if err := e.gw.AssignDriver(ctx, tx.ID, driverID); err != nil {
		return err
	}

	e.logger.Info("driver assigned",
		logx.String("transaction_id", string(tx.ID)),
		logx.String("driver_id", string(driverID)),
	)
	return nil
}

func (e *Engine) confirmed(prompt string) bool {
	if e.confirm == nil {
		return true
	}
	return e.confirm.Confirm(prompt)
}

// labelFor prefers the invoice number users recognize over the raw id.
func labelFor(tx domain.Transaction) string {
	if tx.InvoiceNumber != "" {
		return tx.InvoiceNumber
	}
	return string(tx.ID)
}
