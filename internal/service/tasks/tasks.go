package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dinosandi/Mobile-Driver/internal/apperr"
	"github.com/dinosandi/Mobile-Driver/internal/domain"
	"github.com/dinosandi/Mobile-Driver/internal/logx"
)

// Counts are the dashboard projections for one driver. They are recomputed
// from the full feed on every refresh and never cached independently.
type Counts struct {
	// NewAssignments counts transactions sitting at "Driver Assigned".
	NewAssignments int
	// Handover counts transactions at "Shipped" or "Completed".
	Handover int
	// History counts every transaction ever assigned to the driver.
	History int
}

// Service derives a driver's task set from the full transaction collection
// and resolves the driver record behind an authenticated account.
type Service struct {
	gw     taskGateway
	logger logx.Logger

	seq uint64 // last issued fetch

	mu         sync.Mutex
	applied    uint64 // last committed fetch
	lastTasks  []domain.Transaction
	lastCounts Counts
}

// NewService creates a task service.
func NewService(gw taskGateway, logger logx.Logger) *Service {
	if gw == nil {
		return nil
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{gw: gw, logger: logger}
}

// ResolveDriver finds the driver record whose UserId matches the
// authenticated account. An account without a driver record is a distinct
// "driver not found" condition, never an unfiltered task set.
func (s *Service) ResolveDriver(ctx context.Context, userID domain.UserID) (domain.Driver, error) {
	if strings.TrimSpace(string(userID)) == "" {
		return domain.Driver{}, fmt.Errorf("%w: missing user id", apperr.Validation)
	}
	drivers, err := s.gw.Drivers(ctx)
	if err != nil {
		return domain.Driver{}, err
	}
	for _, d := range drivers {
		if d.UserID.Matches(userID) {
			return d, nil
		}
	}
	return domain.Driver{}, fmt.Errorf("%w: no driver record for user %s", apperr.NotFound, userID)
}

// TasksFor selects the driver's actionable transactions: driver id equality
// (normalized string compare) and status in {Driver Assigned, Shipped}. A
// task stays in the set until it reaches Completed so the next-status action
// can still be offered. Feed order is preserved.
func TasksFor(driverID domain.DriverID, all []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0)
	for _, tx := range all {
		if !tx.DriverID.Matches(driverID) {
			continue
		}
		if tx.Status != domain.StatusDriverAssigned && tx.Status != domain.StatusShipped {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// CountsFor computes the dashboard projections for the driver.
func CountsFor(driverID domain.DriverID, all []domain.Transaction) Counts {
	var c Counts
	for _, tx := range all {
		if !tx.DriverID.Matches(driverID) {
			continue
		}
		c.History++
		switch tx.Status {
		case domain.StatusDriverAssigned:
			c.NewAssignments++
		case domain.StatusShipped, domain.StatusCompleted:
			c.Handover++
		}
	}
	return c
}

// Refresh fetches the transaction feed and recomputes tasks and counts.
// Refresh-on-focus may overlap with itself; only the most recently issued
// fetch commits its result, and every caller gets the committed snapshot.
func (s *Service) Refresh(ctx context.Context, driverID domain.DriverID) ([]domain.Transaction, Counts, error) {
	issue := atomic.AddUint64(&s.seq, 1)

	all, err := s.gw.Transactions(ctx)
	if err != nil {
		return nil, Counts{}, err
	}

	tasks := TasksFor(driverID, all)
	counts := CountsFor(driverID, all)

	s.mu.Lock()
	defer s.mu.Unlock()
	if issue > s.applied {
		s.applied = issue
		s.lastTasks = tasks
		s.lastCounts = counts
	} else {
		s.logger.Debug("stale task refresh discarded",
			logx.String("driver_id", string(driverID)),
		)
	}
	return snapshot(s.lastTasks), s.lastCounts, nil
}

// Snapshot returns the last committed tasks and counts without fetching.
func (s *Service) Snapshot() ([]domain.Transaction, Counts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.lastTasks), s.lastCounts
}

// ChatEligibleCustomers lists the customer profiles a driver may message.
func (s *Service) ChatEligibleCustomers(ctx context.Context) ([]domain.Customer, error) {
	all, err := s.gw.CustomerProfiles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(all))
	for _, c := range all {
		if c.ChatEligible() {
			out = append(out, c)
		}
	}
	return out, nil
}

func snapshot(tasks []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(tasks))
	copy(out, tasks)
	return out
}
