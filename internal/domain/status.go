package domain

// TransactionStatus represents the workflow state of a delivery transaction.
type TransactionStatus string

// List of workflow statuses in transition order
const (
	StatusUnassigned     TransactionStatus = "Unassigned"
	StatusDriverAssigned TransactionStatus = "Driver Assigned"
	StatusShipped        TransactionStatus = "Shipped"
	StatusCompleted      TransactionStatus = "Completed"
)

// List of allowed statuses
var allowedStatuses = [...]TransactionStatus{
	StatusUnassigned, StatusDriverAssigned, StatusShipped, StatusCompleted,
}

// transitions holds the only legal workflow edges. Anything outside this
// map is rejected regardless of what the caller asked for.
var transitions = map[TransactionStatus]TransactionStatus{
	StatusUnassigned:     StatusDriverAssigned,
	StatusDriverAssigned: StatusShipped,
	StatusShipped:        StatusCompleted,
}

// Valid checks if the TransactionStatus is one of the known workflow states.
func (s TransactionStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransition reports whether moving from s to target is a legal edge.
func (s TransactionStatus) CanTransition(target TransactionStatus) bool {
	next, ok := transitions[s]
	return ok && next == target
}

// Next returns the single legal successor status, if any.
func (s TransactionStatus) Next() (TransactionStatus, bool) {
	next, ok := transitions[s]
	return next, ok
}

// NormalizeStatus maps the upstream encoding of "no status yet" (empty or
// absent) to StatusUnassigned and leaves everything else verbatim, including
// statuses this client does not know about.
func NormalizeStatus(raw string) TransactionStatus {
	if raw == "" {
		return StatusUnassigned
	}
	return TransactionStatus(raw)
}
