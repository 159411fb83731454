package domain

import "time"

// StorageStatus represents the lifecycle state of a storage record.
type StorageStatus string

const (
	StatusPending  StorageStatus = "pending"
	StatusApproved StorageStatus = "approved"
	StatusRejected StorageStatus = "rejected"
	StatusClosed   StorageStatus = "closed"
)

// validTransitions defines the allowed state machine transitions.
// rejected and closed are terminal.
var validTransitions = map[StorageStatus][]StorageStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusClosed},
}

// CanTransitionTo reports whether a transition from the current status to
// next is valid.
func (s StorageStatus) CanTransitionTo(next StorageStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the enumerated status values.
func (s StorageStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusClosed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s StorageStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// DisplayName returns the label shown to users for each status. Unknown
// values fall through to the raw string.
func (s StorageStatus) DisplayName() string {
	switch s {
	case StatusPending:
		return "awaiting"
	case StatusApproved:
		return "confirmed"
	case StatusRejected:
		return "declined"
	case StatusClosed:
		return "closed"
	}
	return string(s)
}

// Storage is a manager-created allocation record derived from a Request.
// Closure is an explicit terminal status: Close sets both EndDate and
// StatusClosed, so no mutation guard ever has to infer state from the
// presence of an end date.
type Storage struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	UserID    string        `json:"user_id" bson:"user_id"`
	User      *User         `json:"user,omitempty" bson:"-"`
	ProductID string        `json:"product_id" bson:"product_id"`
	Product   *Product      `json:"product,omitempty" bson:"-"`
	StartDate string        `json:"start_date" bson:"start_date"`
	EndDate   string        `json:"end_date,omitempty" bson:"end_date,omitempty"`
	Quantity  int           `json:"quantity" bson:"quantity"`
	Amount    float64       `json:"amount" bson:"amount"`
	Status    StorageStatus `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

// Closable reports whether the record is eligible for closure: only an
// approved record without an end date can be closed.
func (s *Storage) Closable() bool {
	return s.Status == StatusApproved && s.EndDate == ""
}

// StorageEvent is an audit record of a single status transition.
type StorageEvent struct {
	StorageID string        `json:"storage_id" bson:"storage_id"`
	From      StorageStatus `json:"from" bson:"from"`
	To        StorageStatus `json:"to" bson:"to"`
	Actor     string        `json:"actor" bson:"actor"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
}
