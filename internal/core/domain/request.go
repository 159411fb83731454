package domain

import "time"

// DateLayout is the date-only wire format used for start and end dates.
const DateLayout = "2006-01-02"

// Request is a client-submitted ask for storage of a product quantity
// starting on a date. A request has at most one linked storage; once
// StorageID is set the request is considered handled.
type Request struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	User      *User     `json:"user,omitempty" bson:"-"`
	ProductID string    `json:"product_id" bson:"product_id"`
	Product   *Product  `json:"product,omitempty" bson:"-"`
	StartDate string    `json:"start_date" bson:"start_date"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	StorageID string    `json:"-" bson:"storage_id,omitempty"`
	Storage   *Storage  `json:"storage" bson:"-"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Linked reports whether a storage record has been created for the request.
func (r *Request) Linked() bool {
	return r.StorageID != ""
}
