// Package client is the Go core of the warehousing front-end: an HTTP
// adapter for the warehousing API plus the session, routing and workflow
// logic a user-facing shell builds on. Rendering is left to the caller.
package client

import (
	"encoding/json"
	"strings"
)

// Role is the closed set of actor kinds.
type Role string

const (
	RoleClient  Role = "client"
	RoleManager Role = "manager"
)

// HomePath returns the role-scoped entry point used after login and by
// role-mismatch redirects.
func (r Role) HomePath() string {
	switch r {
	case RoleManager:
		return "/manager"
	default:
		return "/client"
	}
}

// Status is the lifecycle state of a storage record as seen on the wire.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusClosed   Status = "closed"
)

// DisplayName returns the label shown to users for each status. Unknown
// values fall through to the raw string.
func (s Status) DisplayName() string {
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

// ID is an entity identifier. Servers disagree on the wire shape: seeded
// catalogs use numbers, API-created documents use strings. ID accepts both
// and marshals all-digit values back as numbers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*id = ""
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id != "" && isDigits(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// User mirrors the API's user payload. The role arrives as "user_type".
type User struct {
	ID          ID     `json:"id"`
	Username    string `json:"username"`
	Role        Role   `json:"user_type"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Patronymic  string `json:"patronymic,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Product is a catalog entry.
type Product struct {
	ID           ID      `json:"id"`
	Name         string  `json:"product_name"`
	Description  string  `json:"description"`
	PricePerUnit float64 `json:"price_per_unit"`
}

// Storage is an allocation record. EndDate is empty until the record is
// closed.
type Storage struct {
	ID        ID       `json:"id"`
	UserID    ID       `json:"user_id"`
	User      *User    `json:"user,omitempty"`
	ProductID ID       `json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date,omitempty"`
	Quantity  int      `json:"quantity"`
	Amount    float64  `json:"amount"`
	Status    Status   `json:"status"`
}

// Request is a client-submitted storage request. Storage is nil until a
// manager links an allocation to it.
type Request struct {
	ID        ID       `json:"id"`
	UserID    ID       `json:"user_id"`
	User      *User    `json:"user,omitempty"`
	ProductID ID       `json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	StartDate string   `json:"start_date"`
	Quantity  int      `json:"quantity"`
	Storage   *Storage `json:"storage"`
}

// DateLayout is the date-only wire format used for start and end dates.
const DateLayout = "2006-01-02"
