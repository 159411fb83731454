package handler

import (
	"encoding/json"
	"strings"
)

// flexID accepts a JSON string or number and normalises it to a string.
// The SPA sends numeric IDs for seeded catalog entries, while documents
// created through the API carry ObjectID hex strings.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = ""
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username    string `json:"username" validate:"required,min=3"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Patronymic  string `json:"patronymic"`
	CompanyName string `json:"company_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Address     string `json:"address" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// --- Requests ---

type createRequestRequest struct {
	ProductID flexID `json:"product_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type linkStorageRequest struct {
	StorageID flexID `json:"storage_id" validate:"required"`
}

// --- Storage ---

type createStorageRequest struct {
	UserID    flexID `json:"user_id" validate:"required"`
	ProductID flexID `json:"product_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type patchStorageRequest struct {
	Status  *string `json:"status"`
	EndDate *string `json:"end_date"`
}
