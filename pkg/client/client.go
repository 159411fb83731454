package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrUnauthorized is returned for 401 responses: the token is missing,
// expired or revoked.
var ErrUnauthorized = errors.New("unauthorized")

// APIError carries a non-401 error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Client is the HTTP adapter for the warehousing API. It injects
// "Authorization: Token <token>" on every request while a token is held and
// decodes the server's JSON envelopes. It is not safe for concurrent use;
// each logical owner keeps its own Client.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
	log     zerolog.Logger
}

// New creates a Client for the API at baseURL. A nil httpc falls back to a
// client with a 15 second timeout.
func New(baseURL string, httpc *http.Client, log zerolog.Logger) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		log:     log,
	}
}

// SetToken installs the token injected on subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// ClearToken drops the held token.
func (c *Client) ClearToken() { c.token = "" }

// Token returns the currently held token, empty when anonymous.
func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the server's {"error": "..."} envelope, falling back
// to the raw body.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Error != "" {
		return envelope.Error
	}
	return strings.TrimSpace(string(raw))
}

// --- Auth ---

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token. The token is not installed on the
// client; the session store decides when identity becomes current.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/login/", loginBody{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Logout revokes the session behind the held token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/users/logout/", nil, nil)
}

// Me fetches the profile of the token's owner.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RegisterInput is the public registration payload.
type RegisterInput struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Patronymic  string `json:"patronymic,omitempty"`
	CompanyName string `json:"company_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

// Register creates a new client account.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/auth/register/", in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Catalog ---

// Products fetches the product catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products/", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// --- Requests ---

type createRequestBody struct {
	ProductID ID     `json:"product_id"`
	StartDate string `json:"start_date"`
	Quantity  int    `json:"quantity"`
}

// Requests fetches the storage requests visible to the caller.
func (c *Client) Requests(ctx context.Context) ([]Request, error) {
	var requests []Request
	if err := c.do(ctx, http.MethodGet, "/requests/", nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// CreateRequest submits a new storage request.
func (c *Client) CreateRequest(ctx context.Context, productID ID, startDate string, quantity int) (*Request, error) {
	var created Request
	body := createRequestBody{ProductID: productID, StartDate: startDate, Quantity: quantity}
	if err := c.do(ctx, http.MethodPost, "/requests/", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type linkStorageBody struct {
	StorageID ID `json:"storage_id"`
}

// LinkStorage attaches a storage record to a request.
func (c *Client) LinkStorage(ctx context.Context, requestID, storageID ID) (*Request, error) {
	var updated Request
	if err := c.do(ctx, http.MethodPatch, "/requests/"+string(requestID)+"/", linkStorageBody{StorageID: storageID}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// --- Storage ---

type createStorageBody struct {
	UserID    ID     `json:"user_id"`
	ProductID ID     `json:"product_id"`
	StartDate string `json:"start_date"`
	Quantity  int    `json:"quantity"`
}

// Storages fetches the storage records visible to the caller.
func (c *Client) Storages(ctx context.Context) ([]Storage, error) {
	var storages []Storage
	if err := c.do(ctx, http.MethodGet, "/storage/", nil, &storages); err != nil {
		return nil, err
	}
	return storages, nil
}

// CreateStorage opens a pending storage record on behalf of a client.
func (c *Client) CreateStorage(ctx context.Context, userID, productID ID, startDate string, quantity int) (*Storage, error) {
	var created Storage
	body := createStorageBody{UserID: userID, ProductID: productID, StartDate: startDate, Quantity: quantity}
	if err := c.do(ctx, http.MethodPost, "/storage/", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type updateStorageBody struct {
	Status  Status `json:"status,omitempty"`
	EndDate string `json:"end_date,omitempty"`
}

// UpdateStorageStatus applies a status decision to a storage record.
func (c *Client) UpdateStorageStatus(ctx context.Context, id ID, next Status) (*Storage, error) {
	var updated Storage
	if err := c.do(ctx, http.MethodPatch, "/storage/"+string(id)+"/", updateStorageBody{Status: next}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

type closeStorageBody struct {
	EndDate string `json:"end_date"`
	Status  Status `json:"status"`
}

// CloseStorage terminates a storage record. The body carries status
// "approved" alongside the end date; existing deployments expect that exact
// shape and normalise it to the closed state server-side.
func (c *Client) CloseStorage(ctx context.Context, id ID, endDate string) (*Storage, error) {
	var updated Storage
	body := closeStorageBody{EndDate: endDate, Status: StatusApproved}
	if err := c.do(ctx, http.MethodPatch, "/storage/"+string(id)+"/", body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
