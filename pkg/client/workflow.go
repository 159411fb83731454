package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrInvalidInput marks a mutation refused locally, before any network call.
var ErrInvalidInput = errors.New("invalid input")

// Workflow drives the request/storage lifecycle and owns the local view of
// both lists. Mutations validate locally first, hit the server, and reload
// the lists after every success, so the local view always reflects a state
// the server has confirmed. A failed mutation leaves the prior view
// untouched and is never retried automatically.
type Workflow struct {
	client *Client
	log    zerolog.Logger

	requests []Request
	storages []Storage
}

func NewWorkflow(client *Client, log zerolog.Logger) *Workflow {
	return &Workflow{client: client, log: log}
}

// Requests returns the last loaded request list.
func (w *Workflow) Requests() []Request { return w.requests }

// Storages returns the last loaded storage list.
func (w *Workflow) Storages() []Storage { return w.storages }

// Refresh reloads both lists from the server.
func (w *Workflow) Refresh(ctx context.Context) error {
	requests, err := w.client.Requests(ctx)
	if err != nil {
		return err
	}
	storages, err := w.client.Storages(ctx)
	if err != nil {
		return err
	}
	w.requests = requests
	w.storages = storages
	return nil
}

// CreateRequest submits a new storage request. Quantity must be positive and
// the start date well-formed; both are checked before any network call.
func (w *Workflow) CreateRequest(ctx context.Context, productID ID, startDate string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)
	}
	if _, err := time.Parse(DateLayout, startDate); err != nil {
		return fmt.Errorf("%w: start date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if productID == "" {
		return fmt.Errorf("%w: product is required", ErrInvalidInput)
	}

	if _, err := w.client.CreateRequest(ctx, productID, startDate, quantity); err != nil {
		w.log.Error().Err(err).Str("product_id", string(productID)).Msg("create request failed")
		return err
	}
	return w.Refresh(ctx)
}

// CreateStorageFromRequest creates a storage record copying the request's
// user, product, start date and quantity, then links it back to the request.
// The two steps are one logical operation: if either fails the view is
// refreshed from the server before the error is returned, so a half-applied
// state is at least visible rather than silently stale.
func (w *Workflow) CreateStorageFromRequest(ctx context.Context, req Request) error {
	if req.Storage != nil {
		return fmt.Errorf("%w: request already has a storage record", ErrInvalidInput)
	}

	created, err := w.client.CreateStorage(ctx, req.UserID, req.ProductID, req.StartDate, req.Quantity)
	if err != nil {
		w.log.Error().Err(err).Str("request_id", string(req.ID)).Msg("storage creation failed")
		w.refreshAfterFailure(ctx)
		return err
	}

	if _, err := w.client.LinkStorage(ctx, req.ID, created.ID); err != nil {
		w.log.Error().Err(err).
			Str("request_id", string(req.ID)).
			Str("storage_id", string(created.ID)).
			Msg("storage created but linking failed")
		w.refreshAfterFailure(ctx)
		return err
	}

	return w.Refresh(ctx)
}

// UpdateStorageStatus applies a manager decision. Only pending records can be
// decided, and the only decisions are approved and rejected.
func (w *Workflow) UpdateStorageStatus(ctx context.Context, st Storage, next Status) error {
	if next != StatusApproved && next != StatusRejected {
		return fmt.Errorf("%w: decision must be approved or rejected", ErrInvalidInput)
	}
	if st.Status != StatusPending {
		return fmt.Errorf("%w: only pending storage can be decided", ErrInvalidInput)
	}

	if _, err := w.client.UpdateStorageStatus(ctx, st.ID, next); err != nil {
		w.log.Error().Err(err).Str("storage_id", string(st.ID)).Msg("status update failed")
		return err
	}
	return w.Refresh(ctx)
}

// CloseStorage terminates an approved record. The end date must not precede
// the start date.
func (w *Workflow) CloseStorage(ctx context.Context, st Storage, endDate string) error {
	if st.Status != StatusApproved || st.EndDate != "" {
		return fmt.Errorf("%w: only open approved storage can be closed", ErrInvalidInput)
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return fmt.Errorf("%w: end date must be YYYY-MM-DD", ErrInvalidInput)
	}
	start, err := time.Parse(DateLayout, st.StartDate)
	if err != nil {
		return fmt.Errorf("%w: storage has malformed start date", ErrInvalidInput)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date precedes start date", ErrInvalidInput)
	}

	if _, err := w.client.CloseStorage(ctx, st.ID, endDate); err != nil {
		w.log.Error().Err(err).Str("storage_id", string(st.ID)).Msg("close failed")
		return err
	}
	return w.Refresh(ctx)
}

func (w *Workflow) refreshAfterFailure(ctx context.Context) {
	if err := w.Refresh(ctx); err != nil {
		w.log.Warn().Err(err).Msg("refresh after failed mutation also failed")
	}
}
