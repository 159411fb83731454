package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/skladhub/warehousing-system/internal/core/domain"
	"github.com/skladhub/warehousing-system/internal/core/ports"
)

// StorageService implements the manager-side storage lifecycle. Transitions
// are applied synchronously so a refresh right after a mutation always sees
// the post-mutation state; only the audit trail is written asynchronously
// through the event sink.
type StorageService struct {
	storage  ports.StorageRepository
	products ports.ProductRepository
	events   ports.EventSink
	logger   zerolog.Logger
}

func NewStorageService(storage ports.StorageRepository, products ports.ProductRepository, events ports.EventSink, logger zerolog.Logger) *StorageService {
	return &StorageService{storage: storage, products: products, events: events, logger: logger}
}

// Create persists a new pending storage record from a request's data. The
// amount is derived from the product price, never taken from the caller.
func (s *StorageService) Create(ctx context.Context, input ports.CreateStorageInput) (*domain.Storage, error) {
	if input.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}
	if _, err := time.Parse(domain.DateLayout, input.StartDate); err != nil {
		return nil, fmt.Errorf("%w: start_date must be %s", domain.ErrValidation, domain.DateLayout)
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	storage := &domain.Storage{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		StartDate: input.StartDate,
		Quantity:  input.Quantity,
		Amount:    product.PricePerUnit * float64(input.Quantity),
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.storage.Create(ctx, storage)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create storage record")
		return nil, err
	}

	s.logger.Info().Str("storage_id", created.ID).Str("user_id", created.UserID).Float64("amount", created.Amount).Msg("storage record created")
	return created, nil
}

// List returns storage records scoped by role.
func (s *StorageService) List(ctx context.Context, role domain.Role, userID string) ([]*domain.Storage, error) {
	filter := userID
	if role == domain.RoleManager {
		filter = ""
	}
	return s.storage.List(ctx, filter)
}

// UpdateStatus moves a pending record to approved or rejected.
func (s *StorageService) UpdateStatus(ctx context.Context, id string, next domain.StorageStatus, actor string) (*domain.Storage, error) {
	if next != domain.StatusApproved && next != domain.StatusRejected {
		return nil, fmt.Errorf("%w: status must be approved or rejected", domain.ErrInvalidTransition)
	}

	storage, err := s.storage.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if storage.Status == domain.StatusClosed {
		return nil, domain.ErrStorageClosed
	}
	if !storage.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, storage.Status, next)
	}

	if err := s.storage.UpdateStatus(ctx, id, next); err != nil {
		s.logger.Error().Err(err).Str("storage_id", id).Msg("failed to update storage status")
		return nil, err
	}

	s.emit(storage.ID, storage.Status, next, actor)
	s.logger.Info().Str("storage_id", id).Str("from", string(storage.Status)).Str("to", string(next)).Msg("storage status updated")

	return s.storage.FindByID(ctx, id)
}

// Close terminates an approved record. The end date must not precede the
// start date; closure sets both the end date and the closed status.
func (s *StorageService) Close(ctx context.Context, id string, endDate string, actor string) (*domain.Storage, error) {
	end, err := time.Parse(domain.DateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date must be %s", domain.ErrValidation, domain.DateLayout)
	}

	storage, err := s.storage.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if storage.Status == domain.StatusClosed {
		return nil, domain.ErrStorageClosed
	}
	if !storage.Closable() {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, storage.Status, domain.StatusClosed)
	}

	start, err := time.Parse(domain.DateLayout, storage.StartDate)
	if err == nil && end.Before(start) {
		return nil, fmt.Errorf("%w: end_date precedes start_date", domain.ErrValidation)
	}

	if err := s.storage.Close(ctx, id, endDate); err != nil {
		s.logger.Error().Err(err).Str("storage_id", id).Msg("failed to close storage record")
		return nil, err
	}

	s.emit(storage.ID, storage.Status, domain.StatusClosed, actor)
	s.logger.Info().Str("storage_id", id).Str("end_date", endDate).Msg("storage record closed")

	return s.storage.FindByID(ctx, id)
}

func (s *StorageService) emit(storageID string, from, to domain.StorageStatus, actor string) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(domain.StorageEvent{
		StorageID: storageID,
		From:      from,
		To:        to,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	})
}
