package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/skladhub/warehousing-system/internal/core/domain"
	"github.com/skladhub/warehousing-system/internal/core/ports"
)

// RequestService implements the storage-request use cases.
type RequestService struct {
	requests ports.RequestRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewRequestService(requests ports.RequestRepository, products ports.ProductRepository, logger zerolog.Logger) *RequestService {
	return &RequestService{requests: requests, products: products, logger: logger}
}

// Create validates and persists a new request. The record starts unlinked:
// it awaits a manager creating a storage record for it.
func (s *RequestService) Create(ctx context.Context, input ports.CreateRequestInput) (*domain.Request, error) {
	if input.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}
	if _, err := time.Parse(domain.DateLayout, input.StartDate); err != nil {
		return nil, fmt.Errorf("%w: start_date must be %s", domain.ErrValidation, domain.DateLayout)
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		return nil, err
	}

	request := &domain.Request{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		StartDate: input.StartDate,
		Quantity:  input.Quantity,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.requests.Create(ctx, request)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create request")
		return nil, err
	}

	s.logger.Info().Str("request_id", created.ID).Str("product_id", created.ProductID).Int("quantity", created.Quantity).Msg("request created")
	return created, nil
}

// List returns requests scoped by role: managers see everything, clients only
// their own records.
func (s *RequestService) List(ctx context.Context, role domain.Role, userID string) ([]*domain.Request, error) {
	filter := userID
	if role == domain.RoleManager {
		filter = ""
	}
	return s.requests.List(ctx, filter)
}

// LinkStorage attaches a storage record to a request. A request can carry at
// most one storage; linking twice is refused.
func (s *RequestService) LinkStorage(ctx context.Context, requestID, storageID string) (*domain.Request, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Linked() {
		return nil, domain.ErrStorageAlreadyLinked
	}

	if err := s.requests.SetStorageID(ctx, requestID, storageID); err != nil {
		s.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to link storage")
		return nil, err
	}

	s.logger.Info().Str("request_id", requestID).Str("storage_id", storageID).Msg("storage linked to request")
	return s.requests.FindByID(ctx, requestID)
}
