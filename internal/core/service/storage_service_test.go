package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/skladhub/warehousing-system/internal/core/domain"
	"github.com/skladhub/warehousing-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubStorageRepo struct {
	byID       map[string]*domain.Storage
	nextID     int
	lastFilter string
	createErr  error
	updateErr  error
}

func newStubStorageRepo() *stubStorageRepo {
	return &stubStorageRepo{byID: make(map[string]*domain.Storage)}
}

func (r *stubStorageRepo) Create(_ context.Context, s *domain.Storage) (*domain.Storage, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *s
	clone.ID = fmt.Sprintf("st-%d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubStorageRepo) FindByID(_ context.Context, id string) (*domain.Storage, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrStorageNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubStorageRepo) List(_ context.Context, userID string) ([]*domain.Storage, error) {
	r.lastFilter = userID
	var out []*domain.Storage
	for _, s := range r.byID {
		if userID != "" && s.UserID != userID {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubStorageRepo) UpdateStatus(_ context.Context, id string, status domain.StorageStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	s, ok := r.byID[id]
	if !ok {
		return domain.ErrStorageNotFound
	}
	s.Status = status
	return nil
}

func (r *stubStorageRepo) Close(_ context.Context, id string, endDate string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	s, ok := r.byID[id]
	if !ok {
		return domain.ErrStorageNotFound
	}
	s.EndDate = endDate
	s.Status = domain.StatusClosed
	return nil
}

type stubProductRepo struct {
	byID map[string]*domain.Product
}

func newStubProductRepo(products ...*domain.Product) *stubProductRepo {
	r := &stubProductRepo{byID: make(map[string]*domain.Product)}
	for _, p := range products {
		r.byID[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

type recordingSink struct {
	events []domain.StorageEvent
}

func (s *recordingSink) Enqueue(e domain.StorageEvent) {
	s.events = append(s.events, e)
}

func testProduct() *domain.Product {
	return &domain.Product{ID: "p-7", Name: "Pallet rack", Description: "std", PricePerUnit: 150}
}

func newStorageService(repo *stubStorageRepo, sink ports.EventSink) *StorageService {
	return NewStorageService(repo, newStubProductRepo(testProduct()), sink, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestStorageService_Create_PendingWithDerivedAmount(t *testing.T) {
	repo := newStubStorageRepo()
	svc := newStorageService(repo, nil)

	created, err := svc.Create(context.Background(), ports.CreateStorageInput{
		UserID: "u-1", ProductID: "p-7", StartDate: "2024-06-01", Quantity: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != domain.StatusPending {
		t.Errorf("expected pending status, got %q", created.Status)
	}
	if created.Amount != 450 {
		t.Errorf("expected amount 450 (150x3), got %v", created.Amount)
	}
	if created.EndDate != "" {
		t.Errorf("new storage must have no end date, got %q", created.EndDate)
	}
}

func TestStorageService_Create_RejectsBadInput(t *testing.T) {
	svc := newStorageService(newStubStorageRepo(), nil)

	_, err := svc.Create(context.Background(), ports.CreateStorageInput{
		UserID: "u-1", ProductID: "p-7", StartDate: "2024-06-01", Quantity: 0,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero quantity: expected ErrValidation, got %v", err)
	}

	_, err = svc.Create(context.Background(), ports.CreateStorageInput{
		UserID: "u-1", ProductID: "p-7", StartDate: "June 1st", Quantity: 1,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad date: expected ErrValidation, got %v", err)
	}

	_, err = svc.Create(context.Background(), ports.CreateStorageInput{
		UserID: "u-1", ProductID: "p-404", StartDate: "2024-06-01", Quantity: 1,
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("unknown product: expected ErrProductNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// UpdateStatus
// ---------------------------------------------------------------------------

func seedStorage(repo *stubStorageRepo, status domain.StorageStatus, endDate string) *domain.Storage {
	repo.nextID++
	id := fmt.Sprintf("st-%d", repo.nextID)
	s := &domain.Storage{
		ID: id, UserID: "u-1", ProductID: "p-7",
		StartDate: "2024-06-01", Quantity: 3, Amount: 450,
		Status: status, EndDate: endDate,
	}
	repo.byID[id] = s
	return s
}

func TestStorageService_UpdateStatus_FromPending(t *testing.T) {
	for _, next := range []domain.StorageStatus{domain.StatusApproved, domain.StatusRejected} {
		repo := newStubStorageRepo()
		sink := &recordingSink{}
		svc := newStorageService(repo, sink)
		seeded := seedStorage(repo, domain.StatusPending, "")

		updated, err := svc.UpdateStatus(context.Background(), seeded.ID, next, "mgr-1")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", next, err)
		}
		if updated.Status != next {
			t.Errorf("expected %q, got %q", next, updated.Status)
		}
		if len(sink.events) != 1 {
			t.Fatalf("expected 1 audit event, got %d", len(sink.events))
		}
		if sink.events[0].From != domain.StatusPending || sink.events[0].To != next {
			t.Errorf("audit event: got %s -> %s", sink.events[0].From, sink.events[0].To)
		}
		if sink.events[0].Actor != "mgr-1" {
			t.Errorf("audit actor: got %q", sink.events[0].Actor)
		}
	}
}

func TestStorageService_UpdateStatus_OnlyFromPending(t *testing.T) {
	for _, current := range []domain.StorageStatus{domain.StatusApproved, domain.StatusRejected} {
		repo := newStubStorageRepo()
		svc := newStorageService(repo, nil)
		seeded := seedStorage(repo, current, "")

		_, err := svc.UpdateStatus(context.Background(), seeded.ID, domain.StatusApproved, "mgr-1")
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("from %s: expected ErrInvalidTransition, got %v", current, err)
		}
	}
}

func TestStorageService_UpdateStatus_ClosedIsImmutable(t *testing.T) {
	repo := newStubStorageRepo()
	svc := newStorageService(repo, nil)
	seeded := seedStorage(repo, domain.StatusClosed, "2024-07-01")

	_, err := svc.UpdateStatus(context.Background(), seeded.ID, domain.StatusRejected, "mgr-1")
	if !errors.Is(err, domain.ErrStorageClosed) {
		t.Errorf("expected ErrStorageClosed, got %v", err)
	}
}

func TestStorageService_UpdateStatus_RejectsNonDecisionTargets(t *testing.T) {
	repo := newStubStorageRepo()
	svc := newStorageService(repo, nil)
	seeded := seedStorage(repo, domain.StatusPending, "")

	for _, next := range []domain.StorageStatus{domain.StatusPending, domain.StatusClosed, "shipped"} {
		if _, err := svc.UpdateStatus(context.Background(), seeded.ID, next, "mgr-1"); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("target %q: expected ErrInvalidTransition, got %v", next, err)
		}
	}
}

func TestStorageService_UpdateStatus_NotFound(t *testing.T) {
	svc := newStorageService(newStubStorageRepo(), nil)

	_, err := svc.UpdateStatus(context.Background(), "st-404", domain.StatusApproved, "mgr-1")
	if !errors.Is(err, domain.ErrStorageNotFound) {
		t.Errorf("expected ErrStorageNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Close
// ---------------------------------------------------------------------------

func TestStorageService_Close_ApprovedRecord(t *testing.T) {
	repo := newStubStorageRepo()
	sink := &recordingSink{}
	svc := newStorageService(repo, sink)
	seeded := seedStorage(repo, domain.StatusApproved, "")

	closed, err := svc.Close(context.Background(), seeded.ID, "2024-07-01", "mgr-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed.Status != domain.StatusClosed {
		t.Errorf("expected closed status, got %q", closed.Status)
	}
	if closed.EndDate != "2024-07-01" {
		t.Errorf("expected end date set, got %q", closed.EndDate)
	}
	if len(sink.events) != 1 || sink.events[0].To != domain.StatusClosed {
		t.Errorf("expected a close audit event, got %+v", sink.events)
	}
}

func TestStorageService_Close_RefusedUnlessApproved(t *testing.T) {
	for _, current := range []domain.StorageStatus{domain.StatusPending, domain.StatusRejected} {
		repo := newStubStorageRepo()
		svc := newStorageService(repo, nil)
		seeded := seedStorage(repo, current, "")

		_, err := svc.Close(context.Background(), seeded.ID, "2024-07-01", "mgr-1")
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("from %s: expected ErrInvalidTransition, got %v", current, err)
		}
	}
}

func TestStorageService_Close_AlreadyClosed(t *testing.T) {
	repo := newStubStorageRepo()
	svc := newStorageService(repo, nil)
	seeded := seedStorage(repo, domain.StatusClosed, "2024-07-01")

	_, err := svc.Close(context.Background(), seeded.ID, "2024-08-01", "mgr-1")
	if !errors.Is(err, domain.ErrStorageClosed) {
		t.Errorf("expected ErrStorageClosed, got %v", err)
	}
}

func TestStorageService_Close_EndDateBeforeStart(t *testing.T) {
	repo := newStubStorageRepo()
	svc := newStorageService(repo, nil)
	seeded := seedStorage(repo, domain.StatusApproved, "")

	_, err := svc.Close(context.Background(), seeded.ID, "2024-05-31", "mgr-1")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestStorageService_List_RoleScoping(t *testing.T) {
	repo := newStubStorageRepo()
	svc := newStorageService(repo, nil)
	seedStorage(repo, domain.StatusPending, "")
	other := seedStorage(repo, domain.StatusPending, "")
	repo.byID[other.ID].UserID = "u-2"

	all, err := svc.List(context.Background(), domain.RoleManager, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("manager: expected 2 records, got %d", len(all))
	}
	if repo.lastFilter != "" {
		t.Errorf("manager query must not carry a user filter, got %q", repo.lastFilter)
	}

	own, err := svc.List(context.Background(), domain.RoleClient, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(own) != 1 {
		t.Errorf("client: expected 1 record, got %d", len(own))
	}
	if repo.lastFilter != "u-1" {
		t.Errorf("client query must filter by owner, got %q", repo.lastFilter)
	}
}
