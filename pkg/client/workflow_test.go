package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

// recordedCall captures one request the workflow sent to the server.
type recordedCall struct {
	method string
	path   string
	body   string
}

// workflowAPI is a scriptable warehousing API for workflow tests.
type workflowAPI struct {
	t        *testing.T
	calls    []recordedCall
	requests []Request
	storages []Storage

	failStorageCreate bool
	failLink          bool
}

func (f *workflowAPI) record(r *http.Request) recordedCall {
	raw, _ := io.ReadAll(r.Body)
	call := recordedCall{method: r.Method, path: r.URL.Path, body: string(raw)}
	f.calls = append(f.calls, call)
	return call
}

func (f *workflowAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /requests/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_ = json.NewEncoder(w).Encode(f.requests)
	})
	mux.HandleFunc("POST /requests/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Request{ID: "101"})
	})
	mux.HandleFunc("PATCH /requests/{id}/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if f.failLink {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "request already has a storage record"})
			return
		}
		_ = json.NewEncoder(w).Encode(Request{ID: ID(r.PathValue("id"))})
	})

	mux.HandleFunc("GET /storage/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_ = json.NewEncoder(w).Encode(f.storages)
	})
	mux.HandleFunc("POST /storage/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if f.failStorageCreate {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "product not found"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Storage{ID: "42", Status: StatusPending})
	})
	mux.HandleFunc("PATCH /storage/{id}/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_ = json.NewEncoder(w).Encode(Storage{ID: ID(r.PathValue("id"))})
	})

	return mux
}

func (f *workflowAPI) callsTo(method, path string) []recordedCall {
	var out []recordedCall
	for _, c := range f.calls {
		if c.method == method && c.path == path {
			out = append(out, c)
		}
	}
	return out
}

func newWorkflowFixture(t *testing.T) (*workflowAPI, *Workflow) {
	t.Helper()
	api := &workflowAPI{t: t}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	c := New(srv.URL, srv.Client(), zerolog.Nop())
	c.SetToken("tok")
	return api, NewWorkflow(c, zerolog.Nop())
}

func assertJSONBody(t *testing.T, got string, want map[string]any) {
	t.Helper()
	var decoded map[string]any
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("body is not JSON: %q", got)
	}
	if !reflect.DeepEqual(decoded, want) {
		t.Fatalf("body = %v, want %v", decoded, want)
	}
}

func TestWorkflow_CreateRequest_WireBody(t *testing.T) {
	api, w := newWorkflowFixture(t)

	if err := w.CreateRequest(context.Background(), "7", "2024-06-01", 3); err != nil {
		t.Fatalf("create request: %v", err)
	}

	posts := api.callsTo(http.MethodPost, "/requests/")
	if len(posts) != 1 {
		t.Fatalf("expected 1 POST /requests/, got %d", len(posts))
	}
	assertJSONBody(t, posts[0].body, map[string]any{
		"product_id": float64(7),
		"start_date": "2024-06-01",
		"quantity":   float64(3),
	})

	// Both lists reload after the mutation.
	if len(api.callsTo(http.MethodGet, "/requests/")) != 1 || len(api.callsTo(http.MethodGet, "/storage/")) != 1 {
		t.Fatalf("expected a refresh after success, calls: %+v", api.calls)
	}
}

func TestWorkflow_CreateRequest_ValidatesBeforeNetwork(t *testing.T) {
	api, w := newWorkflowFixture(t)
	ctx := context.Background()

	for _, tc := range []struct {
		name string
		run  func() error
	}{
		{"zero quantity", func() error { return w.CreateRequest(ctx, "7", "2024-06-01", 0) }},
		{"negative quantity", func() error { return w.CreateRequest(ctx, "7", "2024-06-01", -2) }},
		{"empty start date", func() error { return w.CreateRequest(ctx, "7", "", 3) }},
		{"garbage start date", func() error { return w.CreateRequest(ctx, "7", "June 1st", 3) }},
		{"missing product", func() error { return w.CreateRequest(ctx, "", "2024-06-01", 3) }},
	} {
		if err := tc.run(); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}

	if len(api.calls) != 0 {
		t.Fatalf("invalid input must not reach the network: %+v", api.calls)
	}
}

func TestWorkflow_CreateStorageFromRequest_TwoSteps(t *testing.T) {
	api, w := newWorkflowFixture(t)

	req := Request{ID: "9", UserID: "11", ProductID: "7", StartDate: "2024-06-01", Quantity: 3}
	if err := w.CreateStorageFromRequest(context.Background(), req); err != nil {
		t.Fatalf("create storage from request: %v", err)
	}

	posts := api.callsTo(http.MethodPost, "/storage/")
	if len(posts) != 1 {
		t.Fatalf("expected 1 POST /storage/, got %d", len(posts))
	}
	assertJSONBody(t, posts[0].body, map[string]any{
		"user_id":    float64(11),
		"product_id": float64(7),
		"start_date": "2024-06-01",
		"quantity":   float64(3),
	})

	links := api.callsTo(http.MethodPatch, "/requests/9/")
	if len(links) != 1 {
		t.Fatalf("expected 1 PATCH /requests/9/, got %d", len(links))
	}
	assertJSONBody(t, links[0].body, map[string]any{"storage_id": float64(42)})

	// Storage creation must precede linking.
	var createIdx, linkIdx int
	for i, c := range api.calls {
		if c.method == http.MethodPost && c.path == "/storage/" {
			createIdx = i
		}
		if c.method == http.MethodPatch && c.path == "/requests/9/" {
			linkIdx = i
		}
	}
	if createIdx >= linkIdx {
		t.Fatalf("link happened before storage creation: %+v", api.calls)
	}
}

func TestWorkflow_CreateStorageFromRequest_RefusedWhenLinked(t *testing.T) {
	api, w := newWorkflowFixture(t)

	req := Request{ID: "9", Storage: &Storage{ID: "42"}}
	if err := w.CreateStorageFromRequest(context.Background(), req); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Fatalf("refused operation must not reach the network: %+v", api.calls)
	}
}

func TestWorkflow_CreateStorageFromRequest_LinkFailureRefreshes(t *testing.T) {
	api, w := newWorkflowFixture(t)
	api.failLink = true

	req := Request{ID: "9", UserID: "11", ProductID: "7", StartDate: "2024-06-01", Quantity: 3}
	err := w.CreateStorageFromRequest(context.Background(), req)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 APIError, got %v", err)
	}
	// The half-applied state is re-read from the server before returning.
	if len(api.callsTo(http.MethodGet, "/requests/")) != 1 || len(api.callsTo(http.MethodGet, "/storage/")) != 1 {
		t.Fatalf("expected a refresh after the failed link, calls: %+v", api.calls)
	}
}

func TestWorkflow_UpdateStorageStatus(t *testing.T) {
	api, w := newWorkflowFixture(t)

	st := Storage{ID: "42", Status: StatusPending}
	if err := w.UpdateStorageStatus(context.Background(), st, StatusApproved); err != nil {
		t.Fatalf("update status: %v", err)
	}

	patches := api.callsTo(http.MethodPatch, "/storage/42/")
	if len(patches) != 1 {
		t.Fatalf("expected 1 PATCH /storage/42/, got %d", len(patches))
	}
	assertJSONBody(t, patches[0].body, map[string]any{"status": "approved"})
}

func TestWorkflow_UpdateStorageStatus_RefusedLocally(t *testing.T) {
	api, w := newWorkflowFixture(t)
	ctx := context.Background()

	if err := w.UpdateStorageStatus(ctx, Storage{ID: "42", Status: StatusApproved}, StatusRejected); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("deciding a non-pending record: expected ErrInvalidInput, got %v", err)
	}
	if err := w.UpdateStorageStatus(ctx, Storage{ID: "42", Status: StatusPending}, StatusClosed); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("closed is not a decision: expected ErrInvalidInput, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Fatalf("refused operations must not reach the network: %+v", api.calls)
	}
}

func TestWorkflow_CloseStorage_WireBody(t *testing.T) {
	api, w := newWorkflowFixture(t)

	st := Storage{ID: "42", Status: StatusApproved, StartDate: "2024-06-01"}
	if err := w.CloseStorage(context.Background(), st, "2024-07-01"); err != nil {
		t.Fatalf("close storage: %v", err)
	}

	patches := api.callsTo(http.MethodPatch, "/storage/42/")
	if len(patches) != 1 {
		t.Fatalf("expected 1 PATCH /storage/42/, got %d", len(patches))
	}
	assertJSONBody(t, patches[0].body, map[string]any{
		"end_date": "2024-07-01",
		"status":   "approved",
	})
}

func TestWorkflow_CloseStorage_RefusedLocally(t *testing.T) {
	api, w := newWorkflowFixture(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		st      Storage
		endDate string
	}{
		{"pending record", Storage{ID: "1", Status: StatusPending, StartDate: "2024-06-01"}, "2024-07-01"},
		{"already closed", Storage{ID: "2", Status: StatusClosed, StartDate: "2024-06-01", EndDate: "2024-06-30"}, "2024-07-01"},
		{"end before start", Storage{ID: "3", Status: StatusApproved, StartDate: "2024-06-01"}, "2024-05-01"},
		{"garbage end date", Storage{ID: "4", Status: StatusApproved, StartDate: "2024-06-01"}, "soon"},
	}
	for _, tc := range cases {
		if err := w.CloseStorage(ctx, tc.st, tc.endDate); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
	if len(api.calls) != 0 {
		t.Fatalf("refused operations must not reach the network: %+v", api.calls)
	}
}

func TestWorkflow_CloseStorage_SameDayAllowed(t *testing.T) {
	_, w := newWorkflowFixture(t)

	st := Storage{ID: "42", Status: StatusApproved, StartDate: "2024-06-01"}
	if err := w.CloseStorage(context.Background(), st, "2024-06-01"); err != nil {
		t.Fatalf("end date equal to start date must be allowed: %v", err)
	}
}

func TestWorkflow_Refresh_ReplacesLocalView(t *testing.T) {
	api, w := newWorkflowFixture(t)
	api.requests = []Request{{ID: "1"}, {ID: "2"}}
	api.storages = []Storage{{ID: "42", Status: StatusPending}}

	if err := w.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(w.Requests()) != 2 || len(w.Storages()) != 1 {
		t.Fatalf("local view not replaced: %d requests, %d storages", len(w.Requests()), len(w.Storages()))
	}
}
