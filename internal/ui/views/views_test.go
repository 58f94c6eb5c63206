package views

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/infrastructure/apiclient"
	"github.com/obraportal/portal-client/internal/infrastructure/credential"
	"github.com/obraportal/portal-client/internal/ui/fetch"
)

type stubBuildings struct {
	buildings []domain.Building
	workers   []domain.Worker
	bErr      error
	wErr      error
}

func (s *stubBuildings) ListBuildings(context.Context) ([]domain.Building, error) {
	return s.buildings, s.bErr
}

func (s *stubBuildings) ListWorkers(context.Context) ([]domain.Worker, error) {
	return s.workers, s.wErr
}

func TestBuildingsView_PopulatedWithAllItems(t *testing.T) {
	api := &stubBuildings{
		buildings: []domain.Building{{ID: 1, Name: "Torre A"}, {ID: 2, Name: "Torre B"}, {ID: 3, Name: "Torre C"}},
		workers:   []domain.Worker{{ID: 7, Name: "Ana"}},
	}
	v := NewBuildingsView(api, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.Wait()

	if got := v.RenderBuildings(); got.Kind != fetch.RenderPopulated {
		t.Fatalf("expected populated, got %s", got.Kind)
	}
	if len(v.Buildings()) != 3 {
		t.Fatalf("expected 3 buildings, got %d", len(v.Buildings()))
	}
	if got := v.RenderWorkers(); got.Kind != fetch.RenderPopulated {
		t.Fatalf("expected populated workers, got %s", got.Kind)
	}
}

func TestBuildingsView_EmptyRendersEmptyState(t *testing.T) {
	v := NewBuildingsView(&stubBuildings{buildings: []domain.Building{}, workers: []domain.Worker{}}, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.Wait()

	got := v.RenderBuildings()
	if got.Kind != fetch.RenderEmpty {
		t.Fatalf("expected empty, got %s", got.Kind)
	}
	if got.Message == "" {
		t.Fatal("expected an empty-state message")
	}
	if _, ok := v.buildings.State().Data(); !ok {
		t.Fatal("expected buildings slot loaded")
	}
}

func TestBuildingsView_FailureDoesNotBlockSibling(t *testing.T) {
	api := &stubBuildings{
		buildings: []domain.Building{{ID: 1}},
		wErr:      &domain.FetchError{Kind: domain.ServerRejected, Status: 500, Message: "workers unavailable"},
	}
	v := NewBuildingsView(api, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.Wait()

	if got := v.RenderBuildings(); got.Kind != fetch.RenderPopulated {
		t.Fatalf("expected buildings populated, got %s", got.Kind)
	}
	got := v.RenderWorkers()
	if got.Kind != fetch.RenderError || got.Message != "workers unavailable" {
		t.Fatalf("expected workers error, got %+v", got)
	}
}

type gatedEvents struct {
	mu      sync.Mutex
	gates   map[int64]chan struct{}
	created []domain.Event
	deleted []int64
	calls   atomic.Int32
}

func newGatedEvents() *gatedEvents {
	return &gatedEvents{gates: map[int64]chan struct{}{}}
}

func (g *gatedEvents) gate(building int64) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[building]
	if !ok {
		ch = make(chan struct{})
		g.gates[building] = ch
	}
	return ch
}

func (g *gatedEvents) ListEvents(ctx context.Context, building int64) ([]domain.Event, error) {
	g.calls.Add(1)
	select {
	case <-g.gate(building):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []domain.Event{{ID: building * 10, BuildingID: building, Title: "Entrega"}}, nil
}

func (g *gatedEvents) CreateEvent(_ context.Context, ev domain.Event) error {
	g.mu.Lock()
	g.created = append(g.created, ev)
	g.mu.Unlock()
	return nil
}

func (g *gatedEvents) UpdateEvent(context.Context, domain.Event) error { return nil }

func (g *gatedEvents) DeleteEvent(_ context.Context, id int64) error {
	g.mu.Lock()
	g.deleted = append(g.deleted, id)
	g.mu.Unlock()
	return nil
}

func TestKeyedView_WaitingThenLoading(t *testing.T) {
	api := newGatedEvents()
	v := NewEventsView(api, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()

	if got := v.Render(); got.Kind != fetch.RenderWaiting {
		t.Fatalf("expected waiting without building, got %s", got.Kind)
	}
	if api.calls.Load() != 0 {
		t.Fatal("no request may be issued without the building id")
	}

	v.SetKey(4)
	if got := v.Render(); got.Kind != fetch.RenderLoading {
		t.Fatalf("expected loading, got %s", got.Kind)
	}
	close(api.gate(4))
	v.Wait()
	if got := v.Render(); got.Kind != fetch.RenderPopulated {
		t.Fatalf("expected populated, got %s", got.Kind)
	}

	v.ClearKey()
	if _, ok := v.Key(); ok {
		t.Fatal("key must be gone after ClearKey")
	}
	if got := v.Render(); got.Kind != fetch.RenderWaiting {
		t.Fatalf("expected waiting after ClearKey, got %s", got.Kind)
	}
}

func TestKeyedView_StaleResponseDiscarded(t *testing.T) {
	api := newGatedEvents()
	v := NewEventsView(api, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()

	v.SetKey(1)
	v.SetKey(2)
	close(api.gate(2))
	close(api.gate(1))
	v.Wait()

	items := v.Items()
	if len(items) != 1 || items[0].BuildingID != 2 {
		t.Fatalf("expected events of building 2, got %+v", items)
	}
}

func TestKeyedView_ResultAfterUnmountIgnored(t *testing.T) {
	api := newGatedEvents()
	v := NewEventsView(api, zerolog.Nop())
	v.Mount(context.Background())
	v.SetKey(3)
	v.Unmount()
	close(api.gate(3))
	v.Wait()

	if _, ok := v.State().Data(); ok {
		t.Fatal("state changed after unmount")
	}
}

func TestEventsView_CreateRefreshes(t *testing.T) {
	api := newGatedEvents()
	close(api.gate(9))
	v := NewEventsView(api, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.SetKey(9)
	v.Wait()

	v.Create.Open(EventForm{})
	v.Create.Edit(func(f *EventForm) {
		f.Title = "Visita de obra"
		f.Date = "2026-11-02"
		f.Time = "10:30"
	})
	if err := v.Create.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v.Wait()

	if len(api.created) != 1 || api.created[0].BuildingID != 9 {
		t.Fatalf("unexpected created events %+v", api.created)
	}
	if api.calls.Load() != 2 {
		t.Fatalf("expected a refresh after create, got %d list calls", api.calls.Load())
	}
}

func TestEventsView_DeleteNeedsConfirmation(t *testing.T) {
	api := newGatedEvents()
	close(api.gate(9))
	v := NewEventsView(api, zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.SetKey(9)
	v.Wait()

	v.Delete.Open(DeleteForm{ID: 90})
	if err := v.Delete.Submit(context.Background()); !errors.Is(err, domain.ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if len(api.deleted) != 0 {
		t.Fatal("delete issued without confirmation")
	}
	v.Delete.Confirm()
	if err := v.Delete.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != 90 {
		t.Fatalf("unexpected deletes %v", api.deleted)
	}
}

func TestEventsView_UnopenedDeleteIsRejected(t *testing.T) {
	api := newGatedEvents()
	v := NewEventsView(api, zerolog.Nop())

	v.Delete.Confirm()
	if err := v.Delete.Submit(context.Background()); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(api.deleted) != 0 {
		t.Fatalf("no delete may be sent for id 0, got %v", api.deleted)
	}
	if v.Delete.Outcome().ErrorMessage == "" {
		t.Fatal("expected a validation message")
	}
}

func TestIncidentsView_StatusUpdatePatchesWithoutRefetch(t *testing.T) {
	var lists, puts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/buildings/5/incidents":
			lists.Add(1)
			_ = json.NewEncoder(w).Encode([]domain.Incident{
				{ID: 11, BuildingID: 5, Description: "Fuga", Status: domain.IncidentPending},
				{ID: 12, BuildingID: 5, Description: "Grieta", Status: domain.IncidentInProgress},
			})
		case r.Method == http.MethodPut && r.URL.Path == "/api/buildings/5/incidents/12":
			puts.Add(1)
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"status":"RESOLVED"}`+"\n" && string(body) != `{"status":"RESOLVED"}` {
				t.Errorf("unexpected body %q", body)
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := apiclient.New(srv.URL, credential.NewMemoryStore(), zerolog.Nop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	v := NewIncidentsView(apiclient.NewPortal(client), zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.SetKey(5)
	v.Wait()

	v.OpenStatus(v.Items()[1])
	v.ChangeStatus.Edit(func(f *StatusForm) { f.Status = string(domain.IncidentResolved) })
	if err := v.ChangeStatus.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v.Wait()

	items := v.Items()
	if items[1].ID != 12 || items[1].Status != domain.IncidentResolved {
		t.Fatalf("expected incident 12 resolved, got %+v", items[1])
	}
	if items[0].Status != domain.IncidentPending {
		t.Fatalf("other incidents must be untouched, got %+v", items[0])
	}
	if lists.Load() != 1 || puts.Load() != 1 {
		t.Fatalf("expected 1 list and 1 put, got %d and %d", lists.Load(), puts.Load())
	}
}

func TestIncidentsView_MismatchedReplyPatchesStatusOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/buildings/5/incidents":
			_, _ = w.Write([]byte(`[{"id":12,"buildingId":5,"description":"leak","status":"PENDING"}]`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/buildings/5/incidents/12":
			_, _ = w.Write([]byte(`{"id":12,"buildingId":"five","status":"RESOLVED"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := apiclient.New(srv.URL, credential.NewMemoryStore(), zerolog.Nop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	v := NewIncidentsView(apiclient.NewPortal(client), zerolog.Nop())
	v.Mount(context.Background())
	defer v.Unmount()
	v.SetKey(5)
	v.Wait()

	err = v.UpdateStatus(context.Background(), 12, domain.IncidentResolved)
	if !domain.IsFetchKind(err, domain.DecodeFailure) {
		t.Fatalf("expected DecodeFailure, got %v", err)
	}
	got := v.Items()[0]
	want := domain.Incident{ID: 12, BuildingID: 5, Description: "leak", Status: domain.IncidentResolved}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestIncidentsView_StatusMustBeKnown(t *testing.T) {
	v := NewIncidentsView(apiclient.NewPortal(nil), zerolog.Nop())
	v.ChangeStatus.Open(StatusForm{IncidentID: 1, Status: "CLOSED"})
	if err := v.ChangeStatus.Submit(context.Background()); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
