package devserver_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/core/service"
	"github.com/obraportal/portal-client/internal/devserver"
	"github.com/obraportal/portal-client/internal/infrastructure/apiclient"
	"github.com/obraportal/portal-client/internal/infrastructure/chat"
	"github.com/obraportal/portal-client/internal/infrastructure/credential"
	"github.com/obraportal/portal-client/internal/infrastructure/token"
	"github.com/obraportal/portal-client/internal/ui/fetch"
	"github.com/obraportal/portal-client/internal/ui/views"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type recordingNav struct {
	got []domain.Destination
}

func (n *recordingNav) Navigate(d domain.Destination) { n.got = append(n.got, d) }

type harness struct {
	srv     *httptest.Server
	store   *credential.MemoryStore
	client  *apiclient.Client
	portal  *apiclient.Portal
	session *service.Session
	nav     *recordingNav
	hooked  int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ds, err := devserver.New(devserver.Options{JWTSecret: "test-secret", BcryptCost: bcrypt.MinCost}, zerolog.Nop())
	if err != nil {
		t.Fatalf("devserver: %v", err)
	}
	srv := httptest.NewServer(ds.Handler())
	t.Cleanup(srv.Close)

	h := &harness{srv: srv, store: credential.NewMemoryStore(), nav: &recordingNav{}}
	h.client, err = apiclient.New(srv.URL, h.store, zerolog.Nop(), apiclient.WithAuthRejectedHook(func() { h.hooked++ }))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	h.portal = apiclient.NewPortal(h.client)
	h.session = service.NewSession(h.client, h.store, token.NewJWTDecoder(), service.NewRoleRouter(zerolog.Nop()), h.nav, zerolog.Nop())
	return h
}

func (h *harness) login(t *testing.T, user, pass string) domain.Destination {
	t.Helper()
	dest, err := h.session.Authenticate(context.Background(), user, pass)
	if err != nil {
		t.Fatalf("authenticate %s: %v", user, err)
	}
	return dest
}

func TestLogin_RoutesEveryRole(t *testing.T) {
	tests := []struct {
		user, pass string
		want       domain.Destination
	}{
		{"admin", "admin123", domain.DestinationAdmin},
		{"obrero", "obrero123", domain.DestinationFieldWorker},
		{"cliente", "cliente123", domain.DestinationCustomerHome},
	}
	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			h := newHarness(t)
			if got := h.login(t, tt.user, tt.pass); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
			if len(h.nav.got) != 1 || h.nav.got[0] != tt.want {
				t.Fatalf("expected one navigation to %s, got %v", tt.want, h.nav.got)
			}
			if _, err := h.store.Load(context.Background()); err != nil {
				t.Fatalf("expected stored credential: %v", err)
			}
		})
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	_, err := h.session.Authenticate(context.Background(), "admin", "nope")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := h.store.Load(context.Background()); !errors.Is(err, domain.ErrNoCredential) {
		t.Fatalf("expected no credential, got %v", err)
	}
	if len(h.nav.got) != 0 {
		t.Fatalf("expected no navigation, got %v", h.nav.got)
	}
}

func TestCustomer_BuildingViews(t *testing.T) {
	h := newHarness(t)
	h.login(t, "cliente", "cliente123")
	claims, err := h.session.Claims(context.Background())
	if err != nil || !claims.HasBuilding() {
		t.Fatalf("expected customer claims with building, got %+v %v", claims, err)
	}

	ctx := context.Background()
	incidents := views.NewIncidentsView(h.portal, zerolog.Nop())
	images := views.NewImagesView(h.portal, zerolog.Nop())
	legal := views.NewLegalDocumentsView(h.portal, zerolog.Nop())
	for _, m := range []interface {
		Mount(context.Context)
		SetKey(int64)
		Wait()
		Render() fetch.Render
	}{incidents, images, legal} {
		m.Mount(ctx)
		if got := m.Render(); got.Kind != fetch.RenderWaiting {
			t.Fatalf("expected waiting before building id, got %s", got.Kind)
		}
		m.SetKey(*claims.BuildingID)
		m.Wait()
		if got := m.Render(); got.Kind != fetch.RenderPopulated {
			t.Fatalf("expected populated, got %+v", got)
		}
	}
	defer incidents.Unmount()
	defer images.Unmount()
	defer legal.Unmount()

	groups := images.Groups()
	if len(groups) != 3 || groups[2].Key != domain.NoRoomKey {
		t.Fatalf("unexpected groups %+v", groups)
	}
	data, err := legal.Items()[0].Decode()
	if err != nil || !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("expected a pdf document, got %v", err)
	}

	incidents.Report.Open(views.IncidentForm{})
	incidents.Report.Edit(func(f *views.IncidentForm) {
		f.Description = "Humedad en el dormitorio"
		f.Room = "2"
		f.Image = views.Attachment{Name: "humedad.png", Data: pngHeader}
	})
	if err := incidents.Report.Submit(ctx); err != nil {
		t.Fatalf("report incident: %v", err)
	}
	incidents.Wait()
	if n := len(incidents.Items()); n != 3 {
		t.Fatalf("expected 3 incidents after report, got %d", n)
	}
}

func TestCustomer_ForbiddenCallClearsCredential(t *testing.T) {
	h := newHarness(t)
	h.login(t, "cliente", "cliente123")

	_, err := h.portal.ListBuildings(context.Background())
	if !domain.IsFetchKind(err, domain.AuthRejected) {
		t.Fatalf("expected AuthRejected, got %v", err)
	}
	if _, err := h.store.Load(context.Background()); !errors.Is(err, domain.ErrNoCredential) {
		t.Fatalf("expected credential cleared, got %v", err)
	}
	if h.hooked != 1 {
		t.Fatalf("expected re-auth hook once, got %d", h.hooked)
	}
}

func TestAdmin_IncidentStatusMustBeKnown(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "admin123")
	ctx := context.Background()

	_, err := h.portal.UpdateIncidentStatus(ctx, 1, 1, domain.IncidentStatus("CLOSED"))
	var fe *domain.FetchError
	if !errors.As(err, &fe) || fe.Kind != domain.ServerRejected || fe.Status != 400 {
		t.Fatalf("expected a 400 rejection, got %v", err)
	}

	inc, err := h.portal.UpdateIncidentStatus(ctx, 1, 1, domain.IncidentResolved)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if inc.ID != 1 || inc.Status != domain.IncidentResolved || inc.Description == "" {
		t.Fatalf("expected the full updated incident, got %+v", inc)
	}
}

func TestAdmin_InvoicesAndEvents(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "admin123")
	ctx := context.Background()

	inv := views.NewInvoicesView(h.portal, zerolog.Nop())
	inv.Mount(ctx)
	defer inv.Unmount()
	inv.Wait()
	before := len(inv.Items())

	pdf, err := h.portal.LegalDocumentPDFs(ctx, []int64{1})
	if err != nil || len(pdf) != 1 {
		t.Fatalf("fetch sample pdf: %v", err)
	}
	doc, _ := pdf[0].Decode()

	inv.OpenUpload()
	inv.EditUpload(func(f *views.InvoiceForm) {
		f.BuildingID = "1"
		f.Number = "F-2026-002"
		f.Amount = "980.25"
		f.IssuedAt = "2026-10-15"
		f.File = views.Attachment{Name: "F-2026-002.pdf", Data: doc}
	})
	if err := inv.Upload.Submit(ctx); err != nil {
		t.Fatalf("upload invoice: %v", err)
	}
	inv.Wait()
	if got := len(inv.Items()); got != before+1 {
		t.Fatalf("expected %d invoices, got %d", before+1, got)
	}

	inv.OpenEdit(inv.Items()[0])
	inv.Edit.Edit(func(f *views.InvoiceForm) { f.File = views.Attachment{Name: "new.pdf", Data: doc} })
	if err := inv.Edit.Submit(ctx); err != nil {
		t.Fatalf("edit invoice: %v", err)
	}

	events := views.NewEventsView(h.portal, zerolog.Nop())
	events.Mount(ctx)
	defer events.Unmount()
	events.SetKey(2)
	events.Wait()
	if got := events.Render(); got.Kind != fetch.RenderEmpty {
		t.Fatalf("expected no events for building 2, got %s", got.Kind)
	}
	events.Create.Open(views.EventForm{})
	events.Create.Edit(func(f *views.EventForm) {
		f.Title = "Entrega de llaves"
		f.Date = "2026-12-01"
	})
	if err := events.Create.Submit(ctx); err != nil {
		t.Fatalf("create event: %v", err)
	}
	events.Wait()
	if got := events.Render(); got.Kind != fetch.RenderPopulated {
		t.Fatalf("expected populated after create, got %s", got.Kind)
	}
}

func TestFieldWorker_Profile(t *testing.T) {
	h := newHarness(t)
	h.login(t, "obrero", "obrero123")
	claims, err := h.session.Claims(context.Background())
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	ctx := context.Background()

	profile := views.NewWorkerProfileView(h.portal, zerolog.Nop())
	profile.Mount(ctx)
	defer profile.Unmount()
	profile.SetKey(claims.SubjectID)
	profile.Wait()
	if got := profile.Render(); got.Kind != fetch.RenderEmpty {
		t.Fatalf("expected no photo yet, got %+v", got)
	}

	profile.Upload.Open(views.PhotoForm{File: views.Attachment{Name: "yo.png", Data: pngHeader}})
	if err := profile.Upload.Submit(ctx); err != nil {
		t.Fatalf("upload photo: %v", err)
	}
	profile.Wait()
	photo := profile.Items()
	if photo.ContentType != "image/png" || len(photo.Data) != len(pngHeader) {
		t.Fatalf("unexpected photo %q (%d bytes)", photo.ContentType, len(photo.Data))
	}

	contacts := views.NewContactsView(h.portal, zerolog.Nop())
	contacts.Mount(ctx)
	defer contacts.Unmount()
	contacts.SetKey(claims.SubjectID)
	contacts.Wait()
	if len(contacts.Items()) != 1 {
		t.Fatalf("expected 1 assigned customer, got %d", len(contacts.Items()))
	}
}

func TestChat_RelaysToAllPeers(t *testing.T) {
	h := newHarness(t)
	url := "ws" + strings.TrimPrefix(h.srv.URL, "http") + "/chat"

	inbox := make(chan domain.ChatMessage, 4)
	a := chat.New(url, zerolog.Nop())
	b := chat.New(url, zerolog.Nop(), chat.WithMessageHook(func(m domain.ChatMessage) {
		select {
		case inbox <- m:
		default:
		}
	}))
	ctx := context.Background()
	if err := a.Open(ctx); err != nil {
		t.Fatalf("open a: %v", err)
	}
	defer a.Close()
	if err := b.Open(ctx); err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer b.Close()

	// the hub registers peers asynchronously; wait until both are in
	deadline := time.Now().Add(2 * time.Second)
	for a.Send("ana", "ping") {
		select {
		case m := <-inbox:
			if m.Sender != "ana" || m.Text != "ping" {
				t.Fatalf("unexpected message %+v", m)
			}
			return
		case <-time.After(50 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatal("message not relayed")
		}
	}
	t.Fatal("send failed on an open channel")
}
