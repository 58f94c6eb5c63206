package apiclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/core/ports"
)

type recordedCall struct {
	method string
	path   string
	body   any
	enc    ports.Encoding
}

type stubTransport struct {
	calls []recordedCall
	reply string
	resp  *Response
	err   error
}

func (s *stubTransport) Call(_ context.Context, method, path string, body any, enc ports.Encoding) (json.RawMessage, error) {
	s.calls = append(s.calls, recordedCall{method, path, body, enc})
	if s.err != nil {
		return nil, s.err
	}
	if s.reply == "" {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(s.reply), nil
}

func (s *stubTransport) Fetch(_ context.Context, method, path string, body any, enc ports.Encoding) (*Response, error) {
	s.calls = append(s.calls, recordedCall{method, path, body, enc})
	return s.resp, s.err
}

func (s *stubTransport) last(t *testing.T) recordedCall {
	t.Helper()
	if len(s.calls) == 0 {
		t.Fatalf("no call recorded")
	}
	return s.calls[len(s.calls)-1]
}

func TestPortal_EndpointShapes(t *testing.T) {
	ctx := context.Background()
	room := int64(4)

	cases := []struct {
		name   string
		invoke func(p *Portal) error
		method string
		path   string
		enc    ports.Encoding
	}{
		{"buildings", func(p *Portal) error { _, err := p.ListBuildings(ctx); return err }, http.MethodGet, "/api/buildings", ports.EncodingNone},
		{"workers", func(p *Portal) error { _, err := p.ListWorkers(ctx); return err }, http.MethodGet, "/api/workers", ports.EncodingNone},
		{"create incident", func(p *Portal) error {
			_, err := p.CreateIncident(ctx, 5, NewIncident{Description: "leak", RoomID: &room})
			return err
		}, http.MethodPost, "/api/buildings/5/incidents", ports.EncodingMultipart},
		{"get incident", func(p *Portal) error { _, err := p.GetIncident(ctx, 5, 12); return err }, http.MethodGet, "/api/buildings/5/incidents/12", ports.EncodingNone},
		{"update incident", func(p *Portal) error {
			_, err := p.UpdateIncidentStatus(ctx, 5, 12, domain.IncidentResolved)
			return err
		}, http.MethodPut, "/api/buildings/5/incidents/12", ports.EncodingJSON},
		{"images", func(p *Portal) error { _, err := p.ListBuildingImages(ctx, 5); return err }, http.MethodGet, "/api/buildings/5/images", ports.EncodingNone},
		{"upload image", func(p *Portal) error {
			return p.UploadBuildingImage(ctx, 5, NewImage{Filename: "a.jpg", Data: []byte("x")})
		}, http.MethodPost, "/api/buildings/5/images", ports.EncodingMultipart},
		{"legal ids", func(p *Portal) error { _, err := p.LegalDocumentIDs(ctx, 5); return err }, http.MethodGet, "/auth/building/5/legalDocumentsIds", ports.EncodingNone},
		{"legal pdfs", func(p *Portal) error { _, err := p.LegalDocumentPDFs(ctx, []int64{1, 2}); return err }, http.MethodPost, "/legaldocuments/pdfs", ports.EncodingJSON},
		{"manual ids", func(p *Portal) error { _, err := p.ManualIDs(ctx, 5); return err }, http.MethodGet, "/auth/building/5/manualIds", ports.EncodingNone},
		{"manual pdfs", func(p *Portal) error { _, err := p.ManualPDFs(ctx, []int64{1}); return err }, http.MethodPost, "/manual/pdfs", ports.EncodingJSON},
		{"upload invoice", func(p *Portal) error {
			return p.UploadInvoice(ctx, NewInvoice{BuildingID: 5, Number: "F-1", Amount: 10, Filename: "f.pdf", Data: []byte("%PDF-1.4")})
		}, http.MethodPost, "/api/invoices/upload", ports.EncodingMultipart},
		{"update invoice", func(p *Portal) error {
			return p.UpdateInvoice(ctx, domain.Invoice{ID: 9}, []byte("pdf"))
		}, http.MethodPut, "/api/invoices/9", ports.EncodingJSON},
		{"delete invoice", func(p *Portal) error { return p.DeleteInvoice(ctx, 9) }, http.MethodDelete, "/api/invoices/9", ports.EncodingNone},
		{"create event", func(p *Portal) error { return p.CreateEvent(ctx, domain.Event{Title: "visit"}) }, http.MethodPost, "/api/events/create", ports.EncodingJSON},
		{"update event", func(p *Portal) error { return p.UpdateEvent(ctx, domain.Event{ID: 3}) }, http.MethodPut, "/auth/building/updateEvents/3", ports.EncodingJSON},
		{"delete event", func(p *Portal) error { return p.DeleteEvent(ctx, 3) }, http.MethodDelete, "/auth/building/deleteEvents/3", ports.EncodingNone},
		{"worker image upload", func(p *Portal) error {
			return p.UploadWorkerImage(ctx, 8, "me.png", []byte("x"))
		}, http.MethodPost, "/auth/worker/8/image/upload", ports.EncodingMultipart},
		{"contacts", func(p *Portal) error { _, err := p.AssignedCustomers(ctx, 8); return err }, http.MethodGet, "/auth/worker/8/assigned-customers", ports.EncodingNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubTransport{}
			if err := tc.invoke(NewPortal(stub)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := stub.last(t)
			if got.method != tc.method || got.path != tc.path || got.enc != tc.enc {
				t.Fatalf("expected %s %s (%d), got %s %s (%d)", tc.method, tc.path, tc.enc, got.method, got.path, got.enc)
			}
		})
	}
}

func TestPortal_UpdateInvoiceEmbedsBase64(t *testing.T) {
	stub := &stubTransport{}
	if err := NewPortal(stub).UpdateInvoice(context.Background(), domain.Invoice{ID: 9, Number: "F-9"}, []byte("pdf-bytes")); err != nil {
		t.Fatalf("UpdateInvoice error: %v", err)
	}
	inv, ok := stub.last(t).body.(domain.Invoice)
	if !ok {
		t.Fatalf("expected invoice body, got %T", stub.last(t).body)
	}
	if inv.Document != base64.StdEncoding.EncodeToString([]byte("pdf-bytes")) {
		t.Fatalf("document not base64 encoded: %q", inv.Document)
	}
}

func TestPortal_CreateIncidentImageOptional(t *testing.T) {
	stub := &stubTransport{}
	_, _ = NewPortal(stub).CreateIncident(context.Background(), 5, NewIncident{Description: "crack"})
	form := stub.last(t).body.(*Multipart)
	if form.Has("image") || form.Has("roomId") {
		t.Fatalf("optional parts must be omitted")
	}
	if !form.Has("description") {
		t.Fatalf("description part missing")
	}
}

func TestPortal_DecodeFailure(t *testing.T) {
	stub := &stubTransport{reply: `{"not":"a list"}`}
	_, err := NewPortal(stub).ListBuildings(context.Background())
	if !domain.IsFetchKind(err, domain.DecodeFailure) {
		t.Fatalf("expected DecodeFailure, got %v", err)
	}
}

func TestPortal_UpdateIncidentStatusReplies(t *testing.T) {
	ctx := context.Background()
	for _, reply := range []string{"", "null", "{}", " { } "} {
		inc, err := NewPortal(&stubTransport{reply: reply}).UpdateIncidentStatus(ctx, 5, 12, domain.IncidentResolved)
		if err != nil || inc.ID != 0 {
			t.Fatalf("reply %q: expected bare acknowledgement, got %+v %v", reply, inc, err)
		}
	}

	inc, err := NewPortal(&stubTransport{reply: `{"id":12,"buildingId":5,"status":"RESOLVED"}`}).UpdateIncidentStatus(ctx, 5, 12, domain.IncidentResolved)
	if err != nil || inc.ID != 12 || inc.BuildingID != 5 {
		t.Fatalf("unexpected incident %+v %v", inc, err)
	}

	_, err = NewPortal(&stubTransport{reply: `{"id":12,"buildingId":"five"}`}).UpdateIncidentStatus(ctx, 5, 12, domain.IncidentResolved)
	if !domain.IsFetchKind(err, domain.DecodeFailure) {
		t.Fatalf("expected DecodeFailure, got %v", err)
	}
}

func TestPortal_PDFDecode(t *testing.T) {
	stub := &stubTransport{reply: `[{"filename":"a.pdf","data":"` + base64.StdEncoding.EncodeToString([]byte("%PDF")) + `"}]`}
	pdfs, err := NewPortal(stub).ManualPDFs(context.Background(), []int64{1})
	if err != nil {
		t.Fatalf("ManualPDFs error: %v", err)
	}
	b, err := pdfs[0].Decode()
	if err != nil || string(b) != "%PDF" {
		t.Fatalf("unexpected pdf decode: %q %v", b, err)
	}
}

func TestPortal_WorkerImage(t *testing.T) {
	stub := &stubTransport{resp: &Response{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"image/jpeg"}},
		Body:   []byte{0xff, 0xd8},
	}}
	photo, err := NewPortal(stub).WorkerImage(context.Background(), 8)
	if err != nil {
		t.Fatalf("WorkerImage error: %v", err)
	}
	if photo.ContentType != "image/jpeg" || len(photo.Data) != 2 {
		t.Fatalf("unexpected photo %+v", photo)
	}
	if got := stub.last(t); got.path != "/auth/worker/8/image" {
		t.Fatalf("unexpected path %s", got.path)
	}
}
