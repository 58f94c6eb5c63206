package apiclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/core/ports"
)

// Transport is what Portal needs from the Resource Client.
type Transport interface {
	ports.ResourceClient
	Fetch(ctx context.Context, method, path string, body any, enc ports.Encoding) (*Response, error)
}

// Portal exposes one typed method per API endpoint, preserving each
// endpoint's method, path and body encoding.
type Portal struct {
	t Transport
}

func NewPortal(t Transport) *Portal {
	return &Portal{t: t}
}

// decode unmarshals a Call result into T; shape mismatches are DecodeFailures.
func decode[T any](raw json.RawMessage, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &domain.FetchError{
			Kind:    domain.DecodeFailure,
			Message: "the server sent data in an unexpected format",
			Err:     err,
		}
	}
	return out, nil
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

// --- Buildings & workers ---

func (p *Portal) ListBuildings(ctx context.Context) ([]domain.Building, error) {
	return decode[[]domain.Building](p.t.Call(ctx, http.MethodGet, "/api/buildings", nil, ports.EncodingNone))
}

func (p *Portal) ListWorkers(ctx context.Context) ([]domain.Worker, error) {
	return decode[[]domain.Worker](p.t.Call(ctx, http.MethodGet, "/api/workers", nil, ports.EncodingNone))
}

// --- Incidents ---

// NewIncident is the payload of the incident report form.
type NewIncident struct {
	Description string
	RoomID      *int64
	ImageName   string
	Image       []byte
}

func incidentsPath(buildingID int64) string {
	return "/api/buildings/" + id(buildingID) + "/incidents"
}

func (p *Portal) ListIncidents(ctx context.Context, buildingID int64) ([]domain.Incident, error) {
	return decode[[]domain.Incident](p.t.Call(ctx, http.MethodGet, incidentsPath(buildingID), nil, ports.EncodingNone))
}

// CreateIncident posts a multipart report; the image part is optional.
func (p *Portal) CreateIncident(ctx context.Context, buildingID int64, in NewIncident) (domain.Incident, error) {
	form := NewMultipart().Field("description", in.Description)
	if in.RoomID != nil {
		form.Field("roomId", id(*in.RoomID))
	}
	if len(in.Image) > 0 {
		form.File("image", in.ImageName, in.Image)
	}
	return decode[domain.Incident](p.t.Call(ctx, http.MethodPost, incidentsPath(buildingID), form, ports.EncodingMultipart))
}

func (p *Portal) GetIncident(ctx context.Context, buildingID, incidentID int64) (domain.Incident, error) {
	path := incidentsPath(buildingID) + "/" + id(incidentID)
	return decode[domain.Incident](p.t.Call(ctx, http.MethodGet, path, nil, ports.EncodingNone))
}

// UpdateIncidentStatus returns the server's copy of the incident when it sends
// one. An empty, null or {} reply is a bare acknowledgement and yields the
// zero Incident; any other reply must decode cleanly.
func (p *Portal) UpdateIncidentStatus(ctx context.Context, buildingID, incidentID int64, status domain.IncidentStatus) (domain.Incident, error) {
	path := incidentsPath(buildingID) + "/" + id(incidentID)
	body := map[string]domain.IncidentStatus{"status": status}
	raw, err := p.t.Call(ctx, http.MethodPut, path, body, ports.EncodingJSON)
	if err != nil {
		return domain.Incident{}, err
	}
	if isAcknowledgement(raw) {
		return domain.Incident{}, nil
	}
	return decode[domain.Incident](raw, nil)
}

func isAcknowledgement(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	var obj map[string]json.RawMessage
	return json.Unmarshal(trimmed, &obj) == nil && len(obj) == 0
}

// --- Images ---

// NewImage is a building photo upload.
type NewImage struct {
	RoomID   *int64
	Filename string
	Data     []byte
}

func imagesPath(buildingID int64) string {
	return "/api/buildings/" + id(buildingID) + "/images"
}

func (p *Portal) ListBuildingImages(ctx context.Context, buildingID int64) ([]domain.Image, error) {
	return decode[[]domain.Image](p.t.Call(ctx, http.MethodGet, imagesPath(buildingID), nil, ports.EncodingNone))
}

func (p *Portal) UploadBuildingImage(ctx context.Context, buildingID int64, in NewImage) error {
	form := NewMultipart()
	if in.RoomID != nil {
		form.Field("roomId", id(*in.RoomID))
	}
	form.File("image", in.Filename, in.Data)
	_, err := p.t.Call(ctx, http.MethodPost, imagesPath(buildingID), form, ports.EncodingMultipart)
	return err
}

// --- Legal documents & manuals ---

func (p *Portal) LegalDocumentIDs(ctx context.Context, buildingID int64) ([]int64, error) {
	path := "/auth/building/" + id(buildingID) + "/legalDocumentsIds"
	return decode[[]int64](p.t.Call(ctx, http.MethodGet, path, nil, ports.EncodingNone))
}

func (p *Portal) LegalDocumentPDFs(ctx context.Context, ids []int64) ([]domain.PDF, error) {
	return decode[[]domain.PDF](p.t.Call(ctx, http.MethodPost, "/legaldocuments/pdfs", ids, ports.EncodingJSON))
}

func (p *Portal) ManualIDs(ctx context.Context, buildingID int64) ([]int64, error) {
	path := "/auth/building/" + id(buildingID) + "/manualIds"
	return decode[[]int64](p.t.Call(ctx, http.MethodGet, path, nil, ports.EncodingNone))
}

func (p *Portal) ManualPDFs(ctx context.Context, ids []int64) ([]domain.PDF, error) {
	return decode[[]domain.PDF](p.t.Call(ctx, http.MethodPost, "/manual/pdfs", ids, ports.EncodingJSON))
}

// --- Invoices ---

// NewInvoice is the multipart invoice upload.
type NewInvoice struct {
	BuildingID  int64
	Number      string
	Description string
	Amount      float64
	IssuedAt    string
	Filename    string
	Data        []byte
}

func (p *Portal) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return decode[[]domain.Invoice](p.t.Call(ctx, http.MethodGet, "/api/invoices", nil, ports.EncodingNone))
}

func (p *Portal) UploadInvoice(ctx context.Context, in NewInvoice) error {
	form := NewMultipart().
		Field("buildingId", id(in.BuildingID)).
		Field("number", in.Number).
		Field("description", in.Description).
		Field("amount", strconv.FormatFloat(in.Amount, 'f', 2, 64)).
		Field("issuedAt", in.IssuedAt).
		File("file", in.Filename, in.Data)
	_, err := p.t.Call(ctx, http.MethodPost, "/api/invoices/upload", form, ports.EncodingMultipart)
	return err
}

// UpdateInvoice sends the invoice as JSON; a replacement document, when
// given, travels base64-encoded in the document field.
func (p *Portal) UpdateInvoice(ctx context.Context, inv domain.Invoice, document []byte) error {
	if len(document) > 0 {
		inv.Document = base64.StdEncoding.EncodeToString(document)
	}
	_, err := p.t.Call(ctx, http.MethodPut, "/api/invoices/"+id(inv.ID), inv, ports.EncodingJSON)
	return err
}

func (p *Portal) DeleteInvoice(ctx context.Context, invoiceID int64) error {
	_, err := p.t.Call(ctx, http.MethodDelete, "/api/invoices/"+id(invoiceID), nil, ports.EncodingNone)
	return err
}

// --- Events ---

func (p *Portal) ListEvents(ctx context.Context, buildingID int64) ([]domain.Event, error) {
	path := "/auth/building/" + id(buildingID) + "/events"
	return decode[[]domain.Event](p.t.Call(ctx, http.MethodGet, path, nil, ports.EncodingNone))
}

func (p *Portal) CreateEvent(ctx context.Context, ev domain.Event) error {
	_, err := p.t.Call(ctx, http.MethodPost, "/api/events/create", ev, ports.EncodingJSON)
	return err
}

func (p *Portal) UpdateEvent(ctx context.Context, ev domain.Event) error {
	_, err := p.t.Call(ctx, http.MethodPut, "/auth/building/updateEvents/"+id(ev.ID), ev, ports.EncodingJSON)
	return err
}

func (p *Portal) DeleteEvent(ctx context.Context, eventID int64) error {
	_, err := p.t.Call(ctx, http.MethodDelete, "/auth/building/deleteEvents/"+id(eventID), nil, ports.EncodingNone)
	return err
}

// --- Workers ---

// WorkerPhoto is a profile image as served by the API.
type WorkerPhoto struct {
	ContentType string
	Data        []byte
}

func (p *Portal) WorkerImage(ctx context.Context, workerID int64) (WorkerPhoto, error) {
	resp, err := p.t.Fetch(ctx, http.MethodGet, "/auth/worker/"+id(workerID)+"/image", nil, ports.EncodingNone)
	if err != nil {
		return WorkerPhoto{}, err
	}
	return WorkerPhoto{ContentType: resp.Header.Get("Content-Type"), Data: resp.Body}, nil
}

func (p *Portal) UploadWorkerImage(ctx context.Context, workerID int64, filename string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("upload worker image: %w", domain.ErrValidation)
	}
	form := NewMultipart().File("image", filename, data)
	_, err := p.t.Call(ctx, http.MethodPost, "/auth/worker/"+id(workerID)+"/image/upload", form, ports.EncodingMultipart)
	return err
}

func (p *Portal) AssignedCustomers(ctx context.Context, workerID int64) ([]domain.Contact, error) {
	path := "/auth/worker/" + id(workerID) + "/assigned-customers"
	return decode[[]domain.Contact](p.t.Call(ctx, http.MethodGet, path, nil, ports.EncodingNone))
}
