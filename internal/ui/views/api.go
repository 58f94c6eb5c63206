package views

import (
	"context"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/infrastructure/apiclient"
)

// Each view depends on the narrow slice of the API it calls.
// *apiclient.Portal satisfies all of them.

type BuildingsAPI interface {
	ListBuildings(ctx context.Context) ([]domain.Building, error)
	ListWorkers(ctx context.Context) ([]domain.Worker, error)
}

type IncidentsAPI interface {
	ListIncidents(ctx context.Context, buildingID int64) ([]domain.Incident, error)
	CreateIncident(ctx context.Context, buildingID int64, in apiclient.NewIncident) (domain.Incident, error)
	UpdateIncidentStatus(ctx context.Context, buildingID, incidentID int64, status domain.IncidentStatus) (domain.Incident, error)
}

type ImagesAPI interface {
	ListBuildingImages(ctx context.Context, buildingID int64) ([]domain.Image, error)
	UploadBuildingImage(ctx context.Context, buildingID int64, in apiclient.NewImage) error
}

type LegalDocumentsAPI interface {
	LegalDocumentIDs(ctx context.Context, buildingID int64) ([]int64, error)
	LegalDocumentPDFs(ctx context.Context, ids []int64) ([]domain.PDF, error)
}

type ManualsAPI interface {
	ManualIDs(ctx context.Context, buildingID int64) ([]int64, error)
	ManualPDFs(ctx context.Context, ids []int64) ([]domain.PDF, error)
}

type InvoicesAPI interface {
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	UploadInvoice(ctx context.Context, in apiclient.NewInvoice) error
	UpdateInvoice(ctx context.Context, inv domain.Invoice, document []byte) error
	DeleteInvoice(ctx context.Context, invoiceID int64) error
}

type EventsAPI interface {
	ListEvents(ctx context.Context, buildingID int64) ([]domain.Event, error)
	CreateEvent(ctx context.Context, ev domain.Event) error
	UpdateEvent(ctx context.Context, ev domain.Event) error
	DeleteEvent(ctx context.Context, eventID int64) error
}

type ContactsAPI interface {
	AssignedCustomers(ctx context.Context, workerID int64) ([]domain.Contact, error)
}

type WorkerProfileAPI interface {
	WorkerImage(ctx context.Context, workerID int64) (apiclient.WorkerPhoto, error)
	UploadWorkerImage(ctx context.Context, workerID int64, filename string, data []byte) error
}

var (
	_ BuildingsAPI      = (*apiclient.Portal)(nil)
	_ IncidentsAPI      = (*apiclient.Portal)(nil)
	_ ImagesAPI         = (*apiclient.Portal)(nil)
	_ LegalDocumentsAPI = (*apiclient.Portal)(nil)
	_ ManualsAPI        = (*apiclient.Portal)(nil)
	_ InvoicesAPI       = (*apiclient.Portal)(nil)
	_ EventsAPI         = (*apiclient.Portal)(nil)
	_ ContactsAPI       = (*apiclient.Portal)(nil)
	_ WorkerProfileAPI  = (*apiclient.Portal)(nil)
)
