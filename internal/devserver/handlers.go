package devserver

import (
	"encoding/base64"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/devserver/middleware"
)

const maxUpload = 10 << 20

type apiHandler struct {
	store *store
}

func pathID(c echo.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return v, nil
}

// formFile reads an optional multipart file. A missing part yields nil.
func formFile(c echo.Context, name string) (string, []byte, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil, nil
		}
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart body")
	}
	if fh.Size > maxUpload {
		return "", nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, name+" is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, data, nil
}

func optionalFormID(c echo.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.FormValue(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a number")
	}
	return &v, nil
}

func requireImage(data []byte) error {
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "expected an image, got "+mt.String())
	}
	return nil
}

func requirePDF(data []byte) error {
	if mt := mimetype.Detect(data); !mt.Is("application/pdf") {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "expected a PDF, got "+mt.String())
	}
	return nil
}

// --- Buildings & workers ---

func (h *apiHandler) listBuildings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.listBuildings())
}

func (h *apiHandler) listWorkers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.listWorkers())
}

// --- Incidents ---

func (h *apiHandler) listIncidents(c echo.Context) error {
	b, err := pathID(c, "b")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.store.listIncidents(b))
}

func (h *apiHandler) createIncident(c echo.Context) error {
	b, err := pathID(c, "b")
	if err != nil {
		return err
	}
	desc := strings.TrimSpace(c.FormValue("description"))
	if desc == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "description is required")
	}
	room, err := optionalFormID(c, "roomId")
	if err != nil {
		return err
	}
	name, data, err := formFile(c, "image")
	if err != nil {
		return err
	}
	inc := domain.Incident{
		BuildingID:  b,
		RoomID:      room,
		Description: desc,
		Status:      domain.IncidentPending,
		CreatedAt:   time.Now().UTC().Format("2006-01-02"),
	}
	if data != nil {
		if err := requireImage(data); err != nil {
			return err
		}
		inc.ImageURL = "/files/incidents/" + name
	}
	return c.JSON(http.StatusCreated, h.store.addIncident(inc))
}

func (h *apiHandler) getIncident(c echo.Context) error {
	b, err := pathID(c, "b")
	if err != nil {
		return err
	}
	i, err := pathID(c, "i")
	if err != nil {
		return err
	}
	inc, err := h.store.getIncident(b, i)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inc)
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *apiHandler) updateIncident(c echo.Context) error {
	b, err := pathID(c, "b")
	if err != nil {
		return err
	}
	i, err := pathID(c, "i")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	status := domain.IncidentStatus(req.Status)
	if !status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status "+req.Status)
	}
	inc, err := h.store.setIncidentStatus(b, i, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inc)
}

// --- Images ---

func (h *apiHandler) listImages(c echo.Context) error {
	b, err := pathID(c, "b")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.store.listImages(b))
}

func (h *apiHandler) uploadImage(c echo.Context) error {
	b, err := pathID(c, "b")
	if err != nil {
		return err
	}
	room, err := optionalFormID(c, "roomId")
	if err != nil {
		return err
	}
	_, data, err := formFile(c, "image")
	if err != nil {
		return err
	}
	if data == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image is required")
	}
	if err := requireImage(data); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.store.addImage(b, room))
}

// --- Legal documents & manuals ---

func (h *apiHandler) legalIDs(c echo.Context) error {
	b, err := pathID(c, "b")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.store.legalIDs(b))
}

func (h *apiHandler) legalPDFs(c echo.Context) error {
	var ids []int64
	if err := c.Bind(&ids); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected a list of ids")
	}
	return c.JSON(http.StatusOK, h.store.legalPDFs(ids))
}

func (h *apiHandler) manualIDs(c echo.Context) error {
	b, err := pathID(c, "b")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.store.manualIDs(b))
}

func (h *apiHandler) manualPDFs(c echo.Context) error {
	var ids []int64
	if err := c.Bind(&ids); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected a list of ids")
	}
	return c.JSON(http.StatusOK, h.store.manualPDFs(ids))
}

// --- Invoices ---

func (h *apiHandler) listInvoices(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.listInvoices())
}

type invoiceUpload struct {
	BuildingID string `validate:"required,numeric"`
	Number     string `validate:"required"`
	Amount     string `validate:"required,numeric"`
	IssuedAt   string `validate:"omitempty,datetime=2006-01-02"`
}

func (h *apiHandler) uploadInvoice(c echo.Context) error {
	req := invoiceUpload{
		BuildingID: c.FormValue("buildingId"),
		Number:     c.FormValue("number"),
		Amount:     c.FormValue("amount"),
		IssuedAt:   c.FormValue("issuedAt"),
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	name, data, err := formFile(c, "file")
	if err != nil {
		return err
	}
	if data == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if err := requirePDF(data); err != nil {
		return err
	}
	building, _ := strconv.ParseInt(req.BuildingID, 10, 64)
	amount, _ := strconv.ParseFloat(req.Amount, 64)
	inv := h.store.addInvoice(domain.Invoice{
		BuildingID:  building,
		Number:      req.Number,
		Description: c.FormValue("description"),
		Amount:      amount,
		IssuedAt:    req.IssuedAt,
		Filename:    name,
	}, data)
	inv.Document = ""
	return c.JSON(http.StatusCreated, inv)
}

func (h *apiHandler) updateInvoice(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var inv domain.Invoice
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	inv.ID = id
	if inv.Document != "" {
		data, err := base64.StdEncoding.DecodeString(inv.Document)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "document must be base64")
		}
		if err := requirePDF(data); err != nil {
			return err
		}
	}
	if err := h.store.updateInvoice(inv); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *apiHandler) deleteInvoice(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.deleteInvoice(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Events ---

type eventRequest struct {
	BuildingID  int64  `json:"buildingId" validate:"gt=0"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"omitempty,datetime=15:04"`
}

func (r eventRequest) event(id int64) domain.Event {
	return domain.Event{ID: id, BuildingID: r.BuildingID, Title: r.Title, Description: r.Description, Date: r.Date, Time: r.Time}
}

func (h *apiHandler) listEvents(c echo.Context) error {
	b, err := pathID(c, "b")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.store.listEvents(b))
}

func (h *apiHandler) createEvent(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, h.store.addEvent(req.event(0)))
}

func (h *apiHandler) updateEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.store.updateEvent(req.event(id)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *apiHandler) deleteEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.deleteEvent(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Worker profile ---

// workerID resolves the :w parameter; field workers may only reach their
// own profile.
func workerID(c echo.Context) (int64, error) {
	w, err := pathID(c, "w")
	if err != nil {
		return 0, err
	}
	id, ok := middleware.Identity(c)
	if !ok || (id.RoleID != domain.RoleAdmin && id.ID != w) {
		return 0, echo.NewHTTPError(http.StatusForbidden, "access forbidden")
	}
	return w, nil
}

func (h *apiHandler) workerImage(c echo.Context) error {
	w, err := workerID(c)
	if err != nil {
		return err
	}
	data, ok := h.store.photo(w)
	if !ok {
		return c.NoContent(http.StatusOK)
	}
	return c.Blob(http.StatusOK, mimetype.Detect(data).String(), data)
}

func (h *apiHandler) uploadWorkerImage(c echo.Context) error {
	w, err := workerID(c)
	if err != nil {
		return err
	}
	_, data, err := formFile(c, "image")
	if err != nil {
		return err
	}
	if data == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image is required")
	}
	if err := requireImage(data); err != nil {
		return err
	}
	h.store.setPhoto(w, data)
	return c.JSON(http.StatusOK, map[string]string{"message": "image updated"})
}

func (h *apiHandler) assignedCustomers(c echo.Context) error {
	w, err := workerID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.store.contactsOf(w))
}
