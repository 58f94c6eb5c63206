package views

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/infrastructure/apiclient"
	"github.com/obraportal/portal-client/internal/ui/dialog"
	"github.com/obraportal/portal-client/internal/ui/fetch"
)

// IncidentForm is the customer's incident report.
type IncidentForm struct {
	Description string `validate:"required"`
	Room        string `validate:"omitempty,numeric"`
	Image       Attachment
}

// StatusForm moves an incident through its lifecycle.
type StatusForm struct {
	IncidentID int64  `validate:"gt=0"`
	Status     string `validate:"required,oneof=PENDING IN_PROGRESS RESOLVED"`
}

// IncidentsView lists the incidents of one building.
type IncidentsView struct {
	*keyed[[]domain.Incident]
	api IncidentsAPI

	Report       *dialog.Dialog[IncidentForm]
	ChangeStatus *dialog.Dialog[StatusForm]
}

func NewIncidentsView(api IncidentsAPI, log zerolog.Logger) *IncidentsView {
	v := &IncidentsView{api: api}
	v.keyed = newKeyed("incidents",
		fetch.Copy{Waiting: "Waiting for your building assignment.", Empty: "No incidents reported."},
		isEmptyList[domain.Incident],
		api.ListIncidents,
		log,
	)
	v.Report = dialog.New(v.report,
		dialog.WithRefresh(v.Reload),
		dialog.WithSuccessMessage("Incident reported."),
	)
	v.ChangeStatus = dialog.New(v.changeStatus, dialog.WithSuccessMessage("Status updated."))
	return v
}

func (v *IncidentsView) report(ctx context.Context, f IncidentForm) error {
	building, ok := v.Key()
	if !ok {
		return errNoBuilding
	}
	_, err := v.api.CreateIncident(ctx, building, apiclient.NewIncident{
		Description: f.Description,
		RoomID:      optionalID(f.Room),
		ImageName:   f.Image.Name,
		Image:       f.Image.Data,
	})
	return err
}

func (v *IncidentsView) changeStatus(ctx context.Context, f StatusForm) error {
	return v.UpdateStatus(ctx, f.IncidentID, domain.IncidentStatus(f.Status))
}

// OpenStatus targets the status dialog at inc.
func (v *IncidentsView) OpenStatus(inc domain.Incident) {
	v.ChangeStatus.Open(StatusForm{IncidentID: inc.ID, Status: string(inc.Status)})
}

// UpdateStatus saves the new status and patches the loaded list in place;
// the list is not fetched again.
func (v *IncidentsView) UpdateStatus(ctx context.Context, incidentID int64, status domain.IncidentStatus) error {
	building, ok := v.Key()
	if !ok {
		return errNoBuilding
	}
	updated, err := v.api.UpdateIncidentStatus(ctx, building, incidentID, status)
	switch {
	case domain.IsFetchKind(err, domain.DecodeFailure):
		// the server accepted the change but its reply is unreadable
		v.log.Warn().Err(err).Int64("incident", incidentID).Msg("status saved, reply unreadable")
		v.patch(incidentID, status, domain.Incident{})
		return err
	case err != nil:
		return err
	}
	v.patch(incidentID, status, updated)
	return nil
}

// patch replaces incident id with updated when the server sent it back and
// otherwise changes only its status.
func (v *IncidentsView) patch(id int64, status domain.IncidentStatus, updated domain.Incident) {
	v.slot.Update(func(list []domain.Incident) []domain.Incident {
		out := make([]domain.Incident, len(list))
		copy(out, list)
		for i := range out {
			if out[i].ID != id {
				continue
			}
			if updated.ID == id {
				out[i] = updated
			}
			out[i].Status = status
		}
		return out
	})
}
