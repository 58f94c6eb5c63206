package views

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/ui/dialog"
	"github.com/obraportal/portal-client/internal/ui/fetch"
)

// EventForm backs both the create and the edit dialog.
type EventForm struct {
	ID          int64
	Title       string `validate:"required"`
	Description string
	Date        string `validate:"required,datetime=2006-01-02"`
	Time        string `validate:"omitempty,datetime=15:04"`
}

// EventsView is a building's calendar.
type EventsView struct {
	*keyed[[]domain.Event]
	api EventsAPI

	Create *dialog.Dialog[EventForm]
	Edit   *dialog.Dialog[EventForm]
	Delete *dialog.Dialog[DeleteForm]
}

func NewEventsView(api EventsAPI, log zerolog.Logger) *EventsView {
	v := &EventsView{api: api}
	v.keyed = newKeyed("events",
		fetch.Copy{Waiting: "Select a building to see its events.", Empty: "No events scheduled."},
		isEmptyList[domain.Event],
		api.ListEvents,
		log,
	)
	v.Create = dialog.New(v.create, dialog.WithRefresh(v.Reload), dialog.WithSuccessMessage("Event created."))
	v.Edit = dialog.New(v.update, dialog.WithRefresh(v.Reload), dialog.WithSuccessMessage("Event updated."))
	v.Delete = dialog.NewConfirmDialog(deleteBy(api.DeleteEvent), dialog.WithRefresh(v.Reload), dialog.WithSuccessMessage("Event deleted."))
	return v
}

func (v *EventsView) OpenEdit(ev domain.Event) {
	v.Edit.Open(EventForm{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Date:        ev.Date,
		Time:        ev.Time,
	})
}

func (v *EventsView) event(f EventForm) (domain.Event, error) {
	building, ok := v.Key()
	if !ok {
		return domain.Event{}, errNoBuilding
	}
	return domain.Event{
		ID:          f.ID,
		BuildingID:  building,
		Title:       f.Title,
		Description: f.Description,
		Date:        f.Date,
		Time:        f.Time,
	}, nil
}

func (v *EventsView) create(ctx context.Context, f EventForm) error {
	ev, err := v.event(f)
	if err != nil {
		return err
	}
	return v.api.CreateEvent(ctx, ev)
}

func (v *EventsView) update(ctx context.Context, f EventForm) error {
	ev, err := v.event(f)
	if err != nil {
		return err
	}
	return v.api.UpdateEvent(ctx, ev)
}
