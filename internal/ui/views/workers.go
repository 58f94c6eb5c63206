package views

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/infrastructure/apiclient"
	"github.com/obraportal/portal-client/internal/ui/dialog"
	"github.com/obraportal/portal-client/internal/ui/fetch"
)

// ContactsView lists the customers assigned to a field worker.
type ContactsView struct {
	*keyed[[]domain.Contact]
}

func NewContactsView(api ContactsAPI, log zerolog.Logger) *ContactsView {
	return &ContactsView{keyed: newKeyed("contacts",
		fetch.Copy{Waiting: "Waiting for your worker profile.", Empty: "No customers assigned to you."},
		isEmptyList[domain.Contact],
		api.AssignedCustomers,
		log,
	)}
}

// PhotoForm replaces the worker's profile picture.
type PhotoForm struct {
	File Attachment
}

func (f PhotoForm) Validate() error {
	if len(f.File.Data) == 0 {
		return errNoFile
	}
	return nil
}

// WorkerProfileView shows a worker's profile image.
type WorkerProfileView struct {
	*keyed[apiclient.WorkerPhoto]
	api WorkerProfileAPI

	Upload *dialog.Dialog[PhotoForm]
}

func NewWorkerProfileView(api WorkerProfileAPI, log zerolog.Logger) *WorkerProfileView {
	v := &WorkerProfileView{api: api}
	v.keyed = newKeyed("worker_profile",
		fetch.Copy{Waiting: "Waiting for your worker profile.", Empty: "No profile photo yet."},
		func(p apiclient.WorkerPhoto) bool { return len(p.Data) == 0 },
		api.WorkerImage,
		log,
	)
	v.Upload = dialog.New(v.upload, dialog.WithRefresh(v.Reload), dialog.WithSuccessMessage("Photo updated."))
	return v
}

func (v *WorkerProfileView) upload(ctx context.Context, f PhotoForm) error {
	worker, ok := v.Key()
	if !ok {
		return errWorkerUnknown
	}
	return v.api.UploadWorkerImage(ctx, worker, f.File.Name, f.File.Data)
}
