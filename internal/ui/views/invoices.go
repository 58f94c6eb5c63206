package views

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/infrastructure/apiclient"
	"github.com/obraportal/portal-client/internal/ui/dialog"
	"github.com/obraportal/portal-client/internal/ui/fetch"
)

// InvoiceForm is shared by the upload and edit dialogs. On edit, File is
// an optional replacement document.
type InvoiceForm struct {
	ID          int64
	BuildingID  string `validate:"required,numeric"`
	Number      string `validate:"required"`
	Description string
	Amount      string `validate:"required,numeric"`
	IssuedAt    string `validate:"required,datetime=2006-01-02"`
	File        Attachment
}

type invoiceUploadForm struct {
	InvoiceForm
}

func (f invoiceUploadForm) Validate() error {
	if len(f.File.Data) == 0 {
		return errNoFile
	}
	return nil
}

// InvoicesView lists invoices and hosts their upload, edit and delete
// dialogs.
type InvoicesView struct {
	*keyed[[]domain.Invoice]
	api InvoicesAPI

	Upload *dialog.Dialog[invoiceUploadForm]
	Edit   *dialog.Dialog[InvoiceForm]
	Delete *dialog.Dialog[DeleteForm]
}

func NewInvoicesView(api InvoicesAPI, log zerolog.Logger) *InvoicesView {
	v := &InvoicesView{api: api}
	v.keyed = newKeyed("invoices",
		fetch.Copy{Empty: "No invoices uploaded."},
		isEmptyList[domain.Invoice],
		func(ctx context.Context, _ int64) ([]domain.Invoice, error) { return api.ListInvoices(ctx) },
		log,
	)
	v.keyed.unkeyed = true
	v.Upload = dialog.New(v.upload, dialog.WithRefresh(v.Reload), dialog.WithSuccessMessage("Invoice uploaded."))
	v.Edit = dialog.New(v.update, dialog.WithRefresh(v.Reload), dialog.WithSuccessMessage("Invoice updated."))
	v.Delete = dialog.NewConfirmDialog(deleteBy(api.DeleteInvoice), dialog.WithRefresh(v.Reload), dialog.WithSuccessMessage("Invoice deleted."))
	return v
}

// OpenUpload starts a blank upload.
func (v *InvoicesView) OpenUpload() {
	v.Upload.Open(invoiceUploadForm{})
}

// EditUpload mutates the pending upload form.
func (v *InvoicesView) EditUpload(fn func(*InvoiceForm)) {
	v.Upload.Edit(func(f *invoiceUploadForm) { fn(&f.InvoiceForm) })
}

// OpenEdit pre-fills the edit dialog from inv.
func (v *InvoicesView) OpenEdit(inv domain.Invoice) {
	v.Edit.Open(InvoiceForm{
		ID:          inv.ID,
		BuildingID:  strconv.FormatInt(inv.BuildingID, 10),
		Number:      inv.Number,
		Description: inv.Description,
		Amount:      strconv.FormatFloat(inv.Amount, 'f', -1, 64),
		IssuedAt:    inv.IssuedAt,
		File:        Attachment{Name: inv.Filename},
	})
}

func (v *InvoicesView) upload(ctx context.Context, f invoiceUploadForm) error {
	building, _ := strconv.ParseInt(f.BuildingID, 10, 64)
	amount, _ := strconv.ParseFloat(f.Amount, 64)
	return v.api.UploadInvoice(ctx, apiclient.NewInvoice{
		BuildingID:  building,
		Number:      f.Number,
		Description: f.Description,
		Amount:      amount,
		IssuedAt:    f.IssuedAt,
		Filename:    f.File.Name,
		Data:        f.File.Data,
	})
}

func (v *InvoicesView) update(ctx context.Context, f InvoiceForm) error {
	building, _ := strconv.ParseInt(f.BuildingID, 10, 64)
	amount, _ := strconv.ParseFloat(f.Amount, 64)
	return v.api.UpdateInvoice(ctx, domain.Invoice{
		ID:          f.ID,
		BuildingID:  building,
		Number:      f.Number,
		Description: f.Description,
		Amount:      amount,
		IssuedAt:    f.IssuedAt,
		Filename:    f.File.Name,
	}, f.File.Data)
}
