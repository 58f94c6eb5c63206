package views

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/ui/fetch"
)

// pdfsByIDs fetches the id list for a building and then the documents.
// An empty id list settles as an empty result without a second call.
func pdfsByIDs(
	ids func(context.Context, int64) ([]int64, error),
	pdfs func(context.Context, []int64) ([]domain.PDF, error),
) func(context.Context, int64) ([]domain.PDF, error) {
	return func(ctx context.Context, building int64) ([]domain.PDF, error) {
		list, err := ids(ctx, building)
		if err != nil {
			return nil, fmt.Errorf("list document ids: %w", err)
		}
		if len(list) == 0 {
			return []domain.PDF{}, nil
		}
		return pdfs(ctx, list)
	}
}

// LegalDocumentsView lists the legal paperwork of a building.
type LegalDocumentsView struct {
	*keyed[[]domain.PDF]
}

func NewLegalDocumentsView(api LegalDocumentsAPI, log zerolog.Logger) *LegalDocumentsView {
	return &LegalDocumentsView{keyed: newKeyed("legal_documents",
		fetch.Copy{Waiting: "Waiting for your building assignment.", Empty: "No legal documents available."},
		isEmptyList[domain.PDF],
		pdfsByIDs(api.LegalDocumentIDs, api.LegalDocumentPDFs),
		log,
	)}
}

// ManualsView lists the user manuals of a building.
type ManualsView struct {
	*keyed[[]domain.PDF]
}

func NewManualsView(api ManualsAPI, log zerolog.Logger) *ManualsView {
	return &ManualsView{keyed: newKeyed("manuals",
		fetch.Copy{Waiting: "Waiting for your building assignment.", Empty: "No manuals available."},
		isEmptyList[domain.PDF],
		pdfsByIDs(api.ManualIDs, api.ManualPDFs),
		log,
	)}
}
