package devserver

import (
	"encoding/base64"

	"github.com/obraportal/portal-client/internal/core/domain"
)

func ptr[T any](v T) *T { return &v }

// DefaultUsers is one account per portal role. Passwords are for local use
// only.
func DefaultUsers() []SeedUser {
	return []SeedUser{
		{ID: 1, Username: "admin", Password: "admin123", Kind: domain.KindWorker, RoleID: domain.RoleAdmin},
		{ID: 2, Username: "obrero", Password: "obrero123", Kind: domain.KindWorker, RoleID: domain.RoleFieldWorker},
		{ID: 3, Username: "cliente", Password: "cliente123", Kind: domain.KindCustomer, BuildingID: ptr(int64(1))},
	}
}

// minimal one-page PDF so downloaded documents open in a viewer
const samplePDF = "%PDF-1.4\n1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj\n" +
	"2 0 obj<</Type/Pages/Kids[3 0 R]/Count 1>>endobj\n" +
	"3 0 obj<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]>>endobj\n" +
	"trailer<</Root 1 0 R>>\n%%EOF\n"

func pdf(name string) domain.PDF {
	return domain.PDF{Filename: name, Data: base64.StdEncoding.EncodeToString([]byte(samplePDF))}
}

func (s *store) seed() {
	s.buildings = []domain.Building{
		{ID: 1, Name: "Residencial Los Olivos", Address: "Av. del Parque 120", City: "Valencia"},
		{ID: 2, Name: "Torre Mirador", Address: "Calle Mayor 8", City: "Alicante"},
	}
	s.workers = []domain.Worker{
		{ID: 1, Name: "Marta Ruiz", Email: "marta@obra.example", RoleID: domain.RoleAdmin, Position: "Jefa de obra"},
		{ID: 2, Name: "Jorge Pérez", Email: "jorge@obra.example", RoleID: domain.RoleFieldWorker, Position: "Electricista"},
	}
	s.incidents = []domain.Incident{
		{ID: 1, BuildingID: 1, RoomID: ptr(int64(1)), Description: "Gotera en el techo de la cocina", Status: domain.IncidentPending, CreatedAt: "2026-09-14"},
		{ID: 2, BuildingID: 1, Description: "Puerta del garaje no cierra", Status: domain.IncidentInProgress, CreatedAt: "2026-09-20"},
	}
	s.rooms[1] = ptr("Cocina")
	s.rooms[2] = ptr("Baño")
	s.images = []storedImage{
		{Building: 1, Image: domain.Image{ID: 1, URL: "/files/buildings/1/images/1", RoomID: ptr(int64(1)), RoomName: s.rooms[1]}},
		{Building: 1, Image: domain.Image{ID: 2, URL: "/files/buildings/1/images/2", RoomID: ptr(int64(2)), RoomName: s.rooms[2]}},
		{Building: 1, Image: domain.Image{ID: 3, URL: "/files/buildings/1/images/3"}},
	}
	s.legal = []document{
		{ID: 1, Building: 1, PDF: pdf("escritura.pdf")},
		{ID: 2, Building: 1, PDF: pdf("licencia-de-obra.pdf")},
	}
	s.manuals = []document{
		{ID: 1, Building: 1, PDF: pdf("manual-de-uso.pdf")},
	}
	s.invoices = []domain.Invoice{
		{ID: 1, BuildingID: 1, Number: "F-2026-001", Description: "Certificación mensual", Amount: 15400.5, IssuedAt: "2026-09-30", Filename: "F-2026-001.pdf",
			Document: base64.StdEncoding.EncodeToString([]byte(samplePDF))},
	}
	s.events = []domain.Event{
		{ID: 1, BuildingID: 1, Title: "Visita de obra", Description: "Recorrido con propietarios", Date: "2026-11-05", Time: "10:00"},
	}
	s.contacts[2] = []domain.Contact{
		{ID: 3, Name: "Lucía Gómez", Email: "lucia@correo.example", Phone: "600111222", BuildingID: ptr(int64(1)), Apartment: "3B"},
	}
}
