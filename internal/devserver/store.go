package devserver

import (
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/obraportal/portal-client/internal/core/domain"
)

var (
	errNotFound     = errors.New("not found")
	errUnknownLogin = errors.New("invalid credentials")
)

// account is a login known to the dev server.
type account struct {
	ID           int64
	Username     string
	PasswordHash []byte
	Kind         domain.UserKind
	RoleID       int
	BuildingID   *int64
}

// SeedUser is a plain-text account handed to New.
type SeedUser struct {
	ID         int64
	Username   string
	Password   string
	Kind       domain.UserKind
	RoleID     int
	BuildingID *int64
}

type storedImage struct {
	Building int64
	domain.Image
}

type document struct {
	ID       int64
	Building int64
	PDF      domain.PDF
}

// store is the in-memory backend of the dev server.
type store struct {
	mu        sync.RWMutex
	seq       int64
	accounts  map[string]account
	buildings []domain.Building
	workers   []domain.Worker
	incidents []domain.Incident
	images    []storedImage
	rooms     map[int64]*string
	legal     []document
	manuals   []document
	invoices  []domain.Invoice
	events    []domain.Event
	contacts  map[int64][]domain.Contact
	photos    map[int64][]byte
}

func newStore(users []SeedUser, cost int) (*store, error) {
	s := &store{
		seq:      100,
		accounts: make(map[string]account, len(users)),
		contacts: make(map[int64][]domain.Contact),
		photos:   make(map[int64][]byte),
		rooms:    make(map[int64]*string),
	}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
		if err != nil {
			return nil, err
		}
		s.accounts[u.Username] = account{
			ID:           u.ID,
			Username:     u.Username,
			PasswordHash: hash,
			Kind:         u.Kind,
			RoleID:       u.RoleID,
			BuildingID:   u.BuildingID,
		}
	}
	return s, nil
}

func (s *store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *store) authenticate(username, password string) (account, error) {
	s.mu.RLock()
	acc, ok := s.accounts[username]
	s.mu.RUnlock()
	if !ok {
		return account{}, errUnknownLogin
	}
	if bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)) != nil {
		return account{}, errUnknownLogin
	}
	return acc, nil
}

func (s *store) listBuildings() []domain.Building {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.buildings)
}

func (s *store) listWorkers() []domain.Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.workers)
}

func (s *store) listIncidents(building int64) []domain.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Incident, 0)
	for _, inc := range s.incidents {
		if inc.BuildingID == building {
			out = append(out, inc)
		}
	}
	return out
}

func (s *store) addIncident(inc domain.Incident) domain.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	inc.ID = s.nextID()
	s.incidents = append(s.incidents, inc)
	return inc
}

func (s *store) getIncident(building, id int64) (domain.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inc := range s.incidents {
		if inc.ID == id && inc.BuildingID == building {
			return inc, nil
		}
	}
	return domain.Incident{}, errNotFound
}

func (s *store) setIncidentStatus(building, id int64, status domain.IncidentStatus) (domain.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.incidents {
		if s.incidents[i].ID == id && s.incidents[i].BuildingID == building {
			s.incidents[i].Status = status
			return s.incidents[i], nil
		}
	}
	return domain.Incident{}, errNotFound
}

func (s *store) listImages(building int64) []domain.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Image, 0)
	for _, img := range s.images {
		if img.Building == building {
			out = append(out, img.Image)
		}
	}
	return out
}

func (s *store) addImage(building int64, room *int64) domain.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID()
	img := domain.Image{ID: id, URL: fmt.Sprintf("/files/buildings/%d/images/%d", building, id), RoomID: room}
	if room != nil {
		img.RoomName = s.rooms[*room]
	}
	s.images = append(s.images, storedImage{Building: building, Image: img})
	return img
}

func docIDs(docs []document, building int64) []int64 {
	out := make([]int64, 0)
	for _, d := range docs {
		if d.Building == building {
			out = append(out, d.ID)
		}
	}
	return out
}

func docPDFs(docs []document, ids []int64) []domain.PDF {
	out := make([]domain.PDF, 0, len(ids))
	for _, id := range ids {
		for _, d := range docs {
			if d.ID == id {
				out = append(out, d.PDF)
			}
		}
	}
	return out
}

func (s *store) legalIDs(building int64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return docIDs(s.legal, building)
}

func (s *store) legalPDFs(ids []int64) []domain.PDF {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return docPDFs(s.legal, ids)
}

func (s *store) manualIDs(building int64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return docIDs(s.manuals, building)
}

func (s *store) manualPDFs(ids []int64) []domain.PDF {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return docPDFs(s.manuals, ids)
}

func (s *store) listInvoices() []domain.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Invoice, len(s.invoices))
	for i, inv := range s.invoices {
		inv.Document = ""
		out[i] = inv
	}
	return out
}

func (s *store) addInvoice(inv domain.Invoice, data []byte) domain.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.ID = s.nextID()
	inv.Document = base64.StdEncoding.EncodeToString(data)
	s.invoices = append(s.invoices, inv)
	return inv
}

func (s *store) updateInvoice(inv domain.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invoices {
		if s.invoices[i].ID != inv.ID {
			continue
		}
		if inv.Document == "" {
			inv.Document = s.invoices[i].Document
		}
		s.invoices[i] = inv
		return nil
	}
	return errNotFound
}

func (s *store) deleteInvoice(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			s.invoices = slices.Delete(s.invoices, i, i+1)
			return nil
		}
	}
	return errNotFound
}

func (s *store) listEvents(building int64) []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, 0)
	for _, ev := range s.events {
		if ev.BuildingID == building {
			out = append(out, ev)
		}
	}
	return out
}

func (s *store) addEvent(ev domain.Event) domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.ID = s.nextID()
	s.events = append(s.events, ev)
	return ev
}

func (s *store) updateEvent(ev domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == ev.ID {
			s.events[i] = ev
			return nil
		}
	}
	return errNotFound
}

func (s *store) deleteEvent(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = slices.Delete(s.events, i, i+1)
			return nil
		}
	}
	return errNotFound
}

func (s *store) contactsOf(worker int64) []domain.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.contacts[worker])
}

func (s *store) photo(worker int64) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.photos[worker]
	return b, ok
}

func (s *store) setPhoto(worker int64, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos[worker] = data
}
