package domain

// IncidentStatus is the lifecycle state of a reported incident.
type IncidentStatus string

const (
	IncidentPending    IncidentStatus = "PENDING"
	IncidentInProgress IncidentStatus = "IN_PROGRESS"
	IncidentResolved   IncidentStatus = "RESOLVED"
)

// Valid reports whether s is one of the known statuses.
func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentPending, IncidentInProgress, IncidentResolved:
		return true
	}
	return false
}

// Incident is a defect report raised by a customer against a building.
type Incident struct {
	ID          int64          `json:"id"`
	BuildingID  int64          `json:"buildingId"`
	RoomID      *int64         `json:"roomId,omitempty"`
	Description string         `json:"description"`
	Status      IncidentStatus `json:"status"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	CreatedAt   string         `json:"createdAt,omitempty"`
}
