package domain

// UserKind distinguishes residential customers from company staff.
type UserKind string

const (
	KindCustomer UserKind = "CUSTOMER"
	KindWorker   UserKind = "WORKER"
)

// Worker role ids as issued by the API.
const (
	RoleAdmin       = 1
	RoleFieldWorker = 2
)

// Claims are the identity facts decoded from the stored credential.
// They are recomputed on demand and never persisted on their own.
type Claims struct {
	SubjectID  int64    `json:"id"`
	Kind       UserKind `json:"userType"`
	RoleID     int      `json:"roleId,omitempty"`
	BuildingID *int64   `json:"buildingId,omitempty"`
}

// IsWorker reports whether the claims belong to company staff.
func (c Claims) IsWorker() bool {
	return c.Kind == KindWorker
}

// HasBuilding reports whether a customer building assignment is present.
func (c Claims) HasBuilding() bool {
	return c.BuildingID != nil
}
