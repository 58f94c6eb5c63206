package domain

// Building is a residential development managed by the company.
type Building struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

// Worker is a company staff member.
type Worker struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	RoleID   int    `json:"roleId"`
	Position string `json:"position,omitempty"`
}

// Contact is a customer assigned to a worker.
type Contact struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	BuildingID *int64 `json:"buildingId,omitempty"`
	Apartment  string `json:"apartment,omitempty"`
}
