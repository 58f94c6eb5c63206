package domain

// Destination is the landing view chosen after authentication.
type Destination string

const (
	DestinationLanding      Destination = "landing"
	DestinationCustomerHome Destination = "customer_home"
	DestinationAdmin        Destination = "admin"
	DestinationFieldWorker  Destination = "field_worker"
)
