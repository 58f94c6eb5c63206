package domain

// Event is a scheduled activity for a building (visit, inspection, handover).
type Event struct {
	ID          int64  `json:"id"`
	BuildingID  int64  `json:"buildingId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
}

// ChatMessage is the wire form of a chat frame.
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}
