package domain

// Image is a photo attached to a building, optionally scoped to a room.
type Image struct {
	ID       int64   `json:"id"`
	URL      string  `json:"url"`
	RoomID   *int64  `json:"roomId"`
	RoomName *string `json:"roomName"`
}

const (
	NoRoomKey   = "sin_habitacion"
	NoRoomLabel = "Sin Habitación"
)

// ImageGroup is the set of images that share a room.
type ImageGroup struct {
	Key    string
	Name   string
	Images []Image
}
