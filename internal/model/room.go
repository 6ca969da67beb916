package model

// RoomStatus is the occupancy state of a room as reported by the remote
// registry.  Legal transitions are enforced by the room package before any
// status-change request is sent.
type RoomStatus string

const (
	RoomFree        RoomStatus = "FREE"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomCleaning    RoomStatus = "CLEANING"
	RoomMaintenance RoomStatus = "MAINTENANCE"
)

// RoomOccupant is the minimal reference to the guest currently checked into
// a room, shown to governance operators as informational detail.
type RoomOccupant struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Room mirrors one entry of the remote room registry.  Like guests and
// products, the local copy is a fetch-time observation: after a transition
// request the grid is re-fetched rather than mutated optimistically, since
// several terminals may act on the same room concurrently.
type Room struct {
	ID       uint64        `json:"id"`
	Number   string        `json:"number"`
	Status   RoomStatus    `json:"status"`
	Occupant *RoomOccupant `json:"occupant,omitempty"`
}
