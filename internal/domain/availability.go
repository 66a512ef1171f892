package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// Rooms is an availability count. Unknown means no upstream data, which is
// not the same as 0 (sold out).
type Rooms int

const Unknown Rooms = -1

func (r Rooms) Known() bool { return r >= 0 }

func (r Rooms) String() string {
	if !r.Known() {
		return "unknown"
	}
	return strconv.Itoa(int(r))
}

func (r Rooms) MarshalJSON() ([]byte, error) {
	if !r.Known() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(r))), nil
}

func (r *Rooms) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Unknown
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if n < 0 {
		n = int(Unknown)
	}
	*r = Rooms(n)
	return nil
}

// AvailabilityRecord is one grid cell. Unique per (RoomTypeID, Date).
type AvailabilityRecord struct {
	RoomTypeID     string    `json:"roomTypeId"`
	Date           time.Time `json:"date"`
	AvailableRooms Rooms     `json:"availableRooms"`
}

// Interval is the upstream batching unit: the same count for every day in [From, To].
type Interval struct {
	RoomTypeID     string
	From, To       time.Time
	AvailableRooms int
}

type RoomAvailability struct {
	RoomTypeID     string `json:"roomTypeId"`
	RoomTypeName   string `json:"roomTypeName"`
	Rooms          []Room `json:"rooms"`
	AvailableCount int    `json:"availableCount"`
}

// RoomAvailabilityReport lists the physical rooms free over a whole stay.
type RoomAvailabilityReport struct {
	AvailableRooms []RoomAvailability `json:"availableRooms"`
	TotalRoomTypes int                `json:"totalRoomTypes"`
	TotalRooms     int                `json:"totalRooms"`
}
