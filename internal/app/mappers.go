package app

import (
	"slices"

	"pms_dashboard/internal/calendar"
	"pms_dashboard/internal/domain"
)

/********** upstream -> intervals **********/

// intervalsFromReport: a room listed as free by RoomAvailability is free for
// every night of the queried stay, so each room type becomes one interval.
func intervalsFromReport(rep domain.RoomAvailabilityReport, r calendar.DateRange) []domain.Interval {
	out := make([]domain.Interval, 0, len(rep.AvailableRooms))
	for _, ra := range rep.AvailableRooms {
		if ra.RoomTypeID == "" {
			continue
		}
		out = append(out, domain.Interval{
			RoomTypeID:     ra.RoomTypeID,
			From:           r.From,
			To:             r.To,
			AvailableRooms: ra.AvailableCount,
		})
	}
	return out
}

// inferRoomTypes is used when RoomInfo failed: names come from the
// RoomAvailability report, otherwise the ID doubles as the name.
func inferRoomTypes(rep domain.RoomAvailabilityReport, inventory []domain.Interval) []domain.RoomType {
	var out []domain.RoomType
	seen := map[string]bool{}
	add := func(id, name string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		if name == "" {
			name = id
		}
		out = append(out, domain.RoomType{ID: id, Name: name})
	}
	for _, ra := range rep.AvailableRooms {
		add(ra.RoomTypeID, ra.RoomTypeName)
	}
	for _, iv := range inventory {
		add(iv.RoomTypeID, "")
	}
	return out
}

// uniqueRoomTypes keeps the first room type per non-empty ID, in input order.
func uniqueRoomTypes(rts []domain.RoomType) []domain.RoomType {
	out := make([]domain.RoomType, 0, len(rts))
	seen := make(map[string]bool, len(rts))
	for _, rt := range rts {
		if rt.ID == "" || seen[rt.ID] {
			continue
		}
		seen[rt.ID] = true
		out = append(out, rt)
	}
	return out
}

/********** result -> edge shape **********/

// RoomTypeAvailability is the per-room-type date map served by the
// get-availability edge function. Unknown days are left out of the map.
type RoomTypeAvailability struct {
	RoomTypeID   string         `json:"roomTypeId"`
	RoomName     string         `json:"roomName"`
	Availability map[string]int `json:"availability"`
}

func ToRoomTypeAvailability(res Result) []RoomTypeAvailability {
	byID := make(map[string]*RoomTypeAvailability, len(res.RoomTypes))
	out := make([]RoomTypeAvailability, 0, len(res.RoomTypes))
	for _, rt := range res.RoomTypes {
		out = append(out, RoomTypeAvailability{RoomTypeID: rt.ID, RoomName: rt.Name, Availability: map[string]int{}})
	}
	for i := range out {
		byID[out[i].RoomTypeID] = &out[i]
	}
	for _, rec := range res.Records {
		e, ok := byID[rec.RoomTypeID]
		if !ok || !rec.AvailableRooms.Known() {
			continue
		}
		e.Availability[calendar.FormatDay(rec.Date)] = int(rec.AvailableRooms)
	}
	return out
}

/********** directory **********/

// knownHotelCodes keeps codes present in the registry, deduplicated, in input order.
func knownHotelCodes(reg domain.HotelRegistry, codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if _, ok := reg.Hotel(c); !ok || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}
