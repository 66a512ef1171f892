package app

import (
	"time"

	"pms_dashboard/internal/calendar"
	"pms_dashboard/internal/domain"
)

type cellKey struct {
	roomTypeID string
	day        string
}

func keyOf(roomTypeID string, t time.Time) cellKey {
	return cellKey{roomTypeID: roomTypeID, day: calendar.FormatDay(t)}
}

// ExpandInterval yields one record per day in [From, To], all with the same count.
func ExpandInterval(iv domain.Interval) []domain.AvailabilityRecord {
	if iv.From.After(iv.To) {
		return nil
	}
	days := calendar.Range(iv.From, calendar.DaysBetween(iv.From, iv.To))
	out := make([]domain.AvailabilityRecord, 0, len(days))
	for _, d := range days {
		out = append(out, domain.AvailabilityRecord{
			RoomTypeID:     iv.RoomTypeID,
			Date:           d,
			AvailableRooms: domain.Rooms(iv.AvailableRooms),
		})
	}
	return out
}

// Normalize builds exactly one record per (room type, day) of rng. Sources are
// applied in order, so for an overlapping cell the last interval seen wins.
// Cells no source covers are Unknown. Output is room-type major, then by date.
func Normalize(rng calendar.DateRange, roomTypeIDs []string, sources ...[]domain.Interval) []domain.AvailabilityRecord {
	seen := make(map[cellKey]domain.Rooms)
	for _, src := range sources {
		for _, iv := range src {
			clipped, ok := rng.Clip(calendar.DateRange{From: iv.From, To: iv.To})
			if !ok {
				continue
			}
			iv.From, iv.To = clipped.From, clipped.To
			for _, rec := range ExpandInterval(iv) {
				seen[keyOf(rec.RoomTypeID, rec.Date)] = rec.AvailableRooms
			}
		}
	}

	ids := dedupe(roomTypeIDs)
	days := rng.Days()
	out := make([]domain.AvailabilityRecord, 0, len(ids)*len(days))
	for _, id := range ids {
		for _, d := range days {
			n, ok := seen[keyOf(id, d)]
			if !ok {
				n = domain.Unknown
			}
			out = append(out, domain.AvailabilityRecord{RoomTypeID: id, Date: d, AvailableRooms: n})
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
