package app

import (
	"hash/fnv"
	"math/rand/v2"
	"strings"

	"pms_dashboard/internal/calendar"
	"pms_dashboard/internal/domain"
)

const (
	mockMaxBase       = 7
	weekendFactor     = 0.6
	premiumRoomFactor = 0.4
)

// DefaultRoomTypes stands in when neither RoomInfo nor availability data named any room type.
func DefaultRoomTypes() []domain.RoomType {
	return []domain.RoomType{
		{ID: "deluxe", Name: "Deluxe Room"},
		{ID: "suite", Name: "Executive Suite"},
		{ID: "standard", Name: "Standard Room"},
		{ID: "family", Name: "Family Room"},
		{ID: "presidential", Name: "Presidential Suite"},
	}
}

// Mock produces synthetic availability with the same shape Normalize returns.
// Output is a pure function of the room types and range.
func Mock(roomTypes []domain.RoomType, rng calendar.DateRange) []domain.AvailabilityRecord {
	roomTypes = uniqueRoomTypes(roomTypes)
	r := rand.New(rand.NewPCG(mockSeed(roomTypes, rng)))
	days := rng.Days()
	out := make([]domain.AvailabilityRecord, 0, len(roomTypes)*len(days))
	for _, rt := range roomTypes {
		premium := isPremium(rt.Name) || isPremium(rt.ID)
		for _, d := range days {
			n := r.IntN(mockMaxBase + 1)
			if calendar.IsWeekend(d) {
				n = int(float64(n) * weekendFactor)
			}
			if premium {
				n = max(1, int(float64(n)*premiumRoomFactor))
			}
			out = append(out, domain.AvailabilityRecord{RoomTypeID: rt.ID, Date: d, AvailableRooms: domain.Rooms(n)})
		}
	}
	return out
}

func isPremium(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "suite") || strings.Contains(n, "presidential")
}

func mockSeed(roomTypes []domain.RoomType, rng calendar.DateRange) (uint64, uint64) {
	h := fnv.New64a()
	for _, rt := range roomTypes {
		_, _ = h.Write([]byte(rt.ID))
		_, _ = h.Write([]byte{0})
	}
	a := h.Sum64()
	_, _ = h.Write([]byte(rng.String()))
	return a, h.Sum64()
}
