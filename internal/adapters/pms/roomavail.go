package pms

import (
	"encoding/json"
	"strings"

	"pms_dashboard/internal/domain"
)

type roomAvailabilityResponse struct {
	Success *struct {
		RoomList OneOrMany[roomListEntry] `json:"RoomList"`
	} `json:"Success"`
	Error  OneOrMany[upstreamError] `json:"Error"`
	Errors *upstreamError           `json:"Errors"`
}

type roomListEntry struct {
	RoomtypeID   text                    `json:"RoomtypeID"`
	RoomtypeName text                    `json:"RoomtypeName"`
	RoomData     OneOrMany[physicalRoom] `json:"RoomData"`
}

// ParseRoomAvailability maps the kiosk RoomAvailability JSON. A response
// without Success.RoomList is an empty report, not an error.
func ParseRoomAvailability(payload []byte) (domain.RoomAvailabilityReport, error) {
	var resp roomAvailabilityResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return domain.RoomAvailabilityReport{}, malformed(opRoomAvailability, err)
	}
	// any non-empty Error entry is a rejection, whatever its shape
	var codes, msgs []string
	for _, e := range resp.Error {
		if e.empty() {
			continue
		}
		if e.ErrorCode != "" {
			codes = append(codes, e.ErrorCode.String())
			msgs = append(msgs, e.ErrorCode.String()+": "+e.ErrorMessage.String())
		} else {
			msgs = append(msgs, e.ErrorMessage.String())
		}
	}
	if len(msgs) > 0 {
		return domain.RoomAvailabilityReport{}, &domain.AdapterError{
			Kind:    domain.KindUpstreamRejected,
			Op:      opRoomAvailability,
			Code:    strings.Join(codes, ","),
			Message: strings.Join(msgs, ", "),
		}
	}
	if resp.Errors.rejected() {
		return domain.RoomAvailabilityReport{}, rejected(opRoomAvailability, resp.Errors)
	}

	out := domain.RoomAvailabilityReport{AvailableRooms: []domain.RoomAvailability{}}
	if resp.Success == nil {
		return out, nil
	}
	for _, rt := range resp.Success.RoomList {
		ra := domain.RoomAvailability{
			RoomTypeID:   rt.RoomtypeID.String(),
			RoomTypeName: rt.RoomtypeName.String(),
			Rooms:        make([]domain.Room, 0, len(rt.RoomData)),
		}
		for _, r := range rt.RoomData {
			ra.Rooms = append(ra.Rooms, domain.Room{RoomID: r.RoomID.String(), RoomName: r.RoomName.String()})
		}
		ra.AvailableCount = len(ra.Rooms)
		out.AvailableRooms = append(out.AvailableRooms, ra)
		out.TotalRooms += ra.AvailableCount
	}
	out.TotalRoomTypes = len(out.AvailableRooms)
	return out, nil
}
