package pms

import (
	"encoding/json"

	"pms_dashboard/internal/domain"
)

type roomInfoResponse struct {
	RoomInfo *struct {
		RoomTypes *struct {
			RoomType OneOrMany[roomInfoRoomType] `json:"RoomType"`
		} `json:"RoomTypes"`
		RateTypes *struct {
			RateType OneOrMany[roomInfoRateType] `json:"RateType"`
		} `json:"RateTypes"`
		RatePlans *struct {
			RatePlan OneOrMany[roomInfoRatePlan] `json:"RatePlan"`
		} `json:"RatePlans"`
	} `json:"RoomInfo"`
	Errors *upstreamError `json:"Errors"`
}

type roomInfoRoomType struct {
	ID          text                    `json:"ID"`
	Name        text                    `json:"Name"`
	Description text                    `json:"Description"`
	Rooms       OneOrMany[physicalRoom] `json:"Rooms"`
}

type physicalRoom struct {
	RoomID   text `json:"RoomID"`
	RoomName text `json:"RoomName"`
}

type roomInfoRateType struct {
	ID   text `json:"ID"`
	Name text `json:"Name"`
}

type roomInfoRatePlan struct {
	RatePlanID   text `json:"RatePlanID"`
	Name         text `json:"Name"`
	RoomTypeID   text `json:"RoomTypeID"`
	RoomType     text `json:"RoomType"`
	RateTypeID   text `json:"RateTypeID"`
	RateType     text `json:"RateType"`
	RatePlanType text `json:"RatePlanType"`
}

// ParseRoomInfo maps a RoomInfo JSON response to a catalog.
// A missing RoomInfo.RoomTypes.RoomType path is a MalformedResponse.
func ParseRoomInfo(payload []byte) (domain.RoomCatalog, error) {
	var resp roomInfoResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return domain.RoomCatalog{}, malformed(opRoomInfo, err)
	}
	if resp.Errors.rejected() {
		return domain.RoomCatalog{}, rejected(opRoomInfo, resp.Errors)
	}
	if resp.RoomInfo == nil || resp.RoomInfo.RoomTypes == nil || resp.RoomInfo.RoomTypes.RoomType == nil {
		return domain.RoomCatalog{}, &domain.AdapterError{
			Kind:    domain.KindMalformedResponse,
			Op:      opRoomInfo,
			Message: "RoomInfo.RoomTypes.RoomType missing",
		}
	}

	info := resp.RoomInfo
	out := domain.RoomCatalog{
		RoomTypes: make([]domain.RoomType, 0, len(info.RoomTypes.RoomType)),
		RateTypes: []domain.RateType{},
		RatePlans: []domain.RatePlan{},
	}
	for _, rt := range info.RoomTypes.RoomType {
		if rt.ID == "" {
			continue
		}
		m := domain.RoomType{ID: rt.ID.String(), Name: rt.Name.String(), Description: rt.Description.String()}
		for _, r := range rt.Rooms {
			m.Rooms = append(m.Rooms, domain.Room{RoomID: r.RoomID.String(), RoomName: r.RoomName.String()})
		}
		out.RoomTypes = append(out.RoomTypes, m)
	}
	if info.RateTypes != nil {
		for _, rt := range info.RateTypes.RateType {
			out.RateTypes = append(out.RateTypes, domain.RateType{ID: rt.ID.String(), Name: rt.Name.String()})
		}
	}
	if info.RatePlans != nil {
		for _, rp := range info.RatePlans.RatePlan {
			out.RatePlans = append(out.RatePlans, domain.RatePlan{
				RatePlanID:   rp.RatePlanID.String(),
				Name:         rp.Name.String(),
				RoomTypeID:   rp.RoomTypeID.String(),
				RoomType:     rp.RoomType.String(),
				RateTypeID:   rp.RateTypeID.String(),
				RateType:     rp.RateType.String(),
				RatePlanType: rp.RatePlanType.String(),
			})
		}
	}
	return out, nil
}
