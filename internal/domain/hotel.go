package domain

import "pms_dashboard/internal/calendar"

// Hotel is static configuration; AuthCode never leaves the server.
type Hotel struct {
	ID       string `json:"id" yaml:"id"`
	Code     string `json:"code" yaml:"code"`
	Name     string `json:"name" yaml:"name"`
	Location string `json:"location" yaml:"location"`
	AuthCode string `json:"-" yaml:"auth_code"`
}

type Room struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
}

type RoomType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rooms       []Room `json:"rooms,omitempty"`
}

type RateType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RatePlan struct {
	RatePlanID   string `json:"ratePlanId"`
	Name         string `json:"name"`
	RoomTypeID   string `json:"roomTypeId"`
	RoomType     string `json:"roomType"`
	RateTypeID   string `json:"rateTypeId"`
	RateType     string `json:"rateType"`
	RatePlanType string `json:"ratePlanType"`
}

// RoomCatalog is everything a RoomInfo call returns.
type RoomCatalog struct {
	RoomTypes []RoomType `json:"roomTypes"`
	RateTypes []RateType `json:"rateTypes"`
	RatePlans []RatePlan `json:"ratePlans"`
}

// RoomTypeIDs keeps catalog order.
func (c RoomCatalog) RoomTypeIDs() []string {
	out := make([]string, 0, len(c.RoomTypes))
	for _, rt := range c.RoomTypes {
		out = append(out, rt.ID)
	}
	return out
}

// AvailabilityQuery parameterizes RoomAvailability calls.
type AvailabilityQuery struct {
	Range      calendar.DateRange
	RoomTypeID string
	RoomID     string
}
