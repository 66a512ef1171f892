package domain

import "time"

type Agent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Hotels    []string  `json:"hotels"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	RoleHotelAdmin       = "Hotel Admin"
	RoleHotelStaff       = "Hotel Staff"
	RoleReservationAgent = "Reservation Agent"
)

var TeamRoles = []string{RoleHotelAdmin, RoleHotelStaff, RoleReservationAgent}

type TeamMember struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	Hotels    []string  `json:"hotels"`
	CreatedAt time.Time `json:"createdAt"`
}

type RuleType string

const (
	RuleNone       RuleType = ""
	RuleFlat       RuleType = "FLAT"
	RulePercentage RuleType = "PERCENTAGE"
)

// RoomTypeRule controls how one room type shows up in the grid.
type RoomTypeRule struct {
	HotelCode    string   `json:"hotelCode"`
	RoomTypeID   string   `json:"roomTypeId"`
	DisplayName  string   `json:"displayName"`
	Active       bool     `json:"active"`
	RuleType     RuleType `json:"ruleType"`
	RuleValue    int      `json:"ruleValue"`
	MinThreshold int      `json:"minThreshold"`
}
