package domain

import (
	"context"

	"pms_dashboard/internal/calendar"
)

type PMSClient interface {
	RoomInfo(ctx context.Context, h Hotel, needPhysicalRooms bool) (RoomCatalog, error)
	Inventory(ctx context.Context, h Hotel, r calendar.DateRange) ([]Interval, error)
	RoomAvailability(ctx context.Context, h Hotel, q AvailabilityQuery) (RoomAvailabilityReport, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type DirectoryRepository interface {
	CreateAgent(ctx context.Context, a Agent) error
	GetAgent(ctx context.Context, id string) (Agent, error)
	ListAgents(ctx context.Context) ([]Agent, error)
	ReplaceAgentHotels(ctx context.Context, agentID string, codes []string) error

	CreateTeamMember(ctx context.Context, m TeamMember) error
	ListTeamMembers(ctx context.Context) ([]TeamMember, error)
}

type RuleRepository interface {
	ListRules(ctx context.Context, hotelCode string) ([]RoomTypeRule, error)
	UpsertRule(ctx context.Context, r RoomTypeRule) error
}

// HotelRegistry resolves configured hotels by code.
type HotelRegistry interface {
	Hotel(code string) (Hotel, bool)
	Hotels() []Hotel
}
