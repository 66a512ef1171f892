package app

import (
	"context"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pms_dashboard/internal/domain"
)

type DirectoryService struct {
	repo   domain.DirectoryRepository
	hotels domain.HotelRegistry
}

func NewDirectoryService(r domain.DirectoryRepository, h domain.HotelRegistry) *DirectoryService {
	return &DirectoryService{repo: r, hotels: h}
}

type NewAgent struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Status string   `json:"status"`
	Hotels []string `json:"hotels"`
}

func (s *DirectoryService) CreateAgent(ctx context.Context, in NewAgent) (domain.Agent, error) {
	name, email := strings.TrimSpace(in.Name), normEmail(in.Email)
	if name == "" || email == "" {
		return domain.Agent{}, domain.Invalid("name and email are required")
	}
	if !validEmail(email) {
		return domain.Agent{}, domain.Invalid("email %q is not valid", in.Email)
	}
	status := strings.ToLower(strings.TrimSpace(in.Status))
	switch status {
	case "":
		status = "active"
	case "active", "inactive":
	default:
		return domain.Agent{}, domain.Invalid("status must be active or inactive")
	}

	a := domain.Agent{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Status:    status,
		Hotels:    knownHotelCodes(s.hotels, in.Hotels),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.repo.CreateAgent(ctx, a); err != nil {
		return domain.Agent{}, err
	}
	return a, nil
}

func (s *DirectoryService) GetAgent(ctx context.Context, id string) (domain.Agent, error) {
	return s.repo.GetAgent(ctx, id)
}

func (s *DirectoryService) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	return s.repo.ListAgents(ctx)
}

// SetAgentHotels replaces the agent's hotel links. Codes missing from the
// registry are dropped rather than rejected.
func (s *DirectoryService) SetAgentHotels(ctx context.Context, agentID string, codes []string) (domain.Agent, error) {
	if strings.TrimSpace(agentID) == "" || codes == nil {
		return domain.Agent{}, domain.Invalid("agentId and hotelCodes are required")
	}
	keep := knownHotelCodes(s.hotels, codes)
	if dropped := len(codes) - len(keep); dropped > 0 {
		log.Info().Str("agent", agentID).Int("dropped", dropped).Msg("unknown hotel codes ignored")
	}
	if err := s.repo.ReplaceAgentHotels(ctx, agentID, keep); err != nil {
		return domain.Agent{}, err
	}
	return s.repo.GetAgent(ctx, agentID)
}

type NewTeamMember struct {
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email"`
	Role       string   `json:"role"`
	HotelCodes []string `json:"hotelCodes"`
}

func (s *DirectoryService) CreateTeamMember(ctx context.Context, in NewTeamMember) (domain.TeamMember, error) {
	first, last, email := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), normEmail(in.Email)
	if first == "" || last == "" || email == "" || in.Role == "" || in.HotelCodes == nil {
		return domain.TeamMember{}, domain.Invalid("firstName, lastName, email, role and hotelCodes are required")
	}
	if !validEmail(email) {
		return domain.TeamMember{}, domain.Invalid("email %q is not valid", in.Email)
	}
	if !slices.Contains(domain.TeamRoles, in.Role) {
		return domain.TeamMember{}, domain.Invalid("role must be one of %s", strings.Join(domain.TeamRoles, ", "))
	}

	m := domain.TeamMember{
		ID:        uuid.NewString(),
		FirstName: first,
		LastName:  last,
		Email:     email,
		Role:      in.Role,
		Active:    true,
		Hotels:    knownHotelCodes(s.hotels, in.HotelCodes),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.repo.CreateTeamMember(ctx, m); err != nil {
		return domain.TeamMember{}, err
	}
	return m, nil
}

func (s *DirectoryService) ListTeamMembers(ctx context.Context) ([]domain.TeamMember, error) {
	return s.repo.ListTeamMembers(ctx)
}

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func validEmail(e string) bool {
	a, err := mail.ParseAddress(e)
	return err == nil && a.Address == e
}

/********** room-type rules **********/

type RuleService struct {
	repo   domain.RuleRepository
	hotels domain.HotelRegistry
}

func NewRuleService(r domain.RuleRepository, h domain.HotelRegistry) *RuleService {
	return &RuleService{repo: r, hotels: h}
}

func (s *RuleService) List(ctx context.Context, hotelCode string) ([]domain.RoomTypeRule, error) {
	if _, ok := s.hotels.Hotel(hotelCode); !ok {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListRules(ctx, hotelCode)
}

func (s *RuleService) Upsert(ctx context.Context, r domain.RoomTypeRule) (domain.RoomTypeRule, error) {
	if _, ok := s.hotels.Hotel(r.HotelCode); !ok {
		return domain.RoomTypeRule{}, domain.ErrNotFound
	}
	r.RoomTypeID = strings.TrimSpace(r.RoomTypeID)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.RuleType = domain.RuleType(strings.ToUpper(string(r.RuleType)))
	if r.RoomTypeID == "" {
		return domain.RoomTypeRule{}, domain.Invalid("roomTypeId is required")
	}
	switch r.RuleType {
	case domain.RuleNone:
		r.RuleValue = 0
	case domain.RuleFlat:
	case domain.RulePercentage:
		if r.RuleValue > 100 {
			return domain.RoomTypeRule{}, domain.Invalid("percentage ruleValue must be at most 100")
		}
	default:
		return domain.RoomTypeRule{}, domain.Invalid("ruleType must be FLAT, PERCENTAGE or empty")
	}
	if r.RuleValue < 0 || r.MinThreshold < 0 {
		return domain.RoomTypeRule{}, domain.Invalid("ruleValue and minThreshold must be non-negative")
	}
	if err := s.repo.UpsertRule(ctx, r); err != nil {
		return domain.RoomTypeRule{}, err
	}
	return r, nil
}
