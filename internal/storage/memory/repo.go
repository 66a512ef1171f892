package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"pms_dashboard/internal/domain"
)

// Repo keeps the directory and display rules in memory. It backs local runs
// without MySQL and the HTTP tests; data is lost on restart.
type Repo struct {
	mu      sync.RWMutex
	agents  map[string]domain.Agent
	members map[string]domain.TeamMember
	rules   map[string]map[string]domain.RoomTypeRule // hotel -> room type -> rule
}

func New() *Repo {
	return &Repo{
		agents:  make(map[string]domain.Agent),
		members: make(map[string]domain.TeamMember),
		rules:   make(map[string]map[string]domain.RoomTypeRule),
	}
}

func cloneAgent(a domain.Agent) domain.Agent {
	a.Hotels = append([]string{}, a.Hotels...)
	sort.Strings(a.Hotels)
	return a
}

func cloneMember(m domain.TeamMember) domain.TeamMember {
	m.Hotels = append([]string{}, m.Hotels...)
	sort.Strings(m.Hotels)
	return m
}

func (r *Repo) CreateAgent(ctx context.Context, a domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.agents {
		if x.Email == a.Email || x.ID == a.ID {
			return domain.ErrConflict
		}
	}
	r.agents[a.ID] = cloneAgent(a)
	return nil
}

func (r *Repo) GetAgent(ctx context.Context, id string) (domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	if !ok {
		return domain.Agent{}, domain.ErrNotFound
	}
	return cloneAgent(a), nil
}

func (r *Repo) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Agent, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, cloneAgent(a))
	}
	slices.SortFunc(out, func(x, y domain.Agent) int {
		if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
			return c
		}
		return compareStr(x.ID, y.ID)
	})
	return out, nil
}

func (r *Repo) ReplaceAgentHotels(ctx context.Context, agentID string, codes []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.agents[agentID]
	if !ok {
		return domain.ErrNotFound
	}
	a.Hotels = codes
	r.agents[agentID] = cloneAgent(a)
	return nil
}

func (r *Repo) CreateTeamMember(ctx context.Context, m domain.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.members {
		if x.Email == m.Email || x.ID == m.ID {
			return domain.ErrConflict
		}
	}
	r.members[m.ID] = cloneMember(m)
	return nil
}

func (r *Repo) ListTeamMembers(ctx context.Context) ([]domain.TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.TeamMember, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, cloneMember(m))
	}
	slices.SortFunc(out, func(x, y domain.TeamMember) int {
		if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
			return c
		}
		return compareStr(x.ID, y.ID)
	})
	return out, nil
}

func (r *Repo) ListRules(ctx context.Context, hotelCode string) ([]domain.RoomTypeRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RoomTypeRule, 0, len(r.rules[hotelCode]))
	for _, rl := range r.rules[hotelCode] {
		out = append(out, rl)
	}
	slices.SortFunc(out, func(x, y domain.RoomTypeRule) int { return compareStr(x.RoomTypeID, y.RoomTypeID) })
	return out, nil
}

func (r *Repo) UpsertRule(ctx context.Context, rl domain.RoomTypeRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byRT, ok := r.rules[rl.HotelCode]
	if !ok {
		byRT = make(map[string]domain.RoomTypeRule)
		r.rules[rl.HotelCode] = byRT
	}
	byRT[rl.RoomTypeID] = rl
	return nil
}

func compareStr(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
