package app

import (
	"pms_dashboard/internal/calendar"
	"pms_dashboard/internal/domain"
)

// Level is the legend bucket of a displayed count.
type Level string

const (
	LevelHigh    Level = "high"    // 4+
	LevelMedium  Level = "medium"  // 1-3
	LevelNone    Level = "none"    // sold out
	LevelUnknown Level = "unknown" // no data
)

func LevelOf(n domain.Rooms) Level {
	switch {
	case !n.Known():
		return LevelUnknown
	case n >= 4:
		return LevelHigh
	case n >= 1:
		return LevelMedium
	default:
		return LevelNone
	}
}

type Cell struct {
	Date      string       `json:"date"`
	Available domain.Rooms `json:"available"`
	Raw       domain.Rooms `json:"raw"`
	Level     Level        `json:"level"`
	Weekend   bool         `json:"weekend"`
	Today     bool         `json:"today"`
}

type Row struct {
	RoomTypeID string `json:"roomTypeId"`
	Name       string `json:"name"`
	Cells      []Cell `json:"cells"`
}

type Grid struct {
	Token     uint64             `json:"token,omitempty"`
	Hotel     domain.Hotel       `json:"hotel"`
	Range     calendar.DateRange `json:"range"`
	Dates     []string           `json:"dates"`
	Rows      []Row              `json:"rows"`
	Summary   map[Level]int      `json:"summary"`
	Synthetic bool               `json:"synthetic"`
	Warnings  []string           `json:"warnings"`
}

// ApplyRule turns a raw count into the displayed one. Unknown is never rewritten.
func ApplyRule(n domain.Rooms, r domain.RoomTypeRule) domain.Rooms {
	if !n.Known() {
		return n
	}
	switch r.RuleType {
	case domain.RuleFlat:
		n = min(n, domain.Rooms(r.RuleValue))
	case domain.RulePercentage:
		n = domain.Rooms(int(n) * r.RuleValue / 100)
	}
	if n < domain.Rooms(r.MinThreshold) {
		n = 0
	}
	return n
}

// BuildGrid lays res out as rows of cells. Room types with an inactive rule
// are hidden; a rule's display name replaces the PMS name.
func BuildGrid(res Result, rules []domain.RoomTypeRule) Grid {
	byRT := make(map[string]domain.RoomTypeRule, len(rules))
	for _, r := range rules {
		byRT[r.RoomTypeID] = r
	}

	days := res.Range.Days()
	dates := make([]string, len(days))
	for i, d := range days {
		dates[i] = calendar.FormatDay(d)
	}
	today := calendar.FormatDay(calendar.Today())

	counts := make(map[cellKey]domain.Rooms, len(res.Records))
	for _, rec := range res.Records {
		counts[keyOf(rec.RoomTypeID, rec.Date)] = rec.AvailableRooms
	}

	g := Grid{
		Token:     res.Token,
		Hotel:     res.Hotel,
		Range:     res.Range,
		Dates:     dates,
		Rows:      []Row{},
		Summary:   map[Level]int{LevelHigh: 0, LevelMedium: 0, LevelNone: 0, LevelUnknown: 0},
		Synthetic: res.Synthetic,
		Warnings:  res.Warnings,
	}
	for _, rt := range uniqueRoomTypes(res.RoomTypes) {
		rule, ok := byRT[rt.ID]
		if ok && !rule.Active {
			continue
		}
		row := Row{RoomTypeID: rt.ID, Name: rt.Name, Cells: make([]Cell, 0, len(days))}
		if ok && rule.DisplayName != "" {
			row.Name = rule.DisplayName
		}
		for i, d := range days {
			raw, found := counts[keyOf(rt.ID, d)]
			if !found {
				raw = domain.Unknown
			}
			shown := ApplyRule(raw, rule)
			lvl := LevelOf(shown)
			g.Summary[lvl]++
			row.Cells = append(row.Cells, Cell{
				Date:      dates[i],
				Available: shown,
				Raw:       raw,
				Level:     lvl,
				Weekend:   calendar.IsWeekend(d),
				Today:     dates[i] == today,
			})
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}
