package app_test

import (
	"testing"

	"pms_dashboard/internal/app"
	"pms_dashboard/internal/calendar"
	"pms_dashboard/internal/domain"
)

func TestNormalize_SizeAndUniqueness(t *testing.T) {
	r := rng(t, "2024-02-27", "2024-03-03") // crosses a leap day
	ids := []string{"A", "B", "C", "A"}
	got := app.Normalize(r, ids, []domain.Interval{
		{RoomTypeID: "B", From: day(t, "2024-01-01"), To: day(t, "2024-12-31"), AvailableRooms: 2},
		{RoomTypeID: "Z", From: day(t, "2024-03-01"), To: day(t, "2024-03-01"), AvailableRooms: 9},
	})

	if want := 3 * 6; len(got) != want {
		t.Fatalf("len=%d want %d", len(got), want)
	}
	seen := map[string]bool{}
	for _, rec := range got {
		k := rec.RoomTypeID + calendar.FormatDay(rec.Date)
		if seen[k] {
			t.Fatalf("duplicate cell %s", k)
		}
		seen[k] = true
		if rec.RoomTypeID == "Z" {
			t.Fatalf("room type outside the known set leaked: %+v", rec)
		}
	}
	// room-type major ordering
	if got[0].RoomTypeID != "A" || got[6].RoomTypeID != "B" || got[6].AvailableRooms != 2 || got[12].RoomTypeID != "C" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].AvailableRooms != domain.Unknown {
		t.Fatalf("uncovered cell should be unknown")
	}
}

func TestNormalize_LastIntervalWins(t *testing.T) {
	r := rng(t, "2024-03-01", "2024-03-03")
	first := []domain.Interval{{RoomTypeID: "A", From: day(t, "2024-03-01"), To: day(t, "2024-03-03"), AvailableRooms: 7}}
	second := []domain.Interval{
		{RoomTypeID: "A", From: day(t, "2024-03-02"), To: day(t, "2024-03-03"), AvailableRooms: 4},
		{RoomTypeID: "A", From: day(t, "2024-03-03"), To: day(t, "2024-03-03"), AvailableRooms: 0},
	}
	got := app.Normalize(r, []string{"A"}, first, second)
	want := []domain.Rooms{7, 4, 0}
	for i, w := range want {
		if got[i].AvailableRooms != w {
			t.Fatalf("day %d = %v want %v", i, got[i].AvailableRooms, w)
		}
	}
}

func TestNormalize_IntervalsClippedToRange(t *testing.T) {
	r := rng(t, "2024-03-02", "2024-03-04")
	got := app.Normalize(r, []string{"A", "B"}, []domain.Interval{
		{RoomTypeID: "A", From: day(t, "2024-02-28"), To: day(t, "2024-03-02"), AvailableRooms: 6},
		{RoomTypeID: "B", From: day(t, "2024-03-04"), To: day(t, "2024-03-09"), AvailableRooms: 1},
		{RoomTypeID: "B", From: day(t, "2024-03-03"), To: day(t, "2024-03-01"), AvailableRooms: 9}, // inverted
	})
	want := []domain.Rooms{6, domain.Unknown, domain.Unknown, domain.Unknown, domain.Unknown, 1}
	if len(got) != len(want) {
		t.Fatalf("len=%d want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].AvailableRooms != w || !r.Contains(got[i].Date) {
			t.Fatalf("cell %d = %+v, want %v", i, got[i], w)
		}
	}
}

func TestNormalize_EmptyInputs(t *testing.T) {
	r := rng(t, "2024-03-01", "2024-03-02")
	if got := app.Normalize(r, nil); len(got) != 0 {
		t.Fatalf("no room types should give no records, got %d", len(got))
	}
	got := app.Normalize(r, []string{"A"})
	if len(got) != 2 || got[1].AvailableRooms.Known() {
		t.Fatalf("no sources should give unknown cells: %+v", got)
	}
}

func TestExpandInterval(t *testing.T) {
	got := app.ExpandInterval(domain.Interval{RoomTypeID: "A", From: day(t, "2024-03-30"), To: day(t, "2024-04-02"), AvailableRooms: 3})
	if len(got) != 4 || calendar.FormatDay(got[3].Date) != "2024-04-02" || got[2].AvailableRooms != 3 {
		t.Fatalf("unexpected expansion: %+v", got)
	}
	if got := app.ExpandInterval(domain.Interval{From: day(t, "2024-03-02"), To: day(t, "2024-03-01")}); got != nil {
		t.Fatalf("inverted interval should expand to nothing")
	}
}
