package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pms_dashboard/internal/app"
	"pms_dashboard/internal/calendar"
	"pms_dashboard/internal/domain"
)

// ---- fakes ----

type fakePMS struct {
	catalog    domain.RoomCatalog
	catalogErr error
	inventory  []domain.Interval
	invErr     error
	report     domain.RoomAvailabilityReport
	repErr     error

	roomInfoCalls int32
}

func (f *fakePMS) RoomInfo(ctx context.Context, h domain.Hotel, need bool) (domain.RoomCatalog, error) {
	atomic.AddInt32(&f.roomInfoCalls, 1)
	return f.catalog, f.catalogErr
}
func (f *fakePMS) Inventory(ctx context.Context, h domain.Hotel, r calendar.DateRange) ([]domain.Interval, error) {
	return f.inventory, f.invErr
}
func (f *fakePMS) RoomAvailability(ctx context.Context, h domain.Hotel, q domain.AvailabilityQuery) (domain.RoomAvailabilityReport, error) {
	return f.report, f.repErr
}

type fakeRegistry map[string]domain.Hotel

func (r fakeRegistry) Hotel(code string) (domain.Hotel, bool) { h, ok := r[code]; return h, ok }
func (r fakeRegistry) Hotels() []domain.Hotel {
	out := make([]domain.Hotel, 0, len(r))
	for _, h := range r {
		out = append(out, h)
	}
	return out
}

var registry = fakeRegistry{
	"102": {ID: "1", Code: "102", Name: "Grand Plaza Hotel", AuthCode: "x"},
	"103": {ID: "2", Code: "103", Name: "Seaside Resort"},
}

// fakeCache stores JSON so any destination type round-trips.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	c.store[key] = b
	return err
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDay(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func rng(t *testing.T, from, to string) calendar.DateRange {
	t.Helper()
	r, err := calendar.NewDateRange(day(t, from), day(t, to))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

var errBoom = &domain.AdapterError{Kind: domain.KindNetworkFailure, Op: "x", Message: "boom"}

// ---- tests ----

func TestFetch_EndToEndScenario(t *testing.T) {
	pms := &fakePMS{
		catalog:   domain.RoomCatalog{RoomTypes: []domain.RoomType{{ID: "A", Name: "Deluxe"}}},
		inventory: []domain.Interval{{RoomTypeID: "A", From: day(t, "2024-03-01"), To: day(t, "2024-03-02"), AvailableRooms: 5}},
	}
	svc := app.NewAvailabilityService(pms, registry, &fakeCache{}, time.Minute)

	res, err := svc.Fetch(context.Background(), app.Query{HotelCode: "102", Range: rng(t, "2024-03-01", "2024-03-03")})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []domain.Rooms{5, 5, domain.Unknown}
	if len(res.Records) != 3 {
		t.Fatalf("records: %+v", res.Records)
	}
	for i, w := range want {
		if res.Records[i].RoomTypeID != "A" || res.Records[i].AvailableRooms != w {
			t.Fatalf("record %d = %+v, want %v", i, res.Records[i], w)
		}
	}
	if res.Synthetic {
		t.Fatalf("real data must not be synthetic")
	}
}

func TestFetch_InventoryWinsOverReport(t *testing.T) {
	pms := &fakePMS{
		catalog:   domain.RoomCatalog{RoomTypes: []domain.RoomType{{ID: "A"}}},
		inventory: []domain.Interval{{RoomTypeID: "A", From: day(t, "2024-03-02"), To: day(t, "2024-03-02"), AvailableRooms: 1}},
		report:    domain.RoomAvailabilityReport{AvailableRooms: []domain.RoomAvailability{{RoomTypeID: "A", AvailableCount: 3}}},
	}
	svc := app.NewAvailabilityService(pms, registry, &fakeCache{}, time.Minute)
	res, err := svc.Fetch(context.Background(), app.Query{HotelCode: "102", Range: rng(t, "2024-03-01", "2024-03-02")})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Records[0].AvailableRooms != 3 || res.Records[1].AvailableRooms != 1 {
		t.Fatalf("unexpected records: %+v", res.Records)
	}
}

func TestFetch_AllFailIsSynthetic(t *testing.T) {
	pms := &fakePMS{catalogErr: errBoom, invErr: errBoom, repErr: errBoom}
	svc := app.NewAvailabilityService(pms, registry, &fakeCache{}, time.Minute)

	r := rng(t, "2024-03-01", "2024-03-07")
	res, err := svc.Fetch(context.Background(), app.Query{HotelCode: "102", Range: r})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !res.Synthetic || len(res.Warnings) < 4 {
		t.Fatalf("expected synthetic with warnings, got %+v", res)
	}
	if want := len(app.DefaultRoomTypes()) * 7; len(res.Records) != want {
		t.Fatalf("records=%d want %d", len(res.Records), want)
	}
	for _, rec := range res.Records {
		if !rec.AvailableRooms.Known() {
			t.Fatalf("mock cell must be a count: %+v", rec)
		}
	}
}

func TestFetch_RoomInfoFailsInfersRoomTypes(t *testing.T) {
	pms := &fakePMS{
		catalogErr: errBoom,
		report:     domain.RoomAvailabilityReport{AvailableRooms: []domain.RoomAvailability{{RoomTypeID: "A", RoomTypeName: "Deluxe", AvailableCount: 2}}},
		inventory:  []domain.Interval{{RoomTypeID: "B", From: day(t, "2024-03-01"), To: day(t, "2024-03-01"), AvailableRooms: 4}},
	}
	svc := app.NewAvailabilityService(pms, registry, &fakeCache{}, time.Minute)
	res, err := svc.Fetch(context.Background(), app.Query{HotelCode: "102", Range: rng(t, "2024-03-01", "2024-03-01")})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Synthetic || len(res.RoomTypes) != 2 || res.RoomTypes[0].Name != "Deluxe" || res.RoomTypes[1].Name != "B" {
		t.Fatalf("unexpected room types: %+v", res.RoomTypes)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", res.Warnings)
	}
}

func TestFetch_RoomTypeFilter(t *testing.T) {
	pms := &fakePMS{catalog: domain.RoomCatalog{RoomTypes: []domain.RoomType{{ID: "A"}, {ID: "B"}}}}
	svc := app.NewAvailabilityService(pms, registry, &fakeCache{}, time.Minute)
	res, err := svc.Fetch(context.Background(), app.Query{HotelCode: "102", Range: rng(t, "2024-03-01", "2024-03-02"), RoomTypeID: "B"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(res.RoomTypes) != 1 || len(res.Records) != 2 || res.Records[0].RoomTypeID != "B" {
		t.Fatalf("filter not applied: %+v", res)
	}
}

func TestFetch_RepeatedCatalogIDs(t *testing.T) {
	catalog := domain.RoomCatalog{RoomTypes: []domain.RoomType{{ID: "A", Name: "Deluxe"}, {ID: "A", Name: "Deluxe again"}, {ID: "B"}}}
	q := app.Query{HotelCode: "102", Range: rng(t, "2024-03-01", "2024-03-02")}

	for _, tc := range []struct {
		name string
		pms  *fakePMS
	}{
		{"real data", &fakePMS{catalog: catalog}},
		{"mock fallback", &fakePMS{catalog: catalog, invErr: errBoom, repErr: errBoom}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := app.NewAvailabilityService(tc.pms, registry, &fakeCache{}, time.Minute)
			res, err := svc.Fetch(context.Background(), q)
			if err != nil {
				t.Fatal(err)
			}
			if len(res.RoomTypes) != 2 || res.RoomTypes[0].Name != "Deluxe" {
				t.Fatalf("room types: %+v", res.RoomTypes)
			}
			if len(res.Records) != 4 {
				t.Fatalf("records: %d, want 4", len(res.Records))
			}
			if rows := app.BuildGrid(res, nil).Rows; len(rows) != 2 {
				t.Fatalf("grid rows: %d, want 2", len(rows))
			}
		})
	}
}

func TestFetch_Errors(t *testing.T) {
	svc := app.NewAvailabilityService(&fakePMS{}, registry, &fakeCache{}, time.Minute)
	if _, err := svc.Fetch(context.Background(), app.Query{HotelCode: "999", Range: rng(t, "2024-03-01", "2024-03-01")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	inverted := calendar.DateRange{From: day(t, "2024-03-02"), To: day(t, "2024-03-01")}
	if _, err := svc.Fetch(context.Background(), app.Query{HotelCode: "102", Range: inverted}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Fetch(ctx, app.Query{HotelCode: "102", Range: rng(t, "2024-03-01", "2024-03-01")}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestRoomCatalog_CacheMissThenHit(t *testing.T) {
	pms := &fakePMS{catalog: domain.RoomCatalog{RoomTypes: []domain.RoomType{{ID: "A", Name: "Deluxe"}}}}
	svc := app.NewAvailabilityService(pms, registry, &fakeCache{}, 10*time.Minute)

	// Miss (first time, populates cache)
	if _, err := svc.RoomCatalog(context.Background(), "102", false); err != nil {
		t.Fatalf("err: %v", err)
	}
	// Mutate upstream to ensure second read indeed comes from cache
	pms.catalog = domain.RoomCatalog{RoomTypes: []domain.RoomType{{ID: "A", Name: "SHOULD NOT SEE THIS"}}}

	got, err := svc.RoomCatalog(context.Background(), "102", false)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got.RoomTypes[0].Name != "Deluxe" || atomic.LoadInt32(&pms.roomInfoCalls) != 1 {
		t.Fatalf("expected cached catalog, got %+v after %d calls", got, pms.roomInfoCalls)
	}

	// refresh bypasses the cache
	got, _ = svc.RoomCatalog(context.Background(), "102", true)
	if got.RoomTypes[0].Name != "SHOULD NOT SEE THIS" || atomic.LoadInt32(&pms.roomInfoCalls) != 2 {
		t.Fatalf("refresh should hit upstream, got %+v", got)
	}
}

func TestToRoomTypeAvailability(t *testing.T) {
	res := app.Result{
		RoomTypes: []domain.RoomType{{ID: "A", Name: "Deluxe"}},
		Records: []domain.AvailabilityRecord{
			{RoomTypeID: "A", Date: day(t, "2024-03-01"), AvailableRooms: 2},
			{RoomTypeID: "A", Date: day(t, "2024-03-02"), AvailableRooms: domain.Unknown},
		},
	}
	got := app.ToRoomTypeAvailability(res)
	if len(got) != 1 || got[0].RoomName != "Deluxe" || len(got[0].Availability) != 1 || got[0].Availability["2024-03-01"] != 2 {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestInvalidateCatalog(t *testing.T) {
	pms := &fakePMS{catalog: domain.RoomCatalog{RoomTypes: []domain.RoomType{{ID: "A"}}}}
	svc := app.NewAvailabilityService(pms, registry, &fakeCache{}, time.Minute)
	ctx := context.Background()

	if _, err := svc.RoomCatalog(ctx, "102", false); err != nil {
		t.Fatal(err)
	}
	if err := svc.InvalidateCatalog(ctx, "102"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RoomCatalog(ctx, "102", false); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&pms.roomInfoCalls); n != 2 {
		t.Fatalf("RoomInfo calls = %d, want 2 after invalidation", n)
	}
	if err := svc.InvalidateCatalog(ctx, "999"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown hotel: %v", err)
	}
}
