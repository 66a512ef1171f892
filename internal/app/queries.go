package app

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"pms_dashboard/internal/adapters/observability"
	"pms_dashboard/internal/calendar"
	"pms_dashboard/internal/domain"
)

// MaxRangeDays bounds a single availability request.
const MaxRangeDays = 366

const mockWarning = "live availability unavailable, showing synthetic data"

type AvailabilityService struct {
	pms      domain.PMSClient
	hotels   domain.HotelRegistry
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewAvailabilityService(p domain.PMSClient, h domain.HotelRegistry, c domain.Cache, ttl time.Duration) *AvailabilityService {
	return &AvailabilityService{pms: p, hotels: h, cache: c, cacheTTL: ttl}
}

type Query struct {
	HotelCode  string
	Range      calendar.DateRange
	RoomTypeID string // optional filter
	Refresh    bool   // bypass the room catalog cache
}

// Result is one fetch, self-contained so callers never read shared "last fetched" state.
type Result struct {
	Token     uint64                      `json:"token"`
	View      string                      `json:"view,omitempty"`
	Hotel     domain.Hotel                `json:"hotel"`
	Range     calendar.DateRange          `json:"range"`
	RoomTypes []domain.RoomType           `json:"roomTypes"`
	Records   []domain.AvailabilityRecord `json:"records"`
	Synthetic bool                        `json:"synthetic"`
	Warnings  []string                    `json:"warnings"`
	FetchedAt time.Time                   `json:"fetchedAt"`
}

func (s *AvailabilityService) hotel(code string) (domain.Hotel, error) {
	h, ok := s.hotels.Hotel(code)
	if !ok {
		return domain.Hotel{}, fmt.Errorf("hotel %q: %w", code, domain.ErrNotFound)
	}
	return h, nil
}

func validRange(r calendar.DateRange) error {
	if r.From.IsZero() || r.To.IsZero() {
		return domain.Invalid("from and to are required")
	}
	if r.From.After(r.To) {
		return domain.Invalid("from must not be after to")
	}
	if r.Len() > MaxRangeDays {
		return domain.Invalid("range exceeds %d days", MaxRangeDays)
	}
	return nil
}

// RoomCatalog is cache-aside over PMS RoomInfo (physical rooms included).
func (s *AvailabilityService) RoomCatalog(ctx context.Context, code string, refresh bool) (domain.RoomCatalog, error) {
	h, err := s.hotel(code)
	if err != nil {
		return domain.RoomCatalog{}, err
	}
	return s.catalog(ctx, h, refresh)
}

func (s *AvailabilityService) catalog(ctx context.Context, h domain.Hotel, refresh bool) (domain.RoomCatalog, error) {
	key := catalogKey(h.Code)
	var rc domain.RoomCatalog
	if !refresh {
		if ok, _ := s.cache.Get(ctx, key, &rc); ok {
			return rc, nil
		}
	}
	rc, err := s.pms.RoomInfo(ctx, h, true)
	if err != nil {
		return domain.RoomCatalog{}, err
	}
	_ = s.cache.Set(ctx, key, rc, int(s.cacheTTL.Seconds()))
	return rc, nil
}

// InvalidateCatalog drops the cached room catalog for a hotel; the next
// fetch goes to RoomInfo.
func (s *AvailabilityService) InvalidateCatalog(ctx context.Context, code string) error {
	h, err := s.hotel(code)
	if err != nil {
		return err
	}
	return s.cache.Del(ctx, catalogKey(h.Code))
}

func catalogKey(code string) string { return "roominfo:" + code }

// RoomInfo and RoomAvailability are uncached passthroughs.
func (s *AvailabilityService) RoomInfo(ctx context.Context, code string, needPhysicalRooms bool) (domain.RoomCatalog, error) {
	h, err := s.hotel(code)
	if err != nil {
		return domain.RoomCatalog{}, err
	}
	return s.pms.RoomInfo(ctx, h, needPhysicalRooms)
}

func (s *AvailabilityService) RoomAvailability(ctx context.Context, code string, q domain.AvailabilityQuery) (domain.RoomAvailabilityReport, error) {
	h, err := s.hotel(code)
	if err != nil {
		return domain.RoomAvailabilityReport{}, err
	}
	if err := validRange(q.Range); err != nil {
		return domain.RoomAvailabilityReport{}, err
	}
	return s.pms.RoomAvailability(ctx, h, q)
}

// Fetch loads the room catalog, then Inventory and RoomAvailability in
// parallel, and normalizes them into one record per room type and day.
// Upstream failures become warnings; when no availability source answered
// the records are synthetic. Only an unknown hotel, a bad range or a
// canceled ctx return an error.
func (s *AvailabilityService) Fetch(ctx context.Context, q Query) (Result, error) {
	h, err := s.hotel(q.HotelCode)
	if err != nil {
		return Result{}, err
	}
	if err := validRange(q.Range); err != nil {
		return Result{}, err
	}

	res := Result{Hotel: h, Range: q.Range, Warnings: []string{}, FetchedAt: time.Now().UTC()}
	var (
		mu     sync.Mutex
		failed int
	)
	fail := func(op string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed++
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", op, err))
		observability.ObserveAdapterError(op, kindLabel(err))
		log.Warn().Err(err).Str("hotel", h.Code).Str("op", op).Str("range", q.Range.String()).Msg("pms call failed")
	}

	catalog, catErr := s.catalog(ctx, h, q.Refresh)
	if catErr != nil {
		fail("RoomInfo", catErr)
	}

	var (
		inventory []domain.Interval
		report    domain.RoomAvailabilityReport
		invOK     bool
		repOK     bool
	)
	// siblings must not cancel each other, so failures are recorded rather than returned
	var g errgroup.Group
	g.Go(func() error {
		ivs, err := s.pms.Inventory(ctx, h, q.Range)
		if err != nil {
			fail("Inventory", err)
			return nil
		}
		inventory, invOK = ivs, true
		return nil
	})
	g.Go(func() error {
		rep, err := s.pms.RoomAvailability(ctx, h, domain.AvailabilityQuery{Range: q.Range, RoomTypeID: q.RoomTypeID})
		if err != nil {
			fail("RoomAvailability", err)
			return nil
		}
		report, repOK = rep, true
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	reportIntervals := intervalsFromReport(report, q.Range)
	switch {
	case catErr == nil && len(catalog.RoomTypes) > 0:
		res.RoomTypes = uniqueRoomTypes(catalog.RoomTypes)
	default:
		res.RoomTypes = inferRoomTypes(report, inventory)
	}

	if !invOK && !repOK {
		if len(res.RoomTypes) == 0 {
			res.RoomTypes = DefaultRoomTypes()
		}
		res.RoomTypes = filterRoomTypes(res.RoomTypes, q.RoomTypeID)
		res.Records = Mock(res.RoomTypes, q.Range)
		res.Synthetic = true
		res.Warnings = append(res.Warnings, mockWarning)
		observability.ObserveMockFallback(h.Code)
		log.Warn().Str("hotel", h.Code).Str("range", q.Range.String()).Int("failed_calls", failed).Msg("serving mock availability")
		return res, nil
	}

	res.RoomTypes = filterRoomTypes(res.RoomTypes, q.RoomTypeID)
	ids := make([]string, 0, len(res.RoomTypes))
	for _, rt := range res.RoomTypes {
		ids = append(ids, rt.ID)
	}
	// Inventory is applied last so its per-day counts win over the stay-wide report.
	res.Records = Normalize(q.Range, ids, reportIntervals, inventory)
	return res, nil
}

func filterRoomTypes(rts []domain.RoomType, id string) []domain.RoomType {
	if id == "" {
		return rts
	}
	return slices.DeleteFunc(slices.Clone(rts), func(rt domain.RoomType) bool { return rt.ID != id })
}

func kindLabel(err error) string {
	if k := domain.KindOf(err); k != "" {
		return string(k)
	}
	return "other"
}
