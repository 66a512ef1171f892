package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"pms_dashboard/internal/app"
	"pms_dashboard/internal/calendar"
	"pms_dashboard/internal/domain"
)

// Edge functions answer {"error": "..."}: 400 for bad input, 404 for an
// unknown hotel, 500 for anything upstream.

func writeEdgeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalid), domain.KindOf(err) == domain.KindValidation:
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("edge function failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func edgeRange(from, to string) (calendar.DateRange, error) {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return calendar.DateRange{}, domain.Invalid("fromDate and toDate are required")
	}
	f, err := calendar.ParseDay(from)
	if err != nil {
		return calendar.DateRange{}, domain.Invalid("fromDate: %v", err)
	}
	t, err := calendar.ParseDay(to)
	if err != nil {
		return calendar.DateRange{}, domain.Invalid("toDate: %v", err)
	}
	rng, err := calendar.NewDateRange(f, t)
	if err != nil {
		return calendar.DateRange{}, domain.Invalid("%v", err)
	}
	return rng, nil
}

func (h *Handlers) edgeRoomInfo(w http.ResponseWriter, r *http.Request) {
	var b struct {
		HotelCode         string `json:"hotelCode"`
		NeedPhysicalRooms *bool  `json:"needPhysicalRooms"`
	}
	if err := decodeBody(r, &b); err != nil {
		writeEdgeError(w, r, err)
		return
	}
	if b.HotelCode == "" {
		writeEdgeError(w, r, domain.Invalid("hotelCode is required"))
		return
	}
	need := b.NeedPhysicalRooms == nil || *b.NeedPhysicalRooms
	out, err := h.Avail.RoomInfo(r.Context(), b.HotelCode, need)
	if err != nil {
		writeEdgeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) edgeRoomAvailability(w http.ResponseWriter, r *http.Request) {
	var b struct {
		HotelCode  string `json:"hotelCode"`
		FromDate   string `json:"fromDate"`
		ToDate     string `json:"toDate"`
		RoomTypeID string `json:"roomTypeId"`
		RoomID     string `json:"roomId"`
	}
	if err := decodeBody(r, &b); err != nil {
		writeEdgeError(w, r, err)
		return
	}
	if b.HotelCode == "" {
		writeEdgeError(w, r, domain.Invalid("hotelCode, fromDate and toDate are required"))
		return
	}
	rng, err := edgeRange(b.FromDate, b.ToDate)
	if err != nil {
		writeEdgeError(w, r, err)
		return
	}
	out, err := h.Avail.RoomAvailability(r.Context(), b.HotelCode, domain.AvailabilityQuery{
		Range:      rng,
		RoomTypeID: b.RoomTypeID,
		RoomID:     b.RoomID,
	})
	if err != nil {
		writeEdgeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// edgeAvailability serves per-room-type date maps; it falls back to synthetic
// data like the dashboard does.
func (h *Handlers) edgeAvailability(w http.ResponseWriter, r *http.Request) {
	var b struct {
		HotelCode  string `json:"hotelCode"`
		FromDate   string `json:"fromDate"`
		ToDate     string `json:"toDate"`
		RoomTypeID string `json:"roomTypeId"`
	}
	if err := decodeBody(r, &b); err != nil {
		writeEdgeError(w, r, err)
		return
	}
	rng, err := edgeRange(b.FromDate, b.ToDate)
	if err != nil {
		writeEdgeError(w, r, err)
		return
	}
	code := b.HotelCode
	if code == "" {
		code = h.DefaultHotel
	}
	res, err := h.Avail.Fetch(r.Context(), app.Query{HotelCode: code, Range: rng, RoomTypeID: b.RoomTypeID})
	if err != nil {
		writeEdgeError(w, r, err)
		return
	}
	if res.Synthetic {
		w.Header().Set("X-Synthetic-Data", "true")
	}
	writeJSON(w, http.StatusOK, app.ToRoomTypeAvailability(res))
}
