// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"pms_dashboard/internal/app"
	"pms_dashboard/internal/calendar"
	"pms_dashboard/internal/domain"
)

const defaultDays = 30

type Handlers struct {
	Avail        *app.AvailabilityService
	Board        *app.Board
	Dir          *app.DirectoryService
	Rules        *app.RuleService
	Hotels       domain.HotelRegistry
	DefaultHotel string // used by edge calls that omit hotelCode
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/functions/v1", func(r chi.Router) {
		r.Use(s.cors)
		r.Post("/get-room-info", h.edgeRoomInfo)
		r.Post("/get-room-availability", h.edgeRoomAvailability)
		r.Post("/get-availability", h.edgeAvailability)
	})

	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(s.cors)
		r.Get("/hotels", h.listHotels)
		r.Get("/hotels/{code}/availability", h.getAvailability)
		r.Get("/hotels/{code}/availability/latest", h.getLatestAvailability)
		r.Delete("/hotels/{code}/catalog", h.invalidateCatalog)
		r.Get("/hotels/{code}/rules", h.listRules)
		r.Put("/hotels/{code}/rules/{roomTypeId}", h.putRule)

		r.Get("/agents", h.listAgents)
		r.Post("/agents", h.createAgent)
		r.Get("/agents/{id}", h.getAgent)
		r.Put("/agents/{id}/hotels", h.putAgentHotels)

		r.Get("/team-members", h.listTeamMembers)
		r.Post("/team-members", h.createTeamMember)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInvalid), domain.KindOf(err) == domain.KindValidation:
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, context.Canceled) && r.Context().Err() == nil:
		writeProblem(w, http.StatusConflict, "Superseded", "a newer request for this view replaced this one")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable serves v with an ETag and answers 304 when the client has it.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Invalid("request body: %v", err)
	}
	return nil
}

/********** hotels & availability **********/

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	writeCacheable(w, r, h.Hotels.Hotels())
}

// queryRange reads from/to, or days counted from today (default 30).
func queryRange(r *http.Request) (calendar.DateRange, error) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from != "" || to != "" {
		if from == "" || to == "" {
			return calendar.DateRange{}, domain.Invalid("from and to must be given together")
		}
		f, err := calendar.ParseDay(from)
		if err != nil {
			return calendar.DateRange{}, domain.Invalid("from: %v", err)
		}
		t, err := calendar.ParseDay(to)
		if err != nil {
			return calendar.DateRange{}, domain.Invalid("to: %v", err)
		}
		rng, err := calendar.NewDateRange(f, t)
		if err != nil {
			return calendar.DateRange{}, domain.Invalid("%v", err)
		}
		return rng, nil
	}
	days := defaultDays
	if ds := q.Get("days"); ds != "" {
		n, err := strconv.Atoi(ds)
		if err != nil || n <= 0 || n > app.MaxRangeDays {
			return calendar.DateRange{}, domain.Invalid("days must be an integer between 1 and %d", app.MaxRangeDays)
		}
		days = n
	}
	return calendar.RangeFromDayCount(days), nil
}

func viewName(r *http.Request, code string) string {
	if v := r.URL.Query().Get("view"); v != "" {
		return code + ":" + v
	}
	return code
}

func (h *Handlers) getAvailability(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	rng, err := queryRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	view := viewName(r, code)

	ctx, token := h.Board.Begin(r.Context(), view)
	res, err := h.Avail.Fetch(ctx, app.Query{
		HotelCode:  code,
		Range:      rng,
		RoomTypeID: r.URL.Query().Get("roomType"),
		Refresh:    refresh,
	})
	if err != nil {
		h.Board.Abandon(view, token)
		writeError(w, r, err)
		return
	}
	if !h.Board.Finish(view, token, res) {
		writeProblem(w, http.StatusConflict, "Superseded", "a newer request for this view replaced this one")
		return
	}
	res.Token = token

	rules, err := h.Rules.List(r.Context(), code)
	if err != nil {
		log.Warn().Err(err).Str("hotel", code).Msg("room type rules unavailable, showing raw counts")
		rules = nil
	}
	writeJSON(w, http.StatusOK, app.BuildGrid(res, rules))
}

func (h *Handlers) getLatestAvailability(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	res, ok := h.Board.Latest(viewName(r, code))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no availability fetched for this view yet")
		return
	}
	rules, err := h.Rules.List(r.Context(), code)
	if err != nil {
		log.Warn().Err(err).Str("hotel", code).Msg("room type rules unavailable, showing raw counts")
		rules = nil
	}
	writeCacheable(w, r, app.BuildGrid(res, rules))
}

func (h *Handlers) invalidateCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.Avail.InvalidateCatalog(r.Context(), chi.URLParam(r, "code")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/********** rules **********/

func (h *Handlers) listRules(w http.ResponseWriter, r *http.Request) {
	out, err := h.Rules.List(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type ruleBody struct {
	DisplayName  string `json:"displayName"`
	Active       *bool  `json:"active"`
	RuleType     string `json:"ruleType"`
	RuleValue    int    `json:"ruleValue"`
	MinThreshold int    `json:"minThreshold"`
}

func (h *Handlers) putRule(w http.ResponseWriter, r *http.Request) {
	var b ruleBody
	if err := decodeBody(r, &b); err != nil {
		writeError(w, r, err)
		return
	}
	active := true
	if b.Active != nil {
		active = *b.Active
	}
	out, err := h.Rules.Upsert(r.Context(), domain.RoomTypeRule{
		HotelCode:    chi.URLParam(r, "code"),
		RoomTypeID:   chi.URLParam(r, "roomTypeId"),
		DisplayName:  b.DisplayName,
		Active:       active,
		RuleType:     domain.RuleType(b.RuleType),
		RuleValue:    b.RuleValue,
		MinThreshold: b.MinThreshold,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

/********** directory **********/

func (h *Handlers) listAgents(w http.ResponseWriter, r *http.Request) {
	out, err := h.Dir.ListAgents(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createAgent(w http.ResponseWriter, r *http.Request) {
	var in app.NewAgent
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.Dir.CreateAgent(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/agents/"+a.ID)
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handlers) getAgent(w http.ResponseWriter, r *http.Request) {
	a, err := h.Dir.GetAgent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handlers) putAgentHotels(w http.ResponseWriter, r *http.Request) {
	var b struct {
		HotelCodes []string `json:"hotelCodes"`
	}
	if err := decodeBody(r, &b); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.Dir.SetAgentHotels(r.Context(), chi.URLParam(r, "id"), b.HotelCodes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "agent": a})
}

func (h *Handlers) listTeamMembers(w http.ResponseWriter, r *http.Request) {
	out, err := h.Dir.ListTeamMembers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createTeamMember(w http.ResponseWriter, r *http.Request) {
	var in app.NewTeamMember
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.Dir.CreateTeamMember(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "member": m})
}
