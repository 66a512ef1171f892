// internal/adapters/pms/client.go
package pms

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"pms_dashboard/internal/adapters/observability"
	"pms_dashboard/internal/calendar"
	"pms_dashboard/internal/domain"
)

const (
	opRoomInfo         = "RoomInfo"
	opInventory        = "Inventory"
	opRoomAvailability = "RoomAvailability"

	roomInfoPath  = "/pmsinterface/pms_connectivity.php"
	inventoryPath = "/pmsinterface/getdataAPI.php"
	kioskPath     = "/index.php/page/service.kioskconnectivity"

	maxBody = 8 << 20
)

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, fmt.Errorf("PMS base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Request bodies (wire format fixed by the PMS) ----

type authentication struct {
	HotelCode string `json:"HotelCode" xml:"HotelCode"`
	AuthCode  string `json:"AuthCode" xml:"AuthCode"`
}

type roomInfoRequest struct {
	RequestType       string         `json:"Request_Type"`
	NeedPhysicalRooms int            `json:"NeedPhysicalRooms"`
	Authentication    authentication `json:"Authentication"`
}

type roomData struct {
	FromDate   string `json:"from_date"`
	ToDate     string `json:"to_date"`
	RoomtypeID string `json:"RoomtypeID,omitempty"`
	RoomID     string `json:"RoomID,omitempty"`
}

type roomAvailabilityRequest struct {
	RequestType    string         `json:"Request_Type"`
	Authentication authentication `json:"Authentication"`
	RoomData       roomData       `json:"RoomData"`
}

type envelope struct {
	Request any `json:"RES_Request"`
}

type inventoryRequest struct {
	XMLName        xml.Name       `xml:"RES_Request"`
	RequestType    string         `xml:"Request_Type"`
	Authentication authentication `xml:"Authentication"`
	FromDate       string         `xml:"FromDate"`
	ToDate         string         `xml:"ToDate"`
}

func auth(h domain.Hotel) authentication {
	return authentication{HotelCode: h.Code, AuthCode: h.AuthCode}
}

// ---- Public API ----

func (c *Client) RoomInfo(ctx context.Context, h domain.Hotel, needPhysicalRooms bool) (domain.RoomCatalog, error) {
	if h.Code == "" {
		return domain.RoomCatalog{}, validation(opRoomInfo, "hotelCode is required")
	}
	need := 0
	if needPhysicalRooms {
		need = 1
	}
	body, err := json.Marshal(envelope{Request: roomInfoRequest{
		RequestType:       opRoomInfo,
		NeedPhysicalRooms: need,
		Authentication:    auth(h),
	}})
	if err != nil {
		return domain.RoomCatalog{}, err
	}
	raw, err := c.post(ctx, opRoomInfo, roomInfoPath, "application/json", body)
	if err != nil {
		return domain.RoomCatalog{}, err
	}
	return ParseRoomInfo(raw)
}

func (c *Client) Inventory(ctx context.Context, h domain.Hotel, r calendar.DateRange) ([]domain.Interval, error) {
	if h.Code == "" {
		return nil, validation(opInventory, "hotelCode is required")
	}
	body, err := xml.MarshalIndent(inventoryRequest{
		RequestType:    opInventory,
		Authentication: auth(h),
		FromDate:       calendar.FormatDay(r.From),
		ToDate:         calendar.FormatDay(r.To),
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	raw, err := c.post(ctx, opInventory, inventoryPath, "application/xml", append([]byte(xml.Header), body...))
	if err != nil {
		return nil, err
	}
	return ParseInventory(raw)
}

func (c *Client) RoomAvailability(ctx context.Context, h domain.Hotel, q domain.AvailabilityQuery) (domain.RoomAvailabilityReport, error) {
	if h.Code == "" {
		return domain.RoomAvailabilityReport{}, validation(opRoomAvailability, "hotelCode is required")
	}
	body, err := json.Marshal(envelope{Request: roomAvailabilityRequest{
		RequestType:    opRoomAvailability,
		Authentication: auth(h),
		RoomData: roomData{
			FromDate:   calendar.FormatDay(q.Range.From),
			ToDate:     calendar.FormatDay(q.Range.To),
			RoomtypeID: q.RoomTypeID,
			RoomID:     q.RoomID,
		},
	}})
	if err != nil {
		return domain.RoomAvailabilityReport{}, err
	}
	raw, err := c.post(ctx, opRoomAvailability, kioskPath, "application/json", body)
	if err != nil {
		return domain.RoomAvailabilityReport{}, err
	}
	return ParseRoomAvailability(raw)
}

// ---- Internals ----

// post sends body with client-side rate limiting and retries, returning the raw
// response body. Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) post(ctx context.Context, op, path, contentType string, body []byte) ([]byte, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, network(op, err)
	}

	url := c.base + path
	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, network(op, err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("User-Agent", "pms-dashboard/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("pms", op, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, network(op, ctx.Err())
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, network(op, ctx.Err())
			}
			return nil, network(op, lastErr)
		}
		observability.ObserveExternal("pms", op, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
			resp.Body.Close()
			if err != nil {
				return nil, network(op, err)
			}
			return b, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("External API returned %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, network(op, ctx.Err())
			}
			return nil, network(op, lastErr)

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, &domain.AdapterError{
				Kind:    domain.KindNetworkFailure,
				Op:      op,
				Code:    strconv.Itoa(resp.StatusCode),
				Message: fmt.Sprintf("External API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
			}
		}
	}
	return nil, network(op, lastErr)
}

func network(op string, err error) error {
	return &domain.AdapterError{Kind: domain.KindNetworkFailure, Op: op, Err: err}
}

func malformed(op string, err error) error {
	return &domain.AdapterError{Kind: domain.KindMalformedResponse, Op: op, Err: err}
}

func validation(op, msg string) error {
	return &domain.AdapterError{Kind: domain.KindValidation, Op: op, Message: msg}
}

func rejected(op string, e *upstreamError) error {
	return &domain.AdapterError{
		Kind:    domain.KindUpstreamRejected,
		Op:      op,
		Code:    e.ErrorCode.String(),
		Message: e.ErrorMessage.String(),
	}
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
