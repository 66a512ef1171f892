package pms

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"pms_dashboard/internal/calendar"
	"pms_dashboard/internal/domain"
)

// FrontSource is the only inventory channel the dashboard reads.
const FrontSource = "Front"

type xmlRoomType struct {
	RoomTypeID   *string `xml:"RoomTypeID"`
	FromDate     *string `xml:"FromDate"`
	ToDate       *string `xml:"ToDate"`
	Availability *string `xml:"Availability"`
	ErrorCode    *string `xml:"ErrorCode"`
}

type element struct {
	id    int
	front bool
}

// ParseInventory reads the legacy Inventory XML. Only <RoomType> entries under
// <Source name="Front"> are consumed; entries missing a field are skipped with
// a warning. A non-zero <ErrorCode> anywhere in the document rejects the whole
// call, and the first one seen is reported.
func ParseInventory(payload []byte) ([]domain.Interval, error) {
	dec := xml.NewDecoder(bytes.NewReader(payload))

	var (
		out     []domain.Interval
		stack   []element
		nextID  int
		errCode string
		errAt   = -1
		msgs    = map[int]string{}
	)
	parent := func() element {
		if len(stack) == 0 {
			return element{id: -1}
		}
		return stack[len(stack)-1]
	}
	readText := func(se xml.StartElement) (string, error) {
		var s string
		if err := dec.DecodeElement(&s, &se); err != nil {
			return "", malformed(opInventory, err)
		}
		return strings.TrimSpace(s), nil
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(opInventory, err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.StartElement:
			p := parent()
			switch t.Name.Local {
			case "ErrorCode":
				code, err := readText(t)
				if err != nil {
					return nil, err
				}
				if errCode == "" && code != "" && code != "0" {
					errCode, errAt = code, p.id
				}
				continue
			case "ErrorMessage":
				msg, err := readText(t)
				if err != nil {
					return nil, err
				}
				if _, ok := msgs[p.id]; !ok {
					msgs[p.id] = msg
				}
				continue
			case "RoomType":
				if p.front {
					var rt xmlRoomType
					if err := dec.DecodeElement(&rt, &t); err != nil {
						return nil, malformed(opInventory, err)
					}
					if rt.ErrorCode != nil && errCode == "" {
						if c := strings.TrimSpace(*rt.ErrorCode); c != "" && c != "0" {
							errCode, errAt = c, -2
						}
					}
					if iv, ok := rt.interval(); ok {
						out = append(out, iv)
					}
					continue
				}
			}
			el := element{id: nextID, front: p.front}
			nextID++
			if t.Name.Local == "Source" {
				el.front = strings.EqualFold(attr(t, "name"), FrontSource)
			}
			stack = append(stack, el)
		}
	}

	if errCode != "" {
		return nil, &domain.AdapterError{
			Kind:    domain.KindUpstreamRejected,
			Op:      opInventory,
			Code:    errCode,
			Message: msgs[errAt],
		}
	}
	return out, nil
}

func (rt xmlRoomType) interval() (domain.Interval, bool) {
	fields := []struct {
		name string
		v    *string
	}{
		{"RoomTypeID", rt.RoomTypeID},
		{"FromDate", rt.FromDate},
		{"ToDate", rt.ToDate},
		{"Availability", rt.Availability},
	}
	for _, f := range fields {
		if f.v == nil || strings.TrimSpace(*f.v) == "" {
			log.Warn().Str("field", f.name).Str("room_type", deref(rt.RoomTypeID)).Msg("inventory room type skipped: missing field")
			return domain.Interval{}, false
		}
	}

	id := strings.TrimSpace(*rt.RoomTypeID)
	from, ferr := calendar.ParseDay(strings.TrimSpace(*rt.FromDate))
	to, terr := calendar.ParseDay(strings.TrimSpace(*rt.ToDate))
	if ferr != nil || terr != nil || from.After(to) {
		log.Warn().Str("room_type", id).Str("from", *rt.FromDate).Str("to", *rt.ToDate).Msg("inventory room type skipped: bad dates")
		return domain.Interval{}, false
	}
	n, ok := atoiFlexible(*rt.Availability)
	if !ok || n < 0 {
		log.Warn().Str("room_type", id).Str("availability", *rt.Availability).Msg("inventory room type skipped: bad availability")
		return domain.Interval{}, false
	}
	return domain.Interval{RoomTypeID: id, From: from, To: to, AvailableRooms: n}, true
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
