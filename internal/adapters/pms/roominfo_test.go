package pms_test

import (
	"errors"
	"testing"

	"pms_dashboard/internal/adapters/pms"
	"pms_dashboard/internal/domain"
)

func TestParseRoomInfo_SingleAndArray(t *testing.T) {
	single := `{"RoomInfo":{"RoomTypes":{"RoomType":{"ID":"A","Name":"Deluxe","Rooms":{"RoomID":"1","RoomName":"101"}}}}}`
	many := `{"RoomInfo":{
		"RoomTypes":{"RoomType":[{"ID":"A","Name":"Deluxe"},{"ID":12,"Name":"Suite","Rooms":[{"RoomID":7,"RoomName":"701"},{"RoomID":8,"RoomName":"702"}]}]},
		"RateTypes":{"RateType":{"ID":"R1","Name":"BAR"}},
		"RatePlans":{"RatePlan":[{"RatePlanID":"P1","Name":"Deluxe BAR","RoomTypeID":"A","RateTypeID":"R1"}]}
	}}`

	got, err := pms.ParseRoomInfo([]byte(single))
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	if len(got.RoomTypes) != 1 || len(got.RoomTypes[0].Rooms) != 1 || got.RoomTypes[0].Rooms[0].RoomName != "101" {
		t.Fatalf("single: %+v", got)
	}
	if got.RateTypes == nil || got.RatePlans == nil {
		t.Fatalf("absent rate sections should map to empty slices")
	}

	got, err = pms.ParseRoomInfo([]byte(many))
	if err != nil {
		t.Fatalf("many: %v", err)
	}
	if ids := got.RoomTypeIDs(); len(ids) != 2 || ids[1] != "12" {
		t.Fatalf("ids: %v", ids)
	}
	if len(got.RoomTypes[1].Rooms) != 2 || got.RoomTypes[1].Rooms[0].RoomID != "7" {
		t.Fatalf("rooms: %+v", got.RoomTypes[1])
	}
	if len(got.RateTypes) != 1 || len(got.RatePlans) != 1 || got.RatePlans[0].RoomTypeID != "A" {
		t.Fatalf("rates: %+v %+v", got.RateTypes, got.RatePlans)
	}
}

func TestParseRoomInfo_MissingPath(t *testing.T) {
	for _, in := range []string{`{}`, `{"RoomInfo":{}}`, `{"RoomInfo":{"RoomTypes":{}}}`} {
		_, err := pms.ParseRoomInfo([]byte(in))
		if !errors.Is(err, &domain.AdapterError{Kind: domain.KindMalformedResponse}) {
			t.Fatalf("%s: expected malformed, got %v", in, err)
		}
	}
}

func TestParseRoomInfo_Errors(t *testing.T) {
	_, err := pms.ParseRoomInfo([]byte(`{"Errors":{"ErrorCode":"102","ErrorMessage":"Invalid hotel code"}}`))
	var ae *domain.AdapterError
	if !errors.As(err, &ae) || ae.Kind != domain.KindUpstreamRejected || ae.Code != "102" || ae.Message != "Invalid hotel code" {
		t.Fatalf("expected upstream rejection, got %v", err)
	}

	// ErrorCode 0 is success
	_, err = pms.ParseRoomInfo([]byte(`{"Errors":{"ErrorCode":0},"RoomInfo":{"RoomTypes":{"RoomType":[]}}}`))
	if err != nil {
		t.Fatalf("code 0 should pass: %v", err)
	}
}

func TestParseRoomInfo_BadJSON(t *testing.T) {
	_, err := pms.ParseRoomInfo([]byte(`<html>`))
	if domain.KindOf(err) != domain.KindMalformedResponse {
		t.Fatalf("expected malformed, got %v", err)
	}
}
