package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "pms_dashboard/internal/adapters/redis"
	"pms_dashboard/internal/domain"
)

func TestCache_MissSetHitDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var got domain.RoomCatalog
	if ok, err := c.Get(ctx, "roominfo:102", &got); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	want := domain.RoomCatalog{RoomTypes: []domain.RoomType{{ID: "A", Name: "Deluxe"}}}
	if err := c.Set(ctx, "roominfo:102", want, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("pmsgrid:roominfo:102") {
		t.Fatalf("expected prefixed key, have %v", mr.Keys())
	}
	if ok, err := c.Get(ctx, "roominfo:102", &got); !ok || err != nil || got.RoomTypes[0].Name != "Deluxe" {
		t.Fatalf("expected hit, got ok=%v err=%v %+v", ok, err, got)
	}

	if err := c.Del(ctx, "roominfo:102"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "roominfo:102", &got); ok {
		t.Fatalf("expected miss after del")
	}
}

func TestCache_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "k", map[string]int{"a": 1}, 30)
	mr.FastForward(31 * time.Second)

	var v map[string]int
	if ok, _ := c.Get(ctx, "k", &v); ok {
		t.Fatalf("expected expiry")
	}
}

func TestCache_CorruptPayloadIsMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	defer c.Close()

	_ = mr.Set("pmsgrid:roominfo:103", "not json")
	var got domain.RoomCatalog
	if ok, err := c.Get(context.Background(), "roominfo:103", &got); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}
