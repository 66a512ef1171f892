package pms_test

import (
	"encoding/json"
	"testing"

	"pms_dashboard/internal/adapters/pms"
)

type item struct {
	ID string `json:"ID"`
}

func TestOneOrMany(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"single object", `{"v":{"ID":"A"}}`, []string{"A"}},
		{"array", `{"v":[{"ID":"A"},{"ID":"B"}]}`, []string{"A", "B"}},
		{"empty array", `{"v":[]}`, []string{}},
		{"null", `{"v":null}`, nil},
		{"absent", `{}`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got struct {
				V pms.OneOrMany[item] `json:"v"`
			}
			if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if len(got.V) != len(tc.want) {
				t.Fatalf("len=%d want %d", len(got.V), len(tc.want))
			}
			for i, id := range tc.want {
				if got.V[i].ID != id {
					t.Fatalf("[%d]=%q want %q", i, got.V[i].ID, id)
				}
			}
		})
	}
}

func TestOneOrMany_RejectsScalar(t *testing.T) {
	var got struct {
		V pms.OneOrMany[item] `json:"v"`
	}
	if err := json.Unmarshal([]byte(`{"v":"A"}`), &got); err == nil {
		t.Fatalf("expected error for scalar")
	}
}
