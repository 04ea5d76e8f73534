package transport

import (
	"encoding/json"
	"testing"
)

func TestFlexibleIntUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"number", `{"limit": 30}`, 30},
		{"numeric string", `{"limit": "15"}`, 15},
		{"float rounds down", `{"limit": 7.9}`, 7},
		{"non-numeric string falls back to zero", `{"limit": "plenty"}`, 0},
		{"null falls back to zero", `{"limit": null}`, 0},
		{"absent stays zero", `{}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req SearchRequest
			if err := json.Unmarshal([]byte(tc.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if int(req.Limit) != tc.want {
				t.Fatalf("limit = %d, want %d", req.Limit, tc.want)
			}
		})
	}
}
