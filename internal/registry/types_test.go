package registry

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultAPIURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultAPIURL)
	}

	u, err = parseBaseURL("example.com:1234/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "example.com:1234" {
		t.Fatalf("url = %q, want http://example.com:1234", u.String())
	}
	if u.Path != "/api" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestItemList_AcceptsBothShapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"array", `[{"item_id":1},{"item_id":2}]`, 2},
		{"wrapped", `{"items":[{"item_id":3}]}`, 1},
		{"null", `null`, 0},
		{"empty_wrapped", `{}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var list ItemList
			if err := json.Unmarshal([]byte(tc.in), &list); err != nil {
				t.Fatalf("Unmarshal returned error: %v", err)
			}
			if len(list) != tc.want {
				t.Fatalf("len = %d, want %d", len(list), tc.want)
			}
		})
	}

	var list ItemList
	if err := json.Unmarshal([]byte(`"nope"`), &list); err == nil {
		t.Fatalf("Unmarshal returned nil error for a string payload")
	}
}

func TestItemValidate(t *testing.T) {
	cases := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{"ok", Item{ID: 1, Latitude: 45, Longitude: -73}, false},
		{"zero_id", Item{ID: 0}, true},
		{"negative_id", Item{ID: -4}, true},
		{"latitude", Item{ID: 1, Latitude: 91}, true},
		{"longitude", Item{ID: 1, Longitude: -181}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.item.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestParseTimeLayouts(t *testing.T) {
	if !parseTime("").IsZero() {
		t.Fatalf("parseTime(\"\") should be zero")
	}
	if parseTime("2025-03-01T10:11:12.123Z").IsZero() {
		t.Fatalf("parseTime should parse RFC3339Nano")
	}
	got := parseTime("2025-03-01 10:11:12")
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("parseTime = %v, want 2025-03-01", got)
	}
	if !parseTime("yesterday").IsZero() {
		t.Fatalf("parseTime should return zero for garbage")
	}
}

func TestAvailabilityLabel(t *testing.T) {
	if got := (Item{Availability: true}).AvailabilityLabel(); got != "Available" {
		t.Fatalf("AvailabilityLabel = %q, want Available", got)
	}
	if got := AvailabilityLabel(false); got != "Unavailable" {
		t.Fatalf("AvailabilityLabel = %q, want Unavailable", got)
	}
}
