package toggle

import (
	"errors"
	"testing"
)

func TestOutcomeErr(t *testing.T) {
	cases := []struct {
		name    string
		outcome Outcome
		want    error
	}{
		{"confirmed", Outcome{Kind: Confirmed, ItemID: 1, Value: true}, nil},
		{"not_found", Outcome{Kind: NotFound, ItemID: 1}, ErrNotFound},
		{"unauthenticated", Outcome{Kind: Unauthenticated}, ErrUnauthenticated},
		{"malformed", Outcome{Kind: Malformed, ItemID: 1, Detail: "bad"}, ErrMalformed},
		{"in_flight", Outcome{Kind: InFlight, ItemID: 1}, ErrInFlight},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.outcome.Err()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("Err() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("Err() = %v, want wrapping %v", err, tc.want)
			}
		})
	}
}

func TestOutcomeErr_RollbackCarriesFailure(t *testing.T) {
	o := Outcome{Kind: RolledBack, ItemID: 9, Failure: &Failure{Kind: ServerError, Code: 502}}
	var rb *RollbackError
	if !errors.As(o.Err(), &rb) {
		t.Fatalf("Err() = %v, want *RollbackError", o.Err())
	}
	if rb.ItemID != 9 || rb.Failure.Code != 502 {
		t.Fatalf("RollbackError = %+v", rb)
	}
	if got := rb.Error(); got != "item 9: availability change rolled back: server error 502" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestOutcomeMessage(t *testing.T) {
	cases := []struct {
		outcome Outcome
		want    string
	}{
		{Outcome{Kind: Confirmed, Value: true}, "Item status updated to Available"},
		{Outcome{Kind: Confirmed, Value: false}, "Item status updated to Unavailable"},
		{Outcome{Kind: RolledBack, Failure: &Failure{Kind: Timeout}}, "Failed to update item status (request timed out)"},
		{Outcome{Kind: RolledBack, Failure: &Failure{Kind: ServerError, Code: 500, Message: "db down"}}, "Failed to update item status (server error 500: db down)"},
		{Outcome{Kind: RolledBack, Failure: &Failure{Kind: NetworkError, Message: "refused"}}, "Failed to update item status (network error: refused)"},
		{Outcome{Kind: RolledBack}, "Failed to update item status (unknown error)"},
		{Outcome{Kind: Unauthenticated}, "User not logged in"},
		{Outcome{Kind: Malformed, Detail: "latitude out of range"}, "Item record is malformed: latitude out of range"},
	}
	for _, tc := range cases {
		if got := tc.outcome.Message(); got != tc.want {
			t.Fatalf("Message(%v) = %q, want %q", tc.outcome.Kind, got, tc.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := RolledBack.String(); got != "rolled_back" {
		t.Fatalf("RolledBack.String() = %q", got)
	}
	if got := Kind(42).String(); got != "Kind(42)" {
		t.Fatalf("Kind(42).String() = %q", got)
	}
	if got := Timeout.String(); got != "timeout" {
		t.Fatalf("Timeout.String() = %q", got)
	}
}
