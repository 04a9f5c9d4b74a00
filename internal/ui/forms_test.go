package ui

import (
	"strings"
	"testing"
)

func filledItemForm(values ...string) form {
	f := newItemForm(true)
	for i, v := range values {
		f.fields[i].input.SetValue(v)
	}
	return f
}

func TestDraftFromForm(t *testing.T) {
	draft, photo, err := draftFromForm(filledItemForm(" Bike ", "needs a tube", "-33.9", "151.2", "yes", "n", " /tmp/bike.jpg "))
	if err != nil {
		t.Fatalf("draftFromForm: %v", err)
	}
	if draft.Title != "Bike" || draft.Details != "needs a tube" {
		t.Fatalf("draft text = %q / %q", draft.Title, draft.Details)
	}
	if draft.Latitude != -33.9 || draft.Longitude != 151.2 {
		t.Fatalf("coordinates = %v, %v", draft.Latitude, draft.Longitude)
	}
	if !draft.IsGeneral || draft.Availability {
		t.Fatalf("flags general=%v available=%v", draft.IsGeneral, draft.Availability)
	}
	if photo != "/tmp/bike.jpg" {
		t.Fatalf("photo = %q", photo)
	}
}

func TestDraftFromFormErrors(t *testing.T) {
	cases := []struct {
		name   string
		values []string
		want   string
	}{
		{"missing_title", []string{"", "details"}, "title and details are required"},
		{"bad_latitude", []string{"t", "d", "91"}, "latitude"},
		{"bad_longitude", []string{"t", "d", "0", "east"}, "longitude"},
		{"bad_general", []string{"t", "d", "", "", "sometimes"}, "general item"},
		{"bad_available", []string{"t", "d", "", "", "", "later"}, "available"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := draftFromForm(filledItemForm(tc.values...))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestFormFocusWraps(t *testing.T) {
	f := loginForm("ana@example.com")
	if f.focus != 0 || f.value(0) != "ana@example.com" {
		t.Fatalf("focus=%d value=%q", f.focus, f.value(0))
	}
	f.focusField(-1)
	if f.focus != 1 {
		t.Fatalf("focus after wrap = %d, want 1", f.focus)
	}
	if f.value(5) != "" {
		t.Fatal("out of range value should be empty")
	}
}
