package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pickup/internal/registry"
)

const (
	newTitle = iota
	newDetails
	newLatitude
	newLongitude
	newGeneral
	newAvailable
	newPhoto
)

func loginForm(email string) form {
	return newForm("Log in",
		fieldSpec{label: "Email", placeholder: "you@example.com", value: email},
		fieldSpec{label: "Password", secret: true},
	)
}

func registerForm() form {
	return newForm("Create account",
		fieldSpec{label: "Email", placeholder: "you@example.com"},
		fieldSpec{label: "Username"},
		fieldSpec{label: "Password", secret: true},
	)
}

func newItemForm(photos bool) form {
	photo := fieldSpec{label: "Photo", placeholder: "path to a JPEG or PNG (optional)"}
	if !photos {
		photo.placeholder = "uploads disabled"
	}
	return newForm("Post an item",
		fieldSpec{label: "Title"},
		fieldSpec{label: "Details"},
		fieldSpec{label: "Latitude", placeholder: "0"},
		fieldSpec{label: "Longitude", placeholder: "0"},
		fieldSpec{label: "General item", placeholder: "no"},
		fieldSpec{label: "Available", placeholder: "yes"},
		photo,
	)
}

func profileForm(user registry.User) form {
	return newForm("Edit profile",
		fieldSpec{label: "Email", value: user.Email},
		fieldSpec{label: "Username", value: user.Username},
	)
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.form.value(0))
	password := m.form.value(1)
	if email == "" || password == "" {
		m.form.err = "Email and password are required"
		return m, nil
	}
	m.form.busy = true
	return m, m.loginCmd(email, password)
}

func (m Model) submitRegister() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.form.value(0))
	username := strings.TrimSpace(m.form.value(1))
	password := m.form.value(2)
	if email == "" || username == "" || password == "" {
		m.form.err = "All fields are required"
		return m, nil
	}
	m.form.busy = true
	return m, m.registerCmd(email, username, password)
}

func (m Model) submitNewItem() (tea.Model, tea.Cmd) {
	draft, photo, err := draftFromForm(m.form)
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	m.form.busy = true
	return m, m.postCmd(draft, photo)
}

func (m Model) submitProfile() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.form.value(0))
	username := strings.TrimSpace(m.form.value(1))
	if email == "" || username == "" {
		m.form.err = "Email and username are required"
		return m, nil
	}
	m.form.busy = true
	return m, m.profileCmd(email, username)
}

func draftFromForm(f form) (registry.NewItem, string, error) {
	draft := registry.NewItem{
		Title:   strings.TrimSpace(f.value(newTitle)),
		Details: strings.TrimSpace(f.value(newDetails)),
	}
	if draft.Title == "" || draft.Details == "" {
		return draft, "", errors.New("title and details are required")
	}

	var err error
	if draft.Latitude, err = parseCoordinate(f.value(newLatitude), 90); err != nil {
		return draft, "", fmt.Errorf("latitude: %w", err)
	}
	if draft.Longitude, err = parseCoordinate(f.value(newLongitude), 180); err != nil {
		return draft, "", fmt.Errorf("longitude: %w", err)
	}
	if draft.IsGeneral, err = parseYesNo(f.value(newGeneral), false); err != nil {
		return draft, "", fmt.Errorf("general item: %w", err)
	}
	if draft.Availability, err = parseYesNo(f.value(newAvailable), true); err != nil {
		return draft, "", fmt.Errorf("available: %w", err)
	}
	return draft, strings.TrimSpace(f.value(newPhoto)), nil
}

func parseCoordinate(value string, limit float64) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", value)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("%v outside [-%v, %v]", v, limit, limit)
	}
	return v, nil
}
