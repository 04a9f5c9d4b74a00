package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/pickup/internal/listing"
	"github.com/five82/pickup/internal/registry"
	"github.com/five82/pickup/internal/registry/registrytest"
	"github.com/five82/pickup/internal/session"
	"github.com/five82/pickup/internal/toggle"
)

func seedRegistry(t *testing.T) (*registrytest.Server, int64, int64) {
	t.Helper()
	srv := registrytest.New(t)
	ana := srv.AddUser("ana@example.com", "ana", "pw")
	bo := srv.AddUser("bo@example.com", "bo", "pw")
	srv.AddItem(registry.Item{OwnerID: ana, Title: "Desk", Details: "oak"})
	srv.AddItem(registry.Item{OwnerID: bo, Title: "Lamp", Details: "brass", Availability: true})
	srv.AddItem(registry.Item{OwnerID: ana, Title: "Chair", Details: "pine", Availability: true})
	return srv, ana, bo
}

func titles(items []registry.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestLoader_FeedAndAccount(t *testing.T) {
	srv, ana, _ := seedRegistry(t)
	list := &listing.List{}
	loader := NewLoader(newClient(t, srv), list, session.NewMemory(ana), nil)
	ctx := context.Background()

	assert.False(t, loader.Active())
	require.NoError(t, loader.ShowFeed(ctx))
	assert.True(t, loader.Active())
	assert.ElementsMatch(t, []string{"Desk", "Lamp", "Chair"}, titles(list.Items()))

	require.NoError(t, loader.ShowAccount(ctx))
	assert.ElementsMatch(t, []string{"Desk", "Chair"}, titles(list.Items()))
	assert.Equal(t, "ana", loader.Profile().Username)

	loader.Reset()
	assert.False(t, loader.Active())
	assert.Zero(t, list.Len())
	assert.Empty(t, loader.Profile().Username)
}

func TestLoader_AccountRequiresSession(t *testing.T) {
	srv, _, _ := seedRegistry(t)
	loader := NewLoader(newClient(t, srv), &listing.List{}, session.NewMemory(0), nil)

	assert.ErrorIs(t, loader.ShowAccount(context.Background()), ErrNotLoggedIn)
	assert.False(t, loader.Active())
}

func TestLoader_RefreshFailureKeepsList(t *testing.T) {
	srv, ana, _ := seedRegistry(t)
	list := &listing.List{}
	loader := NewLoader(newClient(t, srv), list, session.NewMemory(ana), nil)
	ctx := context.Background()
	require.NoError(t, loader.ShowFeed(ctx))

	srv.FailPath("/items", http.StatusServiceUnavailable)
	err := loader.Refresh(ctx)
	require.Error(t, err)
	assert.True(t, registry.IsStatus(err, http.StatusServiceUnavailable))
	assert.Equal(t, 3, list.Len())
}

func TestLoader_RefreshWithoutViewIsNoop(t *testing.T) {
	srv, _, _ := seedRegistry(t)
	srv.FailPath("/", http.StatusInternalServerError)
	list := &listing.List{}
	loader := NewLoader(newClient(t, srv), list, session.NewMemory(0), nil)

	assert.NoError(t, loader.Refresh(context.Background()))
	assert.Zero(t, list.Len())
}

func TestLoader_UpdateProfile(t *testing.T) {
	srv, ana, _ := seedRegistry(t)
	loader := NewLoader(newClient(t, srv), &listing.List{}, session.NewMemory(ana), nil)
	ctx := context.Background()

	user, err := loader.UpdateProfile(ctx, "ana@new.example", "ana2")
	require.NoError(t, err)
	assert.Equal(t, "ana2", user.Username)
	assert.Equal(t, "ana2", loader.Profile().Username)

	_, err = loader.UpdateProfile(ctx, "", "ana3")
	assert.ErrorIs(t, err, ErrRequired)

	require.NoError(t, loader.ShowAccount(ctx))
	assert.Equal(t, "ana@new.example", loader.Profile().Email)
}

func TestLoader_RefreshKeepsToggleConfirmedDuringFetch(t *testing.T) {
	srv, ana, _ := seedRegistry(t)
	client := newClient(t, srv)
	list := &listing.List{}
	sess := session.NewMemory(ana)
	loader := NewLoader(client, list, sess, nil)
	ctx := context.Background()
	require.NoError(t, loader.ShowFeed(ctx))

	var chair registry.Item
	for _, item := range list.Items() {
		if item.Title == "Chair" {
			chair = item
		}
	}
	require.True(t, chair.Availability)

	taken, release := srv.GateListing()
	defer release()
	done := make(chan error, 1)
	go func() { done <- loader.Refresh(ctx) }()

	select {
	case <-taken:
	case <-time.After(time.Second):
		t.Fatal("refresh never reached the registry")
	}

	outcome := toggle.New(list, sess, client).SetAvailability(ctx, chair.ID, false)
	require.Equal(t, toggle.Confirmed, outcome.Kind)

	release()
	require.NoError(t, <-done)

	stored, ok := srv.Item(chair.ID)
	require.True(t, ok)
	assert.False(t, stored.Availability)
	got, ok := list.Get(chair.ID)
	require.True(t, ok)
	assert.False(t, got.Availability, "stale snapshot overwrote a confirmed toggle")

	// The next refresh starts after the write and takes the registry value.
	require.NoError(t, loader.Refresh(ctx))
	got, _ = list.Get(chair.ID)
	assert.False(t, got.Availability)
	assert.Equal(t, 3, list.Len())
}
