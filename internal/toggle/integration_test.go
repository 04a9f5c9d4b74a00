package toggle

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
)

func setupRegistry(t *testing.T) (*registrytest.Server, *registry.Client, int64, registry.Item) {
	t.Helper()
	srv := registrytest.New(t)
	owner := srv.AddUser("ana@example.com", "ana", "pw")
	item := srv.AddItem(registry.Item{OwnerID: owner, Title: "Desk", Details: "oak", Availability: true})
	client, err := registry.NewClient(srv.URL, time.Second, nil)
	require.NoError(t, err)
	return srv, client, owner, item
}

func TestSynchronizerAgainstRegistry_Confirmed(t *testing.T) {
	srv, client, owner, item := setupRegistry(t)
	ctx := context.Background()

	fetched, err := client.FetchItemsForUser(ctx, owner)
	require.NoError(t, err)
	l := &listing.List{}
	require.NoError(t, l.Replace(fetched))

	s := New(l, session.NewMemory(owner), client)
	o := s.SetAvailability(ctx, item.ID, false)

	require.Equal(t, Confirmed, o.Kind)
	stored, ok := srv.Item(item.ID)
	require.True(t, ok)
	assert.False(t, stored.Availability)

	patches := srv.Patches()
	require.Len(t, patches, 1)
	assert.Equal(t, owner, patches[0].UserID)
	assert.False(t, patches[0].Availability)
	assert.NotEmpty(t, patches[0].RequestID)
}

func TestSynchronizerAgainstRegistry_ServerError(t *testing.T) {
	srv, client, owner, item := setupRegistry(t)
	srv.FailPatches(http.StatusInternalServerError)

	l := &listing.List{}
	require.NoError(t, l.Replace([]registry.Item{item}))
	s := New(l, session.NewMemory(owner), client)

	o := s.SetAvailability(context.Background(), item.ID, false)

	require.Equal(t, RolledBack, o.Kind)
	require.NotNil(t, o.Failure)
	assert.Equal(t, ServerError, o.Failure.Kind)
	assert.Equal(t, http.StatusInternalServerError, o.Failure.Code)
	assert.Equal(t, "patch rejected", o.Failure.Message)
	got, _ := l.Get(item.ID)
	assert.True(t, got.Availability)
}

func TestSynchronizerAgainstRegistry_Timeout(t *testing.T) {
	srv, client, owner, item := setupRegistry(t)
	srv.DelayPatches(500 * time.Millisecond)

	l := &listing.List{}
	require.NoError(t, l.Replace([]registry.Item{item}))
	s := New(l, session.NewMemory(owner), client, WithTimeout(50*time.Millisecond))

	o := s.SetAvailability(context.Background(), item.ID, false)

	require.Equal(t, RolledBack, o.Kind)
	assert.Equal(t, Timeout, o.Failure.Kind)
	got, _ := l.Get(item.ID)
	assert.True(t, got.Availability)
}

func TestSynchronizerAgainstRegistry_NotOwner(t *testing.T) {
	srv, client, _, item := setupRegistry(t)
	stranger := srv.AddUser("bo@example.com", "bo", "pw")

	l := &listing.List{}
	require.NoError(t, l.Replace([]registry.Item{item}))
	s := New(l, session.NewMemory(stranger), client)

	o := s.SetAvailability(context.Background(), item.ID, false)

	require.Equal(t, RolledBack, o.Kind)
	assert.Equal(t, http.StatusForbidden, o.Failure.Code)
	stored, _ := srv.Item(item.ID)
	assert.True(t, stored.Availability)
}
