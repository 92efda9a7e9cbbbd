package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"reliefCoordination/internal/testutil"
	"reliefCoordination/models"
)

func TestSupply_ReadModelsCarryOwnerPosition(t *testing.T) {
	s := NewStore(testutil.OpenInMemoryDB(t, "supplyowner"))
	ctx := context.Background()
	it := seedItem(t, s, "Food", "Rice")

	located, err := s.Users.Create(ctx, "located")
	require.NoError(t, err)
	lat, lng := 38.25, 21.73
	require.NoError(t, s.Users.UpdateLocation(ctx, located.ID, &lat, &lng))
	unknown, err := s.Users.Create(ctx, "unknown")
	require.NoError(t, err)

	_, err = s.Requests.Create(ctx, &models.Request{UserID: located.ID, ItemID: it.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = s.Requests.Create(ctx, &models.Request{UserID: unknown.ID, ItemID: it.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = s.Offers.Create(ctx, &models.Offer{UserID: located.ID, ItemID: it.ID, Quantity: 3})
	require.NoError(t, err)

	reqs, err := s.Requests.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	require.Equal(t, &models.Position{Lat: lat, Lng: lng}, reqs[0].Owner)
	require.Nil(t, reqs[1].Owner)

	offs, err := s.Offers.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, offs, 1)
	require.Equal(t, &models.Position{Lat: lat, Lng: lng}, offs[0].Owner)
}

func TestSupply_ReceivedIsNotOpen(t *testing.T) {
	s := NewStore(testutil.OpenInMemoryDB(t, "supplyreceived"))
	ctx := context.Background()
	it := seedItem(t, s, "Food", "Rice")
	u, err := s.Users.Create(ctx, "citizen")
	require.NoError(t, err)

	req, err := s.Requests.Create(ctx, &models.Request{UserID: u.ID, ItemID: it.ID, Quantity: 1})
	require.NoError(t, err)
	off, err := s.Offers.Create(ctx, &models.Offer{UserID: u.ID, ItemID: it.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, s.Requests.UpdateStatus(ctx, req.ID, models.SupplyStatusReceived))
	require.NoError(t, s.Offers.UpdateStatus(ctx, off.ID, models.SupplyStatusReceived))

	reqs, err := s.Requests.ListOpen(ctx)
	require.NoError(t, err)
	require.Empty(t, reqs)
	offs, err := s.Offers.ListOpen(ctx)
	require.NoError(t, err)
	require.Empty(t, offs)

	received := models.SupplyStatusReceived
	all, err := s.Requests.List(ctx, &received)
	require.NoError(t, err)
	require.Len(t, all, 1)
	pending := models.SupplyStatusPending
	none, err := s.Offers.List(ctx, &pending)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSupply_Update(t *testing.T) {
	s := NewStore(testutil.OpenInMemoryDB(t, "supplyupdate"))
	ctx := context.Background()
	it := seedItem(t, s, "Food", "Rice")
	u, err := s.Users.Create(ctx, "citizen")
	require.NoError(t, err)

	req, err := s.Requests.Create(ctx, &models.Request{UserID: u.ID, ItemID: it.ID, Quantity: 1})
	require.NoError(t, err)
	req.Status, req.Quantity, req.PeopleCount = models.SupplyStatusApproved, 4, 3
	require.NoError(t, s.Requests.Update(ctx, req))
	got, err := s.Requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, models.SupplyStatusApproved, got.Status)
	require.EqualValues(t, 4, got.Quantity)
	require.EqualValues(t, 3, got.PeopleCount)

	off, err := s.Offers.Create(ctx, &models.Offer{UserID: u.ID, ItemID: it.ID, Quantity: 2})
	require.NoError(t, err)
	off.Quantity = 0
	require.Error(t, s.Offers.Update(ctx, off), "quantity is CHECKed positive")

	require.ErrorIs(t, s.Requests.Update(ctx, &models.Request{ID: 999, Status: models.SupplyStatusPending, Quantity: 1, PeopleCount: 1}), sql.ErrNoRows)
}

func TestBaseRepository(t *testing.T) {
	s := NewStore(testutil.OpenInMemoryDB(t, "baserepo"))
	ctx := context.Background()

	b, err := s.Base.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, b)

	b, err = s.Base.Set(ctx, 38.24, 21.73)
	require.NoError(t, err)
	require.Equal(t, 38.24, b.Lat)
	b, err = s.Base.Set(ctx, 38.3, 21.8)
	require.NoError(t, err)
	require.Equal(t, 38.3, b.Lat)
	require.Equal(t, 21.8, b.Lng)

	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM base`).Scan(&n))
	require.Equal(t, 1, n)
}
