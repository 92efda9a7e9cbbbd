package relief

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"reliefCoordination/internal/metrics"
	"reliefCoordination/internal/testutil"
	"reliefCoordination/models"
	"reliefCoordination/repository"
)

type fixture struct {
	t       *testing.T
	ctx     context.Context
	store   *repository.Store
	svc     *Service
	admin   *models.User
	citizen *models.User
	item    *models.Item
}

func newFixture(t *testing.T, name string, opts Options) *fixture {
	t.Helper()
	return newFixtureOn(t, repository.NewStore(testutil.OpenInMemoryDB(t, name)), opts)
}

func newFixtureOn(t *testing.T, store *repository.Store, opts Options) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{t: t, ctx: ctx, store: store, svc: NewService(store, opts, nil, metrics.New())}

	var err error
	f.admin, err = store.Users.Create(ctx, "base", models.RoleAdmin)
	require.NoError(t, err)
	f.citizen = f.user("citizen", 38.0, 21.0)

	cat, err := f.svc.CreateCategory(ctx, f.admin.ID, "Food")
	require.NoError(t, err)
	f.item, err = f.svc.CreateItem(ctx, f.admin.ID, "Water", cat.ID)
	require.NoError(t, err)
	return f
}

func ptr[T any](v T) *T { return &v }

// user creates a citizen at the given position.
func (f *fixture) user(name string, lat, lng float64) *models.User {
	f.t.Helper()
	u, err := f.store.Users.Create(f.ctx, name, models.RoleCitizen)
	require.NoError(f.t, err)
	require.NoError(f.t, f.svc.SetLocation(f.ctx, u.ID, ptr(lat), ptr(lng)))
	return u
}

// rescuer creates a rescuer whose vehicle is parked at the given position.
func (f *fixture) rescuer(name string, lat, lng float64) *models.User {
	f.t.Helper()
	u, err := f.store.Users.Create(f.ctx, name, models.RoleRescuer)
	require.NoError(f.t, err)
	_, err = f.svc.RegisterVehicle(f.ctx, u.ID, name+"-truck", 100)
	require.NoError(f.t, err)
	_, err = f.svc.MoveVehicle(f.ctx, u.ID, ptr(lat), ptr(lng))
	require.NoError(f.t, err)
	return u
}

func (f *fixture) setStock(q int64) {
	f.t.Helper()
	require.NoError(f.t, f.svc.SetInventory(f.ctx, f.admin.ID, f.item.ID, q))
}

func (f *fixture) stock() int64 {
	f.t.Helper()
	q, err := f.store.Inventory.Quantity(f.ctx, f.item.ID)
	require.NoError(f.t, err)
	return q
}

func (f *fixture) request(qty int64) *models.Request {
	f.t.Helper()
	req, err := f.svc.CreateRequest(f.ctx, f.citizen.ID, NewRequest{ItemID: f.item.ID, Quantity: qty})
	require.NoError(f.t, err)
	return req
}

func (f *fixture) offer(qty int64) *models.Offer {
	f.t.Helper()
	off, err := f.svc.CreateOffer(f.ctx, f.citizen.ID, NewOffer{ItemID: f.item.ID, Quantity: qty})
	require.NoError(f.t, err)
	return off
}

func (f *fixture) complete(rescuerID, taskID int64) (*models.Task, error) {
	return f.svc.UpdateTask(f.ctx, rescuerID, taskID, TaskUpdate{Status: models.TaskStatusCompleted})
}
