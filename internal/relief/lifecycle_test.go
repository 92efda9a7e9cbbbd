package relief

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"reliefCoordination/models"
)

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		cur, next models.TaskStatus
		ok        bool
	}{
		{models.TaskStatusPending, models.TaskStatusPending, true},
		{models.TaskStatusPending, models.TaskStatusInProgress, true},
		{models.TaskStatusPending, models.TaskStatusCompleted, true},
		{models.TaskStatusInProgress, models.TaskStatusCompleted, true},
		{models.TaskStatusCompleted, models.TaskStatusCompleted, true},
		{models.TaskStatusInProgress, models.TaskStatusPending, false},
		{models.TaskStatusCompleted, models.TaskStatusInProgress, false},
		{models.TaskStatusCompleted, models.TaskStatusPending, false},
		{models.TaskStatusPending, "cancelled", false},
	}
	for _, tc := range cases {
		err := CheckTransition(tc.cur, tc.next)
		if tc.ok {
			require.NoError(t, err, "%s -> %s", tc.cur, tc.next)
		} else {
			require.ErrorIs(t, err, ErrValidation, "%s -> %s", tc.cur, tc.next)
		}
	}
}

func TestUpdateTask_OfferCompletionAddsStockOnce(t *testing.T) {
	f := newFixture(t, "offercomplete", DefaultOptions())
	f.setStock(10)
	r := f.rescuer("r1", 38.0, 21.0)
	off := f.offer(5)

	task, err := f.svc.ClaimTask(f.ctx, r.ID, Target{OfferID: off.ID})
	require.NoError(t, err)

	task, err = f.svc.UpdateTask(f.ctx, r.ID, task.ID, TaskUpdate{Status: models.TaskStatusInProgress})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusInProgress, task.Status)
	require.EqualValues(t, 10, f.stock())

	task, err = f.complete(r.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusCompleted, task.Status)
	require.EqualValues(t, 15, f.stock())

	// Saving completed again, with or without other edits, must not re-apply.
	_, err = f.complete(r.ID, task.ID)
	require.NoError(t, err)
	task, err = f.svc.UpdateTask(f.ctx, r.ID, task.ID, TaskUpdate{Description: ptr("dropped at base")})
	require.NoError(t, err)
	require.Equal(t, "dropped at base", task.Description)
	require.Equal(t, models.TaskStatusCompleted, task.Status)
	require.EqualValues(t, 15, f.stock())

	got, err := f.store.Offers.GetByID(f.ctx, off.ID)
	require.NoError(t, err)
	require.Equal(t, models.SupplyStatusReceived, got.Status)
}

func TestUpdateTask_RequestCompletionAtSamePosition(t *testing.T) {
	f := newFixture(t, "requestcomplete", DefaultOptions())
	f.setStock(10)
	r := f.rescuer("r1", 38.0, 21.0)
	req := f.request(4)

	task, err := f.svc.ClaimTask(f.ctx, r.ID, Target{RequestID: req.ID})
	require.NoError(t, err)

	_, prox, err := f.svc.TaskProximity(f.ctx, r.ID, task.ID)
	require.NoError(t, err)
	require.True(t, prox.CanComplete)
	require.InDelta(t, 0, prox.DistanceMeters, 1e-6)

	_, err = f.complete(r.ID, task.ID)
	require.NoError(t, err)
	require.EqualValues(t, 6, f.stock())

	got, err := f.store.Requests.GetByID(f.ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, models.SupplyStatusReceived, got.Status)
}

func TestUpdateTask_NegativeStockPolicy(t *testing.T) {
	f := newFixture(t, "stockclamp", DefaultOptions())
	f.setStock(2)
	r := f.rescuer("r1", 38.0, 21.0)
	task, err := f.svc.ClaimTask(f.ctx, r.ID, Target{RequestID: f.request(5).ID})
	require.NoError(t, err)
	_, err = f.complete(r.ID, task.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, f.stock())

	opts := DefaultOptions()
	opts.ClampNegativeStock = false
	g := newFixture(t, "stockallow", opts)
	g.setStock(2)
	r = g.rescuer("r1", 38.0, 21.0)
	task, err = g.svc.ClaimTask(g.ctx, r.ID, Target{RequestID: g.request(5).ID})
	require.NoError(t, err)
	_, err = g.complete(r.ID, task.ID)
	require.NoError(t, err)
	require.EqualValues(t, -3, g.stock())
}

func TestUpdateTask_Rejections(t *testing.T) {
	f := newFixture(t, "updatereject", DefaultOptions())
	f.setStock(10)
	owner := f.rescuer("owner", 38.0, 21.0)
	other := f.rescuer("other", 38.0, 21.0)
	task, err := f.svc.ClaimTask(f.ctx, owner.ID, Target{RequestID: f.request(1).ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateTask(f.ctx, other.ID, task.ID, TaskUpdate{Status: models.TaskStatusInProgress})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.UpdateTask(f.ctx, owner.ID, 4242, TaskUpdate{Status: models.TaskStatusInProgress})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.UpdateTask(f.ctx, owner.ID, task.ID, TaskUpdate{Status: "lost"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.complete(owner.ID, task.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateTask(f.ctx, owner.ID, task.ID, TaskUpdate{Status: models.TaskStatusInProgress})
	require.ErrorIs(t, err, ErrValidation)
	require.EqualValues(t, 9, f.stock())
}

func TestUpdateTask_ProximityGate(t *testing.T) {
	f := newFixture(t, "proximitygate", DefaultOptions())
	f.setStock(10)
	// ~0.009 degrees of latitude is about 1 km.
	far := f.rescuer("far", 38.009, 21.0)
	task, err := f.svc.ClaimTask(f.ctx, far.ID, Target{RequestID: f.request(1).ID})
	require.NoError(t, err)

	_, prox, err := f.svc.TaskProximity(f.ctx, far.ID, task.ID)
	require.NoError(t, err)
	require.False(t, prox.CanComplete)
	require.InDelta(t, 1000, prox.DistanceMeters, 10)

	_, err = f.complete(far.ID, task.ID)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "status", verr.Field)
	require.EqualValues(t, 10, f.stock(), "refused completion must not touch stock")

	got, err := f.svc.GetTask(f.ctx, far.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusPending, got.Status)

	// Moving within 400 m opens the gate.
	_, err = f.svc.MoveVehicle(f.ctx, far.ID, ptr(38.0036), ptr(21.0))
	require.NoError(t, err)
	_, err = f.complete(far.ID, task.ID)
	require.NoError(t, err)
	require.EqualValues(t, 9, f.stock())
}

func TestUpdateTask_MissingPositionIsInfinitelyFar(t *testing.T) {
	f := newFixture(t, "proximitymissing", DefaultOptions())
	r := f.rescuer("r1", 38.0, 21.0)
	task, err := f.svc.ClaimTask(f.ctx, r.ID, Target{RequestID: f.request(1).ID})
	require.NoError(t, err)
	require.NoError(t, f.svc.SetLocation(f.ctx, f.citizen.ID, nil, nil))

	_, prox, err := f.svc.TaskProximity(f.ctx, r.ID, task.ID)
	require.NoError(t, err)
	require.True(t, math.IsInf(prox.DistanceMeters, 1))
	require.False(t, prox.CanComplete)

	_, err = f.complete(r.ID, task.ID)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestUpdateTask_ProximityNotEnforced(t *testing.T) {
	opts := DefaultOptions()
	opts.EnforceProximity = false
	f := newFixture(t, "proximityoff", opts)
	f.setStock(3)
	r := f.rescuer("r1", 40.0, 23.0)
	task, err := f.svc.ClaimTask(f.ctx, r.ID, Target{RequestID: f.request(1).ID})
	require.NoError(t, err)

	_, err = f.complete(r.ID, task.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, f.stock())
}

func TestDeleteTask_FreesTarget(t *testing.T) {
	f := newFixture(t, "deletefrees", DefaultOptions())
	r1 := f.rescuer("r1", 38.0, 21.0)
	r2 := f.rescuer("r2", 38.0, 21.0)
	req := f.request(1)
	off := f.offer(2)

	reqTask, err := f.svc.ClaimTask(f.ctx, r1.ID, Target{RequestID: req.ID})
	require.NoError(t, err)
	offTask, err := f.svc.ClaimTask(f.ctx, r1.ID, Target{OfferID: off.ID})
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.DeleteTask(f.ctx, r2.ID, reqTask.ID), ErrUnauthorized)
	require.ErrorIs(t, f.svc.DeleteTask(f.ctx, r1.ID, 777), ErrNotFound)

	require.NoError(t, f.svc.DeleteTask(f.ctx, r1.ID, reqTask.ID))
	require.NoError(t, f.svc.DeleteTask(f.ctx, r1.ID, offTask.ID))

	got, err := f.store.Offers.GetByID(f.ctx, off.ID)
	require.NoError(t, err)
	require.Equal(t, models.SupplyStatusPending, got.Status)
	require.Nil(t, got.TaskID)

	_, err = f.svc.ClaimTask(f.ctx, r2.ID, Target{RequestID: req.ID})
	require.NoError(t, err)
	_, err = f.svc.ClaimTask(f.ctx, r2.ID, Target{OfferID: off.ID})
	require.NoError(t, err)
}

func TestDeleteTask_CompletedKeepsStockByDefault(t *testing.T) {
	f := newFixture(t, "deletekeeps", DefaultOptions())
	f.setStock(10)
	r := f.rescuer("r1", 38.0, 21.0)
	task, err := f.svc.ClaimTask(f.ctx, r.ID, Target{OfferID: f.offer(5).ID})
	require.NoError(t, err)
	_, err = f.complete(r.ID, task.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTask(f.ctx, r.ID, task.ID))
	require.EqualValues(t, 15, f.stock())
}

func TestDeleteTask_DeliveredTargetCannotBeReclaimed(t *testing.T) {
	f := newFixture(t, "deletedelivered", DefaultOptions())
	f.setStock(10)
	r := f.rescuer("r1", 38.0, 21.0)
	off := f.offer(5)
	req := f.request(2)

	for _, target := range []Target{{OfferID: off.ID}, {RequestID: req.ID}} {
		task, err := f.svc.ClaimTask(f.ctx, r.ID, target)
		require.NoError(t, err)
		_, err = f.complete(r.ID, task.ID)
		require.NoError(t, err)
		require.NoError(t, f.svc.DeleteTask(f.ctx, r.ID, task.ID))

		_, err = f.svc.ClaimTask(f.ctx, r.ID, target)
		require.ErrorIs(t, err, ErrConflict)
	}
	require.EqualValues(t, 13, f.stock())

	gotOff, err := f.store.Offers.GetByID(f.ctx, off.ID)
	require.NoError(t, err)
	require.Equal(t, models.SupplyStatusReceived, gotOff.Status)
	gotReq, err := f.store.Requests.GetByID(f.ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, models.SupplyStatusReceived, gotReq.Status)

	offs, err := f.svc.OpenOffers(f.ctx, r.ID)
	require.NoError(t, err)
	require.Empty(t, offs)
	reqs, err := f.svc.OpenRequests(f.ctx, r.ID)
	require.NoError(t, err)
	require.Empty(t, reqs)
}

func TestDeleteTask_ReverseThenReclaimCountsOnce(t *testing.T) {
	opts := DefaultOptions()
	opts.ReverseInventoryOnDelete = true
	f := newFixture(t, "deletereclaim", opts)
	f.setStock(10)
	r := f.rescuer("r1", 38.0, 21.0)
	off := f.offer(5)

	for i := 0; i < 3; i++ {
		task, err := f.svc.ClaimTask(f.ctx, r.ID, Target{OfferID: off.ID})
		require.NoError(t, err, "round %d", i)
		_, err = f.complete(r.ID, task.ID)
		require.NoError(t, err)
		require.EqualValues(t, 15, f.stock(), "round %d", i)

		require.NoError(t, f.svc.DeleteTask(f.ctx, r.ID, task.ID))
		require.EqualValues(t, 10, f.stock(), "round %d", i)
		got, err := f.store.Offers.GetByID(f.ctx, off.ID)
		require.NoError(t, err)
		require.Equal(t, models.SupplyStatusPending, got.Status)
	}
}

func TestDeleteTask_ReverseInventoryOnDelete(t *testing.T) {
	opts := DefaultOptions()
	opts.ReverseInventoryOnDelete = true
	f := newFixture(t, "deletereverse", opts)
	f.setStock(10)
	r := f.rescuer("r1", 38.0, 21.0)

	offTask, err := f.svc.ClaimTask(f.ctx, r.ID, Target{OfferID: f.offer(5).ID})
	require.NoError(t, err)
	reqTask, err := f.svc.ClaimTask(f.ctx, r.ID, Target{RequestID: f.request(3).ID})
	require.NoError(t, err)
	pending, err := f.svc.ClaimTask(f.ctx, r.ID, Target{RequestID: f.request(7).ID})
	require.NoError(t, err)

	_, err = f.complete(r.ID, offTask.ID)
	require.NoError(t, err)
	_, err = f.complete(r.ID, reqTask.ID)
	require.NoError(t, err)
	require.EqualValues(t, 12, f.stock())

	require.NoError(t, f.svc.DeleteTask(f.ctx, r.ID, offTask.ID))
	require.EqualValues(t, 7, f.stock())
	require.NoError(t, f.svc.DeleteTask(f.ctx, r.ID, reqTask.ID))
	require.EqualValues(t, 10, f.stock())
	require.NoError(t, f.svc.DeleteTask(f.ctx, r.ID, pending.ID))
	require.EqualValues(t, 10, f.stock(), "a task that never completed has nothing to reverse")
}

func TestListTasks(t *testing.T) {
	f := newFixture(t, "listtasks", DefaultOptions())
	r := f.rescuer("r1", 38.0, 21.0)
	var ids []int64
	for i := 0; i < 3; i++ {
		task, err := f.svc.ClaimTask(f.ctx, r.ID, Target{RequestID: f.request(1).ID})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	_, err := f.svc.UpdateTask(f.ctx, r.ID, ids[0], TaskUpdate{Status: models.TaskStatusInProgress})
	require.NoError(t, err)

	all, err := f.svc.ListTasks(f.ctx, r.ID, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, ids[2], all[0].ID, "newest first")

	page, err := f.svc.ListTasks(f.ctx, r.ID, nil, 2, ids[2])
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, ids[1], page[0].ID)

	inProgress, err := f.svc.ListTasks(f.ctx, r.ID, []models.TaskStatus{models.TaskStatusInProgress}, 0, 0)
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	require.Equal(t, ids[0], inProgress[0].ID)

	_, err = f.svc.ListTasks(f.ctx, r.ID, []models.TaskStatus{"archived"}, 0, 0)
	require.ErrorIs(t, err, ErrValidation)
}
