package grpcserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"reliefCoordination/internal/auth"
	"reliefCoordination/internal/metrics"
	"reliefCoordination/internal/relief"
	"reliefCoordination/internal/testutil"
	"reliefCoordination/models"
	"reliefCoordination/repository"
)

const secret = "grpc-test-secret"

type harness struct {
	conn    *grpc.ClientConn
	store   *repository.Store
	rescuer *RescuerClient
	citizen *CitizenClient
	admin   *AdminClient
}

func newHarness(t *testing.T, dbName string) *harness {
	t.Helper()
	store := repository.NewStore(testutil.OpenInMemoryDB(t, dbName))
	m := metrics.New()
	svc := relief.NewService(store, relief.DefaultOptions(), nil, m)
	srv := NewServer(secret, Deps{Service: svc, Users: store.Users, Metrics: m})

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &harness{
		conn:    conn,
		store:   store,
		rescuer: NewRescuerClient(conn),
		citizen: NewCitizenClient(conn),
		admin:   NewAdminClient(conn),
	}
}

// as returns a context authenticated as name/kind.
func as(t *testing.T, name string, kind models.Role) context.Context {
	t.Helper()
	tok, err := auth.Sign(secret, name, string(kind), time.Minute)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return testutil.OutgoingBearer(ctx, tok)
}

func f64(v float64) *float64 { return &v }

func TestHealthIsUnauthenticated(t *testing.T) {
	h := newHarness(t, "grpchealth")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(h.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: RescuerServiceName})
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	_, err = h.citizen.ListMyRequests(ctx)
	require.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestEndToEnd_OfferFulfilment(t *testing.T) {
	h := newHarness(t, "grpce2e")
	ctx := context.Background()
	_, err := h.store.Users.Create(ctx, "base", models.RoleAdmin)
	require.NoError(t, err)
	_, err = h.store.Users.Create(ctx, "alice", models.RoleCitizen)
	require.NoError(t, err)
	_, err = h.store.Users.Create(ctx, "r1", models.RoleRescuer)
	require.NoError(t, err)
	_, err = h.store.Users.Create(ctx, "r2", models.RoleRescuer)
	require.NoError(t, err)

	admin := as(t, "base", models.RoleAdmin)
	alice := as(t, "alice", models.RoleCitizen)
	r1 := as(t, "r1", models.RoleRescuer)
	r2 := as(t, "r2", models.RoleRescuer)

	cat, err := h.admin.CreateCategory(admin, &CreateCategoryRequest{Name: "Food"})
	require.NoError(t, err)
	item, err := h.admin.CreateItem(admin, &CreateItemRequest{Name: "Water", CategoryID: cat.Category.ID})
	require.NoError(t, err)
	_, err = h.admin.SetInventory(admin, &SetInventoryRequest{ItemID: item.Item.ID, Quantity: 10})
	require.NoError(t, err)

	_, err = h.citizen.SetLocation(alice, &SetLocationRequest{Lat: f64(38.0), Lng: f64(21.0)})
	require.NoError(t, err)
	_, err = h.citizen.SetLocation(alice, &SetLocationRequest{Lat: f64(38.0)})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	off, err := h.citizen.CreateOffer(alice, &CreateOfferRequest{ItemID: item.Item.ID, Quantity: 5})
	require.NoError(t, err)

	_, err = h.rescuer.RegisterVehicle(r1, &RegisterVehicleRequest{Name: "truck-1", Capacity: 50})
	require.NoError(t, err)
	v, err := h.rescuer.MoveVehicle(r1, &MoveVehicleRequest{Lat: f64(38.0), Lng: f64(21.0)})
	require.NoError(t, err)
	require.Equal(t, &models.Position{Lat: 38.0, Lng: 21.0}, v.Vehicle.Position())

	open, err := h.rescuer.ListOpenOffers(r1)
	require.NoError(t, err)
	require.Len(t, open.Offers, 1)

	claimed, err := h.rescuer.ClaimTask(r1, &ClaimTaskRequest{OfferID: off.Offer.ID})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusPending, claimed.Task.Status)

	_, err = h.rescuer.ClaimTask(r2, &ClaimTaskRequest{OfferID: off.Offer.ID})
	require.Equal(t, codes.AlreadyExists, status.Code(err))
	_, err = h.rescuer.UpdateTask(r2, &UpdateTaskRequest{TaskID: claimed.Task.ID, Status: "in_progress"})
	require.Equal(t, codes.PermissionDenied, status.Code(err))
	_, err = h.rescuer.ClaimTask(alice, &ClaimTaskRequest{OfferID: off.Offer.ID})
	require.Equal(t, codes.PermissionDenied, status.Code(err))

	got, err := h.rescuer.GetTask(r1, &TaskIDRequest{TaskID: claimed.Task.ID})
	require.NoError(t, err)
	require.True(t, got.CanComplete)
	require.NotNil(t, got.DistanceMeters)
	require.InDelta(t, 0, *got.DistanceMeters, 1e-6)

	done, err := h.rescuer.UpdateTask(r1, &UpdateTaskRequest{TaskID: claimed.Task.ID, Status: "completed"})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusCompleted, done.Task.Status)
	_, err = h.rescuer.UpdateTask(r1, &UpdateTaskRequest{TaskID: claimed.Task.ID, Status: "pending"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	inv, err := h.admin.ListInventory(admin, &ListInventoryRequest{})
	require.NoError(t, err)
	require.Len(t, inv.Entries, 1)
	require.EqualValues(t, 15, inv.Entries[0].Quantity)

	mine, err := h.citizen.ListMyOffers(alice)
	require.NoError(t, err)
	require.Len(t, mine.Offers, 1)
	require.Equal(t, models.SupplyStatusReceived, mine.Offers[0].Status)

	tasks, err := h.rescuer.ListTasks(r1, &ListTasksRequest{Statuses: []string{"completed"}})
	require.NoError(t, err)
	require.Len(t, tasks.Tasks, 1)

	fleet, err := h.admin.ListVehicles(admin, &ListVehiclesRequest{NameContains: "truck"})
	require.NoError(t, err)
	require.Len(t, fleet.Vehicles, 1)
	_, err = h.admin.RevokeRole(admin, &GrantRoleRequest{Username: "r2", Role: "rescuer"})
	require.NoError(t, err)
	_, err = h.rescuer.ListOpenRequests(r2)
	require.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestEndToEnd_ProximityAndForgedKind(t *testing.T) {
	h := newHarness(t, "grpcprox")
	ctx := context.Background()
	_, err := h.store.Users.Create(ctx, "base", models.RoleAdmin)
	require.NoError(t, err)
	_, err = h.store.Users.Create(ctx, "alice", models.RoleCitizen)
	require.NoError(t, err)
	_, err = h.store.Users.Create(ctx, "r1", models.RoleRescuer)
	require.NoError(t, err)

	admin := as(t, "base", models.RoleAdmin)
	alice := as(t, "alice", models.RoleCitizen)
	r1 := as(t, "r1", models.RoleRescuer)

	_, err = h.admin.CreateCategory(as(t, "alice", models.RoleAdmin), &CreateCategoryRequest{Name: "Forged"})
	require.Equal(t, codes.PermissionDenied, status.Code(err), "token kind must match a stored role")

	cat, err := h.admin.CreateCategory(admin, &CreateCategoryRequest{Name: "Medical"})
	require.NoError(t, err)
	item, err := h.admin.CreateItem(admin, &CreateItemRequest{Name: "Bandage", CategoryID: cat.Category.ID})
	require.NoError(t, err)
	_, err = h.admin.CreateItem(admin, &CreateItemRequest{Name: "Bandage", CategoryID: cat.Category.ID})
	require.Equal(t, codes.AlreadyExists, status.Code(err))

	ann, err := h.admin.CreateAnnouncement(admin, &CreateAnnouncementRequest{Content: "bandages", ItemIDs: []int64{item.Item.ID}})
	require.NoError(t, err)
	list, err := h.admin.ListAnnouncements(alice, &ListAnnouncementsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Announcements, 1)
	require.Equal(t, ann.Announcement.ID, list.Announcements[0].ID)

	_, err = h.citizen.SetLocation(alice, &SetLocationRequest{Lat: f64(38.0), Lng: f64(21.0)})
	require.NoError(t, err)
	req, err := h.citizen.CreateRequest(alice, &CreateRequestRequest{ItemID: item.Item.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = h.rescuer.RegisterVehicle(r1, &RegisterVehicleRequest{Name: "van", Capacity: 10})
	require.NoError(t, err)
	task, err := h.rescuer.ClaimTask(r1, &ClaimTaskRequest{RequestID: req.Request.ID})
	require.NoError(t, err)

	got, err := h.rescuer.GetTask(r1, &TaskIDRequest{TaskID: task.Task.ID})
	require.NoError(t, err)
	require.Nil(t, got.DistanceMeters, "a vehicle without a position is infinitely far")
	require.False(t, got.CanComplete)

	_, err = h.rescuer.MoveVehicle(r1, &MoveVehicleRequest{Lat: f64(38.1), Lng: f64(21.0)})
	require.NoError(t, err)
	_, err = h.rescuer.UpdateTask(r1, &UpdateTaskRequest{TaskID: task.Task.ID, Status: "completed"})
	require.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = h.citizen.WithdrawRequest(alice, &IDRequest{ID: req.Request.ID})
	require.Equal(t, codes.AlreadyExists, status.Code(err))
	_, err = h.rescuer.DeleteTask(r1, &TaskIDRequest{TaskID: task.Task.ID})
	require.NoError(t, err)
	_, err = h.citizen.WithdrawRequest(alice, &IDRequest{ID: req.Request.ID})
	require.NoError(t, err)
}

func TestEndToEnd_AdminManagement(t *testing.T) {
	h := newHarness(t, "grpcmanage")
	ctx := context.Background()
	for name, role := range map[string]models.Role{"base": models.RoleAdmin, "alice": models.RoleCitizen, "r1": models.RoleRescuer} {
		_, err := h.store.Users.Create(ctx, name, role)
		require.NoError(t, err)
	}
	admin := as(t, "base", models.RoleAdmin)
	alice := as(t, "alice", models.RoleCitizen)
	r1 := as(t, "r1", models.RoleRescuer)

	_, err := h.admin.GetBase(alice)
	require.Equal(t, codes.NotFound, status.Code(err))
	_, err = h.admin.MoveBase(alice, &MoveBaseRequest{Lat: 38.24, Lng: 21.73})
	require.Equal(t, codes.PermissionDenied, status.Code(err))
	_, err = h.admin.MoveBase(admin, &MoveBaseRequest{Lat: 38.24, Lng: 21.73})
	require.NoError(t, err)
	base, err := h.admin.GetBase(r1)
	require.NoError(t, err)
	require.Equal(t, 21.73, base.Base.Lng)

	cat, err := h.admin.CreateCategory(admin, &CreateCategoryRequest{Name: "Food"})
	require.NoError(t, err)
	item, err := h.admin.CreateItem(admin, &CreateItemRequest{Name: "Water", CategoryID: cat.Category.ID})
	require.NoError(t, err)
	_, err = h.citizen.SetLocation(alice, &SetLocationRequest{Lat: f64(38.0), Lng: f64(21.0)})
	require.NoError(t, err)
	req, err := h.citizen.CreateRequest(alice, &CreateRequestRequest{ItemID: item.Item.ID, Quantity: 2})
	require.NoError(t, err)
	off, err := h.citizen.CreateOffer(alice, &CreateOfferRequest{ItemID: item.Item.ID, Quantity: 5})
	require.NoError(t, err)

	open, err := h.rescuer.ListOpenRequests(r1)
	require.NoError(t, err)
	require.Len(t, open.Requests, 1)
	require.Equal(t, &models.Position{Lat: 38.0, Lng: 21.0}, open.Requests[0].Owner)

	approved := "approved"
	edited, err := h.admin.UpdateRequest(admin, &UpdateRequestRequest{ID: req.Request.ID, Status: &approved, PeopleCount: ptrInt(3)})
	require.NoError(t, err)
	require.Equal(t, models.SupplyStatusApproved, edited.Request.Status)
	require.EqualValues(t, 3, edited.Request.PeopleCount)
	_, err = h.admin.UpdateRequest(admin, &UpdateRequestRequest{ID: req.Request.ID, Quantity: ptrInt(0)})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = h.admin.UpdateRequest(r1, &UpdateRequestRequest{ID: req.Request.ID})
	require.Equal(t, codes.PermissionDenied, status.Code(err))

	list, err := h.admin.ListRequests(admin, &ListSupplyRequest{Status: "approved"})
	require.NoError(t, err)
	require.Len(t, list.Requests, 1)

	_, err = h.rescuer.RegisterVehicle(r1, &RegisterVehicleRequest{Name: "truck-1"})
	require.NoError(t, err)
	_, err = h.rescuer.MoveVehicle(r1, &MoveVehicleRequest{Lat: f64(38.0), Lng: f64(21.0)})
	require.NoError(t, err)
	claimed, err := h.rescuer.ClaimTask(r1, &ClaimTaskRequest{OfferID: off.Offer.ID})
	require.NoError(t, err)
	_, err = h.rescuer.UpdateTask(r1, &UpdateTaskRequest{TaskID: claimed.Task.ID, Status: "completed"})
	require.NoError(t, err)
	_, err = h.admin.UpdateOffer(admin, &UpdateOfferRequest{ID: off.Offer.ID, Quantity: ptrInt(50)})
	require.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = h.rescuer.DeleteTask(r1, &TaskIDRequest{TaskID: claimed.Task.ID})
	require.NoError(t, err)
	_, err = h.rescuer.ClaimTask(r1, &ClaimTaskRequest{OfferID: off.Offer.ID})
	require.Equal(t, codes.AlreadyExists, status.Code(err), "a received offer cannot be counted twice")

	reqTask, err := h.rescuer.ClaimTask(r1, &ClaimTaskRequest{RequestID: req.Request.ID})
	require.NoError(t, err)
	tasks, err := h.admin.ListAllTasks(admin, &ListTasksRequest{PageSize: 1})
	require.NoError(t, err)
	require.Len(t, tasks.Tasks, 1)
	require.Equal(t, reqTask.Task.ID, tasks.NextAfterID)

	offers, err := h.admin.ListOffers(admin, &ListSupplyRequest{Status: "received"})
	require.NoError(t, err)
	require.Len(t, offers.Offers, 1)
	_, err = h.admin.DeleteOffer(admin, &IDRequest{ID: off.Offer.ID})
	require.NoError(t, err)
	_, err = h.admin.DeleteRequest(admin, &IDRequest{ID: req.Request.ID})
	require.NoError(t, err)
	_, err = h.admin.DeleteRequest(admin, &IDRequest{ID: req.Request.ID})
	require.Equal(t, codes.NotFound, status.Code(err))

	left, err := h.admin.ListAllTasks(admin, &ListTasksRequest{})
	require.NoError(t, err)
	require.Empty(t, left.Tasks)
	require.Zero(t, left.NextAfterID)
}

func ptrInt(v int64) *int64 { return &v }
