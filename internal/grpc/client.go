package grpcserver

import (
	"context"

	"google.golang.org/grpc"
)

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, service, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{CallJSON()}, opts...)
	if err := cc.Invoke(ctx, "/"+service+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RescuerClient calls RescuerService with the JSON codec.
type RescuerClient struct {
	cc grpc.ClientConnInterface
}

func NewRescuerClient(cc grpc.ClientConnInterface) *RescuerClient {
	return &RescuerClient{cc: cc}
}

func (c *RescuerClient) ClaimTask(ctx context.Context, in *ClaimTaskRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	return invoke[TaskResponse](ctx, c.cc, RescuerServiceName, "ClaimTask", in, opts)
}

func (c *RescuerClient) UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	return invoke[TaskResponse](ctx, c.cc, RescuerServiceName, "UpdateTask", in, opts)
}

func (c *RescuerClient) DeleteTask(ctx context.Context, in *TaskIDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, RescuerServiceName, "DeleteTask", in, opts)
}

func (c *RescuerClient) GetTask(ctx context.Context, in *TaskIDRequest, opts ...grpc.CallOption) (*GetTaskResponse, error) {
	return invoke[GetTaskResponse](ctx, c.cc, RescuerServiceName, "GetTask", in, opts)
}

func (c *RescuerClient) ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error) {
	return invoke[ListTasksResponse](ctx, c.cc, RescuerServiceName, "ListTasks", in, opts)
}

func (c *RescuerClient) ListOpenRequests(ctx context.Context, opts ...grpc.CallOption) (*ListRequestsResponse, error) {
	return invoke[ListRequestsResponse](ctx, c.cc, RescuerServiceName, "ListOpenRequests", &Empty{}, opts)
}

func (c *RescuerClient) ListOpenOffers(ctx context.Context, opts ...grpc.CallOption) (*ListOffersResponse, error) {
	return invoke[ListOffersResponse](ctx, c.cc, RescuerServiceName, "ListOpenOffers", &Empty{}, opts)
}

func (c *RescuerClient) RegisterVehicle(ctx context.Context, in *RegisterVehicleRequest, opts ...grpc.CallOption) (*VehicleResponse, error) {
	return invoke[VehicleResponse](ctx, c.cc, RescuerServiceName, "RegisterVehicle", in, opts)
}

func (c *RescuerClient) MoveVehicle(ctx context.Context, in *MoveVehicleRequest, opts ...grpc.CallOption) (*VehicleResponse, error) {
	return invoke[VehicleResponse](ctx, c.cc, RescuerServiceName, "MoveVehicle", in, opts)
}

func (c *RescuerClient) SetVehicleStatus(ctx context.Context, in *SetVehicleStatusRequest, opts ...grpc.CallOption) (*VehicleResponse, error) {
	return invoke[VehicleResponse](ctx, c.cc, RescuerServiceName, "SetVehicleStatus", in, opts)
}

// CitizenClient calls CitizenService with the JSON codec.
type CitizenClient struct {
	cc grpc.ClientConnInterface
}

func NewCitizenClient(cc grpc.ClientConnInterface) *CitizenClient {
	return &CitizenClient{cc: cc}
}

func (c *CitizenClient) CreateRequest(ctx context.Context, in *CreateRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error) {
	return invoke[RequestResponse](ctx, c.cc, CitizenServiceName, "CreateRequest", in, opts)
}

func (c *CitizenClient) CreateOffer(ctx context.Context, in *CreateOfferRequest, opts ...grpc.CallOption) (*OfferResponse, error) {
	return invoke[OfferResponse](ctx, c.cc, CitizenServiceName, "CreateOffer", in, opts)
}

func (c *CitizenClient) ListMyRequests(ctx context.Context, opts ...grpc.CallOption) (*ListRequestsResponse, error) {
	return invoke[ListRequestsResponse](ctx, c.cc, CitizenServiceName, "ListMyRequests", &Empty{}, opts)
}

func (c *CitizenClient) ListMyOffers(ctx context.Context, opts ...grpc.CallOption) (*ListOffersResponse, error) {
	return invoke[ListOffersResponse](ctx, c.cc, CitizenServiceName, "ListMyOffers", &Empty{}, opts)
}

func (c *CitizenClient) WithdrawRequest(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, CitizenServiceName, "WithdrawRequest", in, opts)
}

func (c *CitizenClient) WithdrawOffer(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, CitizenServiceName, "WithdrawOffer", in, opts)
}

func (c *CitizenClient) SetLocation(ctx context.Context, in *SetLocationRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, CitizenServiceName, "SetLocation", in, opts)
}

// AdminClient calls AdminService with the JSON codec.
type AdminClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminClient(cc grpc.ClientConnInterface) *AdminClient {
	return &AdminClient{cc: cc}
}

func (c *AdminClient) CreateCategory(ctx context.Context, in *CreateCategoryRequest, opts ...grpc.CallOption) (*CategoryResponse, error) {
	return invoke[CategoryResponse](ctx, c.cc, AdminServiceName, "CreateCategory", in, opts)
}

func (c *AdminClient) CreateItem(ctx context.Context, in *CreateItemRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return invoke[ItemResponse](ctx, c.cc, AdminServiceName, "CreateItem", in, opts)
}

func (c *AdminClient) DeleteItem(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, AdminServiceName, "DeleteItem", in, opts)
}

func (c *AdminClient) ListInventory(ctx context.Context, in *ListInventoryRequest, opts ...grpc.CallOption) (*ListInventoryResponse, error) {
	return invoke[ListInventoryResponse](ctx, c.cc, AdminServiceName, "ListInventory", in, opts)
}

func (c *AdminClient) SetInventory(ctx context.Context, in *SetInventoryRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, AdminServiceName, "SetInventory", in, opts)
}

func (c *AdminClient) CreateAnnouncement(ctx context.Context, in *CreateAnnouncementRequest, opts ...grpc.CallOption) (*AnnouncementResponse, error) {
	return invoke[AnnouncementResponse](ctx, c.cc, AdminServiceName, "CreateAnnouncement", in, opts)
}

func (c *AdminClient) ListAnnouncements(ctx context.Context, in *ListAnnouncementsRequest, opts ...grpc.CallOption) (*ListAnnouncementsResponse, error) {
	return invoke[ListAnnouncementsResponse](ctx, c.cc, AdminServiceName, "ListAnnouncements", in, opts)
}

func (c *AdminClient) GrantRole(ctx context.Context, in *GrantRoleRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, AdminServiceName, "GrantRole", in, opts)
}

func (c *AdminClient) RevokeRole(ctx context.Context, in *GrantRoleRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, AdminServiceName, "RevokeRole", in, opts)
}

func (c *AdminClient) ListVehicles(ctx context.Context, in *ListVehiclesRequest, opts ...grpc.CallOption) (*ListVehiclesResponse, error) {
	return invoke[ListVehiclesResponse](ctx, c.cc, AdminServiceName, "ListVehicles", in, opts)
}

func (c *AdminClient) ListRequests(ctx context.Context, in *ListSupplyRequest, opts ...grpc.CallOption) (*ListRequestsResponse, error) {
	return invoke[ListRequestsResponse](ctx, c.cc, AdminServiceName, "ListRequests", in, opts)
}

func (c *AdminClient) UpdateRequest(ctx context.Context, in *UpdateRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error) {
	return invoke[RequestResponse](ctx, c.cc, AdminServiceName, "UpdateRequest", in, opts)
}

func (c *AdminClient) DeleteRequest(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, AdminServiceName, "DeleteRequest", in, opts)
}

func (c *AdminClient) ListOffers(ctx context.Context, in *ListSupplyRequest, opts ...grpc.CallOption) (*ListOffersResponse, error) {
	return invoke[ListOffersResponse](ctx, c.cc, AdminServiceName, "ListOffers", in, opts)
}

func (c *AdminClient) UpdateOffer(ctx context.Context, in *UpdateOfferRequest, opts ...grpc.CallOption) (*OfferResponse, error) {
	return invoke[OfferResponse](ctx, c.cc, AdminServiceName, "UpdateOffer", in, opts)
}

func (c *AdminClient) DeleteOffer(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, AdminServiceName, "DeleteOffer", in, opts)
}

func (c *AdminClient) ListAllTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error) {
	return invoke[ListTasksResponse](ctx, c.cc, AdminServiceName, "ListAllTasks", in, opts)
}

func (c *AdminClient) MoveBase(ctx context.Context, in *MoveBaseRequest, opts ...grpc.CallOption) (*BaseResponse, error) {
	return invoke[BaseResponse](ctx, c.cc, AdminServiceName, "MoveBase", in, opts)
}

func (c *AdminClient) GetBase(ctx context.Context, opts ...grpc.CallOption) (*BaseResponse, error) {
	return invoke[BaseResponse](ctx, c.cc, AdminServiceName, "GetBase", &Empty{}, opts)
}
