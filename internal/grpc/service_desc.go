package grpcserver

import (
	"context"

	"google.golang.org/grpc"
)

const (
	RescuerServiceName = "relief.v1.RescuerService"
	CitizenServiceName = "relief.v1.CitizenService"
	AdminServiceName   = "relief.v1.AdminService"
)

// RescuerServiceServer is the rescuer-facing task API.
type RescuerServiceServer interface {
	ClaimTask(context.Context, *ClaimTaskRequest) (*TaskResponse, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*TaskResponse, error)
	DeleteTask(context.Context, *TaskIDRequest) (*Empty, error)
	GetTask(context.Context, *TaskIDRequest) (*GetTaskResponse, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	ListOpenRequests(context.Context, *Empty) (*ListRequestsResponse, error)
	ListOpenOffers(context.Context, *Empty) (*ListOffersResponse, error)
	RegisterVehicle(context.Context, *RegisterVehicleRequest) (*VehicleResponse, error)
	MoveVehicle(context.Context, *MoveVehicleRequest) (*VehicleResponse, error)
	SetVehicleStatus(context.Context, *SetVehicleStatusRequest) (*VehicleResponse, error)
}

// CitizenServiceServer is the citizen-facing request/offer API.
type CitizenServiceServer interface {
	CreateRequest(context.Context, *CreateRequestRequest) (*RequestResponse, error)
	CreateOffer(context.Context, *CreateOfferRequest) (*OfferResponse, error)
	ListMyRequests(context.Context, *Empty) (*ListRequestsResponse, error)
	ListMyOffers(context.Context, *Empty) (*ListOffersResponse, error)
	WithdrawRequest(context.Context, *IDRequest) (*Empty, error)
	WithdrawOffer(context.Context, *IDRequest) (*Empty, error)
	SetLocation(context.Context, *SetLocationRequest) (*Empty, error)
}

// AdminServiceServer is the base administration API.
type AdminServiceServer interface {
	CreateCategory(context.Context, *CreateCategoryRequest) (*CategoryResponse, error)
	CreateItem(context.Context, *CreateItemRequest) (*ItemResponse, error)
	DeleteItem(context.Context, *IDRequest) (*Empty, error)
	ListInventory(context.Context, *ListInventoryRequest) (*ListInventoryResponse, error)
	SetInventory(context.Context, *SetInventoryRequest) (*Empty, error)
	CreateAnnouncement(context.Context, *CreateAnnouncementRequest) (*AnnouncementResponse, error)
	ListAnnouncements(context.Context, *ListAnnouncementsRequest) (*ListAnnouncementsResponse, error)
	GrantRole(context.Context, *GrantRoleRequest) (*Empty, error)
	RevokeRole(context.Context, *GrantRoleRequest) (*Empty, error)
	ListVehicles(context.Context, *ListVehiclesRequest) (*ListVehiclesResponse, error)
	ListRequests(context.Context, *ListSupplyRequest) (*ListRequestsResponse, error)
	UpdateRequest(context.Context, *UpdateRequestRequest) (*RequestResponse, error)
	DeleteRequest(context.Context, *IDRequest) (*Empty, error)
	ListOffers(context.Context, *ListSupplyRequest) (*ListOffersResponse, error)
	UpdateOffer(context.Context, *UpdateOfferRequest) (*OfferResponse, error)
	DeleteOffer(context.Context, *IDRequest) (*Empty, error)
	ListAllTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	GetBase(context.Context, *Empty) (*BaseResponse, error)
	MoveBase(context.Context, *MoveBaseRequest) (*BaseResponse, error)
}

// unary builds a MethodDesc that decodes Req, runs the interceptor chain and
// dispatches to call on the registered implementation S.
func unary[S, Req, Resp any](service, name string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var RescuerServiceDesc = grpc.ServiceDesc{
	ServiceName: RescuerServiceName,
	HandlerType: (*RescuerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(RescuerServiceName, "ClaimTask", RescuerServiceServer.ClaimTask),
		unary(RescuerServiceName, "UpdateTask", RescuerServiceServer.UpdateTask),
		unary(RescuerServiceName, "DeleteTask", RescuerServiceServer.DeleteTask),
		unary(RescuerServiceName, "GetTask", RescuerServiceServer.GetTask),
		unary(RescuerServiceName, "ListTasks", RescuerServiceServer.ListTasks),
		unary(RescuerServiceName, "ListOpenRequests", RescuerServiceServer.ListOpenRequests),
		unary(RescuerServiceName, "ListOpenOffers", RescuerServiceServer.ListOpenOffers),
		unary(RescuerServiceName, "RegisterVehicle", RescuerServiceServer.RegisterVehicle),
		unary(RescuerServiceName, "MoveVehicle", RescuerServiceServer.MoveVehicle),
		unary(RescuerServiceName, "SetVehicleStatus", RescuerServiceServer.SetVehicleStatus),
	},
}

var CitizenServiceDesc = grpc.ServiceDesc{
	ServiceName: CitizenServiceName,
	HandlerType: (*CitizenServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(CitizenServiceName, "CreateRequest", CitizenServiceServer.CreateRequest),
		unary(CitizenServiceName, "CreateOffer", CitizenServiceServer.CreateOffer),
		unary(CitizenServiceName, "ListMyRequests", CitizenServiceServer.ListMyRequests),
		unary(CitizenServiceName, "ListMyOffers", CitizenServiceServer.ListMyOffers),
		unary(CitizenServiceName, "WithdrawRequest", CitizenServiceServer.WithdrawRequest),
		unary(CitizenServiceName, "WithdrawOffer", CitizenServiceServer.WithdrawOffer),
		unary(CitizenServiceName, "SetLocation", CitizenServiceServer.SetLocation),
	},
}

var AdminServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AdminServiceName, "CreateCategory", AdminServiceServer.CreateCategory),
		unary(AdminServiceName, "CreateItem", AdminServiceServer.CreateItem),
		unary(AdminServiceName, "DeleteItem", AdminServiceServer.DeleteItem),
		unary(AdminServiceName, "ListInventory", AdminServiceServer.ListInventory),
		unary(AdminServiceName, "SetInventory", AdminServiceServer.SetInventory),
		unary(AdminServiceName, "CreateAnnouncement", AdminServiceServer.CreateAnnouncement),
		unary(AdminServiceName, "ListAnnouncements", AdminServiceServer.ListAnnouncements),
		unary(AdminServiceName, "GrantRole", AdminServiceServer.GrantRole),
		unary(AdminServiceName, "RevokeRole", AdminServiceServer.RevokeRole),
		unary(AdminServiceName, "ListVehicles", AdminServiceServer.ListVehicles),
		unary(AdminServiceName, "ListRequests", AdminServiceServer.ListRequests),
		unary(AdminServiceName, "UpdateRequest", AdminServiceServer.UpdateRequest),
		unary(AdminServiceName, "DeleteRequest", AdminServiceServer.DeleteRequest),
		unary(AdminServiceName, "ListOffers", AdminServiceServer.ListOffers),
		unary(AdminServiceName, "UpdateOffer", AdminServiceServer.UpdateOffer),
		unary(AdminServiceName, "DeleteOffer", AdminServiceServer.DeleteOffer),
		unary(AdminServiceName, "ListAllTasks", AdminServiceServer.ListAllTasks),
		unary(AdminServiceName, "GetBase", AdminServiceServer.GetBase),
		unary(AdminServiceName, "MoveBase", AdminServiceServer.MoveBase),
	},
}
