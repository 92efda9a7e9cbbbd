package grpcserver

import "reliefCoordination/models"

// Empty is returned by calls that only report success.
type Empty struct{}

type ClaimTaskRequest struct {
	RequestID int64 `json:"request_id,omitempty"`
	OfferID   int64 `json:"offer_id,omitempty"`
}

type TaskResponse struct {
	Task *models.Task `json:"task"`
}

type UpdateTaskRequest struct {
	TaskID      int64   `json:"task_id"`
	Status      string  `json:"status,omitempty"`
	Description *string `json:"description,omitempty"`
}

type TaskIDRequest struct {
	TaskID int64 `json:"task_id"`
}

// GetTaskResponse carries the task and its completion gate. DistanceMeters is
// omitted when either position is unknown.
type GetTaskResponse struct {
	Task           *models.Task `json:"task"`
	DistanceMeters *float64     `json:"distance_meters,omitempty"`
	RadiusMeters   float64      `json:"radius_meters"`
	CanComplete    bool         `json:"can_complete"`
}

type ListTasksRequest struct {
	Statuses []string `json:"statuses,omitempty"`
	PageSize int      `json:"page_size,omitempty"`
	AfterID  int64    `json:"after_id,omitempty"`
}

type ListTasksResponse struct {
	Tasks []models.Task `json:"tasks"`
	// NextAfterID is the cursor for the next page; zero when the page is short.
	NextAfterID int64 `json:"next_after_id,omitempty"`
}

type ListRequestsResponse struct {
	Requests []models.Request `json:"requests"`
}

type ListOffersResponse struct {
	Offers []models.Offer `json:"offers"`
}

type RegisterVehicleRequest struct {
	Name     string `json:"name"`
	Capacity int64  `json:"capacity"`
}

type MoveVehicleRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type SetVehicleStatusRequest struct {
	Status string `json:"status"`
}

type VehicleResponse struct {
	Vehicle *models.Vehicle `json:"vehicle"`
}

type CreateRequestRequest struct {
	ItemID      int64  `json:"item_id"`
	Quantity    int64  `json:"quantity"`
	PeopleCount int64  `json:"people_count,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type RequestResponse struct {
	Request *models.Request `json:"request"`
}

type CreateOfferRequest struct {
	ItemID         int64  `json:"item_id"`
	Quantity       int64  `json:"quantity"`
	AnnouncementID *int64 `json:"announcement_id,omitempty"`
}

type OfferResponse struct {
	Offer *models.Offer `json:"offer"`
}

type IDRequest struct {
	ID int64 `json:"id"`
}

type SetLocationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CategoryResponse struct {
	Category *models.Category `json:"category"`
}

type CreateItemRequest struct {
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id"`
}

type ItemResponse struct {
	Item *models.Item `json:"item"`
}

type ListInventoryRequest struct {
	CategoryIDs []int64 `json:"category_ids,omitempty"`
	InStockOnly bool    `json:"in_stock_only,omitempty"`
}

type ListInventoryResponse struct {
	Entries []models.InventoryEntry `json:"entries"`
}

type SetInventoryRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int64 `json:"quantity"`
}

type CreateAnnouncementRequest struct {
	Content string  `json:"content"`
	ItemIDs []int64 `json:"item_ids"`
}

type AnnouncementResponse struct {
	Announcement *models.Announcement `json:"announcement"`
}

type ListAnnouncementsRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListAnnouncementsResponse struct {
	Announcements []models.Announcement `json:"announcements"`
}

type GrantRoleRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type ListVehiclesRequest struct {
	Status       string `json:"status,omitempty"`
	NameContains string `json:"name_contains,omitempty"`
	PageSize     int    `json:"page_size,omitempty"`
	AfterID      int64  `json:"after_id,omitempty"`
}

type ListVehiclesResponse struct {
	Vehicles []models.Vehicle `json:"vehicles"`
}

// ListSupplyRequest filters the admin request and offer listings by status.
type ListSupplyRequest struct {
	Status string `json:"status,omitempty"`
}

type UpdateRequestRequest struct {
	ID          int64   `json:"id"`
	Status      *string `json:"status,omitempty"`
	Quantity    *int64  `json:"quantity,omitempty"`
	PeopleCount *int64  `json:"people_count,omitempty"`
}

type UpdateOfferRequest struct {
	ID       int64   `json:"id"`
	Status   *string `json:"status,omitempty"`
	Quantity *int64  `json:"quantity,omitempty"`
}

type MoveBaseRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type BaseResponse struct {
	Base *models.Base `json:"base"`
}
