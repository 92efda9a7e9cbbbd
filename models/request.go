package models

// SupplyStatus is the acceptance state of a request or offer as the citizen sees it.
// It moves independently of the status of any task attached to it.
type SupplyStatus string

const (
	SupplyStatusPending  SupplyStatus = "pending"
	SupplyStatusApproved SupplyStatus = "approved"
	SupplyStatusReceived SupplyStatus = "received"
)

// Request is a citizen's ask for a quantity of an item.
type Request struct {
	ID          int64        `db:"id" json:"id"`
	UserID      int64        `db:"user_id" json:"user_id"`
	ItemID      int64        `db:"item_id" json:"item_id"`
	Quantity    int64        `db:"quantity" json:"quantity"`
	PeopleCount int64        `db:"people_count" json:"people_count"`
	Notes       string       `db:"notes" json:"notes,omitempty"`
	Status      SupplyStatus `db:"status" json:"status"`
	CreatedAt   string       `db:"created_at" json:"created_at"`
	// TaskID is filled by read models; nil means the request is open.
	TaskID *int64 `db:"-" json:"task_id,omitempty"`
	// Owner is the citizen's last-known position, for the rescuer map.
	Owner *Position `db:"-" json:"owner_position,omitempty"`
}

// Offer is a citizen's pledge to donate a quantity of an item.
type Offer struct {
	ID             int64        `db:"id" json:"id"`
	UserID         int64        `db:"user_id" json:"user_id"`
	ItemID         int64        `db:"item_id" json:"item_id"`
	Quantity       int64        `db:"quantity" json:"quantity"`
	AnnouncementID *int64       `db:"announcement_id" json:"announcement_id,omitempty"`
	Status         SupplyStatus `db:"status" json:"status"`
	CreatedAt      string       `db:"created_at" json:"created_at"`
	TaskID         *int64       `db:"-" json:"task_id,omitempty"`
	Owner          *Position    `db:"-" json:"owner_position,omitempty"`
}
