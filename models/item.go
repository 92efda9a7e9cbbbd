package models

// Category groups items (e.g. "Food", "Medical").
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Item is a kind of supply tracked by the warehouse.
type Item struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	CategoryID int64  `db:"category_id" json:"category_id"`
}

// InventoryEntry is the warehouse stock for one item, joined with names for listing.
type InventoryEntry struct {
	ItemID       int64  `db:"item_id" json:"item_id"`
	ItemName     string `db:"item_name" json:"item_name"`
	CategoryName string `db:"category_name" json:"category_name"`
	Quantity     int64  `db:"quantity" json:"quantity"`
}

// Announcement is an admin notice listing items the base is short of.
type Announcement struct {
	ID        int64   `db:"id" json:"id"`
	Content   string  `db:"content" json:"content"`
	ItemIDs   []int64 `db:"-" json:"item_ids"`
	CreatedAt string  `db:"created_at" json:"created_at"`
}
