package models

// Base is the warehouse the rescuers deliver offers to.
type Base struct {
	Lat       float64 `db:"lat" json:"lat"`
	Lng       float64 `db:"lng" json:"lng"`
	UpdatedAt string  `db:"updated_at" json:"updated_at"`
}
