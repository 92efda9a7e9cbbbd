package models

// VehicleStatus represents the availability of a rescuer vehicle.
type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusInactive    VehicleStatus = "inactive"
)

// Vehicle represents a rescuer's vehicle.
// user_id has a one-to-one relation to User. Position is nullable until first placed.
type Vehicle struct {
	ID       int64         `db:"id" json:"id"`
	UserID   int64         `db:"user_id" json:"user_id"`
	Name     string        `db:"name" json:"name"`
	Capacity int64         `db:"capacity" json:"capacity"`
	Load     int64         `db:"load" json:"load"`
	Lat      *float64      `db:"lat" json:"lat,omitempty"`
	Lng      *float64      `db:"lng" json:"lng,omitempty"`
	Status   VehicleStatus `db:"status" json:"status"`
}

// Position returns the vehicle's last-known location, or nil.
func (v *Vehicle) Position() *Position {
	if v == nil {
		return nil
	}
	return PositionOf(v.Lat, v.Lng)
}
