package models

// Role names a capability held by a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleRescuer Role = "rescuer"
	RoleCitizen Role = "citizen"
)

// User represents a registered person in the system.
// It maps to the `users` table; roles live in `user_roles`.
// Lat/Lng are the last-known position and are nullable.
type User struct {
	ID       int64    `db:"id" json:"id"`
	Username string   `db:"username" json:"username"`
	Lat      *float64 `db:"lat" json:"lat,omitempty"`
	Lng      *float64 `db:"lng" json:"lng,omitempty"`
	Roles    []Role   `db:"-" json:"roles,omitempty"`
}

// Position returns the user's location, or nil when unknown.
func (u *User) Position() *Position {
	if u == nil {
		return nil
	}
	return PositionOf(u.Lat, u.Lng)
}
