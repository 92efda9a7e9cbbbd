package models

// Position is a latitude/longitude pair in degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PositionOf builds a Position from nullable columns. Both must be set.
func PositionOf(lat, lng *float64) *Position {
	if lat == nil || lng == nil {
		return nil
	}
	return &Position{Lat: *lat, Lng: *lng}
}
