package model

import "fmt"

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// Route is a driving route between two points. When Available is false the
// other fields are empty and Reason explains why.
type Route struct {
	From            Coordinate   `json:"from"`
	To              Coordinate   `json:"to"`
	Points          []Coordinate `json:"points,omitempty"`
	DistanceMeters  float64      `json:"distance_meters"`
	DurationSeconds float64      `json:"duration_seconds"`
	Available       bool         `json:"available"`
	Reason          string       `json:"reason,omitempty"`
}
