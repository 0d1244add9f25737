package models

import (
	"gorm.io/gorm"
)

// SchoolRoute is a computed route from a school to a nearby amenity
// (market, clinic, ...). A school keeps at most one route per amenity
// category per travel mode; a re-import with the same key overwrites
// the stored row in place.
type SchoolRoute struct {
	gorm.Model

	SchoolID   string `json:"school_id" gorm:"index;uniqueIndex:idx_school_amenity_mode"`
	SchoolName string `json:"school_name"`

	AmenityType string `json:"amenity_type" gorm:"uniqueIndex:idx_school_amenity_mode"`
	TravelMode  string `json:"travel_mode" gorm:"uniqueIndex:idx_school_amenity_mode"`

	Place   string `json:"place"`
	PlaceID string `json:"place_id"`

	Distance        float64 `json:"distance"` // meters
	Duration        int     `json:"duration"` // seconds
	DurationDisplay string  `json:"duration_display"`

	SchoolLat float64 `json:"school_lat"`
	SchoolLng float64 `json:"school_lng"`
	PlaceLat  float64 `json:"place_lat"`
	PlaceLng  float64 `json:"place_lng"`

	OverviewPolyline string `json:"overview_polyline"`

	// Route path as a WKB LINESTRING decoded from the overview polyline.
	Geometry []byte `gorm:"type:bytea" json:"-"`

	// Provider payload fragments kept verbatim for audit.
	Bounds  []byte `gorm:"type:bytea" json:"bounds,omitempty"`
	Steps   []byte `gorm:"type:bytea" json:"steps,omitempty"`
	RawData []byte `gorm:"type:bytea" json:"-"`

	Division string `json:"division"`
	District string `json:"district"`
	Zone     string `json:"zone"`
}
