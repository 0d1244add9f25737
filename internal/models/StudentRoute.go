package models

import (
	"gorm.io/gorm"
)

// StudentRoute is a computed home-to-school route for one student.
// Unique per (student, school, travel mode).
type StudentRoute struct {
	gorm.Model

	StudentID   string `json:"student_id" gorm:"index;uniqueIndex:idx_student_school_mode"`
	StudentName string `json:"student_name"`

	SchoolID   string `json:"school_id" gorm:"index;uniqueIndex:idx_student_school_mode"`
	SchoolName string `json:"school_name"`

	TravelMode string `json:"travel_mode" gorm:"uniqueIndex:idx_student_school_mode"`

	Distance float64 `json:"distance"` // meters
	Duration int     `json:"duration"` // seconds

	StudentLat float64 `json:"student_lat"`
	StudentLng float64 `json:"student_lng"`
	SchoolLat  float64 `json:"school_lat"`
	SchoolLng  float64 `json:"school_lng"`

	OverviewPolyline string `json:"overview_polyline"`
	Geometry         []byte `gorm:"type:bytea" json:"-"`
	RawData          []byte `gorm:"type:bytea" json:"-"`

	AcademicYear string `json:"academic_year"`
	Division     string `json:"division"`
	District     string `json:"district"`
	Zone         string `json:"zone"`
}
