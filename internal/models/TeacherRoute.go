package models

import (
	"gorm.io/gorm"
)

// TeacherRoute is a computed home-to-school route for one teacher,
// tracked per academic year so reassignments keep their history.
// Unique per (teacher, school, academic year).
type TeacherRoute struct {
	gorm.Model

	TeacherID      string `json:"teacher_id" gorm:"index;uniqueIndex:idx_teacher_school_year"`
	TeacherName    string `json:"teacher_name"`
	TeacherCode    string `json:"teacher_code"`
	Specialization string `json:"specialization"`

	SchoolID   string `json:"school_id" gorm:"index;uniqueIndex:idx_teacher_school_year"`
	SchoolName string `json:"school_name"`

	AcademicYear string `json:"academic_year" gorm:"uniqueIndex:idx_teacher_school_year"`

	TravelMode string `json:"travel_mode"`

	Distance float64 `json:"distance"` // meters
	Duration int     `json:"duration"` // seconds

	TeacherLat float64 `json:"teacher_lat"`
	TeacherLng float64 `json:"teacher_lng"`
	SchoolLat  float64 `json:"school_lat"`
	SchoolLng  float64 `json:"school_lng"`

	OverviewPolyline string `json:"overview_polyline"`
	Geometry         []byte `gorm:"type:bytea" json:"-"`
	RawData          []byte `gorm:"type:bytea" json:"-"`

	Division string `json:"division"`
	District string `json:"district"`
	Zone     string `json:"zone"`
}
