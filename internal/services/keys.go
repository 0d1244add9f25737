package services

// RouteKey is the natural key a stored record must be unique by. One
// tuple per variant:
//
//	school:  (schoolId, amenityType, travelMode)
//	student: (studentId, schoolId, travelMode)
//	teacher: (teacherId, schoolId, academicYear)
//
// The same key drives the upsert lookup and the delete predicate of
// the replace strategy. The school key deliberately excludes placeId:
// a school keeps at most one route per amenity category per mode,
// whichever place it currently points at.
type RouteKey struct {
	Variant Variant

	SchoolID     string
	StudentID    string
	TeacherID    string
	AmenityType  string
	TravelMode   string
	AcademicYear string
}

// DeriveKey computes the composite key for a normalized record. Pure
// and total over normalized records of a known variant.
func DeriveKey(rec *NormalizedRoute) RouteKey {
	key := RouteKey{Variant: rec.Variant}
	switch rec.Variant {
	case VariantSchool:
		key.SchoolID = rec.SchoolID
		key.AmenityType = rec.AmenityType
		key.TravelMode = rec.TravelMode
	case VariantStudent:
		key.StudentID = rec.StudentID
		key.SchoolID = rec.SchoolID
		key.TravelMode = rec.TravelMode
	case VariantTeacher:
		key.TeacherID = rec.TeacherID
		key.SchoolID = rec.SchoolID
		key.AcademicYear = rec.AcademicYear
	}
	return key
}
