package store

import (
	"context"

	"school_mapper/internal/models"
	"school_mapper/internal/services"
)

func schoolFromNormalized(rec *services.NormalizedRoute) *models.SchoolRoute {
	return &models.SchoolRoute{
		SchoolID:         rec.SchoolID,
		SchoolName:       rec.SchoolName,
		AmenityType:      rec.AmenityType,
		TravelMode:       rec.TravelMode,
		Place:            rec.Place,
		PlaceID:          rec.PlaceID,
		Distance:         rec.Distance,
		Duration:         rec.Duration,
		DurationDisplay:  rec.DurationDisplay,
		SchoolLat:        rec.SubjectCoords.Lat,
		SchoolLng:        rec.SubjectCoords.Lng,
		PlaceLat:         rec.DestCoords.Lat,
		PlaceLng:         rec.DestCoords.Lng,
		OverviewPolyline: rec.OverviewPolyline,
		Geometry:         decodeGeometry(rec.OverviewPolyline),
		Bounds:           rec.Bounds,
		Steps:            rec.Steps,
		RawData:          rec.Raw,
		Division:         rec.Division,
		District:         rec.District,
		Zone:             rec.Zone,
	}
}

func schoolToNormalized(m *models.SchoolRoute) services.NormalizedRoute {
	return services.NormalizedRoute{
		Variant:          services.VariantSchool,
		SchoolID:         m.SchoolID,
		SchoolName:       m.SchoolName,
		AmenityType:      m.AmenityType,
		TravelMode:       m.TravelMode,
		Place:            m.Place,
		PlaceID:          m.PlaceID,
		Distance:         m.Distance,
		Duration:         m.Duration,
		DurationDisplay:  m.DurationDisplay,
		SubjectCoords:    services.Coordinate{Lat: m.SchoolLat, Lng: m.SchoolLng},
		DestCoords:       services.Coordinate{Lat: m.PlaceLat, Lng: m.PlaceLng},
		OverviewPolyline: m.OverviewPolyline,
		Bounds:           m.Bounds,
		Steps:            m.Steps,
		Division:         m.Division,
		District:         m.District,
		Zone:             m.Zone,
	}
}

func studentFromNormalized(rec *services.NormalizedRoute) *models.StudentRoute {
	return &models.StudentRoute{
		StudentID:        rec.StudentID,
		StudentName:      rec.StudentName,
		SchoolID:         rec.SchoolID,
		SchoolName:       rec.SchoolName,
		TravelMode:       rec.TravelMode,
		Distance:         rec.Distance,
		Duration:         rec.Duration,
		StudentLat:       rec.SubjectCoords.Lat,
		StudentLng:       rec.SubjectCoords.Lng,
		SchoolLat:        rec.DestCoords.Lat,
		SchoolLng:        rec.DestCoords.Lng,
		OverviewPolyline: rec.OverviewPolyline,
		Geometry:         decodeGeometry(rec.OverviewPolyline),
		RawData:          rec.Raw,
		AcademicYear:     rec.AcademicYear,
		Division:         rec.Division,
		District:         rec.District,
		Zone:             rec.Zone,
	}
}

func studentToNormalized(m *models.StudentRoute) services.NormalizedRoute {
	return services.NormalizedRoute{
		Variant:          services.VariantStudent,
		StudentID:        m.StudentID,
		StudentName:      m.StudentName,
		SchoolID:         m.SchoolID,
		SchoolName:       m.SchoolName,
		TravelMode:       m.TravelMode,
		Distance:         m.Distance,
		Duration:         m.Duration,
		SubjectCoords:    services.Coordinate{Lat: m.StudentLat, Lng: m.StudentLng},
		DestCoords:       services.Coordinate{Lat: m.SchoolLat, Lng: m.SchoolLng},
		OverviewPolyline: m.OverviewPolyline,
		AcademicYear:     m.AcademicYear,
		Division:         m.Division,
		District:         m.District,
		Zone:             m.Zone,
	}
}

func teacherFromNormalized(rec *services.NormalizedRoute) *models.TeacherRoute {
	return &models.TeacherRoute{
		TeacherID:        rec.TeacherID,
		TeacherName:      rec.TeacherName,
		TeacherCode:      rec.TeacherCode,
		Specialization:   rec.Specialization,
		SchoolID:         rec.SchoolID,
		SchoolName:       rec.SchoolName,
		AcademicYear:     rec.AcademicYear,
		TravelMode:       rec.TravelMode,
		Distance:         rec.Distance,
		Duration:         rec.Duration,
		TeacherLat:       rec.SubjectCoords.Lat,
		TeacherLng:       rec.SubjectCoords.Lng,
		SchoolLat:        rec.DestCoords.Lat,
		SchoolLng:        rec.DestCoords.Lng,
		OverviewPolyline: rec.OverviewPolyline,
		Geometry:         decodeGeometry(rec.OverviewPolyline),
		RawData:          rec.Raw,
		Division:         rec.Division,
		District:         rec.District,
		Zone:             rec.Zone,
	}
}

func teacherToNormalized(m *models.TeacherRoute) services.NormalizedRoute {
	return services.NormalizedRoute{
		Variant:          services.VariantTeacher,
		TeacherID:        m.TeacherID,
		TeacherName:      m.TeacherName,
		TeacherCode:      m.TeacherCode,
		Specialization:   m.Specialization,
		SchoolID:         m.SchoolID,
		SchoolName:       m.SchoolName,
		AcademicYear:     m.AcademicYear,
		TravelMode:       m.TravelMode,
		Distance:         m.Distance,
		Duration:         m.Duration,
		SubjectCoords:    services.Coordinate{Lat: m.TeacherLat, Lng: m.TeacherLng},
		DestCoords:       services.Coordinate{Lat: m.SchoolLat, Lng: m.SchoolLng},
		OverviewPolyline: m.OverviewPolyline,
		Division:         m.Division,
		District:         m.District,
		Zone:             m.Zone,
	}
}

// ListSchoolRoutes returns the stored routes for one school, newest
// first. Serves the read-back endpoint; not part of the reconciler's
// store contract.
func (s *GormStore) ListSchoolRoutes(ctx context.Context, schoolID string) ([]models.SchoolRoute, error) {
	var routes []models.SchoolRoute
	q := s.db.WithContext(ctx).Order("updated_at DESC")
	if schoolID != "" {
		q = q.Where("school_id = ?", schoolID)
	}
	if err := q.Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}
