package services

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNormalizeSchoolRejectsMissingIdentity(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
	}{
		{"missing schoolId", map[string]any{"amenityType": "market", "distance": 120.0}},
		{"missing amenityType", map[string]any{"schoolId": "S1", "distance": 120.0}},
		{"missing distance", map[string]any{"schoolId": "S1", "amenityType": "market"}},
		{"non-numeric distance", map[string]any{"schoolId": "S1", "amenityType": "market", "distance": "far"}},
		{"nil record", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Normalize(tc.raw, VariantSchool)
			if err == nil {
				t.Fatal("expected rejection, got nil error")
			}
		})
	}
}

func TestNormalizeStudentAndTeacherIdentity(t *testing.T) {
	if _, _, err := Normalize(map[string]any{"schoolId": "S1", "distance": 10.0}, VariantStudent); err == nil {
		t.Error("student record without studentId should be rejected")
	}
	if _, _, err := Normalize(map[string]any{"teacherId": "T1", "distance": 10.0}, VariantTeacher); err == nil {
		t.Error("teacher record without schoolId should be rejected")
	}

	rec, _, err := Normalize(map[string]any{"studentId": "ST1", "schoolId": "S1", "distance": 10.0}, VariantStudent)
	if err != nil {
		t.Fatalf("valid student record rejected: %v", err)
	}
	if rec.StudentID != "ST1" || rec.SchoolID != "S1" {
		t.Errorf("identity not carried over: %+v", rec)
	}
}

func TestNormalizeDefaultsOptionalFields(t *testing.T) {
	rec, defaulted, err := Normalize(map[string]any{
		"schoolId":    "S1",
		"amenityType": "market",
		"distance":    120.0,
	}, VariantSchool)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if rec.TravelMode != "walking" {
		t.Errorf("TravelMode = %q, want walking", rec.TravelMode)
	}
	if rec.Duration != 0 {
		t.Errorf("Duration = %d, want 0", rec.Duration)
	}
	if rec.SchoolName != "Unknown School" {
		t.Errorf("SchoolName = %q, want Unknown School", rec.SchoolName)
	}
	if rec.Division != "Unknown" || rec.District != "Unknown" || rec.Zone != "Unknown" {
		t.Errorf("context fields = %q/%q/%q, want Unknown", rec.Division, rec.District, rec.Zone)
	}
	if rec.SubjectCoords != (Coordinate{}) || rec.DestCoords != (Coordinate{}) {
		t.Errorf("missing coords should default to (0,0), got %+v / %+v", rec.SubjectCoords, rec.DestCoords)
	}

	if len(defaulted) == 0 {
		t.Error("expected defaulted-field diagnostics, got none")
	}
	for _, want := range []string{"travelMode", "duration", "schoolName", "division"} {
		if !containsString(defaulted, want) {
			t.Errorf("defaulted list missing %q: %v", want, defaulted)
		}
	}
}

func TestNormalizeClampsNegatives(t *testing.T) {
	rec, defaulted, err := Normalize(map[string]any{
		"schoolId":    "S1",
		"amenityType": "market",
		"distance":    -50.0,
		"duration":    -10.0,
	}, VariantSchool)
	if err != nil {
		t.Fatalf("negative values must clamp, not reject: %v", err)
	}
	if rec.Distance != 0 || rec.Duration != 0 {
		t.Errorf("got distance=%v duration=%v, want both 0", rec.Distance, rec.Duration)
	}
	if !containsString(defaulted, "distance") || !containsString(defaulted, "duration") {
		t.Errorf("clamps should be reported as defaults: %v", defaulted)
	}
}

func TestNormalizeInvalidTravelMode(t *testing.T) {
	rec, _, err := Normalize(map[string]any{
		"schoolId":    "S1",
		"amenityType": "market",
		"distance":    1.0,
		"travelMode":  "teleport",
	}, VariantSchool)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if rec.TravelMode != "walking" {
		t.Errorf("TravelMode = %q, want walking fallback", rec.TravelMode)
	}
}

func TestNormalizeCoordinateForms(t *testing.T) {
	// GeoJSON ordered pair: [lng, lat]
	rec, _, err := Normalize(map[string]any{
		"schoolId":     "S1",
		"amenityType":  "market",
		"distance":     1.0,
		"schoolCoords": []any{34.02, -13.96},
		"location":     map[string]any{"lat": -13.95, "lng": 34.01},
	}, VariantSchool)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if rec.SubjectCoords.Lat != -13.96 || rec.SubjectCoords.Lng != 34.02 {
		t.Errorf("array form not axis-swapped: %+v", rec.SubjectCoords)
	}
	if rec.DestCoords.Lat != -13.95 || rec.DestCoords.Lng != 34.01 {
		t.Errorf("object form mangled: %+v", rec.DestCoords)
	}

	// Malformed coordinates default, never reject.
	rec, defaulted, err := Normalize(map[string]any{
		"schoolId":     "S1",
		"amenityType":  "market",
		"distance":     1.0,
		"schoolCoords": []any{34.02},
		"location":     "nowhere",
	}, VariantSchool)
	if err != nil {
		t.Fatalf("malformed coords must not reject: %v", err)
	}
	if rec.SubjectCoords != (Coordinate{}) || rec.DestCoords != (Coordinate{}) {
		t.Errorf("malformed coords should default to (0,0): %+v / %+v", rec.SubjectCoords, rec.DestCoords)
	}
	if !containsString(defaulted, "schoolCoords") || !containsString(defaulted, "location") {
		t.Errorf("coordinate defaults not reported: %v", defaulted)
	}
}

func TestNormalizeTeacherCoordinates(t *testing.T) {
	rec, _, err := Normalize(map[string]any{
		"teacherId": "T1",
		"schoolId":  "S1",
		"distance":  1.0,
		"coordinates": map[string]any{
			"teacher": []any{34.0, -13.9},
			"school":  map[string]any{"lat": -13.8, "lng": 34.1},
		},
	}, VariantTeacher)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if rec.SubjectCoords.Lat != -13.9 || rec.SubjectCoords.Lng != 34.0 {
		t.Errorf("teacher coords = %+v", rec.SubjectCoords)
	}
	if rec.DestCoords.Lat != -13.8 || rec.DestCoords.Lng != 34.1 {
		t.Errorf("school coords = %+v", rec.DestCoords)
	}
}

func TestNormalizeAcademicYearDefault(t *testing.T) {
	rec, _, err := Normalize(map[string]any{
		"teacherId": "T1",
		"schoolId":  "S1",
		"distance":  1.0,
	}, VariantTeacher)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	year := time.Now().Year()
	want := fmt.Sprintf("%d-%d", year, year+1)
	if rec.AcademicYear != want {
		t.Errorf("AcademicYear = %q, want %q", rec.AcademicYear, want)
	}

	// Explicit academic year passes through untouched.
	rec, _, _ = Normalize(map[string]any{
		"teacherId":    "T1",
		"schoolId":     "S1",
		"distance":     1.0,
		"academicYear": "2023-2024",
	}, VariantTeacher)
	if rec.AcademicYear != "2023-2024" {
		t.Errorf("AcademicYear = %q, want 2023-2024", rec.AcademicYear)
	}
}

func TestNormalizeKeepsRawPayload(t *testing.T) {
	rec, _, err := Normalize(map[string]any{
		"schoolId":    "S1",
		"amenityType": "market",
		"distance":    1.0,
		"extraField":  "kept-for-audit",
	}, VariantSchool)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if !strings.Contains(string(rec.Raw), "kept-for-audit") {
		t.Errorf("raw payload not retained: %s", rec.Raw)
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
