package services

import (
	"encoding/json"
	"fmt"
	"time"
)

// Coordinate is the canonical lat/lng pair. Raw input may carry the
// GeoJSON [lng, lat] array form instead; normalization always emits
// this object form.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NormalizedRoute is the canonical record produced from one raw bulk
// entry. It is a superset of the three variants' fields; the store
// maps it onto the variant's model.
type NormalizedRoute struct {
	Variant Variant

	SchoolID   string
	SchoolName string

	StudentID   string
	StudentName string

	TeacherID      string
	TeacherName    string
	TeacherCode    string
	Specialization string

	Place       string
	PlaceID     string
	AmenityType string

	TravelMode string
	Distance   float64
	Duration   int

	// SubjectCoords is where the route starts (school, student home,
	// teacher home); DestCoords is where it ends (place or school).
	SubjectCoords Coordinate
	DestCoords    Coordinate

	OverviewPolyline string
	DurationDisplay  string

	Bounds json.RawMessage
	Steps  json.RawMessage

	AcademicYear string
	Division     string
	District     string
	Zone         string

	// Raw keeps the submitted record verbatim for audit.
	Raw json.RawMessage
}

// CurrentAcademicYear returns the "<year>-<year+1>" academic year
// covering today.
func CurrentAcademicYear() string {
	y := time.Now().Year()
	return fmt.Sprintf("%d-%d", y, y+1)
}

// Normalize validates one raw record and coerces it into the
// canonical form. It rejects only when the variant's identity fields
// are absent or distance is not numeric; every other field falls back
// to a default. The second return lists the names of fields that were
// defaulted, for diagnostic logging — defaulting is never a fault.
func Normalize(raw map[string]any, variant Variant) (*NormalizedRoute, []string, error) {
	if raw == nil {
		return nil, nil, validationError("record is not an object")
	}

	var defaulted []string
	def := func(field string) {
		defaulted = append(defaulted, field)
	}

	rec := &NormalizedRoute{Variant: variant}

	switch variant {
	case VariantSchool:
		rec.SchoolID, _ = stringField(raw, "schoolId")
		rec.AmenityType, _ = stringField(raw, "amenityType")
		if rec.SchoolID == "" || rec.AmenityType == "" {
			return nil, nil, validationError("missing required schoolId or amenityType")
		}
	case VariantStudent:
		rec.StudentID, _ = stringField(raw, "studentId")
		rec.SchoolID, _ = stringField(raw, "schoolId")
		if rec.StudentID == "" || rec.SchoolID == "" {
			return nil, nil, validationError("missing required studentId or schoolId")
		}
	case VariantTeacher:
		rec.TeacherID, _ = stringField(raw, "teacherId")
		rec.SchoolID, _ = stringField(raw, "schoolId")
		if rec.TeacherID == "" || rec.SchoolID == "" {
			return nil, nil, validationError("missing required teacherId or schoolId")
		}
	default:
		return nil, nil, validationError("unknown route variant %q", variant)
	}

	dist, ok := numberField(raw, "distance")
	if !ok {
		return nil, nil, validationError("distance is missing or not numeric")
	}
	if dist < 0 {
		dist = 0
		def("distance")
	}
	rec.Distance = dist

	if dur, ok := numberField(raw, "duration"); ok {
		if dur < 0 {
			dur = 0
			def("duration")
		}
		rec.Duration = int(dur)
	} else {
		def("duration")
	}

	if mode, ok := stringField(raw, "travelMode"); ok && ValidTravelMode(mode) {
		rec.TravelMode = mode
	} else {
		rec.TravelMode = DefaultTravelMode
		def("travelMode")
	}

	rec.SchoolName = stringOr(raw, "schoolName", "Unknown School", def)
	switch variant {
	case VariantSchool:
		rec.Place = stringOr(raw, "place", "Unknown Place", def)
		rec.PlaceID, _ = stringField(raw, "placeId")
		rec.DurationDisplay, _ = stringField(raw, "timeDisplay")
	case VariantStudent:
		rec.StudentName = stringOr(raw, "studentName", "Unknown Student", def)
	case VariantTeacher:
		rec.TeacherName = stringOr(raw, "teacherName", "Unknown Teacher", def)
		rec.TeacherCode, _ = stringField(raw, "teacherCode")
		rec.Specialization, _ = stringField(raw, "specialization")
	}

	rec.SubjectCoords, rec.DestCoords = normalizeCoords(raw, variant, def)

	if poly, ok := stringField(raw, "overviewPolyline"); ok {
		rec.OverviewPolyline = poly
	} else if poly, ok := stringField(raw, "polyline"); ok {
		rec.OverviewPolyline = poly
	}

	rec.Bounds = rawField(raw, "bounds")
	rec.Steps = rawField(raw, "steps")

	if year, ok := stringField(raw, "academicYear"); ok {
		rec.AcademicYear = year
	} else {
		rec.AcademicYear = CurrentAcademicYear()
		def("academicYear")
	}
	rec.Division = stringOr(raw, "division", "Unknown", def)
	rec.District = stringOr(raw, "district", "Unknown", def)
	rec.Zone = stringOr(raw, "zone", "Unknown", def)

	if blob, err := json.Marshal(raw); err == nil {
		rec.Raw = blob
	}

	return rec, defaulted, nil
}

// normalizeCoords reads the subject/destination coordinate pair from
// whichever shape the variant's submitters use. Malformed or missing
// coordinates default to (0,0); they never reject a record.
func normalizeCoords(raw map[string]any, variant Variant, def func(string)) (subject, dest Coordinate) {
	switch variant {
	case VariantSchool:
		var ok bool
		if subject, ok = parseCoordinate(raw["schoolCoords"]); !ok {
			def("schoolCoords")
		}
		if dest, ok = parseCoordinate(raw["location"]); !ok {
			def("location")
		}
	case VariantStudent, VariantTeacher:
		subjectKey := "student"
		if variant == VariantTeacher {
			subjectKey = "teacher"
		}
		coords, _ := raw["coordinates"].(map[string]any)
		var ok bool
		if subject, ok = parseCoordinate(coords[subjectKey]); !ok {
			def("coordinates." + subjectKey)
		}
		if dest, ok = parseCoordinate(coords["school"]); !ok {
			def("coordinates.school")
		}
	}
	return subject, dest
}

// parseCoordinate accepts either the GeoJSON ordered pair [lng, lat]
// or the object form {lat, lng}. The array form swaps axis order.
func parseCoordinate(v any) (Coordinate, bool) {
	switch val := v.(type) {
	case []any:
		if len(val) != 2 {
			return Coordinate{}, false
		}
		lng, okLng := toFloat(val[0])
		lat, okLat := toFloat(val[1])
		if !okLng || !okLat {
			return Coordinate{}, false
		}
		return Coordinate{Lat: lat, Lng: lng}, true
	case map[string]any:
		lat, okLat := toFloat(val["lat"])
		lng, okLng := toFloat(val["lng"])
		if !okLat || !okLng {
			return Coordinate{}, false
		}
		return Coordinate{Lat: lat, Lng: lng}, true
	default:
		return Coordinate{}, false
	}
}

func stringField(raw map[string]any, key string) (string, bool) {
	s, ok := raw[key].(string)
	return s, ok && s != ""
}

func stringOr(raw map[string]any, key, fallback string, def func(string)) string {
	if s, ok := stringField(raw, key); ok {
		return s
	}
	def(key)
	return fallback
}

func numberField(raw map[string]any, key string) (float64, bool) {
	return toFloat(raw[key])
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func rawField(raw map[string]any, key string) json.RawMessage {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	blob, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return blob
}
