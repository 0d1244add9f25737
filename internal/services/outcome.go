package services

// RouteRef identifies a failed record by whatever identity fields it
// carried, so callers can report failures without echoing the whole
// payload.
type RouteRef struct {
	SchoolID    string `json:"school_id,omitempty"`
	StudentID   string `json:"student_id,omitempty"`
	TeacherID   string `json:"teacher_id,omitempty"`
	AmenityType string `json:"amenity_type,omitempty"`
	Index       int    `json:"index"`
}

// RouteError pairs a record's identity with the reason it failed.
type RouteError struct {
	Route RouteRef  `json:"route"`
	Kind  ErrorKind `json:"kind"`
	Error string    `json:"error"`
}

// BatchState is the terminal state of one reconciliation invocation.
type BatchState string

const (
	BatchCompleted           BatchState = "completed"
	BatchCompletedWithErrors BatchState = "completed_with_errors"
)

// BatchOutcome accumulates per-record results across every chunk of
// one invocation. Every normalize-surviving record lands in exactly
// one of created/updated/Errors; records rejected at intake are
// listed in Rejected and counted in SkippedCount, outside the batch
// outcome proper. The outcome is always returned, even on partial
// failure.
type BatchOutcome struct {
	CreatedCount   int          `json:"createdCount"`
	UpdatedCount   int          `json:"updatedCount"`
	SkippedCount   int          `json:"skippedCount"`
	TotalProcessed int          `json:"totalProcessed"`
	Errors         []RouteError `json:"errors"`
	Rejected       []RouteError `json:"rejected,omitempty"`
}

// State maps the outcome to its terminal state. Whole-invocation
// rejection never reaches an outcome; it is returned as an error.
func (o *BatchOutcome) State() BatchState {
	if len(o.Errors) > 0 {
		return BatchCompletedWithErrors
	}
	return BatchCompleted
}

func (o *BatchOutcome) addError(ref RouteRef, kind ErrorKind, msg string) {
	o.Errors = append(o.Errors, RouteError{Route: ref, Kind: kind, Error: msg})
}

func (o *BatchOutcome) addRejected(ref RouteRef, msg string) {
	o.Rejected = append(o.Rejected, RouteError{Route: ref, Kind: KindRecordValidation, Error: msg})
	o.SkippedCount++
}

// refOf extracts whatever identity a raw record exposes, for error
// reporting on records that may not have survived normalization.
func refOf(raw map[string]any, index int) RouteRef {
	ref := RouteRef{Index: index}
	ref.SchoolID, _ = stringField(raw, "schoolId")
	ref.StudentID, _ = stringField(raw, "studentId")
	ref.TeacherID, _ = stringField(raw, "teacherId")
	ref.AmenityType, _ = stringField(raw, "amenityType")
	return ref
}

func refOfNormalized(rec *NormalizedRoute, index int) RouteRef {
	return RouteRef{
		Index:       index,
		SchoolID:    rec.SchoolID,
		StudentID:   rec.StudentID,
		TeacherID:   rec.TeacherID,
		AmenityType: rec.AmenityType,
	}
}
