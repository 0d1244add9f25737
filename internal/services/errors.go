package services

import "fmt"

// ErrorKind classifies a fault so the HTTP layer can pick a status
// code without the core knowing about HTTP.
type ErrorKind string

const (
	// KindIntakeRejection: the whole invocation was unusable (not a
	// sequence, or nothing survived normalization). Nothing persisted.
	KindIntakeRejection ErrorKind = "intake_rejected"

	// KindRecordValidation: one record failed normalization and was
	// excluded; siblings proceeded.
	KindRecordValidation ErrorKind = "record_validation"

	// KindRecordPersistence: the store refused one record; siblings in
	// the same chunk proceeded.
	KindRecordPersistence ErrorKind = "record_persistence"

	// KindChunkTransaction: a transaction-level fault failed an entire
	// chunk; other chunks were unaffected.
	KindChunkTransaction ErrorKind = "chunk_transaction"

	// KindStrategy: one search strategy failed and was skipped.
	KindStrategy ErrorKind = "strategy"
)

// Error is the typed fault carried through the core. Only
// KindIntakeRejection is returned as a hard error from ReconcileRoutes;
// every other kind is folded into the BatchOutcome.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func intakeRejected(format string, args ...any) *Error {
	return &Error{Kind: KindIntakeRejection, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindRecordValidation, Message: fmt.Sprintf(format, args...)}
}

// IsIntakeRejection reports whether err is a whole-invocation
// rejection as opposed to a partial failure.
func IsIntakeRejection(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindIntakeRejection
}
