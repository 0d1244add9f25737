package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-polyline"
	"gorm.io/gorm"

	"school_mapper/internal/models"
	"school_mapper/internal/services"
)

// TransactionTimeout bounds a single chunk transaction; a chunk that
// exceeds it is reported as failed and the next chunk proceeds.
const TransactionTimeout = 30 * time.Second

// GormStore implements services.RouteStore over a gorm/Postgres
// handle. The handle is injected at construction; inside
// RunTransaction every call runs against the transaction connection.
type GormStore struct {
	db        *gorm.DB
	txTimeout time.Duration
}

// NewGormStore wraps a connected gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, txTimeout: TransactionTimeout}
}

// RunTransaction executes fn inside one database transaction bounded
// by the store's transaction timeout.
func (s *GormStore) RunTransaction(ctx context.Context, fn func(tx services.RouteStore) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, txTimeout: s.txTimeout})
	})
}

// RunNested executes fn under a savepoint on the current transaction
// (gorm issues SAVEPOINT / ROLLBACK TO SAVEPOINT for a nested
// Transaction call). A statement error inside fn would otherwise put
// the whole Postgres transaction into the aborted state and fail
// everything after it; rolling back to the savepoint keeps the
// enclosing transaction usable.
func (s *GormStore) RunNested(ctx context.Context, fn func(tx services.RouteStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, txTimeout: s.txTimeout})
	})
}

// FindMatching looks a record up by composite key; nil when absent.
func (s *GormStore) FindMatching(ctx context.Context, key services.RouteKey) (*services.StoredRoute, error) {
	db := s.db.WithContext(ctx)

	switch key.Variant {
	case services.VariantSchool:
		var m models.SchoolRoute
		err := db.Where("school_id = ? AND amenity_type = ? AND travel_mode = ?",
			key.SchoolID, key.AmenityType, key.TravelMode).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, classifyStoreError(err)
		}
		return &services.StoredRoute{ID: m.ID, Record: schoolToNormalized(&m)}, nil

	case services.VariantStudent:
		var m models.StudentRoute
		err := db.Where("student_id = ? AND school_id = ? AND travel_mode = ?",
			key.StudentID, key.SchoolID, key.TravelMode).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, classifyStoreError(err)
		}
		return &services.StoredRoute{ID: m.ID, Record: studentToNormalized(&m)}, nil

	case services.VariantTeacher:
		var m models.TeacherRoute
		err := db.Where("teacher_id = ? AND school_id = ? AND academic_year = ?",
			key.TeacherID, key.SchoolID, key.AcademicYear).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, classifyStoreError(err)
		}
		return &services.StoredRoute{ID: m.ID, Record: teacherToNormalized(&m)}, nil
	}

	return nil, fmt.Errorf("unknown route variant %q", key.Variant)
}

// Create inserts a fresh row for the record.
func (s *GormStore) Create(ctx context.Context, rec *services.NormalizedRoute) (*services.StoredRoute, error) {
	db := s.db.WithContext(ctx)

	switch rec.Variant {
	case services.VariantSchool:
		m := schoolFromNormalized(rec)
		if err := db.Create(m).Error; err != nil {
			return nil, classifyStoreError(err)
		}
		return &services.StoredRoute{ID: m.ID, Record: *rec}, nil
	case services.VariantStudent:
		m := studentFromNormalized(rec)
		if err := db.Create(m).Error; err != nil {
			return nil, classifyStoreError(err)
		}
		return &services.StoredRoute{ID: m.ID, Record: *rec}, nil
	case services.VariantTeacher:
		m := teacherFromNormalized(rec)
		if err := db.Create(m).Error; err != nil {
			return nil, classifyStoreError(err)
		}
		return &services.StoredRoute{ID: m.ID, Record: *rec}, nil
	}

	return nil, fmt.Errorf("unknown route variant %q", rec.Variant)
}

// Update overwrites every field of row id with the record's values
// (full overwrite, no field-level merge); the row's identity and
// creation time survive.
func (s *GormStore) Update(ctx context.Context, id uint, rec *services.NormalizedRoute) (*services.StoredRoute, error) {
	db := s.db.WithContext(ctx)

	var err error
	switch rec.Variant {
	case services.VariantSchool:
		m := schoolFromNormalized(rec)
		m.ID = id
		err = db.Model(m).Select("*").Omit("id", "created_at", "deleted_at").Updates(m).Error
	case services.VariantStudent:
		m := studentFromNormalized(rec)
		m.ID = id
		err = db.Model(m).Select("*").Omit("id", "created_at", "deleted_at").Updates(m).Error
	case services.VariantTeacher:
		m := teacherFromNormalized(rec)
		m.ID = id
		err = db.Model(m).Select("*").Omit("id", "created_at", "deleted_at").Updates(m).Error
	default:
		return nil, fmt.Errorf("unknown route variant %q", rec.Variant)
	}
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return &services.StoredRoute{ID: id, Record: *rec}, nil
}

// DeleteMatching removes every row whose composite key matches any of
// the given keys. Used by the replace strategy.
func (s *GormStore) DeleteMatching(ctx context.Context, keys []services.RouteKey) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	db := s.db.WithContext(ctx)
	variant := keys[0].Variant

	var cond *gorm.DB
	for _, key := range keys {
		clause, args := keyClause(key)
		if cond == nil {
			cond = s.db.Where(clause, args...)
		} else {
			cond = cond.Or(clause, args...)
		}
	}

	// Hard delete: replace-wins discards history by definition, and a
	// soft-deleted row would still collide with the composite unique
	// index when the fresh batch is inserted.
	var res *gorm.DB
	switch variant {
	case services.VariantSchool:
		res = db.Unscoped().Where(cond).Delete(&models.SchoolRoute{})
	case services.VariantStudent:
		res = db.Unscoped().Where(cond).Delete(&models.StudentRoute{})
	case services.VariantTeacher:
		res = db.Unscoped().Where(cond).Delete(&models.TeacherRoute{})
	default:
		return 0, fmt.Errorf("unknown route variant %q", variant)
	}
	if res.Error != nil {
		return 0, classifyStoreError(res.Error)
	}
	return res.RowsAffected, nil
}

func keyClause(key services.RouteKey) (string, []any) {
	switch key.Variant {
	case services.VariantStudent:
		return "(student_id = ? AND school_id = ? AND travel_mode = ?)",
			[]any{key.StudentID, key.SchoolID, key.TravelMode}
	case services.VariantTeacher:
		return "(teacher_id = ? AND school_id = ? AND academic_year = ?)",
			[]any{key.TeacherID, key.SchoolID, key.AcademicYear}
	default:
		return "(school_id = ? AND amenity_type = ? AND travel_mode = ?)",
			[]any{key.SchoolID, key.AmenityType, key.TravelMode}
	}
}

// classifyStoreError keeps constraint violations readable in per-record
// error reports instead of leaking raw driver noise. The postgres
// driver is pgx-based, so violations surface as *pgconn.PgError,
// possibly wrapped.
func classifyStoreError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("duplicate key: %s", pgErr.Detail)
	}
	return err
}

// decodeGeometry turns an encoded overview polyline into a WKB
// LINESTRING for the geometry column. Bad or empty polylines yield a
// nil geometry, never an error: geometry is derived, not required.
func decodeGeometry(encoded string) []byte {
	if encoded == "" {
		return nil
	}
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil || len(coords) < 2 {
		return nil
	}

	points := make([]geom.Coord, len(coords))
	for i, c := range coords {
		// polyline pairs are (lat, lng); geom wants (x=lng, y=lat).
		points[i] = geom.Coord{c[1], c[0]}
	}

	ls := geom.NewLineString(geom.XY)
	if _, err := ls.SetCoords(points); err != nil {
		return nil
	}
	blob, err := wkb.Marshal(ls, binary.LittleEndian)
	if err != nil {
		return nil
	}
	return blob
}
