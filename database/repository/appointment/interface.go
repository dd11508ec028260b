// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"medagenda/config"
	"medagenda/database"
	"medagenda/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no appointment matches the given id.
var ErrNotFound = errors.New("appointment not found")

// ListQuery describes an appointment listing: optional date window (already
// expanded to UTC day boundaries by the caller), optional doctor substring,
// optional exact status, and skip/limit for pagination.
type ListQuery struct {
	Start      *time.Time
	End        *time.Time
	DoctorName string
	Status     string
	Skip       int64
	Limit      int64
}

// ConflictFn selects the conflicting entries out of a same-day appointment set.
type ConflictFn func(existing []models.Appointment) []models.Appointment

// AppointmentRepository defines data access for appointment records.
type AppointmentRepository interface {
	// FindByID retrieves a single appointment, or ErrNotFound.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	// DeleteByID removes an appointment, or returns ErrNotFound.
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	// FindByDoctorAndDate returns all appointments for a doctor on a normalized
	// day, optionally excluding one record by id.
	FindByDoctorAndDate(ctx context.Context, doctorName string, day time.Time, excludeID *primitive.ObjectID) ([]models.Appointment, error)
	// List returns one page of appointments plus the total match count.
	List(ctx context.Context, q ListQuery) ([]models.Appointment, int64, error)
	// InsertExclusive runs the same-day conflict scan and the insert inside a
	// single transaction. It returns the conflicting records if any were found
	// (in which case nothing is inserted); otherwise appt.ID is populated.
	InsertExclusive(ctx context.Context, appt *models.Appointment, conflictsOf ConflictFn) ([]models.Appointment, error)
	// ReplaceExclusive replaces the record with the given id after an
	// in-transaction conflict scan that excludes the record itself. It returns
	// the post-update record re-read from storage, or the conflicting records,
	// or ErrNotFound.
	ReplaceExclusive(ctx context.Context, id primitive.ObjectID, appt *models.Appointment, conflictsOf ConflictFn) (*models.Appointment, []models.Appointment, error)
	// EnsureIndexes creates the indexes backing the doctor+date scan and the
	// listing sort order.
	EnsureIndexes() error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
// The collection name matches the original deployment's datastore.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoAppointmentRepo{
		coll: db.Collection("citas"),
	}
}
