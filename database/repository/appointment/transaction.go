// File: database/repository/appointment/transaction.go
package appointmentRepo

import (
	"context"
	"fmt"

	"medagenda/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// The conflict scan and the write are distinct storage operations; without a
// transaction two concurrent writers for the same doctor and day can both pass
// the scan and double-book. Running both inside one session closes that window.

// InsertExclusive scans the candidate's doctor+day set and inserts the new
// record only when conflictsOf reports no collisions.
func (r *mongoAppointmentRepo) InsertExclusive(ctx context.Context, appt *models.Appointment, conflictsOf ConflictFn) ([]models.Appointment, error) {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var conflicts []models.Appointment
	txnFn := func(sc mongo.SessionContext) error {
		existing, err := r.FindByDoctorAndDate(sc, appt.DoctorName, appt.Date, nil)
		if err != nil {
			return err
		}
		conflicts = conflictsOf(existing)
		if len(conflicts) > 0 {
			return nil
		}
		res, err := r.coll.InsertOne(sc, appt)
		if err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			appt.ID = oid
		}
		return nil
	}

	if err := r.runTransaction(ctx, sess, txnFn); err != nil {
		return nil, err
	}
	return conflicts, nil
}

// ReplaceExclusive scans the doctor+day set excluding the record itself, then
// replaces the record's fields and re-reads the stored document.
func (r *mongoAppointmentRepo) ReplaceExclusive(ctx context.Context, id primitive.ObjectID, appt *models.Appointment, conflictsOf ConflictFn) (*models.Appointment, []models.Appointment, error) {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var updated models.Appointment
	var conflicts []models.Appointment
	txnFn := func(sc mongo.SessionContext) error {
		existing, err := r.FindByDoctorAndDate(sc, appt.DoctorName, appt.Date, &id)
		if err != nil {
			return err
		}
		conflicts = conflictsOf(existing)
		if len(conflicts) > 0 {
			return nil
		}

		update := bson.M{"$set": bson.M{
			"patientName": appt.PatientName,
			"doctorName":  appt.DoctorName,
			"date":        appt.Date,
			"startTime":   appt.StartTime,
			"endTime":     appt.EndTime,
			"reason":      appt.Reason,
			"status":      appt.Status,
			"updatedAt":   appt.UpdatedAt,
		}}
		res, err := r.coll.UpdateOne(sc, bson.M{"_id": id}, update)
		if err != nil {
			return fmt.Errorf("update appointment failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return r.coll.FindOne(sc, bson.M{"_id": id}).Decode(&updated)
	}

	if err := r.runTransaction(ctx, sess, txnFn); err != nil {
		return nil, nil, err
	}
	if len(conflicts) > 0 {
		return nil, conflicts, nil
	}
	return &updated, nil, nil
}

func (r *mongoAppointmentRepo) runTransaction(ctx context.Context, sess mongo.Session, txnFn func(mongo.SessionContext) error) error {
	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
