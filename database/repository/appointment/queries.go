// File: database/repository/appointment/queries.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"medagenda/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindByDoctorAndDate returns every appointment for the doctor on the given
// normalized day, optionally excluding one record by id. This is the scoping
// query behind every conflict scan: two appointments can only collide when
// they share both the doctor and the calendar day.
func (r *mongoAppointmentRepo) FindByDoctorAndDate(ctx context.Context, doctorName string, day time.Time, excludeID *primitive.ObjectID) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := sameDayFilter(doctorName, day, excludeID)
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments for %s on %s: %w", doctorName, day.Format("2006-01-02"), err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

// List returns one page of appointments matching the query plus the total
// match count, sorted by date then start time, most recent first.
func (r *mongoAppointmentRepo) List(ctx context.Context, q ListQuery) ([]models.Appointment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	dateFilter := bson.M{}
	if q.Start != nil {
		dateFilter["$gte"] = *q.Start
	}
	if q.End != nil {
		dateFilter["$lte"] = *q.End
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}
	if q.DoctorName != "" {
		filter["doctorName"] = bson.M{"$regex": q.DoctorName, "$options": "i"}
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting appointments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "startTime", Value: -1}}).
		SetSkip(q.Skip).
		SetLimit(q.Limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, 0, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, total, nil
}

func sameDayFilter(doctorName string, day time.Time, excludeID *primitive.ObjectID) bson.M {
	filter := bson.M{
		"doctorName": doctorName,
		"date":       day,
	}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}
	return filter
}
