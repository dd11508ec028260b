package appointment

import (
	"context"
	"errors"
	"time"

	appointmentRepo "medagenda/database/repository/appointment"
	"medagenda/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Create validates the candidate appointment, scans the doctor's day for
// overlapping windows and persists the record when the scan comes back clean.
// The scan and the insert run inside one storage transaction so two
// concurrent requests cannot both pass the scan.
func (s *DefaultAppointmentService) Create(ctx context.Context, in AppointmentInput) (*models.Appointment, error) {
	if err := validateRequired(in); err != nil {
		return nil, err
	}
	if TimeToMinutes(in.EndTime) <= TimeToMinutes(in.StartTime) {
		return nil, &ValidationError{Message: "endTime must be after startTime"}
	}

	status := in.Status
	if status == "" {
		status = models.StatusScheduled
	}

	day, err := normalizeDay(in.Date)
	if err != nil {
		return nil, &ValidationError{Message: "invalid date, expected YYYY-MM-DD"}
	}
	if status == models.StatusScheduled {
		if err := s.rejectPast(in.Date, in.StartTime); err != nil {
			return nil, err
		}
	}

	now := s.now()
	appt := &models.Appointment{
		PatientName: in.PatientName,
		DoctorName:  in.DoctorName,
		Date:        day,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Reason:      in.Reason,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	conflicts, err := s.Repo.InsertExclusive(ctx, appt, func(existing []models.Appointment) []models.Appointment {
		return FindConflicting(TimeRange{StartTime: in.StartTime, EndTime: in.EndTime}, existing)
	})
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{
			Message:   "schedule conflict: the doctor already has appointments in the requested window",
			Conflicts: conflicts,
		}
	}
	return appt, nil
}

// Update replaces every field of the record after the same structural checks
// as Create. The past-date check only applies when the record stays
// "scheduled": rescheduling completed or cancelled history is legitimate. The
// conflict scan excludes the record's own id.
func (s *DefaultAppointmentService) Update(ctx context.Context, id string, in AppointmentInput) (*models.Appointment, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if err := validateRequired(in); err != nil {
		return nil, err
	}
	if TimeToMinutes(in.EndTime) <= TimeToMinutes(in.StartTime) {
		return nil, &ValidationError{Message: "endTime must be after startTime"}
	}

	status := in.Status
	if status == "" {
		status = models.StatusScheduled
	}

	day, err := normalizeDay(in.Date)
	if err != nil {
		return nil, &ValidationError{Message: "invalid date, expected YYYY-MM-DD"}
	}
	if status == models.StatusScheduled {
		if err := s.rejectPast(in.Date, in.StartTime); err != nil {
			return nil, err
		}
	}

	appt := &models.Appointment{
		PatientName: in.PatientName,
		DoctorName:  in.DoctorName,
		Date:        day,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Reason:      in.Reason,
		Status:      status,
		UpdatedAt:   s.now(),
	}

	updated, conflicts, err := s.Repo.ReplaceExclusive(ctx, oid, appt, func(existing []models.Appointment) []models.Appointment {
		return FindConflicting(TimeRange{StartTime: in.StartTime, EndTime: in.EndTime}, existing)
	})
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{
			Message:   "schedule conflict: the requested window collides with existing appointments",
			Conflicts: conflicts,
		}
	}

	s.cacheInvalidate(ctx, id)
	return updated, nil
}

// GetByID fetches a single appointment, serving repeat lookups from the cache.
func (s *DefaultAppointmentService) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if appt := s.cacheGet(ctx, id); appt != nil {
		return appt, nil
	}

	appt, err := s.Repo.FindByID(ctx, oid)
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, id, appt)
	return appt, nil
}

// Delete removes an appointment by id.
func (s *DefaultAppointmentService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	err = s.Repo.DeleteByID(ctx, oid)
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		return &NotFoundError{ID: id}
	}
	if err != nil {
		return err
	}
	s.cacheInvalidate(ctx, id)
	return nil
}

// CheckConflicts previews the conflicts a candidate window would produce
// without committing anything. The raw overlap predicate is applied to the
// doctor's day, optionally excluding one record by id.
func (s *DefaultAppointmentService) CheckConflicts(ctx context.Context, q ConflictQuery) ([]models.Appointment, error) {
	if q.DoctorName == "" || q.Date == "" || q.StartTime == "" || q.EndTime == "" {
		return nil, &ValidationError{Message: "missing parameters for conflict check"}
	}
	day, err := normalizeDay(q.Date)
	if err != nil {
		return nil, &ValidationError{Message: "invalid date, expected YYYY-MM-DD"}
	}

	// A malformed excludeId is ignored rather than rejected; the query is a
	// read-only preview.
	var excludeID *primitive.ObjectID
	if q.ExcludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(q.ExcludeID); err == nil {
			excludeID = &oid
		}
	}

	existing, err := s.Repo.FindByDoctorAndDate(ctx, q.DoctorName, day, excludeID)
	if err != nil {
		return nil, err
	}

	start := TimeToMinutes(q.StartTime)
	end := TimeToMinutes(q.EndTime)
	conflicts := make([]models.Appointment, 0)
	for _, appt := range existing {
		if start < TimeToMinutes(appt.EndTime) && end > TimeToMinutes(appt.StartTime) {
			conflicts = append(conflicts, appt)
		}
	}
	return conflicts, nil
}

func validateRequired(in AppointmentInput) error {
	if in.PatientName == "" || in.DoctorName == "" || in.Date == "" ||
		in.StartTime == "" || in.EndTime == "" || in.Reason == "" {
		return &ValidationError{Message: "all required fields must be provided"}
	}
	return nil
}

// rejectPast refuses windows whose local start instant has already passed.
func (s *DefaultAppointmentService) rejectPast(date, startTime string) error {
	startAt, err := localStart(date, startTime)
	if err != nil {
		return &ValidationError{Message: "invalid date, expected YYYY-MM-DD"}
	}
	if startAt.Before(s.now()) {
		return &ValidationError{Message: "cannot schedule an appointment in the past"}
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &InvalidIDError{ID: id}
	}
	return oid, nil
}

// normalizeDay reduces a "YYYY-MM-DD" calendar day to its UTC start-of-day
// instant, the stored date value and the conflict-scoping key.
func normalizeDay(date string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, err
	}
	return day, nil
}

// localStart composes the full start instant of a candidate window in the
// server's local time, mirroring how clients express wall-clock times.
func localStart(date, startTime string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(TimeToMinutes(startTime)) * time.Minute), nil
}
