package appointment

import (
	"context"
	"time"

	appointmentRepo "medagenda/database/repository/appointment"
	"medagenda/models"
)

// List returns a page of appointments filtered by date range, doctor name
// substring and status. Date filters are inclusive and expanded to UTC day
// boundaries; a status of "all" (or none) disables the status filter.
func (s *DefaultAppointmentService) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}

	q := appointmentRepo.ListQuery{
		DoctorName: f.DoctorName,
		Skip:       int64(page-1) * int64(limit),
		Limit:      int64(limit),
	}
	if f.Status != "" && f.Status != models.StatusFilterAll {
		q.Status = f.Status
	}
	if f.StartDate != "" {
		day, err := normalizeDay(f.StartDate)
		if err != nil {
			return nil, &ValidationError{Message: "invalid startDate, expected YYYY-MM-DD"}
		}
		q.Start = &day
	}
	if f.EndDate != "" {
		day, err := normalizeDay(f.EndDate)
		if err != nil {
			return nil, &ValidationError{Message: "invalid endDate, expected YYYY-MM-DD"}
		}
		// Inclusive upper bound: the last instant of that UTC day.
		end := day.Add(24*time.Hour - time.Millisecond)
		q.End = &end
	}

	appts, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if appts == nil {
		appts = []models.Appointment{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ListResult{
		Data:        appts,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
	}, nil
}
