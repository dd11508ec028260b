package appointment

import (
	"context"
	"time"

	appointmentRepo "medagenda/database/repository/appointment"
	"medagenda/models"

	"github.com/go-redis/redis/v8"
)

// DefaultPageSize is the listing page size used when the client supplies none.
const DefaultPageSize = 5

// AppointmentInput carries the client-supplied fields for a create or update.
// Date is a calendar day in "YYYY-MM-DD" form; StartTime/EndTime are "HH:MM".
type AppointmentInput struct {
	PatientName string
	DoctorName  string
	Date        string
	StartTime   string
	EndTime     string
	Reason      string
	Status      string
}

// ListFilter describes an appointment listing request.
type ListFilter struct {
	StartDate  string
	EndDate    string
	DoctorName string
	Status     string
	Page       int
	Limit      int
}

// ListResult is one page of appointments plus pagination metadata.
type ListResult struct {
	Data        []models.Appointment `json:"data"`
	CurrentPage int                  `json:"currentPage"`
	TotalPages  int                  `json:"totalPages"`
	TotalItems  int64                `json:"totalItems"`
}

// ConflictQuery describes a standalone conflict preview.
type ConflictQuery struct {
	DoctorName string
	Date       string
	StartTime  string
	EndTime    string
	ExcludeID  string
}

// AppointmentService defines the appointment scheduling workflows.
type AppointmentService interface {
	Create(ctx context.Context, in AppointmentInput) (*models.Appointment, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Update(ctx context.Context, id string, in AppointmentInput) (*models.Appointment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) (*ListResult, error)
	CheckConflicts(ctx context.Context, q ConflictQuery) ([]models.Appointment, error)
}

// DefaultAppointmentService implements AppointmentService over a repository
// and an optional read-through cache for by-id lookups.
type DefaultAppointmentService struct {
	Repo  appointmentRepo.AppointmentRepository
	Cache *redis.Client
	// Now is the clock used for past-date checks and timestamps; nil means
	// time.Now.
	Now func() time.Time
}

func (s *DefaultAppointmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
