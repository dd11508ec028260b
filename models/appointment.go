package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment statuses. StatusFilterAll is a listing sentinel, never persisted.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusFilterAll = "all"
)

// Appointment represents a single, non-recurring appointment for a doctor.
// Date holds the calendar day normalized to its UTC start-of-day instant; the
// wall-clock window is carried separately in StartTime/EndTime as "HH:MM".
type Appointment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	PatientName string             `bson:"patientName" json:"patientName"`
	DoctorName  string             `bson:"doctorName" json:"doctorName"`
	Date        time.Time          `bson:"date" json:"date"`
	StartTime   string             `bson:"startTime" json:"startTime"`
	EndTime     string             `bson:"endTime" json:"endTime"`
	Reason      string             `bson:"reason" json:"reason"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
