package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates the handler funcs wired into the router.
type HandlerBundle struct {
	// Appointment endpoints.
	CreateAppointmentHandler  gin.HandlerFunc
	ListAppointmentsHandler   gin.HandlerFunc
	GetAppointmentByIDHandler gin.HandlerFunc
	UpdateAppointmentHandler  gin.HandlerFunc
	DeleteAppointmentHandler  gin.HandlerFunc
	CheckConflictsHandler     gin.HandlerFunc
}
