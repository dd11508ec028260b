package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"medagenda/services/appointment"
	"medagenda/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler exposes the appointment workflows over HTTP.
type AppointmentHandler struct {
	Service appointment.AppointmentService
}

// NewAppointmentHandler constructs an AppointmentHandler.
func NewAppointmentHandler(svc appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

// appointmentRequest is the JSON body for create and update.
type appointmentRequest struct {
	PatientName string `json:"patientName"`
	DoctorName  string `json:"doctorName"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Reason      string `json:"reason"`
	Status      string `json:"status"`
}

func (r appointmentRequest) toInput() appointment.AppointmentInput {
	return appointment.AppointmentInput{
		PatientName: r.PatientName,
		DoctorName:  r.DoctorName,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Reason:      r.Reason,
		Status:      r.Status,
	}
}

// CreateAppointmentHandler handles POST /api/appointments.
func (h *AppointmentHandler) CreateAppointmentHandler(c *gin.Context) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	appt, err := h.Service.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// ListAppointmentsHandler handles GET /api/appointments.
func (h *AppointmentHandler) ListAppointmentsHandler(c *gin.Context) {
	filter := appointment.ListFilter{
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
		DoctorName: c.Query("doctorName"),
		Status:     c.Query("status"),
		Page:       intQuery(c, "page", 1),
		Limit:      intQuery(c, "limit", appointment.DefaultPageSize),
	}

	result, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAppointmentByIDHandler handles GET /api/appointments/:id.
func (h *AppointmentHandler) GetAppointmentByIDHandler(c *gin.Context) {
	appt, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// UpdateAppointmentHandler handles PUT /api/appointments/:id.
func (h *AppointmentHandler) UpdateAppointmentHandler(c *gin.Context) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	appt, err := h.Service.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// DeleteAppointmentHandler handles DELETE /api/appointments/:id.
func (h *AppointmentHandler) DeleteAppointmentHandler(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "appointment deleted successfully"})
}

// CheckConflictsHandler handles GET /api/appointments/conflicts/check.
func (h *AppointmentHandler) CheckConflictsHandler(c *gin.Context) {
	query := appointment.ConflictQuery{
		DoctorName: c.Query("doctorName"),
		Date:       c.Query("date"),
		StartTime:  c.Query("startTime"),
		EndTime:    c.Query("endTime"),
		ExcludeID:  c.Query("excludeId"),
	}

	conflicts, err := h.Service.CheckConflicts(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conflicts)
}

// respondError converts domain errors into HTTP status codes. Anything
// unrecognized is a storage or programming failure: logged server-side,
// generic message to the client.
func respondError(c *gin.Context, err error) {
	var vErr *appointment.ValidationError
	var cErr *appointment.ConflictError
	var nfErr *appointment.NotFoundError
	var idErr *appointment.InvalidIDError

	switch {
	case errors.As(err, &idErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid appointment id"})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": vErr.Message})
	case errors.As(err, &cErr):
		c.JSON(http.StatusConflict, gin.H{"message": cErr.Message, "conflicts": cErr.Conflicts})
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, gin.H{"message": "appointment not found"})
	default:
		utils.GetLogger().Error("appointment request failed",
			zap.String("path", c.FullPath()),
			zap.String("requestID", c.GetString("requestID")),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
