package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medagenda/models"
	"medagenda/services/appointment"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeService struct {
	createFn         func(ctx context.Context, in appointment.AppointmentInput) (*models.Appointment, error)
	getByIDFn        func(ctx context.Context, id string) (*models.Appointment, error)
	updateFn         func(ctx context.Context, id string, in appointment.AppointmentInput) (*models.Appointment, error)
	deleteFn         func(ctx context.Context, id string) error
	listFn           func(ctx context.Context, f appointment.ListFilter) (*appointment.ListResult, error)
	checkConflictsFn func(ctx context.Context, q appointment.ConflictQuery) ([]models.Appointment, error)
}

func (f *fakeService) Create(ctx context.Context, in appointment.AppointmentInput) (*models.Appointment, error) {
	return f.createFn(ctx, in)
}

func (f *fakeService) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeService) Update(ctx context.Context, id string, in appointment.AppointmentInput) (*models.Appointment, error) {
	return f.updateFn(ctx, id, in)
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeService) List(ctx context.Context, fl appointment.ListFilter) (*appointment.ListResult, error) {
	return f.listFn(ctx, fl)
}

func (f *fakeService) CheckConflicts(ctx context.Context, q appointment.ConflictQuery) ([]models.Appointment, error) {
	return f.checkConflictsFn(ctx, q)
}

func newTestRouter(svc appointment.AppointmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAppointmentHandler(svc)
	api := r.Group("/api/appointments")
	api.POST("", h.CreateAppointmentHandler)
	api.GET("", h.ListAppointmentsHandler)
	api.GET("/conflicts/check", h.CheckConflictsHandler)
	api.GET("/:id", h.GetAppointmentByIDHandler)
	api.PUT("/:id", h.UpdateAppointmentHandler)
	api.DELETE("/:id", h.DeleteAppointmentHandler)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateHandler_Created(t *testing.T) {
	var gotInput appointment.AppointmentInput
	svc := &fakeService{
		createFn: func(ctx context.Context, in appointment.AppointmentInput) (*models.Appointment, error) {
			gotInput = in
			return &models.Appointment{
				ID:          primitive.NewObjectID(),
				PatientName: in.PatientName,
				DoctorName:  in.DoctorName,
				Status:      models.StatusScheduled,
			}, nil
		},
	}
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodPost, "/api/appointments",
		`{"patientName":"Ana","doctorName":"Dr. House","date":"2026-06-16","startTime":"10:00","endTime":"11:00","reason":"checkup"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", w.Code, w.Body.String())
	}
	if gotInput.DoctorName != "Dr. House" || gotInput.StartTime != "10:00" {
		t.Fatalf("input not forwarded: %+v", gotInput)
	}
	var resp models.Appointment
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response decode: %v", err)
	}
	if resp.ID.IsZero() {
		t.Fatalf("response must include the assigned id")
	}
}

func TestCreateHandler_ValidationError(t *testing.T) {
	svc := &fakeService{
		createFn: func(ctx context.Context, in appointment.AppointmentInput) (*models.Appointment, error) {
			return nil, &appointment.ValidationError{Message: "all required fields must be provided"}
		},
	}
	w := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/appointments", `{}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateHandler_ConflictCarriesRecords(t *testing.T) {
	conflicting := models.Appointment{ID: primitive.NewObjectID(), PatientName: "Bruno", StartTime: "10:30", EndTime: "11:30"}
	svc := &fakeService{
		createFn: func(ctx context.Context, in appointment.AppointmentInput) (*models.Appointment, error) {
			return nil, &appointment.ConflictError{Message: "schedule conflict", Conflicts: []models.Appointment{conflicting}}
		},
	}
	w := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/appointments",
		`{"patientName":"Ana","doctorName":"Dr. House","date":"2026-06-16","startTime":"10:00","endTime":"11:00","reason":"checkup"}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	var resp struct {
		Message   string               `json:"message"`
		Conflicts []models.Appointment `json:"conflicts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response decode: %v", err)
	}
	if len(resp.Conflicts) != 1 || resp.Conflicts[0].PatientName != "Bruno" {
		t.Fatalf("conflicts = %+v, want the colliding record", resp.Conflicts)
	}
}

func TestCreateHandler_MalformedBody(t *testing.T) {
	svc := &fakeService{
		createFn: func(ctx context.Context, in appointment.AppointmentInput) (*models.Appointment, error) {
			t.Fatal("service must not be called for malformed bodies")
			return nil, nil
		},
	}
	w := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/appointments", `{"patientName":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid id", &appointment.InvalidIDError{ID: "zz"}, http.StatusBadRequest},
		{"not found", &appointment.NotFoundError{ID: "x"}, http.StatusNotFound},
		{"storage failure", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{
				getByIDFn: func(ctx context.Context, id string) (*models.Appointment, error) {
					return nil, tt.err
				},
			}
			w := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/appointments/abc", "")
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusInternalServerError &&
				strings.Contains(w.Body.String(), "connection reset") {
				t.Fatalf("internal detail leaked to client: %s", w.Body.String())
			}
		})
	}
}

func TestListHandler_Envelope(t *testing.T) {
	var gotFilter appointment.ListFilter
	svc := &fakeService{
		listFn: func(ctx context.Context, f appointment.ListFilter) (*appointment.ListResult, error) {
			gotFilter = f
			return &appointment.ListResult{
				Data:        []models.Appointment{{PatientName: "Ana"}},
				CurrentPage: 2,
				TotalPages:  3,
				TotalItems:  11,
			}, nil
		},
	}
	w := doRequest(t, newTestRouter(svc), http.MethodGet,
		"/api/appointments?startDate=2026-06-01&endDate=2026-06-30&doctorName=house&status=scheduled&page=2&limit=5", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotFilter.Page != 2 || gotFilter.Limit != 5 || gotFilter.DoctorName != "house" || gotFilter.Status != "scheduled" {
		t.Fatalf("filter not forwarded: %+v", gotFilter)
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response decode: %v", err)
	}
	for _, key := range []string{"data", "currentPage", "totalPages", "totalItems"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("response missing %q: %s", key, w.Body.String())
		}
	}
}

func TestListHandler_BadPageFallsBack(t *testing.T) {
	svc := &fakeService{
		listFn: func(ctx context.Context, f appointment.ListFilter) (*appointment.ListResult, error) {
			if f.Page != 1 || f.Limit != appointment.DefaultPageSize {
				t.Fatalf("page/limit = %d/%d, want defaults", f.Page, f.Limit)
			}
			return &appointment.ListResult{Data: []models.Appointment{}, CurrentPage: 1}, nil
		},
	}
	w := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/appointments?page=zero&limit=-3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestDeleteHandler(t *testing.T) {
	svc := &fakeService{
		deleteFn: func(ctx context.Context, id string) error {
			if id != "64a1f0c2e4b0a1b2c3d4e5f6" {
				return &appointment.NotFoundError{ID: id}
			}
			return nil
		},
	}
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodDelete, "/api/appointments/64a1f0c2e4b0a1b2c3d4e5f6", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "message") {
		t.Fatalf("delete must return a confirmation message, got %s", w.Body.String())
	}

	w = doRequest(t, r, http.MethodDelete, "/api/appointments/64a1f0c2e4b0a1b2c3d4e5f7", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestUpdateHandler_OK(t *testing.T) {
	svc := &fakeService{
		updateFn: func(ctx context.Context, id string, in appointment.AppointmentInput) (*models.Appointment, error) {
			return &models.Appointment{PatientName: in.PatientName, Status: in.Status}, nil
		},
	}
	w := doRequest(t, newTestRouter(svc), http.MethodPut, "/api/appointments/64a1f0c2e4b0a1b2c3d4e5f6",
		`{"patientName":"Ana","doctorName":"Dr. House","date":"2026-06-16","startTime":"12:00","endTime":"13:00","reason":"checkup","status":"scheduled"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
}

func TestCheckConflictsHandler(t *testing.T) {
	svc := &fakeService{
		checkConflictsFn: func(ctx context.Context, q appointment.ConflictQuery) ([]models.Appointment, error) {
			if q.DoctorName == "" {
				return nil, &appointment.ValidationError{Message: "missing parameters for conflict check"}
			}
			if q.ExcludeID != "abc123" {
				t.Fatalf("excludeId not forwarded: %q", q.ExcludeID)
			}
			return []models.Appointment{}, nil
		},
	}
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodGet,
		"/api/appointments/conflicts/check?doctorName=Dr.%20House&date=2026-06-16&startTime=10:00&endTime=11:00&excludeId=abc123", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Fatalf("empty conflict preview must serialize as [], got %s", body)
	}

	w = doRequest(t, r, http.MethodGet, "/api/appointments/conflicts/check", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
