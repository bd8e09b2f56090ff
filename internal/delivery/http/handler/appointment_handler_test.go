package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/usecase"
	"marcha-api/pkg/response"
	"marcha-api/pkg/validator"

	"github.com/gorilla/mux"
)

// stubAppointmentUsecase returns canned results and records what it was given
type stubAppointmentUsecase struct {
	createReq  *dto.CreateAppointmentRequest
	confirmID  int64
	confirmReq *dto.ConfirmAppointmentRequest
	err        error
}

func (s *stubAppointmentUsecase) CreateAppointment(_ context.Context, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error) {
	s.createReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CreateAppointmentResponse{ID: 1, IDs: []int64{1, 2}, Count: 2}, nil
}

func (s *stubAppointmentUsecase) ConfirmAppointment(_ context.Context, id int64, req *dto.ConfirmAppointmentRequest) (*dto.ConfirmAppointmentResponse, error) {
	s.confirmID = id
	s.confirmReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ConfirmAppointmentResponse{ID: id, Status: "realizado", Paid: true, ScoreAwarded: true}, nil
}

func (s *stubAppointmentUsecase) GetAppointment(_ context.Context, id int64) (*dto.AppointmentResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AppointmentResponse{ID: id, Title: "Pilates"}, nil
}

func (s *stubAppointmentUsecase) ListAppointments(_ context.Context, _ *dto.AppointmentFilterRequest) (*dto.AppointmentListResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{{ID: 1}, {ID: 2}}, Total: 2}, nil
}

func (s *stubAppointmentUsecase) UpdateAppointment(_ context.Context, id int64, _ *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AppointmentResponse{ID: id}, nil
}

func (s *stubAppointmentUsecase) DeleteAppointment(_ context.Context, _ int64) error {
	return s.err
}

func newAppointmentRouter(uc usecase.AppointmentUsecase) *mux.Router {
	h := NewAppointmentHandler(uc, validator.NewValidator())

	r := mux.NewRouter()
	r.HandleFunc("/appointments", h.CreateAppointment).Methods(http.MethodPost)
	r.HandleFunc("/appointments", h.ListAppointments).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}", h.GetAppointment).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}/confirm", h.ConfirmAppointment).Methods(http.MethodPost)
	return r
}

func serve(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp response.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, resp
}

const validCreateBody = `{
	"patient_id": 7,
	"title": "Pilates",
	"appointment_date": "2025-01-13",
	"start_time": "08:00",
	"price": 50,
	"recurrence": "continuous"
}`

func TestCreateAppointmentHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCalled bool
	}{
		{"created", validCreateBody, nil, http.StatusCreated, true},
		{"malformed json", `{"patient_id":`, nil, http.StatusBadRequest, false},
		{"missing title", `{"patient_id":7,"appointment_date":"2025-01-13","start_time":"08:00"}`, nil, http.StatusBadRequest, false},
		{"bad date", `{"patient_id":7,"title":"x","appointment_date":"13/01/2025","start_time":"08:00"}`, nil, http.StatusBadRequest, false},
		{"bad recurrence", `{"patient_id":7,"title":"x","appointment_date":"2025-01-13","start_time":"08:00","recurrence":"daily"}`, nil, http.StatusBadRequest, false},
		{"unknown patient", validCreateBody, usecase.ErrPatientNotFound, http.StatusNotFound, true},
		{"store failure", validCreateBody, errors.New("connection reset"), http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubAppointmentUsecase{err: tt.err}
			rec, resp := serve(t, newAppointmentRouter(uc), http.MethodPost, "/appointments", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called := uc.createReq != nil; called != tt.wantCalled {
				t.Errorf("usecase called = %t, want %t", called, tt.wantCalled)
			}
			if resp.Success != (tt.wantStatus == http.StatusCreated) {
				t.Errorf("success = %t", resp.Success)
			}
		})
	}
}

func TestCreateAppointmentHandlerDecodesPrice(t *testing.T) {
	uc := &stubAppointmentUsecase{}
	serve(t, newAppointmentRouter(uc), http.MethodPost, "/appointments", validCreateBody)

	if uc.createReq == nil || uc.createReq.Price == nil {
		t.Fatal("price was not decoded")
	}
	if uc.createReq.Price.String() != "50" {
		t.Errorf("price = %s, want 50", uc.createReq.Price)
	}
}

func TestConfirmAppointmentHandler(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		err        error
		wantStatus int
	}{
		{"completed", "/appointments/5/confirm", `{"status":"completed","amount":80,"payment_method":"pix"}`, nil, http.StatusOK},
		{"no show", "/appointments/5/confirm", `{"status":"no_show"}`, nil, http.StatusOK},
		{"invalid id", "/appointments/abc/confirm", `{"status":"completed"}`, nil, http.StatusBadRequest},
		{"zero id", "/appointments/0/confirm", `{"status":"completed"}`, nil, http.StatusBadRequest},
		{"unknown status", "/appointments/5/confirm", `{"status":"cancelled"}`, nil, http.StatusBadRequest},
		{"not found", "/appointments/5/confirm", `{"status":"completed"}`, usecase.ErrAppointmentNotFound, http.StatusNotFound},
		{"already confirmed", "/appointments/5/confirm", `{"status":"completed"}`, usecase.ErrAppointmentAlreadyFinalized, http.StatusConflict},
		{"rolled back", "/appointments/5/confirm", `{"status":"completed"}`, usecase.ErrConfirmFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubAppointmentUsecase{err: tt.err}
			rec, resp := serve(t, newAppointmentRouter(uc), http.MethodPost, tt.target, tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%+v)", rec.Code, tt.wantStatus, resp)
			}
			if tt.wantStatus == http.StatusOK && uc.confirmID != 5 {
				t.Errorf("confirmed id = %d, want 5", uc.confirmID)
			}
		})
	}
}

func TestConfirmFailureHidesCause(t *testing.T) {
	uc := &stubAppointmentUsecase{err: usecase.ErrConfirmFailed}
	_, resp := serve(t, newAppointmentRouter(uc), http.MethodPost, "/appointments/5/confirm", `{"status":"completed"}`)

	if resp.Message != "Failed to confirm appointment" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestListAppointmentsHandler(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"all", "/appointments", http.StatusOK},
		{"by date", "/appointments?date=2025-01-13", http.StatusOK},
		{"bad date", "/appointments?date=yesterday", http.StatusBadRequest},
		{"bad patient", "/appointments?patient_id=x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := serve(t, newAppointmentRouter(&stubAppointmentUsecase{}), http.MethodGet, tt.target, "")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && (resp.Meta == nil || resp.Meta.Total != 2) {
				t.Errorf("meta = %+v, want total 2", resp.Meta)
			}
		})
	}
}

func TestWriteErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{usecase.ErrPatientNotFound, http.StatusNotFound},
		{usecase.ErrHouseNameExists, http.StatusConflict},
		{usecase.ErrRuleInactive, http.StatusBadRequest},
		{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{usecase.ErrCreateAppointmentFailed, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err, "fallback")
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
