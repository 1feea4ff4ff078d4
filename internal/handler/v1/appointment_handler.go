package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medisched/medisched-api/internal/domain/appointment"
	"github.com/medisched/medisched-api/internal/domain/availability"
	"github.com/medisched/medisched-api/internal/service"
)

type AppointmentHandler struct {
	apptSvc      *service.AppointmentService
	treatmentSvc *service.TreatmentService
	log          *zap.Logger
}

func NewAppointmentHandler(apptSvc *service.AppointmentService, treatmentSvc *service.TreatmentService, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{apptSvc: apptSvc, treatmentSvc: treatmentSvc, log: log}
}

type bookAppointmentRequest struct {
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Session   string `json:"session" binding:"required"`
	Mode      string `json:"mode" binding:"required"`
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req bookAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		respondServiceError(c, &service.FormatError{Field: "doctor_id", Reason: "must be a valid UUID"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondServiceError(c, &service.FormatError{Field: "date", Reason: "must be a date in YYYY-MM-DD format"})
		return
	}

	cmd := &appointment.BookAppointmentCommand{
		DoctorID: doctorID,
		Date:     date,
		Session:  availability.Session(req.Session),
		Mode:     appointment.Mode(req.Mode),
	}

	// Patients book for themselves; an admin names the patient explicitly.
	if req.PatientID != "" {
		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			respondServiceError(c, &service.FormatError{Field: "patient_id", Reason: "must be a valid UUID"})
			return
		}
		cmd.PatientID = patientID
	} else if claims.PatientID != nil {
		cmd.PatientID = *claims.PatientID
	}

	a, err := h.apptSvc.Book(c.Request.Context(), claims, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, a)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.apptSvc.GetAppointment(c.Request.Context(), claims, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.apptSvc.Cancel(c.Request.Context(), claims, id, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	q := &appointment.ListAppointmentsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	if raw := c.Query("status"); raw != "" {
		status := appointment.Status(raw)
		if !status.IsValid() {
			respondServiceError(c, &service.FormatError{Field: "status", Reason: "must be Booked, Canceled, or Completed"})
			return
		}
		q.Status = &status
	}
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondServiceError(c, &service.FormatError{Field: "patient_id", Reason: "must be a valid UUID"})
			return
		}
		q.PatientID = &id
	}
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondServiceError(c, &service.FormatError{Field: "doctor_id", Reason: "must be a valid UUID"})
			return
		}
		q.DoctorID = &id
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondServiceError(c, &service.FormatError{Field: "date_from", Reason: "must be a date in YYYY-MM-DD format"})
			return
		}
		q.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondServiceError(c, &service.FormatError{Field: "date_to", Reason: "must be a date in YYYY-MM-DD format"})
			return
		}
		q.DateTo = &t
	}

	page, err := h.apptSvc.ListAppointments(c.Request.Context(), claims, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}

type recordTreatmentRequest struct {
	Diagnosis     string  `json:"diagnosis" binding:"required"`
	Prescriptions string  `json:"prescriptions"`
	Notes         string  `json:"notes"`
	FollowUpDate  *string `json:"follow_up_date"`
}

func (h *AppointmentHandler) RecordTreatment(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	appointmentID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req recordTreatmentRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &appointment.RecordTreatmentCommand{
		AppointmentID: appointmentID,
		Diagnosis:     req.Diagnosis,
		Prescriptions: req.Prescriptions,
		Notes:         req.Notes,
	}
	if req.FollowUpDate != nil {
		t, err := time.Parse("2006-01-02", *req.FollowUpDate)
		if err != nil {
			respondServiceError(c, &service.FormatError{Field: "follow_up_date", Reason: "must be a date in YYYY-MM-DD format"})
			return
		}
		cmd.FollowUpDate = &t
	}

	tr, err := h.treatmentSvc.Record(c.Request.Context(), claims, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, tr)
}

func (h *AppointmentHandler) GetTreatment(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	appointmentID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	tr, err := h.treatmentSvc.GetForAppointment(c.Request.Context(), claims, appointmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, tr)
}
