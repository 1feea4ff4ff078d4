package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/appointment"
	"github.com/medisched/medisched-api/internal/domain/availability"
	"github.com/medisched/medisched-api/internal/domain/department"
	"github.com/medisched/medisched-api/internal/domain/doctor"
	"github.com/medisched/medisched-api/internal/domain/patient"
	"github.com/medisched/medisched-api/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	var fmtErr *service.FormatError
	if errors.As(err, &fmtErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid field value",
			Details: map[string]string{fmtErr.Field: fmtErr.Reason},
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, department.ErrDepartmentNotFound),
		errors.Is(err, availability.ErrAvailabilityNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, appointment.ErrTreatmentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, patient.ErrMobileNumberTaken),
		errors.Is(err, doctor.ErrMobileNumberTaken),
		errors.Is(err, department.ErrDepartmentExists),
		errors.Is(err, availability.ErrAvailabilityExists),
		errors.Is(err, appointment.ErrTreatmentExists),
		errors.Is(err, appointment.ErrSessionFullyBooked):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appointment.ErrSessionUnavailable):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})

	case errors.Is(err, department.ErrNameRequired),
		errors.Is(err, doctor.ErrInvalidExperience),
		errors.Is(err, doctor.ErrInvalidStatus),
		errors.Is(err, patient.ErrInvalidBloodGroup),
		errors.Is(err, patient.ErrInvalidMeasurement),
		errors.Is(err, patient.ErrInvalidDateOfBirth),
		errors.Is(err, availability.ErrWindowBoundsRequired),
		errors.Is(err, availability.ErrInvalidTimeOfDay),
		errors.Is(err, availability.ErrWindowOrder),
		errors.Is(err, availability.ErrNoSessionEnabled),
		errors.Is(err, availability.ErrInvalidSession),
		errors.Is(err, appointment.ErrInvalidMode),
		errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrCancelWindowClosed),
		errors.Is(err, appointment.ErrDiagnosisRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, patient.ErrPatientBlacklisted):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "account is inactive"})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}
