package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medisched/medisched-api/internal/domain/availability"
	"github.com/medisched/medisched-api/internal/service"
)

type AvailabilityHandler struct {
	availSvc *service.AvailabilityService
	log      *zap.Logger
}

func NewAvailabilityHandler(availSvc *service.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{availSvc: availSvc, log: log}
}

type declareAvailabilityRequest struct {
	DoctorID           string  `json:"doctor_id"`
	Date               string  `json:"date" binding:"required"`
	IsAvailableMorning bool    `json:"is_available_morning"`
	IsAvailableEvening bool    `json:"is_available_evening"`
	MorningStart       *string `json:"morning_start"`
	MorningEnd         *string `json:"morning_end"`
	EveningStart       *string `json:"evening_start"`
	EveningEnd         *string `json:"evening_end"`
}

func (h *AvailabilityHandler) Declare(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req declareAvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondServiceError(c, &service.FormatError{Field: "date", Reason: "must be a date in YYYY-MM-DD format"})
		return
	}

	cmd := &availability.DeclareAvailabilityCommand{
		Date:               date,
		MorningStart:       req.MorningStart,
		MorningEnd:         req.MorningEnd,
		EveningStart:       req.EveningStart,
		EveningEnd:         req.EveningEnd,
		IsAvailableMorning: req.IsAvailableMorning,
		IsAvailableEvening: req.IsAvailableEvening,
	}

	// Doctors declare for themselves; admins name the doctor explicitly.
	if req.DoctorID != "" {
		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			respondServiceError(c, &service.FormatError{Field: "doctor_id", Reason: "must be a valid UUID"})
			return
		}
		cmd.DoctorID = doctorID
	} else if claims.DoctorID != nil {
		cmd.DoctorID = *claims.DoctorID
	}

	av, err := h.availSvc.Declare(c.Request.Context(), claims, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, av)
}

func (h *AvailabilityHandler) ListForDoctor(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	from := time.Now().Truncate(24 * time.Hour)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondServiceError(c, &service.FormatError{Field: "from", Reason: "must be a date in YYYY-MM-DD format"})
			return
		}
		from = parsed
	}

	avs, err := h.availSvc.ListForDoctor(c.Request.Context(), doctorID, from)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, avs)
}
