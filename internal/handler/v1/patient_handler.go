package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/patient"
	"github.com/medisched/medisched-api/internal/service"
)

type PatientHandler struct {
	patientSvc *service.PatientService
	log        *zap.Logger
}

func NewPatientHandler(patientSvc *service.PatientService, log *zap.Logger) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc, log: log}
}

func (h *PatientHandler) GetProfile(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	p, err := h.patientSvc.GetOwnProfile(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

// updateProfileRequest carries only the fields present in the request body;
// absent fields leave the stored value untouched.
type updateProfileRequest struct {
	Name           *string  `json:"name"`
	Gender         *string  `json:"gender"`
	Height         *float64 `json:"height"`
	Weight         *float64 `json:"weight"`
	DOB            *string  `json:"dob"`
	MobileNumber   *string  `json:"mobile_number"`
	BloodGroup     *string  `json:"blood_group"`
	Allergies      *string  `json:"allergies"`
	MedicalHistory *string  `json:"medical_history"`
}

func (h *PatientHandler) UpdateProfile(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &patient.UpdatePatientCommand{
		Name:           req.Name,
		HeightCm:       req.Height,
		WeightKg:       req.Weight,
		MobileNumber:   req.MobileNumber,
		Allergies:      req.Allergies,
		MedicalHistory: req.MedicalHistory,
	}
	if req.Gender != nil {
		g := domain.Gender(*req.Gender)
		cmd.Gender = &g
	}
	if req.BloodGroup != nil {
		bg := patient.BloodGroup(*req.BloodGroup)
		cmd.BloodGroup = &bg
	}
	if req.DOB != nil {
		dob, err := time.Parse("2006-01-02", *req.DOB)
		if err != nil {
			respondServiceError(c, &service.FormatError{Field: "dob", Reason: "must be a date in YYYY-MM-DD format"})
			return
		}
		cmd.DateOfBirth = &dob
	}

	p, err := h.patientSvc.UpdateOwnProfile(c.Request.Context(), claims, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}
