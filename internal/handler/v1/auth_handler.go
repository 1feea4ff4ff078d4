package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/patient"
	"github.com/medisched/medisched-api/internal/service"
)

type AuthHandler struct {
	authSvc *service.AuthService
	regSvc  *service.RegistrationService
	log     *zap.Logger
}

func NewAuthHandler(authSvc *service.AuthService, regSvc *service.RegistrationService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, regSvc: regSvc, log: log}
}

type loginRequest struct {
	EmailID  string `json:"email_id" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.authSvc.Login(c.Request.Context(), req.EmailID, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, pair)
}

type signupRequest struct {
	Name            string  `json:"name" binding:"required"`
	Username        string  `json:"username" binding:"required"`
	Password        string  `json:"password" binding:"required"`
	ConfirmPassword string  `json:"confirm_password" binding:"required"`
	EmailID         string  `json:"email_id" binding:"required,email"`
	MobileNumber    string  `json:"mobile_number" binding:"required"`
	Gender          string  `json:"gender" binding:"required"`
	DOB             string  `json:"dob" binding:"required"`
	BloodGroup      string  `json:"blood_group" binding:"required"`
	Height          float64 `json:"height" binding:"required"`
	Weight          float64 `json:"weight" binding:"required"`
	MedicalHistory  string  `json:"medical_history"`
	Allergies       string  `json:"allergies"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}

	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		respondServiceError(c, &service.FormatError{Field: "dob", Reason: "must be a date in YYYY-MM-DD format"})
		return
	}

	cmd := &patient.CreatePatientCommand{
		Username:        req.Username,
		Email:           req.EmailID,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Name:            req.Name,
		Gender:          domain.Gender(req.Gender),
		HeightCm:        req.Height,
		WeightKg:        req.Weight,
		DateOfBirth:     dob,
		MobileNumber:    req.MobileNumber,
		BloodGroup:      patient.BloodGroup(req.BloodGroup),
		Allergies:       req.Allergies,
		MedicalHistory:  req.MedicalHistory,
	}

	p, err := h.regSvc.SignupPatient(c.Request.Context(), cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, pair)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.authSvc.ChangePassword(c.Request.Context(), claims.AccountID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse[any]{Message: "password updated"})
}
