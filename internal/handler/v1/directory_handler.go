package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/department"
	"github.com/medisched/medisched-api/internal/domain/doctor"
	"github.com/medisched/medisched-api/internal/service"
)

// DirectoryHandler covers the admin-facing directory surface: departments,
// doctor onboarding, and the hospital-wide patient list.
type DirectoryHandler struct {
	dirSvc *service.DirectoryService
	log    *zap.Logger
}

func NewDirectoryHandler(dirSvc *service.DirectoryService, log *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{dirSvc: dirSvc, log: log}
}

type createDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *DirectoryHandler) CreateDepartment(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req createDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	dep, err := h.dirSvc.CreateDepartment(c.Request.Context(), claims, &department.CreateDepartmentCommand{
		Name:        req.Name,
		Description: req.Description,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, dep)
}

func (h *DirectoryHandler) ListDepartments(c *gin.Context) {
	deps, err := h.dirSvc.ListDepartments(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, deps)
}

type createDoctorRequest struct {
	Username        string `json:"username" binding:"required"`
	EmailID         string `json:"email_id" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	Name            string `json:"name" binding:"required"`
	DepartmentID    string `json:"department_id" binding:"required"`
	Gender          string `json:"gender" binding:"required"`
	DOB             string `json:"dob" binding:"required"`
	MobileNumber    string `json:"mobile_number" binding:"required"`
	Qualification   string `json:"qualification" binding:"required"`
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experience_years"`
}

func (h *DirectoryHandler) CreateDoctor(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req createDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		respondServiceError(c, &service.FormatError{Field: "department_id", Reason: "must be a valid UUID"})
		return
	}

	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		respondServiceError(c, &service.FormatError{Field: "dob", Reason: "must be a date in YYYY-MM-DD format"})
		return
	}

	doc, err := h.dirSvc.CreateDoctor(c.Request.Context(), claims, &doctor.CreateDoctorCommand{
		Username:        req.Username,
		Email:           req.EmailID,
		Password:        req.Password,
		Name:            req.Name,
		DepartmentID:    departmentID,
		Gender:          domain.Gender(req.Gender),
		DateOfBirth:     dob,
		MobileNumber:    req.MobileNumber,
		Qualification:   req.Qualification,
		Specialization:  req.Specialization,
		ExperienceYears: req.ExperienceYears,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, doc)
}

func (h *DirectoryHandler) ListDoctors(c *gin.Context) {
	q := &doctor.ListDoctorsQuery{}

	if raw := c.Query("department_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondServiceError(c, &service.FormatError{Field: "department_id", Reason: "must be a valid UUID"})
			return
		}
		q.DepartmentID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := doctor.Status(raw)
		if !status.IsValid() {
			respondServiceError(c, doctor.ErrInvalidStatus)
			return
		}
		q.Status = &status
	}

	docs, err := h.dirSvc.ListDoctors(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, docs)
}

func (h *DirectoryHandler) GetOwnDoctorProfile(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	doc, err := h.dirSvc.GetOwnDoctorProfile(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, doc)
}

// updateDoctorProfileRequest carries only the fields present in the request
// body; absent fields leave the stored value untouched. Status and department
// are deliberately not bindable here.
type updateDoctorProfileRequest struct {
	Name            *string `json:"name"`
	Gender          *string `json:"gender"`
	DOB             *string `json:"dob"`
	MobileNumber    *string `json:"mobile_number"`
	Qualification   *string `json:"qualification"`
	Specialization  *string `json:"specialization"`
	ExperienceYears *int    `json:"experience_years"`
}

func (h *DirectoryHandler) UpdateOwnDoctorProfile(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req updateDoctorProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &doctor.UpdateDoctorCommand{
		Name:            req.Name,
		MobileNumber:    req.MobileNumber,
		Qualification:   req.Qualification,
		Specialization:  req.Specialization,
		ExperienceYears: req.ExperienceYears,
	}
	if req.Gender != nil {
		g := domain.Gender(*req.Gender)
		cmd.Gender = &g
	}
	if req.DOB != nil {
		dob, err := time.Parse("2006-01-02", *req.DOB)
		if err != nil {
			respondServiceError(c, &service.FormatError{Field: "dob", Reason: "must be a date in YYYY-MM-DD format"})
			return
		}
		cmd.DateOfBirth = &dob
	}

	doc, err := h.dirSvc.UpdateOwnDoctorProfile(c.Request.Context(), claims, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, doc)
}

func (h *DirectoryHandler) ListPatients(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	patients, err := h.dirSvc.ListPatients(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, patients)
}
