package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/appointment"
	"github.com/medisched/medisched-api/internal/domain/availability"
	"github.com/medisched/medisched-api/internal/domain/department"
	"github.com/medisched/medisched-api/internal/domain/doctor"
	"github.com/medisched/medisched-api/internal/domain/patient"
	"github.com/medisched/medisched-api/pkg/metrics"
)

// testCollector builds a metrics set on a fresh registry so parallel tests
// never collide on metric registration.
func testCollector() *metrics.Collector {
	return metrics.NewCollector("test", prometheus.NewRegistry())
}

// -- In-memory fakes --

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (f *fakeAccountRepo) add(acc *domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if acc.ID == uuid.Nil {
		acc.ID = uuid.New()
	}
	f.accounts[acc.ID] = acc
}

func (f *fakeAccountRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.accounts)
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acc := range f.accounts {
		if acc.Email == strings.ToLower(email) {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acc, nil
}

func (f *fakeAccountRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acc := range f.accounts {
		if acc.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccountRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acc := range f.accounts {
		if acc.Email == strings.ToLower(email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccountRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.PasswordHash = hash
	return nil
}

func (f *fakeAccountRepo) RecordLogin(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if acc, ok := f.accounts[id]; ok {
		now := time.Now()
		acc.LastLoginAt = &now
	}
	return nil
}

func (f *fakeAccountRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, acc := range f.accounts {
		if acc.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeRegistrar struct {
	accounts *fakeAccountRepo
	patients *fakePatientRepo
	doctors  *fakeDoctorRepo
	failWith error
}

func (f *fakeRegistrar) CreatePatientWithAccount(_ context.Context, acc *domain.Account, p *patient.Patient) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.accounts.add(acc)
	p.AccountID = acc.ID
	f.patients.add(p)
	acc.PatientID = &p.ID
	return nil
}

func (f *fakeRegistrar) CreateDoctorWithAccount(_ context.Context, acc *domain.Account, d *doctor.Doctor) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.accounts.add(acc)
	d.AccountID = acc.ID
	f.doctors.add(d)
	acc.DoctorID = &d.ID
	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*patient.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*patient.Patient)}
}

func (f *fakePatientRepo) add(p *patient.Patient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.patients[p.ID] = p
}

func (f *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return p, nil
}

func (f *fakePatientRepo) GetByAccountID(_ context.Context, accountID uuid.UUID) (*patient.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.patients {
		if p.AccountID == accountID {
			return p, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (f *fakePatientRepo) Update(_ context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	if cmd.Name != nil {
		p.Name = *cmd.Name
	}
	if cmd.Gender != nil {
		p.Gender = *cmd.Gender
	}
	if cmd.HeightCm != nil {
		p.HeightCm = *cmd.HeightCm
	}
	if cmd.WeightKg != nil {
		p.WeightKg = *cmd.WeightKg
	}
	if cmd.DateOfBirth != nil {
		p.DateOfBirth = *cmd.DateOfBirth
	}
	if cmd.MobileNumber != nil {
		p.MobileNumber = *cmd.MobileNumber
	}
	if cmd.BloodGroup != nil {
		p.BloodGroup = *cmd.BloodGroup
	}
	if cmd.Allergies != nil {
		p.Allergies = *cmd.Allergies
	}
	if cmd.MedicalHistory != nil {
		p.MedicalHistory = *cmd.MedicalHistory
	}
	return p, nil
}

func (f *fakePatientRepo) List(_ context.Context) ([]*patient.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*patient.Patient
	for _, p := range f.patients {
		result = append(result, p)
	}
	return result, nil
}

func (f *fakePatientRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.patients)), nil
}

func (f *fakePatientRepo) ExistsByMobile(_ context.Context, mobile string, excludeID *uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.patients {
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		if p.MobileNumber == mobile {
			return true, nil
		}
	}
	return false, nil
}

type fakeDoctorRepo struct {
	mu      sync.Mutex
	doctors map[uuid.UUID]*doctor.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*doctor.Doctor)}
}

func (f *fakeDoctorRepo) add(d *doctor.Doctor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	f.doctors[d.ID] = d
}

func (f *fakeDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.doctors[id]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	return d, nil
}

func (f *fakeDoctorRepo) GetByAccountID(_ context.Context, accountID uuid.UUID) (*doctor.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.doctors {
		if d.AccountID == accountID {
			return d, nil
		}
	}
	return nil, doctor.ErrDoctorNotFound
}

func (f *fakeDoctorRepo) Update(_ context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.doctors[id]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	if cmd.Name != nil {
		d.Name = *cmd.Name
	}
	if cmd.Gender != nil {
		d.Gender = *cmd.Gender
	}
	if cmd.DateOfBirth != nil {
		d.DateOfBirth = *cmd.DateOfBirth
	}
	if cmd.MobileNumber != nil {
		d.MobileNumber = *cmd.MobileNumber
	}
	if cmd.Qualification != nil {
		d.Qualification = *cmd.Qualification
	}
	if cmd.Specialization != nil {
		d.Specialization = *cmd.Specialization
	}
	if cmd.ExperienceYears != nil {
		d.ExperienceYears = *cmd.ExperienceYears
	}
	if cmd.Status != nil {
		d.Status = *cmd.Status
	}
	if cmd.DepartmentID != nil {
		d.DepartmentID = *cmd.DepartmentID
	}
	return d, nil
}

func (f *fakeDoctorRepo) List(_ context.Context, q *doctor.ListDoctorsQuery) ([]*doctor.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*doctor.Doctor
	for _, d := range f.doctors {
		if q.DepartmentID != nil && d.DepartmentID != *q.DepartmentID {
			continue
		}
		if q.Status != nil && d.Status != *q.Status {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

func (f *fakeDoctorRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.doctors)), nil
}

func (f *fakeDoctorRepo) ExistsByMobile(_ context.Context, mobile string, excludeID *uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.doctors {
		if excludeID != nil && d.ID == *excludeID {
			continue
		}
		if d.MobileNumber == mobile {
			return true, nil
		}
	}
	return false, nil
}

type fakeDepartmentRepo struct {
	mu          sync.Mutex
	departments map[uuid.UUID]*department.Department
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{departments: make(map[uuid.UUID]*department.Department)}
}

func (f *fakeDepartmentRepo) Create(_ context.Context, d *department.Department) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.departments {
		if existing.Name == d.Name {
			return department.ErrDepartmentExists
		}
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	f.departments[d.ID] = d
	return nil
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id uuid.UUID) (*department.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.departments[id]
	if !ok {
		return nil, department.ErrDepartmentNotFound
	}
	return d, nil
}

func (f *fakeDepartmentRepo) GetByName(_ context.Context, name string) (*department.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.departments {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, department.ErrDepartmentNotFound
}

func (f *fakeDepartmentRepo) List(_ context.Context) ([]*department.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*department.Department
	for _, d := range f.departments {
		result = append(result, d)
	}
	return result, nil
}

func (f *fakeDepartmentRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.departments)), nil
}

type fakeAvailabilityRepo struct {
	mu            sync.Mutex
	availabilites map[uuid.UUID]*availability.Availability
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{availabilites: make(map[uuid.UUID]*availability.Availability)}
}

func (f *fakeAvailabilityRepo) Create(_ context.Context, a *availability.Availability) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.availabilites {
		if existing.DoctorID == a.DoctorID && sameDate(existing.Date, a.Date) {
			return availability.ErrAvailabilityExists
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.availabilites[a.ID] = a
	return nil
}

func (f *fakeAvailabilityRepo) GetByID(_ context.Context, id uuid.UUID) (*availability.Availability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.availabilites[id]
	if !ok {
		return nil, availability.ErrAvailabilityNotFound
	}
	return a, nil
}

func (f *fakeAvailabilityRepo) GetByDoctorAndDate(_ context.Context, doctorID uuid.UUID, date time.Time) (*availability.Availability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.availabilites {
		if a.DoctorID == doctorID && sameDate(a.Date, date) {
			return a, nil
		}
	}
	return nil, availability.ErrAvailabilityNotFound
}

func (f *fakeAvailabilityRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, from time.Time) ([]*availability.Availability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*availability.Availability
	for _, a := range f.availabilites {
		if a.DoctorID == doctorID && !a.Date.Before(from) {
			result = append(result, a)
		}
	}
	return result, nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// fakeAppointmentRepo mirrors the transactional booking semantics: the mutex
// stands in for the row lock, and capacity is one non-canceled appointment
// per (availability, session).
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*appointment.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*appointment.Appointment)}
}

func (f *fakeAppointmentRepo) Book(_ context.Context, a *appointment.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.AvailabilityID != nil {
		for _, existing := range f.appointments {
			if existing.Status == appointment.StatusCanceled {
				continue
			}
			if existing.AvailabilityID != nil && *existing.AvailabilityID == *a.AvailabilityID &&
				existing.Session == a.Session {
				return appointment.ErrSessionFullyBooked
			}
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.appointments[a.ID] = a
	return nil
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return a, nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*appointment.Appointment
	for _, a := range f.appointments {
		if q.PatientID != nil && a.PatientID != *q.PatientID {
			continue
		}
		if q.DoctorID != nil && a.DoctorID != *q.DoctorID {
			continue
		}
		if q.Status != nil && a.Status != *q.Status {
			continue
		}
		result = append(result, a)
	}
	return &appointment.PagedAppointments{
		Appointments: result,
		TotalCount:   int64(len(result)),
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   1,
	}, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, a *appointment.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.appointments[a.ID]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	f.appointments[a.ID] = a
	return nil
}

func (f *fakeAppointmentRepo) CountByStatus(_ context.Context, status appointment.Status) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.appointments {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeAppointmentRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.appointments)), nil
}

type fakeTreatmentRepo struct {
	mu         sync.Mutex
	treatments map[uuid.UUID]*appointment.Treatment
	appts      *fakeAppointmentRepo
}

func newFakeTreatmentRepo(appts *fakeAppointmentRepo) *fakeTreatmentRepo {
	return &fakeTreatmentRepo{treatments: make(map[uuid.UUID]*appointment.Treatment), appts: appts}
}

func (f *fakeTreatmentRepo) CreateAndComplete(_ context.Context, t *appointment.Treatment, a *appointment.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.treatments[t.AppointmentID]; exists {
		return appointment.ErrTreatmentExists
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	f.treatments[t.AppointmentID] = t

	f.appts.mu.Lock()
	if stored, ok := f.appts.appointments[a.ID]; ok {
		stored.Status = appointment.StatusCompleted
	}
	f.appts.mu.Unlock()
	return nil
}

func (f *fakeTreatmentRepo) GetByAppointmentID(_ context.Context, appointmentID uuid.UUID) (*appointment.Treatment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.treatments[appointmentID]
	if !ok {
		return nil, appointment.ErrTreatmentNotFound
	}
	return t, nil
}
