package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/appointment"
	"github.com/medisched/medisched-api/internal/domain/availability"
	"github.com/medisched/medisched-api/internal/domain/doctor"
	"github.com/medisched/medisched-api/internal/domain/patient"
	"github.com/medisched/medisched-api/pkg/metrics"
)

type apptFixture struct {
	svc            *AppointmentService
	repo           *fakeAppointmentRepo
	availabilities *fakeAvailabilityRepo
	doctors        *fakeDoctorRepo
	patients       *fakePatientRepo

	collector *metrics.Collector

	doctorID     uuid.UUID
	departmentID uuid.UUID
	patientID    uuid.UUID
	date         time.Time
}

func newApptFixture(t *testing.T) *apptFixture {
	t.Helper()
	repo := newFakeAppointmentRepo()
	availabilities := newFakeAvailabilityRepo()
	doctors := newFakeDoctorRepo()
	patients := newFakePatientRepo()

	departmentID := uuid.New()
	d := &doctor.Doctor{Name: "Dr. A", Status: doctor.StatusActive, DepartmentID: departmentID}
	doctors.add(d)
	p := &patient.Patient{Name: "Jane Doe", Status: patient.StatusActive}
	patients.add(p)

	date := time.Now().AddDate(0, 0, 7)
	if err := availabilities.Create(context.Background(), &availability.Availability{
		DoctorID:           d.ID,
		Date:               date,
		IsAvailableMorning: true,
		MorningStart:       strPtr("09:00"),
		MorningEnd:         strPtr("12:00"),
	}); err != nil {
		t.Fatalf("seeding availability: %v", err)
	}

	collector := testCollector()
	svc := NewAppointmentService(repo, availabilities, doctors, patients, testAuditService(), collector, zap.NewNop())
	return &apptFixture{
		svc: svc, repo: repo, availabilities: availabilities, doctors: doctors, patients: patients, collector: collector,
		doctorID: d.ID, departmentID: departmentID, patientID: p.ID, date: date,
	}
}

func (f *apptFixture) patientClaims() *domain.Claims {
	return &domain.Claims{AccountID: uuid.New(), Role: domain.RolePatient, PatientID: &f.patientID}
}

func (f *apptFixture) bookCmd() *appointment.BookAppointmentCommand {
	return &appointment.BookAppointmentCommand{
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Date:      f.date,
		Session:   availability.SessionMorning,
		Mode:      appointment.ModeInPerson,
	}
}

func TestBookAppointment(t *testing.T) {
	f := newApptFixture(t)

	a, err := f.svc.Book(context.Background(), f.patientClaims(), f.bookCmd(), "127.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != appointment.StatusBooked {
		t.Errorf("status = %q, want Booked", a.Status)
	}
	if a.DepartmentID != f.departmentID {
		t.Error("department must be denormalized from the doctor")
	}
	if a.ScheduledAt.Hour() != 9 || a.ScheduledAt.Minute() != 0 {
		t.Errorf("scheduled at %v, want 09:00 on the booked date", a.ScheduledAt)
	}
}

func TestBookSessionNotOpen(t *testing.T) {
	f := newApptFixture(t)
	cmd := f.bookCmd()
	cmd.Session = availability.SessionEvening

	_, err := f.svc.Book(context.Background(), f.patientClaims(), cmd, "127.0.0.1")
	if !errors.Is(err, appointment.ErrSessionUnavailable) {
		t.Errorf("got %v, want ErrSessionUnavailable", err)
	}
}

func TestBookNoAvailability(t *testing.T) {
	f := newApptFixture(t)
	cmd := f.bookCmd()
	cmd.Date = f.date.AddDate(0, 0, 1)

	_, err := f.svc.Book(context.Background(), f.patientClaims(), cmd, "127.0.0.1")
	if !errors.Is(err, appointment.ErrSessionUnavailable) {
		t.Errorf("got %v, want ErrSessionUnavailable", err)
	}
}

func TestBookSessionFullyBooked(t *testing.T) {
	f := newApptFixture(t)
	caller := f.patientClaims()

	if _, err := f.svc.Book(context.Background(), caller, f.bookCmd(), "127.0.0.1"); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	_, err := f.svc.Book(context.Background(), caller, f.bookCmd(), "127.0.0.1")
	if !errors.Is(err, appointment.ErrSessionFullyBooked) {
		t.Errorf("got %v, want ErrSessionFullyBooked", err)
	}
}

// Two simultaneous bookings of one session yield exactly one success.
func TestBookConcurrent(t *testing.T) {
	f := newApptFixture(t)
	caller := f.patientClaims()

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Book(context.Background(), caller, f.bookCmd(), "127.0.0.1")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, appointment.ErrSessionFullyBooked):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Errorf("got %d successes and %d conflicts, want exactly 1 of each", successes, conflicts)
	}
}

func TestBookBlacklistedPatient(t *testing.T) {
	f := newApptFixture(t)
	p, _ := f.patients.GetByID(context.Background(), f.patientID)
	p.Status = patient.StatusBlacklisted

	_, err := f.svc.Book(context.Background(), f.patientClaims(), f.bookCmd(), "127.0.0.1")
	if !errors.Is(err, patient.ErrPatientBlacklisted) {
		t.Errorf("got %v, want ErrPatientBlacklisted", err)
	}
}

func TestBookInactiveDoctor(t *testing.T) {
	f := newApptFixture(t)
	d, _ := f.doctors.GetByID(context.Background(), f.doctorID)
	d.Status = doctor.StatusInactive

	_, err := f.svc.Book(context.Background(), f.patientClaims(), f.bookCmd(), "127.0.0.1")
	if !errors.Is(err, appointment.ErrSessionUnavailable) {
		t.Errorf("got %v, want ErrSessionUnavailable", err)
	}
}

func TestBookForAnotherPatientForbidden(t *testing.T) {
	f := newApptFixture(t)
	otherID := uuid.New()
	caller := &domain.Claims{AccountID: uuid.New(), Role: domain.RolePatient, PatientID: &otherID}

	_, err := f.svc.Book(context.Background(), caller, f.bookCmd(), "127.0.0.1")
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
}

func TestCancelAppointment(t *testing.T) {
	f := newApptFixture(t)
	caller := f.patientClaims()

	a, err := f.svc.Book(context.Background(), caller, f.bookCmd(), "127.0.0.1")
	if err != nil {
		t.Fatalf("booking: %v", err)
	}

	canceled, err := f.svc.Cancel(context.Background(), caller, a.ID, "127.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if canceled.Status != appointment.StatusCanceled {
		t.Errorf("status = %q, want Canceled", canceled.Status)
	}
	if canceled.CanceledAt == nil || canceled.CanceledBy == nil {
		t.Error("cancellation metadata must be recorded")
	}
}

// A canceled appointment releases its session for rebooking.
func TestCancelFreesSession(t *testing.T) {
	f := newApptFixture(t)
	caller := f.patientClaims()

	a, err := f.svc.Book(context.Background(), caller, f.bookCmd(), "127.0.0.1")
	if err != nil {
		t.Fatalf("booking: %v", err)
	}
	if _, err := f.svc.Cancel(context.Background(), caller, a.ID, "127.0.0.1"); err != nil {
		t.Fatalf("canceling: %v", err)
	}

	if _, err := f.svc.Book(context.Background(), caller, f.bookCmd(), "127.0.0.1"); err != nil {
		t.Errorf("rebooking after cancel: %v", err)
	}
}

func TestCancelTwice(t *testing.T) {
	f := newApptFixture(t)
	caller := f.patientClaims()

	a, _ := f.svc.Book(context.Background(), caller, f.bookCmd(), "127.0.0.1")
	if _, err := f.svc.Cancel(context.Background(), caller, a.ID, "127.0.0.1"); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	_, err := f.svc.Cancel(context.Background(), caller, a.ID, "127.0.0.1")
	if !errors.Is(err, appointment.ErrInvalidStatusTransition) {
		t.Errorf("got %v, want ErrInvalidStatusTransition", err)
	}
}

func TestCancelAfterScheduledTime(t *testing.T) {
	f := newApptFixture(t)
	caller := f.patientClaims()

	past := &appointment.Appointment{
		PatientID:   f.patientID,
		DoctorID:    f.doctorID,
		ScheduledAt: time.Now().Add(-time.Hour),
		Status:      appointment.StatusBooked,
	}
	if err := f.repo.Book(context.Background(), past); err != nil {
		t.Fatalf("seeding appointment: %v", err)
	}

	_, err := f.svc.Cancel(context.Background(), caller, past.ID, "127.0.0.1")
	if !errors.Is(err, appointment.ErrCancelWindowClosed) {
		t.Errorf("got %v, want ErrCancelWindowClosed", err)
	}
}

func TestCancelByStrangerForbidden(t *testing.T) {
	f := newApptFixture(t)
	a, _ := f.svc.Book(context.Background(), f.patientClaims(), f.bookCmd(), "127.0.0.1")

	strangerID := uuid.New()
	stranger := &domain.Claims{AccountID: uuid.New(), Role: domain.RolePatient, PatientID: &strangerID}
	if _, err := f.svc.Cancel(context.Background(), stranger, a.ID, "127.0.0.1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}

	doctorCaller := doctorClaims(f.doctorID)
	if _, err := f.svc.Cancel(context.Background(), doctorCaller, a.ID, "127.0.0.1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("doctor cancel: got %v, want ErrForbidden", err)
	}
}

func TestListScopedToPatient(t *testing.T) {
	f := newApptFixture(t)
	caller := f.patientClaims()

	if _, err := f.svc.Book(context.Background(), caller, f.bookCmd(), "127.0.0.1"); err != nil {
		t.Fatalf("booking: %v", err)
	}
	// Appointment belonging to someone else.
	f.repo.Book(context.Background(), &appointment.Appointment{
		PatientID:   uuid.New(),
		DoctorID:    f.doctorID,
		ScheduledAt: time.Now().AddDate(0, 0, 2),
		Status:      appointment.StatusBooked,
	})

	page, err := f.svc.ListAppointments(context.Background(), caller, &appointment.ListAppointmentsQuery{})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(page.Appointments) != 1 {
		t.Errorf("got %d appointments, want 1", len(page.Appointments))
	}
	for _, a := range page.Appointments {
		if a.PatientID != f.patientID {
			t.Error("patient listing must contain only the caller's appointments")
		}
	}
}

func TestGetAppointmentAuthorization(t *testing.T) {
	f := newApptFixture(t)
	a, _ := f.svc.Book(context.Background(), f.patientClaims(), f.bookCmd(), "127.0.0.1")

	if _, err := f.svc.GetAppointment(context.Background(), adminClaims(), a.ID); err != nil {
		t.Errorf("admin read: %v", err)
	}
	if _, err := f.svc.GetAppointment(context.Background(), doctorClaims(f.doctorID), a.ID); err != nil {
		t.Errorf("owning doctor read: %v", err)
	}

	otherDoctor := uuid.New()
	if _, err := f.svc.GetAppointment(context.Background(), doctorClaims(otherDoctor), a.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden for unrelated doctor", err)
	}
}

func TestBookingAndCancelCounted(t *testing.T) {
	f := newApptFixture(t)

	a, err := f.svc.Book(context.Background(), f.patientClaims(), f.bookCmd(), "127.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := testutil.ToFloat64(f.collector.AppointmentsTotal.WithLabelValues("Booked")); got != 1 {
		t.Errorf("Booked counter = %v, want 1", got)
	}

	if _, err := f.svc.Cancel(context.Background(), f.patientClaims(), a.ID, "127.0.0.1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := testutil.ToFloat64(f.collector.AppointmentsTotal.WithLabelValues("Canceled")); got != 1 {
		t.Errorf("Canceled counter = %v, want 1", got)
	}
}
