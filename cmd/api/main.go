package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/medisched/medisched-api/internal/config"
	v1 "github.com/medisched/medisched-api/internal/handler/v1"
	"github.com/medisched/medisched-api/internal/repository"
	"github.com/medisched/medisched-api/internal/service"
	"github.com/medisched/medisched-api/pkg/auth"
	"github.com/medisched/medisched-api/pkg/database"
	"github.com/medisched/medisched-api/pkg/logger"
	"github.com/medisched/medisched-api/pkg/metrics"
	"github.com/medisched/medisched-api/pkg/tracer"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("loading config: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("initializing logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}

	if err := database.Migrate(db, log); err != nil {
		return err
	}
	if err := database.SeedAdmin(context.Background(), db, cfg.Bootstrap, log); err != nil {
		return err
	}

	collector := metrics.NewCollector(cfg.App.Name, prometheus.DefaultRegisterer)
	jwtManager := auth.NewJWTManager(cfg.JWT)

	accountRepo := repository.NewAccountRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	treatmentRepo := repository.NewTreatmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	registrar := repository.NewRegistrar(db)

	auditSvc := service.NewAuditService(auditRepo, log)
	authSvc := service.NewAuthService(accountRepo, jwtManager, auditSvc, log)
	regSvc := service.NewRegistrationService(registrar, accountRepo, patientRepo, auditSvc, collector, log)
	dirSvc := service.NewDirectoryService(departmentRepo, doctorRepo, patientRepo, accountRepo, registrar, auditSvc, collector, log)
	patientSvc := service.NewPatientService(patientRepo, auditSvc, log)
	availSvc := service.NewAvailabilityService(availabilityRepo, doctorRepo, auditSvc, log)
	apptSvc := service.NewAppointmentService(appointmentRepo, availabilityRepo, doctorRepo, patientRepo, auditSvc, collector, log)
	treatmentSvc := service.NewTreatmentService(treatmentRepo, appointmentRepo, auditSvc, collector, log)
	dashSvc := service.NewDashboardService(patientRepo, doctorRepo, departmentRepo, appointmentRepo)

	router := v1.NewRouter(v1.RouterDeps{
		Config:       cfg,
		JWTManager:   jwtManager,
		Collector:    collector,
		Logger:       log,
		Auth:         v1.NewAuthHandler(authSvc, regSvc, log),
		Directory:    v1.NewDirectoryHandler(dirSvc, log),
		Patient:      v1.NewPatientHandler(patientSvc, log),
		Availability: v1.NewAvailabilityHandler(availSvc, log),
		Appointment:  v1.NewAppointmentHandler(apptSvc, treatmentSvc, log),
		Dashboard:    v1.NewDashboardHandler(dashSvc, log),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	// Drain pending audit entries before closing the DB.
	auditSvc.Shutdown()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
	}

	log.Info("shutdown complete")
	return nil
}
